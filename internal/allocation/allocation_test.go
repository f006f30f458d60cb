package allocation

import (
	"math"
	"testing"

	"github.com/Gabru-xD/geo-rescue-optimizer/internal/models"
)

var allResourceTypes = []models.ResourceType{
	models.ResourceAmbulance,
	models.ResourceFireTruck,
	models.ResourcePolice,
	models.ResourceHazmat,
	models.ResourceRescue,
}

func fireIncident() models.Incident {
	return models.Incident{
		ID:       "inc-fire",
		Type:     TypeFire,
		Priority: models.PriorityCritical,
		Location: models.Location{
			Coordinates: models.Coordinates{Latitude: 37.7749, Longitude: -122.4194},
		},
	}
}

func TestRelevanceMatrixCoversCatalog(t *testing.T) {
	for _, incidentType := range CanonicalIncidentTypes {
		row, ok := relevanceMatrix[incidentType]
		if !ok {
			t.Fatalf("matrix missing row for %q", incidentType)
		}
		for _, resourceType := range allResourceTypes {
			w, ok := row[resourceType]
			if !ok {
				t.Fatalf("matrix missing entry for %q x %q", incidentType, resourceType)
			}
			if w < 0 || w > 1 {
				t.Fatalf("relevance out of range for %q x %q: %f", incidentType, resourceType, w)
			}
		}
	}
}

func TestRelevanceKeepsExplicitMidWeights(t *testing.T) {
	// Several matrix entries legitimately equal the fallback weight.
	cases := []struct {
		incidentType string
		resourceType models.ResourceType
	}{
		{TypeMedicalEmergency, models.ResourcePolice},
		{TypeFire, models.ResourceAmbulance},
		{TypeNaturalDisaster, models.ResourceHazmat},
		{TypeHazardousMaterial, models.ResourceRescue},
		{TypePowerOutage, models.ResourceFireTruck},
	}
	for _, tc := range cases {
		if w := Relevance(tc.incidentType, tc.resourceType); w != 0.5 {
			t.Fatalf("expected 0.5 for %q x %q, got %f", tc.incidentType, tc.resourceType, w)
		}
	}
}

func TestRelevanceDefaultsForUnknownType(t *testing.T) {
	if w := Relevance("Cat Stuck In Tree", models.ResourceAmbulance); w != DefaultRelevance {
		t.Fatalf("expected default relevance for unknown incident type, got %f", w)
	}
}

func TestScoreColocatedCriticalFire(t *testing.T) {
	incident := fireIncident()
	truck := models.Resource{
		ID:          "r1",
		Type:        models.ResourceFireTruck,
		Coordinates: incident.Location.Coordinates,
	}
	// etaFactor 10 * relevance 1.0 * priority 4.
	if got := Score(incident, truck); got != 40.00 {
		t.Fatalf("expected score 40.00, got %f", got)
	}
}

func TestScoreNonIncreasingWithDistance(t *testing.T) {
	incident := fireIncident()

	prev := math.Inf(1)
	for _, deltaLat := range []float64{0, 0.01, 0.02, 0.05, 0.1, 0.5, 1, 3} {
		r := models.Resource{
			ID:   "r",
			Type: models.ResourceFireTruck,
			Coordinates: models.Coordinates{
				Latitude:  incident.Location.Coordinates.Latitude + deltaLat,
				Longitude: incident.Location.Coordinates.Longitude,
			},
		}
		s := Score(incident, r)
		if s > prev {
			t.Fatalf("score increased with distance: %f -> %f at delta %f", prev, s, deltaLat)
		}
		if s <= 0 {
			t.Fatalf("score must stay strictly positive, got %f at delta %f", s, deltaLat)
		}
		prev = s
	}
}

func TestScoreIncreasesWithPriority(t *testing.T) {
	r := models.Resource{
		ID:          "r1",
		Type:        models.ResourceAmbulance,
		Coordinates: models.Coordinates{Latitude: 37.78, Longitude: -122.41},
	}
	incident := models.Incident{
		Type: TypeMedicalEmergency,
		Location: models.Location{
			Coordinates: models.Coordinates{Latitude: 37.7749, Longitude: -122.4194},
		},
	}

	prev := 0.0
	for _, p := range []models.Priority{models.PriorityLow, models.PriorityMedium, models.PriorityHigh, models.PriorityCritical} {
		incident.Priority = p
		s := Score(incident, r)
		if s <= prev {
			t.Fatalf("expected score to rise with priority, got %f after %f at %s", s, prev, p)
		}
		prev = s
	}
}

func TestSelectResourcesPicksFireTruckOverHazmat(t *testing.T) {
	incident := fireIncident()
	truck := models.Resource{
		ID:          "truck",
		Type:        models.ResourceFireTruck,
		Status:      models.ResourceAvailable,
		Coordinates: incident.Location.Coordinates,
	}
	// Roughly 5 km north of the incident.
	hazmat := models.Resource{
		ID:     "hazmat",
		Type:   models.ResourceHazmat,
		Status: models.ResourceAvailable,
		Coordinates: models.Coordinates{
			Latitude:  incident.Location.Coordinates.Latitude + 0.045,
			Longitude: incident.Location.Coordinates.Longitude,
		},
	}

	selected := SelectResources(incident, []models.Resource{hazmat, truck}, 1)
	if len(selected) != 1 {
		t.Fatalf("expected 1 resource, got %d", len(selected))
	}
	if selected[0].ID != "truck" {
		t.Fatalf("expected fire truck to win, got %s", selected[0].ID)
	}
	if selected[0].ETA == nil || *selected[0].ETA != 0 {
		t.Fatalf("expected eta 0 for colocated truck, got %v", selected[0].ETA)
	}
}

func TestSelectResourcesBounds(t *testing.T) {
	incident := fireIncident()
	pool := []models.Resource{
		{ID: "a", Type: models.ResourceFireTruck, Coordinates: incident.Location.Coordinates},
		{ID: "b", Type: models.ResourceRescue, Coordinates: incident.Location.Coordinates},
		{ID: "c", Type: models.ResourceAmbulance, Coordinates: incident.Location.Coordinates},
		{ID: "d", Type: models.ResourcePolice, Coordinates: incident.Location.Coordinates},
	}

	selected := SelectResources(incident, pool, DefaultMaxResources)
	if len(selected) > DefaultMaxResources {
		t.Fatalf("selected more than max: %d", len(selected))
	}
	inPool := map[string]bool{}
	for _, r := range pool {
		inPool[r.ID] = true
	}
	for _, r := range selected {
		if !inPool[r.ID] {
			t.Fatalf("selected resource %s not in pool", r.ID)
		}
		if r.ETA == nil || *r.ETA < 0 {
			t.Fatalf("selected resource %s missing non-negative eta", r.ID)
		}
	}

	if got := SelectResources(incident, nil, DefaultMaxResources); got != nil {
		t.Fatalf("expected nil for empty pool, got %v", got)
	}
	if got := SelectResources(incident, pool, 0); got != nil {
		t.Fatalf("expected nil for max 0, got %v", got)
	}
}

func TestSelectResourcesTieBreakByID(t *testing.T) {
	incident := fireIncident()
	// Identical type and position, so identical scores.
	pool := []models.Resource{
		{ID: "z9", Type: models.ResourceFireTruck, Coordinates: incident.Location.Coordinates},
		{ID: "a1", Type: models.ResourceFireTruck, Coordinates: incident.Location.Coordinates},
		{ID: "m5", Type: models.ResourceFireTruck, Coordinates: incident.Location.Coordinates},
	}

	selected := SelectResources(incident, pool, 3)
	want := []string{"a1", "m5", "z9"}
	for i, id := range want {
		if selected[i].ID != id {
			t.Fatalf("tie-break order wrong at %d: want %s, got %s", i, id, selected[i].ID)
		}
	}
}

func TestSelectResourcesDoesNotMutateInput(t *testing.T) {
	incident := fireIncident()
	pool := []models.Resource{
		{ID: "a", Type: models.ResourceFireTruck, Coordinates: incident.Location.Coordinates},
	}

	_ = SelectResources(incident, pool, 1)
	if pool[0].ETA != nil {
		t.Fatalf("input pool was mutated: eta set on original resource")
	}
}
