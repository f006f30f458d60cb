package intake

import (
	"math"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/Gabru-xD/geo-rescue-optimizer/internal/models"
	"github.com/Gabru-xD/geo-rescue-optimizer/internal/seed"
)

func TestNewIncident(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	people := 3

	inc := NewIncident(rng, now, Report{
		Title:          "Apartment fire",
		Description:    "Smoke on the third floor",
		Type:           "Fire",
		Priority:       models.PriorityCritical,
		Address:        "500 Market St",
		AffectedPeople: &people,
	})

	if !strings.HasPrefix(inc.ID, "incident-") {
		t.Fatalf("unexpected id format: %s", inc.ID)
	}
	if inc.Status != models.IncidentPending {
		t.Fatalf("expected pending status, got %s", inc.Status)
	}
	if len(inc.AssignedResources) != 0 {
		t.Fatalf("expected no assigned resources on a new report")
	}
	if len(inc.Updates) != 1 || inc.Updates[0].Author != "System" {
		t.Fatalf("expected one System update, got %+v", inc.Updates)
	}
	if inc.Updates[0].Message != "New fire incident reported." {
		t.Fatalf("unexpected update message: %s", inc.Updates[0].Message)
	}
	if inc.EstimatedResponseTime == nil || *inc.EstimatedResponseTime < 1 || *inc.EstimatedResponseTime > 15 {
		t.Fatalf("expected estimated response time in [1,15], got %v", inc.EstimatedResponseTime)
	}
	if inc.AffectedPeople == nil || *inc.AffectedPeople != 3 {
		t.Fatalf("expected affected people 3, got %v", inc.AffectedPeople)
	}

	if math.Abs(inc.Location.Coordinates.Latitude-seed.DefaultCenter.Latitude) > 0.025 {
		t.Fatalf("latitude too far from default center: %f", inc.Location.Coordinates.Latitude)
	}
	if math.Abs(inc.Location.Coordinates.Longitude-seed.DefaultCenter.Longitude) > 0.025 {
		t.Fatalf("longitude too far from default center: %f", inc.Location.Coordinates.Longitude)
	}
}
