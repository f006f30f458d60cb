package seed

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/Gabru-xD/geo-rescue-optimizer/internal/allocation"
	"github.com/Gabru-xD/geo-rescue-optimizer/internal/models"
)

// DefaultCenter is the fallback map center used when no geocoding is
// available; reported incidents are placed near it.
var DefaultCenter = models.Coordinates{Latitude: 37.7749, Longitude: -122.4194}

// Resources returns the built-in unit pool used when no persistence backend
// is attached.
func Resources() []models.Resource {
	five := 5
	return []models.Resource{
		{ID: "r1", Type: models.ResourceAmbulance, Name: "Ambulance A-1", Status: models.ResourceAvailable, Coordinates: models.Coordinates{Latitude: 37.7858, Longitude: -122.4064}, Capacity: 2},
		{ID: "r2", Type: models.ResourceAmbulance, Name: "Ambulance A-2", Status: models.ResourceAvailable, Coordinates: models.Coordinates{Latitude: 37.7859, Longitude: -122.4074}, Capacity: 2},
		{ID: "r3", Type: models.ResourceFireTruck, Name: "Fire Engine F-1", Status: models.ResourceAvailable, Coordinates: models.Coordinates{Latitude: 37.7872, Longitude: -122.4090}, Capacity: 6},
		{ID: "r4", Type: models.ResourcePolice, Name: "Police Unit P-1", Status: models.ResourceAvailable, Coordinates: models.Coordinates{Latitude: 37.7835, Longitude: -122.4096}, Capacity: 4},
		{ID: "r5", Type: models.ResourcePolice, Name: "Police Unit P-2", Status: models.ResourceAvailable, Coordinates: models.Coordinates{Latitude: 37.7845, Longitude: -122.4055}, Capacity: 4},
		{ID: "r6", Type: models.ResourceHazmat, Name: "Hazmat Team H-1", Status: models.ResourceAvailable, Coordinates: models.Coordinates{Latitude: 37.7899, Longitude: -122.4033}, Capacity: 3},
		{ID: "r7", Type: models.ResourceRescue, Name: "Rescue Team R-1", Status: models.ResourceAvailable, Coordinates: models.Coordinates{Latitude: 37.7891, Longitude: -122.4021}, Capacity: 5},
		{ID: "r8", Type: models.ResourceAmbulance, Name: "Ambulance A-3", Status: models.ResourceEnRoute, Coordinates: models.Coordinates{Latitude: 37.7855, Longitude: -122.4015}, Capacity: 2, ETA: &five},
		{ID: "r9", Type: models.ResourceFireTruck, Name: "Fire Engine F-2", Status: models.ResourceAvailable, Coordinates: models.Coordinates{Latitude: 37.7865, Longitude: -122.4030}, Capacity: 6},
		{ID: "r10", Type: models.ResourcePolice, Name: "Police Unit P-3", Status: models.ResourceAvailable, Coordinates: models.Coordinates{Latitude: 37.7840, Longitude: -122.4050}, Capacity: 4},
	}
}

var seedAddresses = []string{
	"Market St & 5th St, San Francisco",
	"Mission St & 16th St, San Francisco",
	"Embarcadero & Broadway, San Francisco",
	"Golden Gate Park, San Francisco",
	"Van Ness Ave & Geary Blvd, San Francisco",
}

var seedPriorities = map[string]models.Priority{
	allocation.TypeFire:              models.PriorityCritical,
	allocation.TypeMedicalEmergency:  models.PriorityHigh,
	allocation.TypeTrafficAccident:   models.PriorityMedium,
	allocation.TypeHazardousMaterial: models.PriorityHigh,
	allocation.TypePowerOutage:       models.PriorityLow,
}

// Incidents generates a small seeded incident list near the default center.
// All incidents start pending with no assigned resources, so the pool begins
// in a consistent state.
func Incidents(rng *rand.Rand, count int) []models.Incident {
	if count > len(seedAddresses) {
		count = len(seedAddresses)
	}

	types := []string{
		allocation.TypeFire,
		allocation.TypeMedicalEmergency,
		allocation.TypeTrafficAccident,
		allocation.TypeHazardousMaterial,
		allocation.TypePowerOutage,
	}

	now := time.Now()
	incidents := make([]models.Incident, 0, count)
	for i := 0; i < count; i++ {
		incidentType := types[i%len(types)]
		address := seedAddresses[i]
		reported := now.Add(-time.Duration(rng.Intn(120)+5) * time.Minute)

		incidents = append(incidents, models.Incident{
			ID:          fmt.Sprintf("incident-%d", i+1),
			Title:       fmt.Sprintf("%s near %s", incidentType, address),
			Description: fmt.Sprintf("Reported %s requiring immediate attention.", incidentType),
			Type:        incidentType,
			Priority:    seedPriorities[incidentType],
			Status:      models.IncidentPending,
			Location: models.Location{
				Address:     address,
				Coordinates: RandomPointAround(rng, DefaultCenter, 3),
			},
			ReportedTime:      reported,
			AssignedResources: []models.Resource{},
			Updates: []models.Update{
				{
					ID:        fmt.Sprintf("update-%d-1", i+1),
					Timestamp: reported,
					Message:   fmt.Sprintf("New %s incident reported.", incidentType),
					Author:    "System",
				},
			},
		})
	}
	return incidents
}

// RandomPointAround returns a uniformly random point within radiusKm of the
// center, computed on the sphere.
func RandomPointAround(rng *rand.Rand, center models.Coordinates, radiusKm float64) models.Coordinates {
	const earthRadiusKm = 6371.0

	radius := radiusKm / earthRadiusKm
	centerLat := center.Latitude * math.Pi / 180
	centerLon := center.Longitude * math.Pi / 180

	distance := rng.Float64() * radius
	bearing := rng.Float64() * 2 * math.Pi

	lat := math.Asin(math.Sin(centerLat)*math.Cos(distance) +
		math.Cos(centerLat)*math.Sin(distance)*math.Cos(bearing))
	lon := centerLon + math.Atan2(
		math.Sin(bearing)*math.Sin(distance)*math.Cos(centerLat),
		math.Cos(distance)-math.Sin(centerLat)*math.Sin(lat),
	)

	return models.Coordinates{
		Latitude:  lat * 180 / math.Pi,
		Longitude: lon * 180 / math.Pi,
	}
}
