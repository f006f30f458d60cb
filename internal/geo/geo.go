package geo

import (
	"math"

	"github.com/Gabru-xD/geo-rescue-optimizer/internal/models"
)

const earthRadiusKm = 6371.0

// DefaultSpeedKmh is the assumed average travel speed for dispatched units.
const DefaultSpeedKmh = 40.0

// Distance returns the great-circle distance in kilometers between two
// coordinates, using the haversine formula.
func Distance(a, b models.Coordinates) float64 {
	dLat := degreesToRadians(b.Latitude - a.Latitude)
	dLon := degreesToRadians(b.Longitude - a.Longitude)

	latA := degreesToRadians(a.Latitude)
	latB := degreesToRadians(b.Latitude)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Sin(dLon/2)*math.Sin(dLon/2)*math.Cos(latA)*math.Cos(latB)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return earthRadiusKm * c
}

// ETA returns the estimated travel time in whole minutes for the given
// distance at the given average speed. speedKmh must be positive.
func ETA(distanceKm, speedKmh float64) int {
	if speedKmh <= 0 {
		panic("geo: average speed must be positive")
	}
	return int(math.Round(distanceKm / speedKmh * 60))
}

func degreesToRadians(d float64) float64 {
	return d * math.Pi / 180
}
