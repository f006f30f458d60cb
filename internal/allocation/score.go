package allocation

import (
	"math"

	"github.com/Gabru-xD/geo-rescue-optimizer/internal/geo"
	"github.com/Gabru-xD/geo-rescue-optimizer/internal/models"
)

var priorityValues = map[models.Priority]float64{
	models.PriorityLow:      1,
	models.PriorityMedium:   2,
	models.PriorityHigh:     3,
	models.PriorityCritical: 4,
}

// PriorityValue maps an incident priority to its scoring weight. Unknown
// priorities weigh the same as low.
func PriorityValue(p models.Priority) float64 {
	if v, ok := priorityValues[p]; ok {
		return v
	}
	return priorityValues[models.PriorityLow]
}

// Score ranks a candidate resource for an incident. Higher is better: the
// ETA factor rewards closeness (floored at 1 so distant units still score
// positive), scaled by type relevance and incident priority. Rounded to two
// decimals.
func Score(incident models.Incident, resource models.Resource) float64 {
	d := geo.Distance(incident.Location.Coordinates, resource.Coordinates)
	eta := geo.ETA(d, geo.DefaultSpeedKmh)

	etaFactor := math.Max(1, 10-float64(eta))
	relevance := Relevance(incident.Type, resource.Type)
	priority := PriorityValue(incident.Priority)

	return math.Round(etaFactor*relevance*priority*100) / 100
}
