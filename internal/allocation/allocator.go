package allocation

import (
	"sort"

	"github.com/Gabru-xD/geo-rescue-optimizer/internal/geo"
	"github.com/Gabru-xD/geo-rescue-optimizer/internal/models"
)

// DefaultMaxResources caps how many units a single optimize pass dispatches.
const DefaultMaxResources = 3

// SelectResources ranks the available pool for the incident and returns up to
// max resources, best first, each with a freshly computed ETA. Ties on score
// break by ascending resource ID so the result is deterministic. The input
// slice is not modified; returned resources are copies.
func SelectResources(incident models.Incident, available []models.Resource, max int) []models.Resource {
	if max <= 0 || len(available) == 0 {
		return nil
	}

	type scored struct {
		resource models.Resource
		score    float64
	}
	candidates := make([]scored, 0, len(available))
	for _, r := range available {
		candidates = append(candidates, scored{resource: r, score: Score(incident, r)})
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].score == candidates[j].score {
			return candidates[i].resource.ID < candidates[j].resource.ID
		}
		return candidates[i].score > candidates[j].score
	})

	if max > len(candidates) {
		max = len(candidates)
	}

	selected := make([]models.Resource, 0, max)
	for _, c := range candidates[:max] {
		r := c.resource
		d := geo.Distance(incident.Location.Coordinates, r.Coordinates)
		eta := geo.ETA(d, geo.DefaultSpeedKmh)
		r.ETA = &eta
		selected = append(selected, r)
	}
	return selected
}
