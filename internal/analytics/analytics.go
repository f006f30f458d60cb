package analytics

import (
	"math"

	"github.com/Gabru-xD/geo-rescue-optimizer/internal/allocation"
	"github.com/Gabru-xD/geo-rescue-optimizer/internal/models"
)

type Efficiency struct {
	AverageResponseTime float64 `json:"average_response_time"`
	ResourceUtilization float64 `json:"resource_utilization"`
}

type TypeCount struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

type PriorityResponseTime struct {
	Priority    models.Priority `json:"priority"`
	AverageTime float64         `json:"average_time"`
}

type ResourceUtilization struct {
	Type        models.ResourceType `json:"type"`
	Utilization float64             `json:"utilization"`
}

type Summary struct {
	Efficiency              Efficiency             `json:"efficiency"`
	IncidentsByType         []TypeCount            `json:"incidents_by_type"`
	ResponseTimesByPriority []PriorityResponseTime `json:"response_times_by_priority"`
	ResourceUtilization     []ResourceUtilization  `json:"resource_utilization"`
}

// ResponseEfficiency summarizes average response time (one decimal) and how
// much of the 3-units-per-incident dispatch ceiling is in use (two
// decimals).
func ResponseEfficiency(incidents []models.Incident) Efficiency {
	if len(incidents) == 0 {
		return Efficiency{}
	}

	totalResponse := 0
	totalAssigned := 0
	for _, inc := range incidents {
		if inc.EstimatedResponseTime != nil {
			totalResponse += *inc.EstimatedResponseTime
		}
		totalAssigned += len(inc.AssignedResources)
	}

	avg := float64(totalResponse) / float64(len(incidents))
	utilization := float64(totalAssigned) / float64(len(incidents)*allocation.DefaultMaxResources)

	return Efficiency{
		AverageResponseTime: math.Round(avg*10) / 10,
		ResourceUtilization: math.Round(utilization*100) / 100,
	}
}

// IncidentsByType counts incidents per type, canonical types first in
// catalog order, then any free-text types in first-seen order.
func IncidentsByType(incidents []models.Incident) []TypeCount {
	counts := map[string]int{}
	var extras []string
	for _, inc := range incidents {
		if _, seen := counts[inc.Type]; !seen && !isCanonical(inc.Type) {
			extras = append(extras, inc.Type)
		}
		counts[inc.Type]++
	}

	var out []TypeCount
	for _, t := range allocation.CanonicalIncidentTypes {
		if counts[t] > 0 {
			out = append(out, TypeCount{Type: t, Count: counts[t]})
		}
	}
	for _, t := range extras {
		out = append(out, TypeCount{Type: t, Count: counts[t]})
	}
	return out
}

// ResponseTimesByPriority averages estimated response time per priority
// bucket, skipping incidents with no estimate.
func ResponseTimesByPriority(incidents []models.Incident) []PriorityResponseTime {
	totals := map[models.Priority]int{}
	counts := map[models.Priority]int{}
	for _, inc := range incidents {
		if inc.EstimatedResponseTime == nil {
			continue
		}
		totals[inc.Priority] += *inc.EstimatedResponseTime
		counts[inc.Priority]++
	}

	var out []PriorityResponseTime
	for _, p := range []models.Priority{models.PriorityLow, models.PriorityMedium, models.PriorityHigh, models.PriorityCritical} {
		if counts[p] == 0 {
			continue
		}
		avg := float64(totals[p]) / float64(counts[p])
		out = append(out, PriorityResponseTime{Priority: p, AverageTime: math.Round(avg*10) / 10})
	}
	return out
}

// UtilizationByResourceType reports the busy fraction of each resource type.
func UtilizationByResourceType(resources []models.Resource) []ResourceUtilization {
	busy := map[models.ResourceType]int{}
	total := map[models.ResourceType]int{}
	for _, r := range resources {
		total[r.Type]++
		if r.Status != models.ResourceAvailable {
			busy[r.Type]++
		}
	}

	types := []models.ResourceType{
		models.ResourceAmbulance,
		models.ResourceFireTruck,
		models.ResourcePolice,
		models.ResourceHazmat,
		models.ResourceRescue,
	}
	var out []ResourceUtilization
	for _, t := range types {
		if total[t] == 0 {
			continue
		}
		u := float64(busy[t]) / float64(total[t])
		out = append(out, ResourceUtilization{Type: t, Utilization: math.Round(u*100) / 100})
	}
	return out
}

func isCanonical(incidentType string) bool {
	for _, t := range allocation.CanonicalIncidentTypes {
		if t == incidentType {
			return true
		}
	}
	return false
}
