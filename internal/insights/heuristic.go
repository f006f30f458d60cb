package insights

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/Gabru-xD/geo-rescue-optimizer/internal/allocation"
	"github.com/Gabru-xD/geo-rescue-optimizer/internal/models"
)

// HeuristicAdapter derives guidance from the incident record alone, so the
// insights endpoint works without an external analysis service.
type HeuristicAdapter struct {
	ModelVersion string
}

func (a HeuristicAdapter) AnalyzeIncident(_ context.Context, incident models.Incident) (models.IncidentInsights, int64, error) {
	start := time.Now()
	out := models.IncidentInsights{
		IncidentID:            incident.ID,
		RiskLevel:             riskLevel(incident),
		ExpectedDurationHours: expectedDurationHours(incident),
		RecommendedResources:  recommendedResources(incident),
		ActionItems:           actionItems(incident),
		Summary:               Summary(incident),
		ModelVersion:          a.ModelVersion,
		GeneratedAt:           time.Now().UTC(),
	}
	return out, time.Since(start).Milliseconds(), nil
}

var priorityRisk = map[models.Priority]int{
	models.PriorityLow:      10,
	models.PriorityMedium:   40,
	models.PriorityHigh:     70,
	models.PriorityCritical: 90,
}

// riskLevel scores 1-100 from priority, incident type and affected headcount.
func riskLevel(incident models.Incident) int {
	score := priorityRisk[incident.Priority]

	switch incident.Type {
	case allocation.TypeFire:
		score += 10
	case allocation.TypeHazardousMaterial:
		score += 15
	case allocation.TypeNaturalDisaster:
		score += 20
	}

	if incident.AffectedPeople != nil {
		switch n := *incident.AffectedPeople; {
		case n > 50:
			score += 15
		case n > 10:
			score += 10
		case n > 0:
			score += 5
		}
	}

	if score > 100 {
		score = 100
	}
	return score
}

var priorityBaseDuration = map[models.Priority]float64{
	models.PriorityLow:      1,
	models.PriorityMedium:   3,
	models.PriorityHigh:     6,
	models.PriorityCritical: 12,
}

func expectedDurationHours(incident models.Incident) int {
	duration := priorityBaseDuration[incident.Priority]

	switch incident.Type {
	case allocation.TypeFire:
		duration *= 1.5
	case allocation.TypeNaturalDisaster:
		duration *= 2
	case allocation.TypeHazardousMaterial:
		duration *= 1.8
	}

	return int(math.Round(duration))
}

func recommendedResources(incident models.Incident) []string {
	var out []string

	switch incident.Type {
	case allocation.TypeMedicalEmergency:
		out = append(out, "Ambulance", "Medical Team")
	case allocation.TypeFire:
		out = append(out, "Fire Truck", "Firefighters", "Water Supply")
	case allocation.TypeTrafficAccident:
		out = append(out, "Police Unit", "Ambulance", "Tow Truck")
	case allocation.TypeNaturalDisaster:
		out = append(out, "Rescue Team", "Medical Team", "Emergency Shelter")
	case allocation.TypeHazardousMaterial:
		out = append(out, "HazMat Team", "Decontamination Unit", "Evacuation Team")
	case allocation.TypePublicDisturbance:
		out = append(out, "Police Unit", "Crowd Control")
	case allocation.TypeStructureCollapse:
		out = append(out, "Rescue Team", "Structural Engineers", "Medical Team")
	case allocation.TypeMissingPerson:
		out = append(out, "Search Team", "Police Unit", "Drones")
	case allocation.TypePowerOutage:
		out = append(out, "Utility Crew", "Emergency Generator")
	default:
		out = append(out, "Assessment Team")
	}

	if incident.Priority == models.PriorityHigh || incident.Priority == models.PriorityCritical {
		out = append(out, "Command Post", "Coordination Team")
	}
	return out
}

func actionItems(incident models.Incident) []string {
	actions := []string{
		"Establish incident perimeter",
		"Conduct initial assessment",
	}

	switch incident.Type {
	case allocation.TypeMedicalEmergency:
		actions = append(actions, "Triage victims", "Prepare for medical transport")
	case allocation.TypeFire:
		actions = append(actions, "Evaluate fire spread risk", "Identify water sources", "Plan evacuation routes")
	case allocation.TypeTrafficAccident:
		actions = append(actions, "Secure accident scene", "Manage traffic flow", "Check for hazardous materials")
	case allocation.TypeNaturalDisaster:
		actions = append(actions, "Establish evacuation zones", "Set up emergency shelters", "Conduct damage assessment")
	case allocation.TypeHazardousMaterial:
		actions = append(actions, "Identify substance", "Establish hot/warm/cold zones", "Prepare decontamination")
	case allocation.TypeStructureCollapse:
		actions = append(actions, "Search for survivors", "Assess structural stability", "Secure utilities")
	}

	if incident.Priority == models.PriorityCritical {
		actions = append(actions, "Request additional resources", "Notify senior management")
	}
	return actions
}

// Summary renders a one-paragraph situation report for the incident.
func Summary(incident models.Incident) string {
	var b strings.Builder
	fmt.Fprintf(&b, "A %s priority %s was reported at %s on %s at %s. ",
		incident.Priority,
		strings.ToLower(incident.Type),
		incident.ReportedTime.Format("3:04 PM"),
		incident.ReportedTime.Format("1/2/2006"),
		incident.Location.Address,
	)
	if incident.AffectedPeople != nil && *incident.AffectedPeople > 0 {
		fmt.Fprintf(&b, "Approximately %d people are affected. ", *incident.AffectedPeople)
	}
	fmt.Fprintf(&b, "Current status is %s. ", strings.ReplaceAll(string(incident.Status), "_", " "))
	if n := len(incident.AssignedResources); n > 0 {
		fmt.Fprintf(&b, "%d resources have been assigned to this incident.", n)
	} else {
		b.WriteString("No resources have been assigned yet.")
	}
	return b.String()
}
