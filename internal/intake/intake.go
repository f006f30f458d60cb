package intake

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Gabru-xD/geo-rescue-optimizer/internal/models"
	"github.com/Gabru-xD/geo-rescue-optimizer/internal/seed"
)

// Report is a submitted incident report. Description and affected people are
// optional; everything else is required.
type Report struct {
	Title          string          `json:"title" validate:"required"`
	Description    string          `json:"description"`
	Type           string          `json:"type" validate:"required"`
	Priority       models.Priority `json:"priority" validate:"required,oneof=low medium high critical"`
	Address        string          `json:"address" validate:"required"`
	AffectedPeople *int            `json:"affected_people" validate:"omitempty,min=0"`
}

// NewIncident builds a well-formed pending incident from a report. The
// address is not geocoded; coordinates are a random point near the default
// center as a placeholder.
func NewIncident(rng *rand.Rand, now time.Time, report Report) models.Incident {
	estimated := rng.Intn(15) + 1

	return models.Incident{
		ID:          fmt.Sprintf("incident-%d", now.UnixMilli()),
		Title:       report.Title,
		Description: report.Description,
		Type:        report.Type,
		Priority:    report.Priority,
		Status:      models.IncidentPending,
		Location: models.Location{
			Address: report.Address,
			Coordinates: models.Coordinates{
				Latitude:  seed.DefaultCenter.Latitude + (rng.Float64()*0.05 - 0.025),
				Longitude: seed.DefaultCenter.Longitude + (rng.Float64()*0.05 - 0.025),
			},
		},
		ReportedTime:          now,
		EstimatedResponseTime: &estimated,
		AssignedResources:     []models.Resource{},
		AffectedPeople:        report.AffectedPeople,
		Updates: []models.Update{
			{
				ID:        uuid.NewString(),
				Timestamp: now,
				Message:   fmt.Sprintf("New %s incident reported.", strings.ToLower(report.Type)),
				Author:    "System",
			},
		},
	}
}
