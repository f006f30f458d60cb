package insights

import (
	"context"

	"github.com/Gabru-xD/geo-rescue-optimizer/internal/models"
)

// Adapter produces response guidance for an incident. Implementations return
// the analysis together with the time spent in milliseconds.
type Adapter interface {
	AnalyzeIncident(ctx context.Context, incident models.Incident) (models.IncidentInsights, int64, error)
}
