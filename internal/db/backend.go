package db

import (
	"context"

	"github.com/Gabru-xD/geo-rescue-optimizer/internal/models"
)

// Backend is the optional persistence collaborator. The store stays fully
// functional without one, running on seed data alone. Implementations assign
// their own ids on insert; the returned record replaces the client copy.
type Backend interface {
	GetAllIncidents(ctx context.Context) ([]models.Incident, error)
	GetAllResources(ctx context.Context) ([]models.Resource, error)
	AddIncident(ctx context.Context, incident models.Incident) (models.Incident, error)
	UpdateIncident(ctx context.Context, id string, patch models.IncidentPatch) (bool, error)
	AddResource(ctx context.Context, resource models.Resource) (models.Resource, error)
	UpdateResource(ctx context.Context, id string, patch models.ResourcePatch) (bool, error)
}
