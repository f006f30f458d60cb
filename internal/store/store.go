package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/Gabru-xD/geo-rescue-optimizer/internal/allocation"
	"github.com/Gabru-xD/geo-rescue-optimizer/internal/db"
	"github.com/Gabru-xD/geo-rescue-optimizer/internal/models"
	"github.com/Gabru-xD/geo-rescue-optimizer/internal/notify"
)

// Store is the authoritative in-memory state of incidents and resources.
// It is the sole owner of the availability invariant: a resource's canonical
// status is "available" exactly when its id appears in no incident's
// assigned list.
//
// The mutex is held across a whole optimize batch, so two concurrent
// optimize calls cannot read the same available pool and double-assign a
// unit.
type Store struct {
	mu        sync.Mutex
	incidents []models.Incident
	resources []models.Resource
	activeID  string

	backend  db.Backend
	notifier notify.Notifier
	logger   zerolog.Logger
}

// New creates a store. backend may be nil for in-memory-only operation.
func New(backend db.Backend, notifier notify.Notifier, logger zerolog.Logger) *Store {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	return &Store{
		backend:  backend,
		notifier: notifier,
		logger:   logger,
	}
}

// Load populates the store from the backend, or from the given seed data
// when no backend is attached or reads fail. A failed backend read is
// non-fatal: the store degrades to seed data and keeps working.
func (s *Store) Load(ctx context.Context, seedIncidents []models.Incident, seedResources []models.Resource) {
	incidents, resources := seedIncidents, seedResources

	if s.backend != nil {
		if loaded, err := s.backend.GetAllIncidents(ctx); err != nil {
			s.logger.Warn().Err(err).Msg("loading incidents from backend failed, using seed data")
		} else if len(loaded) > 0 {
			incidents = loaded
		}
		if loaded, err := s.backend.GetAllResources(ctx); err != nil {
			s.logger.Warn().Err(err).Msg("loading resources from backend failed, using seed data")
		} else if len(loaded) > 0 {
			resources = loaded
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.incidents = make([]models.Incident, 0, len(incidents))
	for _, inc := range incidents {
		s.incidents = append(s.incidents, inc.Clone())
	}
	s.resources = append([]models.Resource(nil), resources...)
}

// Incidents returns a snapshot, newest first.
func (s *Store) Incidents() []models.Incident {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Incident, 0, len(s.incidents))
	for _, inc := range s.incidents {
		out = append(out, inc.Clone())
	}
	return out
}

// Resources returns a snapshot of the canonical resource list.
func (s *Store) Resources() []models.Resource {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Resource(nil), s.resources...)
}

// IncidentByID returns a snapshot of one incident.
func (s *Store) IncidentByID(id string) (models.Incident, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if inc := s.findIncident(id); inc != nil {
		return inc.Clone(), true
	}
	return models.Incident{}, false
}

// ActiveIncident returns the currently focused incident, if any.
func (s *Store) ActiveIncident() (models.Incident, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if inc := s.findIncident(s.activeID); inc != nil {
		return inc.Clone(), true
	}
	return models.Incident{}, false
}

// SetActiveIncident focuses an incident; empty id clears the focus.
func (s *Store) SetActiveIncident(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activeID = id
}

// AddIncident prepends a new incident. With a backend attached the insert is
// gated on a confirmed write, and the backend-assigned id replaces the
// client-generated one.
func (s *Store) AddIncident(ctx context.Context, incident models.Incident) (models.Incident, error) {
	if s.backend != nil {
		persisted, err := s.backend.AddIncident(ctx, incident)
		if err != nil {
			s.notifier.Error(ctx, fmt.Sprintf("Failed to save incident %q", incident.Title))
			return models.Incident{}, fmt.Errorf("store: add incident: %w", err)
		}
		incident = persisted
	}

	s.mu.Lock()
	s.incidents = append([]models.Incident{incident.Clone()}, s.incidents...)
	s.mu.Unlock()

	s.notifier.Success(ctx, fmt.Sprintf("New incident reported: %s", incident.Title))
	return incident, nil
}

// UpdateIncident merges the patch into the matching incident. An unknown id
// is a silent no-op.
func (s *Store) UpdateIncident(ctx context.Context, id string, patch models.IncidentPatch) error {
	s.mu.Lock()
	target := s.findIncident(id)
	s.mu.Unlock()
	if target == nil {
		return nil
	}

	if s.backend != nil {
		if _, err := s.backend.UpdateIncident(ctx, id, patch); err != nil {
			s.notifier.Error(ctx, fmt.Sprintf("Failed to save update for incident %s", id))
			return fmt.Errorf("store: update incident: %w", err)
		}
	}

	s.mu.Lock()
	if inc := s.findIncident(id); inc != nil {
		patch.Apply(inc)
	}
	s.mu.Unlock()

	s.notifier.Info(ctx, fmt.Sprintf("Incident %s updated", id))
	return nil
}

// AppendUpdate adds an entry to an incident's update feed.
func (s *Store) AppendUpdate(ctx context.Context, id string, update models.Update) error {
	s.mu.Lock()
	inc := s.findIncident(id)
	if inc == nil {
		s.mu.Unlock()
		return nil
	}
	inc.Updates = append(inc.Updates, update)
	s.mu.Unlock()

	s.notifier.Info(ctx, fmt.Sprintf("Incident %s updated", id))
	return nil
}

// AddResource registers a new dispatchable unit.
func (s *Store) AddResource(ctx context.Context, resource models.Resource) (models.Resource, error) {
	if s.backend != nil {
		persisted, err := s.backend.AddResource(ctx, resource)
		if err != nil {
			s.notifier.Error(ctx, fmt.Sprintf("Failed to save resource %q", resource.Name))
			return models.Resource{}, fmt.Errorf("store: add resource: %w", err)
		}
		resource = persisted
	}

	s.mu.Lock()
	s.resources = append(s.resources, resource)
	s.mu.Unlock()

	s.notifier.Success(ctx, fmt.Sprintf("Resource registered: %s", resource.Name))
	return resource, nil
}

// UpdateResource passes externally driven status transitions (en_route,
// on_scene, returning) through to the canonical record. Unknown ids are a
// silent no-op.
func (s *Store) UpdateResource(ctx context.Context, id string, patch models.ResourcePatch) error {
	s.mu.Lock()
	r := s.findResource(id)
	if r == nil {
		s.mu.Unlock()
		return nil
	}
	if patch.Status != nil {
		r.Status = *patch.Status
	}
	if patch.ETA != nil {
		r.ETA = patch.ETA
	}
	if patch.Coordinates != nil {
		r.Coordinates = *patch.Coordinates
	}
	s.mu.Unlock()

	if s.backend != nil {
		if _, err := s.backend.UpdateResource(ctx, id, patch); err != nil {
			s.notifier.Error(ctx, fmt.Sprintf("Failed to save resource %s", id))
			return fmt.Errorf("store: update resource: %w", err)
		}
	}
	return nil
}

// GetAvailableResources returns resources that are globally available and
// not assigned to any incident. Recomputed on every call.
func (s *Store) GetAvailableResources() []models.Resource {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.availableLocked()
}

func (s *Store) availableLocked() []models.Resource {
	assigned := make(map[string]bool)
	for _, inc := range s.incidents {
		for _, r := range inc.AssignedResources {
			assigned[r.ID] = true
		}
	}

	var out []models.Resource
	for _, r := range s.resources {
		if !assigned[r.ID] && r.Status == models.ResourceAvailable {
			out = append(out, r)
		}
	}
	return out
}

// AssignResource moves a resource from available to dispatched and embeds a
// dispatched-tagged copy in the incident. Unknown incident or resource ids
// are silent no-ops. This is the only path from available to assigned.
func (s *Store) AssignResource(ctx context.Context, incidentID, resourceID string) error {
	s.mu.Lock()
	name, ok := s.assignLocked(incidentID, resourceID)
	s.mu.Unlock()
	if !ok {
		return nil
	}

	err := s.persistAssignment(ctx, incidentID, resourceID)
	s.notifier.Success(ctx, fmt.Sprintf("%s assigned to incident", name))
	return err
}

// assignLocked applies both sides of the assignment under the lock, so no
// reader observes the intermediate state. Returns the resource name and
// whether anything changed.
func (s *Store) assignLocked(incidentID, resourceID string) (string, bool) {
	resource := s.findResource(resourceID)
	if resource == nil {
		return "", false
	}
	incident := s.findIncident(incidentID)
	if incident == nil {
		return "", false
	}

	resource.Status = models.ResourceDispatched

	embedded := *resource
	embedded.Status = models.ResourceDispatched
	incident.AssignedResources = append(incident.AssignedResources, embedded)

	return resource.Name, true
}

// UnassignResource is the inverse of AssignResource.
func (s *Store) UnassignResource(ctx context.Context, incidentID, resourceID string) error {
	s.mu.Lock()
	ok := s.unassignLocked(incidentID, resourceID)
	s.mu.Unlock()
	if !ok {
		return nil
	}

	err := s.persistAssignment(ctx, incidentID, resourceID)
	s.notifier.Info(ctx, "Resource unassigned from incident")
	return err
}

// unassignLocked reports whether anything changed; a resource id that is
// neither dispatched nor in the incident's assigned list is a no-op.
func (s *Store) unassignLocked(incidentID, resourceID string) bool {
	incident := s.findIncident(incidentID)
	if incident == nil {
		return false
	}

	changed := false
	if resource := s.findResource(resourceID); resource != nil && resource.Status != models.ResourceAvailable {
		resource.Status = models.ResourceAvailable
		changed = true
	}

	kept := incident.AssignedResources[:0]
	for _, r := range incident.AssignedResources {
		if r.ID != resourceID {
			kept = append(kept, r)
		} else {
			changed = true
		}
	}
	incident.AssignedResources = kept
	return changed
}

// persistAssignment mirrors both sides of an assignment change to the
// backend. Failures degrade to an error notification; the in-memory state
// already moved and stays authoritative until the next reload.
func (s *Store) persistAssignment(ctx context.Context, incidentID, resourceID string) error {
	if s.backend == nil {
		return nil
	}

	s.mu.Lock()
	var resourcePatch *models.ResourcePatch
	if r := s.findResource(resourceID); r != nil {
		status := r.Status
		resourcePatch = &models.ResourcePatch{Status: &status, ETA: r.ETA}
	}
	var incidentPatch *models.IncidentPatch
	if inc := s.findIncident(incidentID); inc != nil {
		assigned := append([]models.Resource(nil), inc.AssignedResources...)
		incidentPatch = &models.IncidentPatch{AssignedResources: &assigned}
	}
	s.mu.Unlock()

	var firstErr error
	if resourcePatch != nil {
		if _, err := s.backend.UpdateResource(ctx, resourceID, *resourcePatch); err != nil {
			s.notifier.Error(ctx, fmt.Sprintf("Failed to save resource %s", resourceID))
			firstErr = fmt.Errorf("store: persist resource %s: %w", resourceID, err)
		}
	}
	if incidentPatch != nil {
		if _, err := s.backend.UpdateIncident(ctx, incidentID, *incidentPatch); err != nil {
			s.notifier.Error(ctx, fmt.Sprintf("Failed to save incident %s", incidentID))
			if firstErr == nil {
				firstErr = fmt.Errorf("store: persist incident %s: %w", incidentID, err)
			}
		}
	}
	return firstErr
}

// OptimizeAllocation selects the best available resources for the incident
// and assigns them in ranked order. The read-select-assign sequence runs
// under one lock acquisition; the batch is still not transactional against
// the backend, so a failed persistence write for one resource does not roll
// back earlier assignments.
func (s *Store) OptimizeAllocation(ctx context.Context, incidentID string) ([]models.Resource, error) {
	s.mu.Lock()
	incident := s.findIncident(incidentID)
	if incident == nil {
		s.mu.Unlock()
		return nil, nil
	}

	selected := allocation.SelectResources(incident.Clone(), s.availableLocked(), allocation.DefaultMaxResources)
	names := make([]string, 0, len(selected))
	for _, r := range selected {
		if name, ok := s.assignLocked(incidentID, r.ID); ok {
			names = append(names, name)
		}
	}
	s.mu.Unlock()

	var firstErr error
	for i, r := range selected {
		if i >= len(names) {
			break
		}
		s.notifier.Success(ctx, fmt.Sprintf("%s assigned to incident", names[i]))
		if err := s.persistAssignment(ctx, incidentID, r.ID); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	if len(selected) > 0 {
		s.notifier.Success(ctx, fmt.Sprintf("Optimized resource allocation for incident %s", incidentID))
	}
	return selected, firstErr
}

func (s *Store) findIncident(id string) *models.Incident {
	if id == "" {
		return nil
	}
	for i := range s.incidents {
		if s.incidents[i].ID == id {
			return &s.incidents[i]
		}
	}
	return nil
}

func (s *Store) findResource(id string) *models.Resource {
	for i := range s.resources {
		if s.resources[i].ID == id {
			return &s.resources[i]
		}
	}
	return nil
}
