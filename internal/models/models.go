package models

import "time"

type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

type IncidentStatus string

const (
	IncidentPending    IncidentStatus = "pending"
	IncidentDispatched IncidentStatus = "dispatched"
	IncidentInProgress IncidentStatus = "in_progress"
	IncidentResolved   IncidentStatus = "resolved"
)

type ResourceType string

const (
	ResourceAmbulance ResourceType = "ambulance"
	ResourceFireTruck ResourceType = "fire_truck"
	ResourcePolice    ResourceType = "police"
	ResourceHazmat    ResourceType = "hazmat"
	ResourceRescue    ResourceType = "rescue"
)

type ResourceStatus string

const (
	ResourceAvailable  ResourceStatus = "available"
	ResourceDispatched ResourceStatus = "dispatched"
	ResourceEnRoute    ResourceStatus = "en_route"
	ResourceOnScene    ResourceStatus = "on_scene"
	ResourceReturning  ResourceStatus = "returning"
)

type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type Location struct {
	Address     string      `json:"address"`
	Coordinates Coordinates `json:"coordinates"`
}

type Resource struct {
	ID          string         `json:"id"`
	Type        ResourceType   `json:"type"`
	Name        string         `json:"name"`
	Status      ResourceStatus `json:"status"`
	Coordinates Coordinates    `json:"coordinates"`
	Capacity    int            `json:"capacity"`
	// ETA is nil until an assignment computes it; zero means "arriving now".
	ETA *int `json:"eta,omitempty"`
}

type Update struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Message   string    `json:"message"`
	Author    string    `json:"author"`
}

type Incident struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	// Type is free text from the report form; scoring recognizes the nine
	// canonical types and falls back to a default weight for anything else.
	Type                  string         `json:"type"`
	Priority              Priority       `json:"priority"`
	Status                IncidentStatus `json:"status"`
	Location              Location       `json:"location"`
	ReportedTime          time.Time      `json:"reported_time"`
	EstimatedResponseTime *int           `json:"estimated_response_time,omitempty"`
	AssignedResources     []Resource     `json:"assigned_resources"`
	AffectedPeople        *int           `json:"affected_people,omitempty"`
	Updates               []Update       `json:"updates"`
}

// IncidentPatch carries the partially supplied fields of an incident update.
// Nil fields are left untouched by the merge.
type IncidentPatch struct {
	Title                 *string         `json:"title,omitempty"`
	Description           *string         `json:"description,omitempty"`
	Type                  *string         `json:"type,omitempty"`
	Priority              *Priority       `json:"priority,omitempty"`
	Status                *IncidentStatus `json:"status,omitempty"`
	EstimatedResponseTime *int            `json:"estimated_response_time,omitempty"`
	AffectedPeople        *int            `json:"affected_people,omitempty"`
	AssignedResources     *[]Resource     `json:"assigned_resources,omitempty"`
}

// Apply merges the patch into the incident in place.
func (p IncidentPatch) Apply(inc *Incident) {
	if p.Title != nil {
		inc.Title = *p.Title
	}
	if p.Description != nil {
		inc.Description = *p.Description
	}
	if p.Type != nil {
		inc.Type = *p.Type
	}
	if p.Priority != nil {
		inc.Priority = *p.Priority
	}
	if p.Status != nil {
		inc.Status = *p.Status
	}
	if p.EstimatedResponseTime != nil {
		inc.EstimatedResponseTime = p.EstimatedResponseTime
	}
	if p.AffectedPeople != nil {
		inc.AffectedPeople = p.AffectedPeople
	}
	if p.AssignedResources != nil {
		inc.AssignedResources = append([]Resource(nil), (*p.AssignedResources)...)
	}
}

// IncidentInsights is the generated response guidance for one incident: a
// risk score from 1-100, an expected duration in hours, and suggested
// resources and actions for the commander.
type IncidentInsights struct {
	IncidentID            string    `json:"incident_id"`
	RiskLevel             int       `json:"risk_level"`
	ExpectedDurationHours int       `json:"expected_duration_hours"`
	RecommendedResources  []string  `json:"recommended_resources"`
	ActionItems           []string  `json:"action_items"`
	Summary               string    `json:"summary"`
	ModelVersion          string    `json:"model_version"`
	GeneratedAt           time.Time `json:"generated_at"`
}

// ResourcePatch carries the mutable fields of a resource record.
type ResourcePatch struct {
	Status      *ResourceStatus `json:"status,omitempty"`
	ETA         *int            `json:"eta,omitempty"`
	Coordinates *Coordinates    `json:"coordinates,omitempty"`
}

// Clone returns a deep copy so store snapshots cannot alias caller slices.
func (i Incident) Clone() Incident {
	out := i
	out.AssignedResources = append([]Resource(nil), i.AssignedResources...)
	out.Updates = append([]Update(nil), i.Updates...)
	return out
}
