package insights

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/Gabru-xD/geo-rescue-optimizer/internal/models"
)

// HTTPAdapter delegates analysis to a remote insights service.
type HTTPAdapter struct {
	BaseURL string
	Client  *http.Client
}

type requestBody struct {
	IncidentID     string  `json:"incident_id"`
	Type           string  `json:"type"`
	Priority       string  `json:"priority"`
	Status         string  `json:"status"`
	Address        string  `json:"address"`
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
	AffectedPeople *int    `json:"affected_people,omitempty"`
	AssignedCount  int     `json:"assigned_count"`
}

type responseBody struct {
	IncidentID            string   `json:"incident_id"`
	RiskLevel             int      `json:"risk_level"`
	ExpectedDurationHours int      `json:"expected_duration_hours"`
	RecommendedResources  []string `json:"recommended_resources"`
	ActionItems           []string `json:"action_items"`
	Summary               string   `json:"summary"`
	ModelVersion          string   `json:"model_version"`
}

func (h HTTPAdapter) AnalyzeIncident(ctx context.Context, incident models.Incident) (models.IncidentInsights, int64, error) {
	if h.Client == nil {
		h.Client = &http.Client{Timeout: 15 * time.Second}
	}

	payload := requestBody{
		IncidentID:     incident.ID,
		Type:           incident.Type,
		Priority:       string(incident.Priority),
		Status:         string(incident.Status),
		Address:        incident.Location.Address,
		Latitude:       incident.Location.Coordinates.Latitude,
		Longitude:      incident.Location.Coordinates.Longitude,
		AffectedPeople: incident.AffectedPeople,
		AssignedCount:  len(incident.AssignedResources),
	}
	b, _ := json.Marshal(payload)
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.BaseURL+"/analyze", bytes.NewBuffer(b))
	if err != nil {
		return models.IncidentInsights{}, 0, err
	}

	req.Header.Set("Content-Type", "application/json")
	resp, err := h.Client.Do(req)
	if err != nil {
		return models.IncidentInsights{}, time.Since(start).Milliseconds(), err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return models.IncidentInsights{}, time.Since(start).Milliseconds(), errors.New("insights service error")
	}

	var r responseBody
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		return models.IncidentInsights{}, time.Since(start).Milliseconds(), err
	}

	out := models.IncidentInsights{
		IncidentID:            incident.ID,
		RiskLevel:             r.RiskLevel,
		ExpectedDurationHours: r.ExpectedDurationHours,
		RecommendedResources:  r.RecommendedResources,
		ActionItems:           r.ActionItems,
		Summary:               r.Summary,
		ModelVersion:          r.ModelVersion,
		GeneratedAt:           time.Now().UTC(),
	}
	return out, time.Since(start).Milliseconds(), nil
}
