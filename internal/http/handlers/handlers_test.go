package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/Gabru-xD/geo-rescue-optimizer/internal/allocation"
	"github.com/Gabru-xD/geo-rescue-optimizer/internal/models"
	"github.com/Gabru-xD/geo-rescue-optimizer/internal/notify"
	"github.com/Gabru-xD/geo-rescue-optimizer/internal/store"
)

func newTestRouter(t *testing.T) (*gin.Engine, *store.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	st := store.New(nil, notify.Nop{}, zerolog.Nop())
	st.Load(context.Background(),
		[]models.Incident{
			{
				ID:       "inc-1",
				Title:    "Warehouse fire",
				Type:     allocation.TypeFire,
				Priority: models.PriorityCritical,
				Status:   models.IncidentPending,
				Location: models.Location{
					Address:     "Pier 39",
					Coordinates: models.Coordinates{Latitude: 37.7749, Longitude: -122.4194},
				},
				AssignedResources: []models.Resource{},
			},
		},
		[]models.Resource{
			{ID: "r1", Type: models.ResourceFireTruck, Name: "Fire Engine F-1", Status: models.ResourceAvailable, Coordinates: models.Coordinates{Latitude: 37.7749, Longitude: -122.4194}, Capacity: 6},
			{ID: "r2", Type: models.ResourceHazmat, Name: "Hazmat Team H-1", Status: models.ResourceAvailable, Coordinates: models.Coordinates{Latitude: 37.8199, Longitude: -122.4194}, Capacity: 3},
		},
	)

	h := New(st, nil, nil, zerolog.Nop())
	r := gin.New()
	r.GET("/healthz", h.Healthz)
	api := r.Group("/api")
	api.GET("/incidents", h.IncidentsList)
	api.POST("/incidents", h.ReportIncident)
	api.GET("/incidents/:id", h.IncidentDetails)
	api.GET("/incidents/:id/insights", h.IncidentInsights)
	api.POST("/incidents/:id/assign", h.AssignResource)
	api.POST("/incidents/:id/unassign", h.UnassignResource)
	api.POST("/incidents/:id/optimize", h.OptimizeAllocation)
	api.GET("/resources/available", h.AvailableResources)
	api.GET("/analytics", h.Analytics)
	return r, st
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealthzMemoryMode(t *testing.T) {
	r, _ := newTestRouter(t)
	w := doJSON(t, r, http.MethodGet, "/healthz", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestReportIncidentValidation(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/incidents", map[string]any{
		"title": "No type or address",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing fields, got %d", w.Code)
	}
}

func TestReportIncidentCreatesPending(t *testing.T) {
	r, st := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/incidents", map[string]any{
		"title":    "Gas leak",
		"type":     "Hazardous Material",
		"priority": "high",
		"address":  "Howard St & 2nd St",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var created models.Incident
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if created.Status != models.IncidentPending {
		t.Fatalf("expected pending, got %s", created.Status)
	}

	incidents := st.Incidents()
	if incidents[0].ID != created.ID {
		t.Fatalf("expected new incident first, got %s", incidents[0].ID)
	}
}

func TestOptimizeEndpointDispatchesBestUnit(t *testing.T) {
	r, st := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/incidents/inc-1/optimize", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var selected []models.Resource
	if err := json.Unmarshal(w.Body.Bytes(), &selected); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(selected) != 2 {
		t.Fatalf("expected both units dispatched, got %d", len(selected))
	}
	if selected[0].ID != "r1" {
		t.Fatalf("expected fire engine first, got %s", selected[0].ID)
	}

	if available := st.GetAvailableResources(); len(available) != 0 {
		t.Fatalf("expected empty pool after optimize, got %d", len(available))
	}
}

func TestOptimizeEndpointUnknownIncident(t *testing.T) {
	r, _ := newTestRouter(t)
	w := doJSON(t, r, http.MethodPost, "/api/incidents/missing/optimize", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestAssignAndUnassignEndpoints(t *testing.T) {
	r, st := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/incidents/inc-1/assign", map[string]string{"resource_id": "r2"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	inc, _ := st.IncidentByID("inc-1")
	if len(inc.AssignedResources) != 1 || inc.AssignedResources[0].ID != "r2" {
		t.Fatalf("expected r2 assigned, got %+v", inc.AssignedResources)
	}

	w = doJSON(t, r, http.MethodPost, "/api/incidents/inc-1/unassign", map[string]string{"resource_id": "r2"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	inc, _ = st.IncidentByID("inc-1")
	if len(inc.AssignedResources) != 0 {
		t.Fatalf("expected no assigned resources, got %+v", inc.AssignedResources)
	}
}

func TestAvailableResourcesEndpoint(t *testing.T) {
	r, st := newTestRouter(t)

	if err := st.AssignResource(context.Background(), "inc-1", "r1"); err != nil {
		t.Fatalf("assign: %v", err)
	}

	w := doJSON(t, r, http.MethodGet, "/api/resources/available", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var available []models.Resource
	if err := json.Unmarshal(w.Body.Bytes(), &available); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(available) != 1 || available[0].ID != "r2" {
		t.Fatalf("expected only r2 available, got %+v", available)
	}
}

func TestIncidentInsightsEndpoint(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(t, r, http.MethodGet, "/api/incidents/inc-1/insights", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var ins models.IncidentInsights
	if err := json.Unmarshal(w.Body.Bytes(), &ins); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	// Critical fire with no affected-people figure: 90 + 10.
	if ins.RiskLevel != 100 {
		t.Fatalf("expected risk 100 for critical fire, got %d", ins.RiskLevel)
	}
	if len(ins.RecommendedResources) == 0 || len(ins.ActionItems) == 0 {
		t.Fatalf("expected recommendations and actions, got %+v", ins)
	}

	w = doJSON(t, r, http.MethodGet, "/api/incidents/missing/insights", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown incident, got %d", w.Code)
	}
}

func TestAnalyticsEndpoint(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(t, r, http.MethodGet, "/api/analytics", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var summary map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &summary); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if _, ok := summary["incidents_by_type"]; !ok {
		t.Fatalf("expected incidents_by_type in summary, got %v", summary)
	}
}
