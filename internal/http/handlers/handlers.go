package handlers

import (
	"context"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Gabru-xD/geo-rescue-optimizer/internal/analytics"
	"github.com/Gabru-xD/geo-rescue-optimizer/internal/insights"
	"github.com/Gabru-xD/geo-rescue-optimizer/internal/intake"
	"github.com/Gabru-xD/geo-rescue-optimizer/internal/models"
	"github.com/Gabru-xD/geo-rescue-optimizer/internal/store"
)

// Pinger reports backend liveness for the health endpoint.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	Store     *store.Store
	DB        Pinger // nil when running in-memory only
	Insights  insights.Adapter
	Validator *validator.Validate
	Logger    zerolog.Logger

	rngMu sync.Mutex
	rng   *rand.Rand
}

func New(st *store.Store, db Pinger, ins insights.Adapter, logger zerolog.Logger) *Handler {
	if ins == nil {
		ins = insights.HeuristicAdapter{ModelVersion: "heuristic-1"}
	}
	return &Handler{
		Store:     st,
		DB:        db,
		Insights:  ins,
		Validator: validator.New(),
		Logger:    logger,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (h *Handler) Healthz(c *gin.Context) {
	if h.DB == nil {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "mode": "memory"})
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()
	if err := h.DB.Ping(ctx); err != nil {
		writeError(c, http.StatusServiceUnavailable, "DB_UNAVAILABLE", "Database unavailable", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "mode": "persistent"})
}

// @Summary List incidents
// @Produce json
// @Success 200 {array} models.Incident
// @Router /api/incidents [get]
func (h *Handler) IncidentsList(c *gin.Context) {
	c.JSON(http.StatusOK, h.Store.Incidents())
}

func (h *Handler) IncidentDetails(c *gin.Context) {
	inc, ok := h.Store.IncidentByID(c.Param("id"))
	if !ok {
		writeError(c, http.StatusNotFound, "NOT_FOUND", "Incident not found", nil)
		return
	}
	c.JSON(http.StatusOK, inc)
}

// @Summary Report a new incident
// @Accept json
// @Produce json
// @Param report body intake.Report true "incident report"
// @Success 201 {object} models.Incident
// @Failure 400 {object} map[string]any
// @Router /api/incidents [post]
func (h *Handler) ReportIncident(c *gin.Context) {
	var report intake.Report
	if err := c.ShouldBindJSON(&report); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Malformed incident report", err.Error())
		return
	}
	if err := h.Validator.Struct(report); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Missing or invalid report fields", err.Error())
		return
	}

	h.rngMu.Lock()
	incident := intake.NewIncident(h.rng, time.Now(), report)
	h.rngMu.Unlock()

	added, err := h.Store.AddIncident(c.Request.Context(), incident)
	if err != nil {
		writeError(c, http.StatusBadGateway, "PERSISTENCE_ERROR", "Failed to save incident", err.Error())
		return
	}
	c.JSON(http.StatusCreated, added)
}

func (h *Handler) UpdateIncident(c *gin.Context) {
	var patch models.IncidentPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Malformed incident patch", err.Error())
		return
	}

	id := c.Param("id")
	if _, ok := h.Store.IncidentByID(id); !ok {
		writeError(c, http.StatusNotFound, "NOT_FOUND", "Incident not found", nil)
		return
	}
	if err := h.Store.UpdateIncident(c.Request.Context(), id, patch); err != nil {
		writeError(c, http.StatusBadGateway, "PERSISTENCE_ERROR", "Failed to save incident update", err.Error())
		return
	}

	inc, _ := h.Store.IncidentByID(id)
	c.JSON(http.StatusOK, inc)
}

type updateRequest struct {
	Message string `json:"message" validate:"required"`
	Author  string `json:"author" validate:"required"`
}

func (h *Handler) AppendIncidentUpdate(c *gin.Context) {
	var req updateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Malformed update entry", err.Error())
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Message and author are required", err.Error())
		return
	}

	id := c.Param("id")
	if _, ok := h.Store.IncidentByID(id); !ok {
		writeError(c, http.StatusNotFound, "NOT_FOUND", "Incident not found", nil)
		return
	}

	update := models.Update{
		ID:        uuid.NewString(),
		Timestamp: time.Now(),
		Message:   req.Message,
		Author:    req.Author,
	}
	if err := h.Store.AppendUpdate(c.Request.Context(), id, update); err != nil {
		writeError(c, http.StatusBadGateway, "PERSISTENCE_ERROR", "Failed to save update entry", err.Error())
		return
	}
	c.JSON(http.StatusCreated, update)
}

// @Summary Generate response guidance for an incident
// @Produce json
// @Param id path string true "incident id"
// @Success 200 {object} models.IncidentInsights
// @Failure 404 {object} map[string]any
// @Router /api/incidents/{id}/insights [get]
func (h *Handler) IncidentInsights(c *gin.Context) {
	inc, ok := h.Store.IncidentByID(c.Param("id"))
	if !ok {
		writeError(c, http.StatusNotFound, "NOT_FOUND", "Incident not found", nil)
		return
	}

	ins, latencyMs, err := h.Insights.AnalyzeIncident(c.Request.Context(), inc)
	if err != nil {
		writeError(c, http.StatusBadGateway, "INSIGHTS_ERROR", "Insight analysis failed", err.Error())
		return
	}
	h.Logger.Debug().Str("incident_id", inc.ID).Int64("latency_ms", latencyMs).Msg("insights generated")
	c.JSON(http.StatusOK, ins)
}

func (h *Handler) ActiveIncident(c *gin.Context) {
	inc, ok := h.Store.ActiveIncident()
	if !ok {
		writeError(c, http.StatusNotFound, "NOT_FOUND", "No active incident", nil)
		return
	}
	c.JSON(http.StatusOK, inc)
}

func (h *Handler) FocusIncident(c *gin.Context) {
	id := c.Param("id")
	if _, ok := h.Store.IncidentByID(id); !ok {
		writeError(c, http.StatusNotFound, "NOT_FOUND", "Incident not found", nil)
		return
	}
	h.Store.SetActiveIncident(id)
	c.Status(http.StatusNoContent)
}

func (h *Handler) ResourcesList(c *gin.Context) {
	c.JSON(http.StatusOK, h.Store.Resources())
}

func (h *Handler) AvailableResources(c *gin.Context) {
	available := h.Store.GetAvailableResources()
	if available == nil {
		available = []models.Resource{}
	}
	c.JSON(http.StatusOK, available)
}

type resourceRequest struct {
	Type      models.ResourceType `json:"type" validate:"required,oneof=ambulance fire_truck police hazmat rescue"`
	Name      string              `json:"name" validate:"required"`
	Latitude  float64             `json:"latitude" validate:"min=-90,max=90"`
	Longitude float64             `json:"longitude" validate:"min=-180,max=180"`
	Capacity  int                 `json:"capacity" validate:"required,min=1"`
}

func (h *Handler) AddResource(c *gin.Context) {
	var req resourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Malformed resource", err.Error())
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Missing or invalid resource fields", err.Error())
		return
	}

	resource := models.Resource{
		ID:          uuid.NewString(),
		Type:        req.Type,
		Name:        req.Name,
		Status:      models.ResourceAvailable,
		Coordinates: models.Coordinates{Latitude: req.Latitude, Longitude: req.Longitude},
		Capacity:    req.Capacity,
	}
	added, err := h.Store.AddResource(c.Request.Context(), resource)
	if err != nil {
		writeError(c, http.StatusBadGateway, "PERSISTENCE_ERROR", "Failed to save resource", err.Error())
		return
	}
	c.JSON(http.StatusCreated, added)
}

func (h *Handler) UpdateResource(c *gin.Context) {
	var patch models.ResourcePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Malformed resource patch", err.Error())
		return
	}

	if err := h.Store.UpdateResource(c.Request.Context(), c.Param("id"), patch); err != nil {
		writeError(c, http.StatusBadGateway, "PERSISTENCE_ERROR", "Failed to save resource", err.Error())
		return
	}
	c.Status(http.StatusNoContent)
}

type assignRequest struct {
	ResourceID string `json:"resource_id" validate:"required"`
}

func (h *Handler) AssignResource(c *gin.Context) {
	h.applyAssignment(c, h.Store.AssignResource)
}

func (h *Handler) UnassignResource(c *gin.Context) {
	h.applyAssignment(c, h.Store.UnassignResource)
}

func (h *Handler) applyAssignment(c *gin.Context, apply func(ctx context.Context, incidentID, resourceID string) error) {
	var req assignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "resource_id required", err.Error())
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "resource_id required", err.Error())
		return
	}

	id := c.Param("id")
	if err := apply(c.Request.Context(), id, req.ResourceID); err != nil {
		// In-memory state already moved; report the degraded persistence.
		h.Logger.Error().Err(err).Str("incident_id", id).Msg("assignment persisted partially")
	}

	inc, ok := h.Store.IncidentByID(id)
	if !ok {
		writeError(c, http.StatusNotFound, "NOT_FOUND", "Incident not found", nil)
		return
	}
	c.JSON(http.StatusOK, inc)
}

// @Summary Optimize resource allocation
// @Description Rank available resources for the incident and dispatch the top matches
// @Produce json
// @Param id path string true "incident id"
// @Success 200 {array} models.Resource
// @Failure 404 {object} map[string]any
// @Router /api/incidents/{id}/optimize [post]
func (h *Handler) OptimizeAllocation(c *gin.Context) {
	id := c.Param("id")
	if _, ok := h.Store.IncidentByID(id); !ok {
		writeError(c, http.StatusNotFound, "NOT_FOUND", "Incident not found", nil)
		return
	}

	selected, err := h.Store.OptimizeAllocation(c.Request.Context(), id)
	if err != nil {
		h.Logger.Error().Err(err).Str("incident_id", id).Msg("optimize batch persisted partially")
	}
	if selected == nil {
		selected = []models.Resource{}
	}
	c.JSON(http.StatusOK, selected)
}

func (h *Handler) Analytics(c *gin.Context) {
	incidents := h.Store.Incidents()
	resources := h.Store.Resources()

	c.JSON(http.StatusOK, analytics.Summary{
		Efficiency:              analytics.ResponseEfficiency(incidents),
		IncidentsByType:         analytics.IncidentsByType(incidents),
		ResponseTimesByPriority: analytics.ResponseTimesByPriority(incidents),
		ResourceUtilization:     analytics.UtilizationByResourceType(resources),
	})
}

func writeError(c *gin.Context, status int, code string, message string, details any) {
	c.JSON(status, gin.H{
		"error": gin.H{
			"code":    code,
			"message": message,
			"details": details,
		},
	})
}
