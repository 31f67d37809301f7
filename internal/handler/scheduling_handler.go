package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/harmonia-app/agenda-api/internal/dto"
	"github.com/harmonia-app/agenda-api/internal/models"
	appErrors "github.com/harmonia-app/agenda-api/pkg/errors"
	"github.com/harmonia-app/agenda-api/pkg/response"
)

// SchedulingProvider is the service contract the handler depends on.
type SchedulingProvider interface {
	ValidateSession(ctx context.Context, req dto.ValidateSessionRequest) (*dto.ValidateSessionResponse, error)
	CreateSession(ctx context.Context, req dto.CreateSessionRequest) (*models.ClassSession, *dto.ValidateSessionResponse, error)
	ListSessions(ctx context.Context, filter models.SessionFilter) ([]models.ClassSession, *models.Pagination, error)
	GetSession(ctx context.Context, id string) (*models.ClassSession, error)
	DeactivateSession(ctx context.Context, id string) error
	SuggestSlots(ctx context.Context, req dto.SuggestSlotsRequest) (*dto.SuggestSlotsResponse, error)
	WeeklySchedule(ctx context.Context, unitID string) ([]dto.WeeklyScheduleEntry, error)
}

// SchedulingHandler exposes conflict validation and slot recommendation
// endpoints.
type SchedulingHandler struct {
	scheduling SchedulingProvider
}

// NewSchedulingHandler constructs SchedulingHandler.
func NewSchedulingHandler(scheduling SchedulingProvider) *SchedulingHandler {
	return &SchedulingHandler{scheduling: scheduling}
}

// ValidateSession godoc
// @Summary Validate a class placement against the unit's schedule
// @Tags Scheduling
// @Accept json
// @Produce json
// @Param payload body dto.ValidateSessionRequest true "Candidate placement"
// @Success 200 {object} response.Envelope
// @Router /classes/validate [post]
func (h *SchedulingHandler) ValidateSession(c *gin.Context) {
	var req dto.ValidateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	result, err := h.scheduling.ValidateSession(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// CreateSession godoc
// @Summary Create a class session after validating its placement
// @Tags Scheduling
// @Accept json
// @Produce json
// @Param payload body dto.CreateSessionRequest true "Session payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /classes [post]
func (h *SchedulingHandler) CreateSession(c *gin.Context) {
	var req dto.CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	session, validation, err := h.scheduling.CreateSession(c.Request.Context(), req)
	if err != nil {
		if validation != nil {
			c.Header("Cache-Control", "no-store")
			c.JSON(http.StatusConflict, response.Envelope{
				Data:  validation,
				Error: appErrors.FromError(err),
			})
			return
		}
		response.Error(c, err)
		return
	}
	response.Created(c, gin.H{"session": session, "validation": validation})
}

// ListSessions godoc
// @Summary List class sessions
// @Tags Scheduling
// @Produce json
// @Param unitId query string false "Filter by unit"
// @Param teacherId query string false "Filter by teacher"
// @Param roomId query string false "Filter by room"
// @Param day query string false "Filter by day of week"
// @Param active query bool false "Filter by active state"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /classes [get]
func (h *SchedulingHandler) ListSessions(c *gin.Context) {
	var filter models.SessionFilter
	filter.UnitID = c.Query("unitId")
	filter.TeacherID = c.Query("teacherId")
	filter.RoomID = c.Query("roomId")
	filter.DayOfWeek = c.Query("day")
	if active := c.Query("active"); active != "" {
		if active == "true" {
			v := true
			filter.Active = &v
		} else if active == "false" {
			v := false
			filter.Active = &v
		}
	}
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		filter.PageSize = size
	}

	sessions, pagination, err := h.scheduling.ListSessions(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, sessions, pagination)
}

// GetSession godoc
// @Summary Get class session detail
// @Tags Scheduling
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} response.Envelope
// @Router /classes/{id} [get]
func (h *SchedulingHandler) GetSession(c *gin.Context) {
	session, err := h.scheduling.GetSession(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, session, nil)
}

// DeleteSession godoc
// @Summary Deactivate a class session
// @Tags Scheduling
// @Param id path string true "Session ID"
// @Success 204
// @Router /classes/{id} [delete]
func (h *SchedulingHandler) DeleteSession(c *gin.Context) {
	if err := h.scheduling.DeactivateSession(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// SuggestSlots godoc
// @Summary Recommend open slots for a new class
// @Tags Scheduling
// @Accept json
// @Produce json
// @Param payload body dto.SuggestSlotsRequest true "Suggestion request"
// @Success 200 {object} response.Envelope
// @Router /schedule/suggestions [post]
func (h *SchedulingHandler) SuggestSlots(c *gin.Context) {
	var req dto.SuggestSlotsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	result, err := h.scheduling.SuggestSlots(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// WeeklySchedule godoc
// @Summary Weekly timetable for a unit
// @Tags Scheduling
// @Produce json
// @Param unitId query string true "Unit ID"
// @Success 200 {object} response.Envelope
// @Router /schedule/weekly [get]
func (h *SchedulingHandler) WeeklySchedule(c *gin.Context) {
	entries, err := h.scheduling.WeeklySchedule(c.Request.Context(), c.Query("unitId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entries, nil)
}
