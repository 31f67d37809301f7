package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/harmonia-app/agenda-api/internal/dto"
	"github.com/harmonia-app/agenda-api/internal/service"
	appErrors "github.com/harmonia-app/agenda-api/pkg/errors"
	"github.com/harmonia-app/agenda-api/pkg/response"
)

// UnitHandler exposes room and operating-hours management.
type UnitHandler struct {
	units *service.UnitService
}

// NewUnitHandler constructs UnitHandler.
func NewUnitHandler(units *service.UnitService) *UnitHandler {
	return &UnitHandler{units: units}
}

// ListRooms godoc
// @Summary List the rooms of a unit
// @Tags Units
// @Produce json
// @Param unitId query string true "Unit ID"
// @Success 200 {object} response.Envelope
// @Router /rooms [get]
func (h *UnitHandler) ListRooms(c *gin.Context) {
	rooms, err := h.units.ListRooms(c.Request.Context(), c.Query("unitId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rooms, nil)
}

// CreateRoom godoc
// @Summary Register a room at a unit
// @Tags Units
// @Accept json
// @Produce json
// @Param payload body dto.CreateRoomRequest true "Room payload"
// @Success 201 {object} response.Envelope
// @Router /rooms [post]
func (h *UnitHandler) CreateRoom(c *gin.Context) {
	var req dto.CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	room, err := h.units.CreateRoom(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, room)
}

// GetHours godoc
// @Summary Operating hours of a unit
// @Tags Units
// @Produce json
// @Param unitId path string true "Unit ID"
// @Success 200 {object} response.Envelope
// @Router /units/{unitId}/hours [get]
func (h *UnitHandler) GetHours(c *gin.Context) {
	hours, err := h.units.GetHours(c.Request.Context(), c.Param("unitId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, hours, nil)
}

// SetHours godoc
// @Summary Replace the operating hours of a unit
// @Tags Units
// @Accept json
// @Produce json
// @Param unitId path string true "Unit ID"
// @Param payload body dto.SetHoursRequest true "Hours payload"
// @Success 200 {object} response.Envelope
// @Router /units/{unitId}/hours [put]
func (h *UnitHandler) SetHours(c *gin.Context) {
	var req dto.SetHoursRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	hours, err := h.units.SetHours(c.Request.Context(), c.Param("unitId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, hours, nil)
}
