package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/harmonia-app/agenda-api/internal/service"
	"github.com/harmonia-app/agenda-api/pkg/response"
)

// ExportHandler serves timetable export downloads.
type ExportHandler struct {
	exports *service.ExportService
}

// NewExportHandler constructs ExportHandler.
func NewExportHandler(exports *service.ExportService) *ExportHandler {
	return &ExportHandler{exports: exports}
}

// ExportWeekly godoc
// @Summary Export the weekly timetable of a unit
// @Tags Exports
// @Produce text/csv
// @Produce application/pdf
// @Param unitId query string true "Unit ID"
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} file
// @Router /schedule/export [get]
func (h *ExportHandler) ExportWeekly(c *gin.Context) {
	result, err := h.exports.ExportWeeklySchedule(c.Request.Context(), c.Query("unitId"), c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	c.Data(http.StatusOK, result.ContentType, result.Content)
}
