package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/harmonia-app/agenda-api/internal/dto"
	appErrors "github.com/harmonia-app/agenda-api/pkg/errors"
	"github.com/harmonia-app/agenda-api/pkg/export"
)

// Export formats supported by the timetable export endpoint.
const (
	ExportFormatCSV = "csv"
	ExportFormatPDF = "pdf"
)

var timetableHeaders = []string{"Day", "Start", "End", "Class", "Teacher", "Room", "Students", "Capacity"}

type weeklyScheduler interface {
	WeeklySchedule(ctx context.Context, unitID string) ([]dto.WeeklyScheduleEntry, error)
}

// ExportResult carries rendered bytes plus HTTP download metadata.
type ExportResult struct {
	Content     []byte
	ContentType string
	Filename    string
}

// ExportService renders a unit's weekly timetable into downloadable documents.
type ExportService struct {
	scheduler weeklyScheduler
	csv       *export.CSVExporter
	pdf       *export.PDFExporter
	logger    *zap.Logger
}

// NewExportService constructs the export service.
func NewExportService(scheduler weeklyScheduler, logger *zap.Logger) *ExportService {
	return &ExportService{
		scheduler: scheduler,
		csv:       export.NewCSVExporter(),
		pdf:       export.NewPDFExporter(),
		logger:    logger,
	}
}

// ExportWeeklySchedule renders the weekly timetable for a unit as CSV or PDF.
func (s *ExportService) ExportWeeklySchedule(ctx context.Context, unitID, format string) (*ExportResult, error) {
	if unitID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unitId is required")
	}

	entries, err := s.scheduler.WeeklySchedule(ctx, unitID)
	if err != nil {
		return nil, err
	}

	dataset := export.Dataset{Headers: timetableHeaders, Rows: make([]map[string]string, 0, len(entries))}
	for _, entry := range entries {
		dataset.Rows = append(dataset.Rows, map[string]string{
			"Day":      entry.Day,
			"Start":    entry.StartTime,
			"End":      entry.EndTime,
			"Class":    entry.Name,
			"Teacher":  entry.TeacherID,
			"Room":     entry.RoomName,
			"Students": strconv.Itoa(entry.Students),
			"Capacity": strconv.Itoa(entry.Capacity),
		})
	}

	switch strings.ToLower(format) {
	case ExportFormatCSV, "":
		content, err := s.csv.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return &ExportResult{
			Content:     content,
			ContentType: "text/csv",
			Filename:    fmt.Sprintf("weekly-schedule-%s.csv", unitID),
		}, nil
	case ExportFormatPDF:
		content, err := s.pdf.Render(dataset, fmt.Sprintf("Weekly Schedule %s", unitID))
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return &ExportResult{
			Content:     content,
			ContentType: "application/pdf",
			Filename:    fmt.Sprintf("weekly-schedule-%s.pdf", unitID),
		}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}
}
