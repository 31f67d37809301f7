package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/harmonia-app/agenda-api/internal/dto"
	"github.com/harmonia-app/agenda-api/internal/models"
	"github.com/harmonia-app/agenda-api/internal/timetable"
	"github.com/harmonia-app/agenda-api/pkg/config"
	appErrors "github.com/harmonia-app/agenda-api/pkg/errors"
)

type sessionStore interface {
	ListActiveByUnit(ctx context.Context, unitID string) ([]models.ClassSession, error)
	List(ctx context.Context, filter models.SessionFilter) ([]models.ClassSession, int, error)
	FindByID(ctx context.Context, id string) (*models.ClassSession, error)
	Create(ctx context.Context, session *models.ClassSession) error
	Deactivate(ctx context.Context, id string) error
}

type roomStore interface {
	ListByUnit(ctx context.Context, unitID string) ([]models.Room, error)
}

type hoursStore interface {
	GetByUnit(ctx context.Context, unitID string) (*models.UnitHours, error)
}

type suggestionCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	InvalidateUnit(ctx context.Context, unitID string) error
}

type schedulingMetrics interface {
	ObserveConflictCheck(duration time.Duration, blocking bool)
	ObserveSuggestion(duration time.Duration, results int)
	ObserveCacheLookup(hit bool)
}

// SchedulingService coordinates conflict validation and slot recommendation
// over the unit snapshot loaded from the repositories.
type SchedulingService struct {
	sessions sessionStore
	rooms    roomStore
	hours    hoursStore
	cache    suggestionCache
	metrics  schedulingMetrics
	validate *validator.Validate
	logger   *zap.Logger
	cfg      config.SchedulerConfig
}

// NewSchedulingService constructs the scheduling service.
func NewSchedulingService(
	sessions sessionStore,
	rooms roomStore,
	hours hoursStore,
	cache suggestionCache,
	metrics schedulingMetrics,
	validate *validator.Validate,
	logger *zap.Logger,
	cfg config.SchedulerConfig,
) *SchedulingService {
	return &SchedulingService{
		sessions: sessions,
		rooms:    rooms,
		hours:    hours,
		cache:    cache,
		metrics:  metrics,
		validate: validate,
		logger:   logger,
		cfg:      cfg,
	}
}

type unitSnapshot struct {
	sessions []timetable.Session
	rooms    []timetable.Room
	hours    *timetable.OperatingHours
}

func (s *SchedulingService) loadSnapshot(ctx context.Context, unitID string) (*unitSnapshot, error) {
	rows, err := s.sessions.ListActiveByUnit(ctx, unitID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load sessions")
	}
	sessions, err := models.SessionsToTimetable(rows)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "stored session is malformed")
	}

	roomRows, err := s.rooms.ListByUnit(ctx, unitID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load rooms")
	}

	snapshot := &unitSnapshot{
		sessions: sessions,
		rooms:    models.RoomsToTimetable(roomRows),
	}

	hoursRow, err := s.hours.GetByUnit(ctx, unitID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load operating hours")
	}
	if hoursRow != nil {
		hours, err := hoursRow.ToTimetable()
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "stored operating hours are malformed")
		}
		snapshot.hours = &hours
	}

	return snapshot, nil
}

func parsePlacementTimes(dayName, startTime, endTime string) (timetable.Weekday, timetable.TimeOfDay, timetable.TimeOfDay, error) {
	day, ok := timetable.ParseWeekday(strings.ToLower(dayName))
	if !ok {
		return 0, 0, 0, appErrors.New(appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, fmt.Sprintf("unknown day of week %q", dayName))
	}
	start, err := timetable.ParseTimeOfDay(startTime)
	if err != nil {
		return 0, 0, 0, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid start time")
	}
	end, err := timetable.ParseTimeOfDay(endTime)
	if err != nil {
		return 0, 0, 0, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid end time")
	}
	if start >= end {
		return 0, 0, 0, appErrors.New(appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "start time must be before end time")
	}
	return day, start, end, nil
}

// ValidateSession checks a candidate placement against the unit's snapshot and
// returns every detected conflict grouped by severity.
func (s *SchedulingService) ValidateSession(ctx context.Context, req dto.ValidateSessionRequest) (*dto.ValidateSessionResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid validation request")
	}

	day, start, end, err := parsePlacementTimes(req.DayOfWeek, req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}

	snapshot, err := s.loadSnapshot(ctx, req.UnitID)
	if err != nil {
		return nil, err
	}

	candidate := timetable.Placement{
		UnitID:     req.UnitID,
		TeacherID:  req.TeacherID,
		RoomID:     req.RoomID,
		Day:        day,
		Start:      start,
		End:        end,
		StudentIDs: req.StudentIDs,
	}
	if req.SessionID != nil {
		candidate.ID = *req.SessionID
	}

	started := time.Now()
	conflicts := timetable.DetectConflicts(candidate, snapshot.sessions, snapshot.rooms, snapshot.hours)
	blocking := timetable.HasBlockingConflicts(conflicts)
	if s.metrics != nil {
		s.metrics.ObserveConflictCheck(time.Since(started), blocking)
	}

	errs, warnings := timetable.GroupBySeverity(conflicts)
	if errs == nil {
		errs = []timetable.Conflict{}
	}
	if warnings == nil {
		warnings = []timetable.Conflict{}
	}

	s.logger.Debug("validated session placement",
		zap.String("unit_id", req.UnitID),
		zap.String("teacher_id", req.TeacherID),
		zap.Int("errors", len(errs)),
		zap.Int("warnings", len(warnings)),
	)

	return &dto.ValidateSessionResponse{Blocking: blocking, Errors: errs, Warnings: warnings}, nil
}

// CreateSession validates and commits a new class session. Blocking conflicts
// refuse the commit; warnings do not, the client is expected to have confirmed
// them already.
func (s *SchedulingService) CreateSession(ctx context.Context, req dto.CreateSessionRequest) (*models.ClassSession, *dto.ValidateSessionResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid session request")
	}

	validation, err := s.ValidateSession(ctx, dto.ValidateSessionRequest{
		UnitID:     req.UnitID,
		TeacherID:  req.TeacherID,
		RoomID:     req.RoomID,
		DayOfWeek:  req.DayOfWeek,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
		StudentIDs: req.StudentIDs,
	})
	if err != nil {
		return nil, nil, err
	}
	if validation.Blocking {
		return nil, validation, appErrors.Clone(appErrors.ErrConflict, "placement has blocking conflicts")
	}

	session := &models.ClassSession{
		UnitID:     req.UnitID,
		Name:       req.Name,
		TeacherID:  req.TeacherID,
		RoomID:     req.RoomID,
		CourseID:   req.CourseID,
		DayOfWeek:  strings.ToLower(req.DayOfWeek),
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
		Capacity:   req.Capacity,
		Active:     true,
		StudentIDs: req.StudentIDs,
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create session")
	}

	// The snapshot changed, cached suggestions for the unit are stale.
	if s.cache != nil {
		if err := s.cache.InvalidateUnit(ctx, req.UnitID); err != nil {
			s.logger.Warn("failed to invalidate suggestion cache", zap.String("unit_id", req.UnitID), zap.Error(err))
		}
	}

	s.logger.Info("created class session",
		zap.String("session_id", session.ID),
		zap.String("unit_id", session.UnitID),
		zap.String("teacher_id", session.TeacherID),
	)
	return session, validation, nil
}

// ListSessions returns sessions matching the filter with pagination metadata.
func (s *SchedulingService) ListSessions(ctx context.Context, filter models.SessionFilter) ([]models.ClassSession, *models.Pagination, error) {
	sessions, total, err := s.sessions.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list sessions")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	return sessions, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// GetSession loads one session with its roster.
func (s *SchedulingService) GetSession(ctx context.Context, id string) (*models.ClassSession, error) {
	session, err := s.sessions.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "session not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load session")
	}
	return session, nil
}

// DeactivateSession soft-deletes a session and drops the unit's cached
// suggestions, since the freed slot changes them.
func (s *SchedulingService) DeactivateSession(ctx context.Context, id string) error {
	session, err := s.GetSession(ctx, id)
	if err != nil {
		return err
	}
	if err := s.sessions.Deactivate(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to deactivate session")
	}
	if s.cache != nil {
		if err := s.cache.InvalidateUnit(ctx, session.UnitID); err != nil {
			s.logger.Warn("failed to invalidate suggestion cache", zap.String("unit_id", session.UnitID), zap.Error(err))
		}
	}
	s.logger.Info("deactivated class session", zap.String("session_id", id), zap.String("unit_id", session.UnitID))
	return nil
}

// SuggestSlots returns ranked open slots for a new class, served from cache
// when an identical request was answered recently.
func (s *SchedulingService) SuggestSlots(ctx context.Context, req dto.SuggestSlotsRequest) (*dto.SuggestSlotsResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid suggestion request")
	}

	limit := req.Limit
	if limit <= 0 {
		limit = s.cfg.SuggestionLimit
	}

	key := suggestionCacheKey(req, limit)
	if s.cache != nil {
		var cached dto.SuggestSlotsResponse
		err := s.cache.Get(ctx, key, &cached)
		if err == nil {
			if s.metrics != nil {
				s.metrics.ObserveCacheLookup(true)
			}
			return &cached, nil
		}
		if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("suggestion cache read failed", zap.String("key", key), zap.Error(err))
		}
		if s.metrics != nil {
			s.metrics.ObserveCacheLookup(false)
		}
	}

	snapshot, err := s.loadSnapshot(ctx, req.UnitID)
	if err != nil {
		return nil, err
	}

	coreReq := timetable.SuggestionRequest{
		TeacherID:         req.TeacherID,
		CourseID:          req.CourseID,
		UnitID:            req.UnitID,
		DurationMinutes:   req.DurationMinutes,
		Sessions:          snapshot.sessions,
		Rooms:             snapshot.rooms,
		PreferredRoomType: req.PreferredRoomType,
		StudentIDs:        req.StudentIDs,
		SlotStepMinutes:   s.cfg.SlotStepMinutes,
	}
	if snapshot.hours != nil {
		coreReq.Hours = *snapshot.hours
	}

	started := time.Now()
	suggestions := timetable.SuggestSlots(coreReq, limit)
	if s.metrics != nil {
		s.metrics.ObserveSuggestion(time.Since(started), len(suggestions))
	}

	payloads := make([]dto.SuggestionPayload, 0, len(suggestions))
	for _, suggestion := range suggestions {
		payloads = append(payloads, dto.NewSuggestionPayload(suggestion))
	}
	resp := &dto.SuggestSlotsResponse{Suggestions: payloads}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, resp, s.cfg.SuggestionCacheTTL); err != nil {
			s.logger.Warn("suggestion cache write failed", zap.String("key", key), zap.Error(err))
		}
	}

	return resp, nil
}

// WeeklySchedule returns the unit's active sessions as timetable rows ordered
// by day and start time.
func (s *SchedulingService) WeeklySchedule(ctx context.Context, unitID string) ([]dto.WeeklyScheduleEntry, error) {
	if unitID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unitId is required")
	}

	rows, err := s.sessions.ListActiveByUnit(ctx, unitID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load sessions")
	}
	roomRows, err := s.rooms.ListByUnit(ctx, unitID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load rooms")
	}
	names := make(map[string]string, len(roomRows))
	for _, r := range roomRows {
		names[r.ID] = r.Name
	}

	entries := make([]dto.WeeklyScheduleEntry, 0, len(rows))
	for _, row := range rows {
		roomName := ""
		if row.RoomID != nil {
			roomName = names[*row.RoomID]
		}
		entries = append(entries, dto.WeeklyScheduleEntry{
			SessionID: row.ID,
			Name:      row.Name,
			TeacherID: row.TeacherID,
			RoomName:  roomName,
			Day:       row.DayOfWeek,
			StartTime: row.StartTime,
			EndTime:   row.EndTime,
			Students:  len(row.StudentIDs),
			Capacity:  row.Capacity,
		})
	}

	// Rows come back sorted by the day's string form; order them Monday first.
	sort.SliceStable(entries, func(i, j int) bool {
		di, _ := timetable.ParseWeekday(entries[i].Day)
		dj, _ := timetable.ParseWeekday(entries[j].Day)
		if di != dj {
			return di < dj
		}
		return entries[i].StartTime < entries[j].StartTime
	})

	return entries, nil
}

func suggestionCacheKey(req dto.SuggestSlotsRequest, limit int) string {
	course := ""
	if req.CourseID != nil {
		course = *req.CourseID
	}
	return fmt.Sprintf("suggestions:%s:%s:%s:%d:%s:%d:%s",
		req.UnitID,
		req.TeacherID,
		course,
		req.DurationMinutes,
		req.PreferredRoomType,
		limit,
		strings.Join(req.StudentIDs, ","),
	)
}
