package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/harmonia-app/agenda-api/internal/dto"
	"github.com/harmonia-app/agenda-api/internal/models"
	"github.com/harmonia-app/agenda-api/internal/timetable"
	"github.com/harmonia-app/agenda-api/pkg/config"
	appErrors "github.com/harmonia-app/agenda-api/pkg/errors"
)

func TestValidateSessionBlockingRoomConflict(t *testing.T) {
	svc, stores := newTestSchedulingService(t)
	stores.sessions.rows = []models.ClassSession{
		storedSession("s1", "piano-beginners", "t1", "r1", "monday", "09:00", "10:00"),
	}

	resp, err := svc.ValidateSession(context.Background(), dto.ValidateSessionRequest{
		UnitID:    "u1",
		TeacherID: "t2",
		RoomID:    strPtr("r1"),
		DayOfWeek: "monday",
		StartTime: "09:30",
		EndTime:   "10:30",
	})
	require.NoError(t, err)

	assert.True(t, resp.Blocking)
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, timetable.ConflictRoom, resp.Errors[0].Kind)
	assert.Empty(t, resp.Warnings)
}

func TestValidateSessionWarningOnly(t *testing.T) {
	svc, _ := newTestSchedulingService(t)

	resp, err := svc.ValidateSession(context.Background(), dto.ValidateSessionRequest{
		UnitID:    "u1",
		TeacherID: "t1",
		DayOfWeek: "monday",
		StartTime: "07:00",
		EndTime:   "08:00",
	})
	require.NoError(t, err)

	assert.False(t, resp.Blocking)
	assert.Empty(t, resp.Errors)
	require.Len(t, resp.Warnings, 1)
	assert.Equal(t, timetable.ConflictOperatingHours, resp.Warnings[0].Kind)
}

func TestValidateSessionRejectsMalformedTimes(t *testing.T) {
	svc, _ := newTestSchedulingService(t)

	cases := []dto.ValidateSessionRequest{
		{UnitID: "u1", TeacherID: "t1", DayOfWeek: "monday", StartTime: "9:00", EndTime: "10:00"},
		{UnitID: "u1", TeacherID: "t1", DayOfWeek: "someday", StartTime: "09:00", EndTime: "10:00"},
		{UnitID: "u1", TeacherID: "t1", DayOfWeek: "monday", StartTime: "10:00", EndTime: "09:00"},
	}
	for _, req := range cases {
		_, err := svc.ValidateSession(context.Background(), req)
		require.Error(t, err)
		assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	}
}

func TestValidateSessionFailsOnMalformedStoredRow(t *testing.T) {
	svc, stores := newTestSchedulingService(t)
	stores.sessions.rows = []models.ClassSession{
		storedSession("s1", "broken", "t1", "r1", "monday", "late", "10:00"),
	}

	_, err := svc.ValidateSession(context.Background(), dto.ValidateSessionRequest{
		UnitID:    "u1",
		TeacherID: "t1",
		DayOfWeek: "monday",
		StartTime: "09:00",
		EndTime:   "10:00",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInternal.Code, appErrors.FromError(err).Code)
}

func TestSuggestSlotsReturnsRankedPayloads(t *testing.T) {
	svc, _ := newTestSchedulingService(t)

	resp, err := svc.SuggestSlots(context.Background(), dto.SuggestSlotsRequest{
		UnitID:          "u1",
		TeacherID:       "t1",
		DurationMinutes: 60,
	})
	require.NoError(t, err)

	require.NotEmpty(t, resp.Suggestions)
	assert.LessOrEqual(t, len(resp.Suggestions), 5)
	for _, s := range resp.Suggestions {
		assert.Greater(t, s.Score, 0)
		assert.NotEmpty(t, s.RoomID)
		assert.Regexp(t, `^\d{2}:\d{2}$`, s.StartTime)
	}
}

func TestSuggestSlotsServedFromCacheOnRepeat(t *testing.T) {
	svc, stores := newTestSchedulingService(t)

	req := dto.SuggestSlotsRequest{UnitID: "u1", TeacherID: "t1", DurationMinutes: 60}

	first, err := svc.SuggestSlots(context.Background(), req)
	require.NoError(t, err)
	loadsAfterFirst := stores.sessions.listCalls

	second, err := svc.SuggestSlots(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, loadsAfterFirst, stores.sessions.listCalls, "second call should not reload the snapshot")
	assert.Equal(t, first.Suggestions, second.Suggestions)
}

func TestSuggestSlotsValidatesRequest(t *testing.T) {
	svc, _ := newTestSchedulingService(t)

	_, err := svc.SuggestSlots(context.Background(), dto.SuggestSlotsRequest{UnitID: "u1", TeacherID: "t1"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestCreateSessionRefusedOnBlockingConflict(t *testing.T) {
	svc, stores := newTestSchedulingService(t)
	stores.sessions.rows = []models.ClassSession{
		storedSession("s1", "piano-beginners", "t1", "r1", "monday", "09:00", "10:00"),
	}

	created, validation, err := svc.CreateSession(context.Background(), dto.CreateSessionRequest{
		UnitID:    "u1",
		Name:      "violin-intro",
		TeacherID: "t1",
		DayOfWeek: "monday",
		StartTime: "09:00",
		EndTime:   "10:00",
		Capacity:  8,
	})
	require.Error(t, err)

	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
	assert.Nil(t, created)
	require.NotNil(t, validation)
	assert.True(t, validation.Blocking)
	assert.Nil(t, stores.sessions.created)
}

func TestCreateSessionCommitsAndInvalidatesCache(t *testing.T) {
	svc, stores := newTestSchedulingService(t)

	created, validation, err := svc.CreateSession(context.Background(), dto.CreateSessionRequest{
		UnitID:     "u1",
		Name:       "violin-intro",
		TeacherID:  "t1",
		RoomID:     strPtr("r1"),
		DayOfWeek:  "Tuesday",
		StartTime:  "10:00",
		EndTime:    "11:00",
		Capacity:   8,
		StudentIDs: []string{"st1", "st2"},
	})
	require.NoError(t, err)

	require.NotNil(t, created)
	assert.True(t, created.Active)
	assert.Equal(t, "tuesday", created.DayOfWeek)
	assert.False(t, validation.Blocking)
	require.NotNil(t, stores.sessions.created)
	assert.Equal(t, []string{"st1", "st2"}, stores.sessions.created.StudentIDs)
	assert.Equal(t, []string{"u1"}, stores.cache.invalidated)
}

func TestWeeklyScheduleOrdersMondayFirst(t *testing.T) {
	svc, stores := newTestSchedulingService(t)
	stores.sessions.rows = []models.ClassSession{
		storedSession("s1", "drums", "t1", "r1", "friday", "09:00", "10:00"),
		storedSession("s2", "piano", "t2", "r1", "monday", "11:00", "12:00"),
		storedSession("s3", "violin", "t2", "r1", "monday", "09:00", "10:00"),
	}

	entries, err := svc.WeeklySchedule(context.Background(), "u1")
	require.NoError(t, err)

	require.Len(t, entries, 3)
	assert.Equal(t, "s3", entries[0].SessionID)
	assert.Equal(t, "s2", entries[1].SessionID)
	assert.Equal(t, "s1", entries[2].SessionID)
	assert.Equal(t, "Room 1", entries[0].RoomName)
}

func TestDeactivateSessionInvalidatesCache(t *testing.T) {
	svc, stores := newTestSchedulingService(t)
	stores.sessions.rows = []models.ClassSession{
		storedSession("s1", "piano", "t1", "r1", "monday", "09:00", "10:00"),
	}

	require.NoError(t, svc.DeactivateSession(context.Background(), "s1"))

	assert.Equal(t, []string{"s1"}, stores.sessions.deactivated)
	assert.Equal(t, []string{"u1"}, stores.cache.invalidated)
}

func TestGetSessionNotFound(t *testing.T) {
	svc, _ := newTestSchedulingService(t)

	_, err := svc.GetSession(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestWeeklyScheduleRequiresUnit(t *testing.T) {
	svc, _ := newTestSchedulingService(t)

	_, err := svc.WeeklySchedule(context.Background(), "")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

type stubSessionStore struct {
	rows        []models.ClassSession
	created     *models.ClassSession
	deactivated []string
	listCalls   int
	listErr     error
}

func (s *stubSessionStore) ListActiveByUnit(_ context.Context, _ string) ([]models.ClassSession, error) {
	s.listCalls++
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.rows, nil
}

func (s *stubSessionStore) List(_ context.Context, _ models.SessionFilter) ([]models.ClassSession, int, error) {
	return s.rows, len(s.rows), nil
}

func (s *stubSessionStore) FindByID(_ context.Context, id string) (*models.ClassSession, error) {
	for i := range s.rows {
		if s.rows[i].ID == id {
			return &s.rows[i], nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *stubSessionStore) Create(_ context.Context, session *models.ClassSession) error {
	if session.ID == "" {
		session.ID = "generated"
	}
	s.created = session
	return nil
}

func (s *stubSessionStore) Deactivate(_ context.Context, id string) error {
	s.deactivated = append(s.deactivated, id)
	return nil
}

type stubRoomStore struct {
	rooms []models.Room
}

func (s *stubRoomStore) ListByUnit(_ context.Context, _ string) ([]models.Room, error) {
	return s.rooms, nil
}

type stubHoursStore struct {
	hours *models.UnitHours
}

func (s *stubHoursStore) GetByUnit(_ context.Context, _ string) (*models.UnitHours, error) {
	return s.hours, nil
}

type stubCache struct {
	store       map[string][]byte
	invalidated []string
}

func (c *stubCache) Get(_ context.Context, key string, dest interface{}) error {
	raw, ok := c.store[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (c *stubCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.store[key] = raw
	return nil
}

func (c *stubCache) InvalidateUnit(_ context.Context, unitID string) error {
	c.invalidated = append(c.invalidated, unitID)
	return nil
}

type testStores struct {
	sessions *stubSessionStore
	rooms    *stubRoomStore
	hours    *stubHoursStore
	cache    *stubCache
}

func newTestSchedulingService(t *testing.T) (*SchedulingService, *testStores) {
	t.Helper()

	stores := &testStores{
		sessions: &stubSessionStore{},
		rooms: &stubRoomStore{rooms: []models.Room{
			{ID: "r1", UnitID: "u1", Name: "Room 1", Capacity: 10, RoomType: strPtr("piano")},
			{ID: "r2", UnitID: "u1", Name: "Room 2", Capacity: 6, Joker: true},
		}},
		hours: &stubHoursStore{hours: &models.UnitHours{
			UnitID:        "u1",
			WeekdayOpen:   strPtr("08:00"),
			WeekdayClose:  strPtr("21:00"),
			SaturdayOpen:  strPtr("08:00"),
			SaturdayClose: strPtr("13:00"),
		}},
		cache: &stubCache{store: make(map[string][]byte)},
	}

	cfg := config.SchedulerConfig{
		SlotStepMinutes:    60,
		SuggestionLimit:    5,
		SuggestionCacheTTL: time.Minute,
	}
	svc := NewSchedulingService(stores.sessions, stores.rooms, stores.hours, stores.cache, nil, validator.New(), zap.NewNop(), cfg)
	return svc, stores
}

func storedSession(id, name, teacherID, roomID, day, start, end string) models.ClassSession {
	return models.ClassSession{
		ID:        id,
		UnitID:    "u1",
		Name:      name,
		TeacherID: teacherID,
		RoomID:    &roomID,
		DayOfWeek: day,
		StartTime: start,
		EndTime:   end,
		Capacity:  10,
		Active:    true,
	}
}

func strPtr(s string) *string {
	return &s
}
