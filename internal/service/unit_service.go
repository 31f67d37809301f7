package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/harmonia-app/agenda-api/internal/dto"
	"github.com/harmonia-app/agenda-api/internal/models"
	appErrors "github.com/harmonia-app/agenda-api/pkg/errors"
)

type roomAdminStore interface {
	ListByUnit(ctx context.Context, unitID string) ([]models.Room, error)
	Create(ctx context.Context, room *models.Room) error
}

type hoursAdminStore interface {
	GetByUnit(ctx context.Context, unitID string) (*models.UnitHours, error)
	Upsert(ctx context.Context, hours *models.UnitHours) error
}

type unitCacheInvalidator interface {
	InvalidateUnit(ctx context.Context, unitID string) error
}

// UnitService manages the per-unit scheduling resources: the room pool and the
// operating hours the detector and recommender evaluate against.
type UnitService struct {
	rooms    roomAdminStore
	hours    hoursAdminStore
	cache    unitCacheInvalidator
	validate *validator.Validate
	logger   *zap.Logger
}

// NewUnitService constructs the unit service.
func NewUnitService(rooms roomAdminStore, hours hoursAdminStore, cache unitCacheInvalidator, validate *validator.Validate, logger *zap.Logger) *UnitService {
	return &UnitService{rooms: rooms, hours: hours, cache: cache, validate: validate, logger: logger}
}

// ListRooms returns the room pool of a unit in creation order.
func (s *UnitService) ListRooms(ctx context.Context, unitID string) ([]models.Room, error) {
	if unitID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unitId is required")
	}
	rooms, err := s.rooms.ListByUnit(ctx, unitID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list rooms")
	}
	return rooms, nil
}

// CreateRoom registers a new room at a unit.
func (s *UnitService) CreateRoom(ctx context.Context, req dto.CreateRoomRequest) (*models.Room, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid room request")
	}

	room := &models.Room{
		UnitID:   req.UnitID,
		Name:     req.Name,
		Capacity: req.Capacity,
		RoomType: req.RoomType,
		Joker:    req.Joker,
	}
	if err := s.rooms.Create(ctx, room); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create room")
	}

	s.invalidate(ctx, req.UnitID)
	s.logger.Info("created room", zap.String("room_id", room.ID), zap.String("unit_id", room.UnitID))
	return room, nil
}

// GetHours returns the configured operating hours of a unit.
func (s *UnitService) GetHours(ctx context.Context, unitID string) (*models.UnitHours, error) {
	if unitID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unitId is required")
	}
	hours, err := s.hours.GetByUnit(ctx, unitID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load operating hours")
	}
	if hours == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "operating hours not configured")
	}
	return hours, nil
}

// SetHours replaces a unit's operating hours and drops the unit's cached
// suggestions, since the open windows shape them.
func (s *UnitService) SetHours(ctx context.Context, unitID string, req dto.SetHoursRequest) (*models.UnitHours, error) {
	if unitID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unitId is required")
	}
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid hours request")
	}

	hours := &models.UnitHours{UnitID: unitID}
	applyWindow(req.Weekdays, &hours.WeekdayOpen, &hours.WeekdayClose)
	applyWindow(req.Saturday, &hours.SaturdayOpen, &hours.SaturdayClose)
	applyWindow(req.Sunday, &hours.SundayOpen, &hours.SundayClose)

	// Parse through the core types so malformed or empty windows are rejected
	// before they reach storage.
	if _, err := hours.ToTimetable(); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid operating hours")
	}

	if err := s.hours.Upsert(ctx, hours); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store operating hours")
	}

	s.invalidate(ctx, unitID)
	s.logger.Info("updated operating hours", zap.String("unit_id", unitID))
	return hours, nil
}

func (s *UnitService) invalidate(ctx context.Context, unitID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateUnit(ctx, unitID); err != nil {
		s.logger.Warn("failed to invalidate suggestion cache", zap.String("unit_id", unitID), zap.Error(err))
	}
}

func applyWindow(payload *dto.HoursWindowPayload, open, closeAt **string) {
	if payload == nil {
		return
	}
	o, c := payload.Open, payload.Close
	*open = &o
	*closeAt = &c
}
