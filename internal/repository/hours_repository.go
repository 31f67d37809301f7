package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/harmonia-app/agenda-api/internal/models"
)

// HoursRepository provides persistence for unit operating hours.
type HoursRepository struct {
	db *sqlx.DB
}

// NewHoursRepository creates a new operating-hours repository.
func NewHoursRepository(db *sqlx.DB) *HoursRepository {
	return &HoursRepository{db: db}
}

// GetByUnit loads the operating-hours row for a unit. Returns (nil, nil) when
// the unit has no configured hours; the detector then skips the hours rule.
func (r *HoursRepository) GetByUnit(ctx context.Context, unitID string) (*models.UnitHours, error) {
	const query = `SELECT unit_id, weekday_open, weekday_close, saturday_open, saturday_close, sunday_open, sunday_close, updated_at FROM unit_hours WHERE unit_id = $1`
	var hours models.UnitHours
	if err := r.db.GetContext(ctx, &hours, query, unitID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("load unit hours: %w", err)
	}
	return &hours, nil
}

// Upsert stores the operating hours for a unit.
func (r *HoursRepository) Upsert(ctx context.Context, hours *models.UnitHours) error {
	const query = `INSERT INTO unit_hours (unit_id, weekday_open, weekday_close, saturday_open, saturday_close, sunday_open, sunday_close, updated_at)
		VALUES (:unit_id, :weekday_open, :weekday_close, :saturday_open, :saturday_close, :sunday_open, :sunday_close, NOW())
		ON CONFLICT (unit_id) DO UPDATE SET
			weekday_open = EXCLUDED.weekday_open,
			weekday_close = EXCLUDED.weekday_close,
			saturday_open = EXCLUDED.saturday_open,
			saturday_close = EXCLUDED.saturday_close,
			sunday_open = EXCLUDED.sunday_open,
			sunday_close = EXCLUDED.sunday_close,
			updated_at = NOW()`
	if _, err := r.db.NamedExecContext(ctx, query, hours); err != nil {
		return fmt.Errorf("upsert unit hours: %w", err)
	}
	return nil
}
