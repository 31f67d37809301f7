package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harmonia-app/agenda-api/internal/models"
)

func newHoursMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestHoursRepositoryGetByUnit(t *testing.T) {
	db, mock, cleanup := newHoursMock(t)
	defer cleanup()
	repo := NewHoursRepository(db)

	mock.ExpectQuery("SELECT unit_id, weekday_open").
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"unit_id", "weekday_open", "weekday_close", "saturday_open", "saturday_close", "sunday_open", "sunday_close", "updated_at"}).
			AddRow("u1", "08:00", "21:00", "08:00", "13:00", nil, nil, time.Now()))

	hours, err := repo.GetByUnit(context.Background(), "u1")
	require.NoError(t, err)

	require.NotNil(t, hours)
	require.NotNil(t, hours.WeekdayOpen)
	assert.Equal(t, "08:00", *hours.WeekdayOpen)
	assert.Nil(t, hours.SundayOpen)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHoursRepositoryGetByUnitMissing(t *testing.T) {
	db, mock, cleanup := newHoursMock(t)
	defer cleanup()
	repo := NewHoursRepository(db)

	mock.ExpectQuery("SELECT unit_id, weekday_open").
		WithArgs("u1").
		WillReturnError(sql.ErrNoRows)

	hours, err := repo.GetByUnit(context.Background(), "u1")
	require.NoError(t, err)
	assert.Nil(t, hours)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHoursRepositoryUpsert(t *testing.T) {
	db, mock, cleanup := newHoursMock(t)
	defer cleanup()
	repo := NewHoursRepository(db)

	mock.ExpectExec("INSERT INTO unit_hours").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	open := "08:00"
	closeAt := "21:00"
	err := repo.Upsert(context.Background(), &models.UnitHours{UnitID: "u1", WeekdayOpen: &open, WeekdayClose: &closeAt})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
