package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/harmonia-app/agenda-api/internal/models"
)

// SessionRepository provides persistence for class sessions.
type SessionRepository struct {
	db *sqlx.DB
}

// NewSessionRepository creates a new session repository.
func NewSessionRepository(db *sqlx.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

const sessionColumns = "id, unit_id, name, teacher_id, room_id, course_id, day_of_week, start_time, end_time, capacity, active, created_at, updated_at"

// ListActiveByUnit returns every active session for a unit with rosters
// attached. This is the snapshot the scheduling core evaluates against.
func (r *SessionRepository) ListActiveByUnit(ctx context.Context, unitID string) ([]models.ClassSession, error) {
	query := fmt.Sprintf("SELECT %s FROM class_sessions WHERE unit_id = $1 AND active = TRUE ORDER BY day_of_week ASC, start_time ASC", sessionColumns)
	var sessions []models.ClassSession
	if err := r.db.SelectContext(ctx, &sessions, query, unitID); err != nil {
		return nil, fmt.Errorf("list active sessions: %w", err)
	}
	if err := r.attachRosters(ctx, sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

// List returns sessions with optional filtering and pagination.
func (r *SessionRepository) List(ctx context.Context, filter models.SessionFilter) ([]models.ClassSession, int, error) {
	base := "FROM class_sessions WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.UnitID != "" {
		conditions = append(conditions, fmt.Sprintf("unit_id = $%d", len(args)+1))
		args = append(args, filter.UnitID)
	}
	if filter.TeacherID != "" {
		conditions = append(conditions, fmt.Sprintf("teacher_id = $%d", len(args)+1))
		args = append(args, filter.TeacherID)
	}
	if filter.RoomID != "" {
		conditions = append(conditions, fmt.Sprintf("room_id = $%d", len(args)+1))
		args = append(args, filter.RoomID)
	}
	if filter.DayOfWeek != "" {
		conditions = append(conditions, fmt.Sprintf("day_of_week = $%d", len(args)+1))
		args = append(args, filter.DayOfWeek)
	}
	if filter.Active != nil {
		conditions = append(conditions, fmt.Sprintf("active = $%d", len(args)+1))
		args = append(args, *filter.Active)
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s %s ORDER BY day_of_week ASC, start_time ASC LIMIT %d OFFSET %d", sessionColumns, base, size, offset)
	var sessions []models.ClassSession
	if err := r.db.SelectContext(ctx, &sessions, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list sessions: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count sessions: %w", err)
	}

	if err := r.attachRosters(ctx, sessions); err != nil {
		return nil, 0, err
	}
	return sessions, total, nil
}

// FindByID loads a session by id including its roster.
func (r *SessionRepository) FindByID(ctx context.Context, id string) (*models.ClassSession, error) {
	query := fmt.Sprintf("SELECT %s FROM class_sessions WHERE id = $1", sessionColumns)
	var session models.ClassSession
	if err := r.db.GetContext(ctx, &session, query, id); err != nil {
		return nil, err
	}
	sessions := []models.ClassSession{session}
	if err := r.attachRosters(ctx, sessions); err != nil {
		return nil, err
	}
	return &sessions[0], nil
}

// Create stores a new session record and its roster.
func (r *SessionRepository) Create(ctx context.Context, session *models.ClassSession) error {
	if session.ID == "" {
		session.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if session.CreatedAt.IsZero() {
		session.CreatedAt = now
	}
	session.UpdatedAt = now

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create session: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const query = `INSERT INTO class_sessions (id, unit_id, name, teacher_id, room_id, course_id, day_of_week, start_time, end_time, capacity, active, created_at, updated_at) VALUES (:id, :unit_id, :name, :teacher_id, :room_id, :course_id, :day_of_week, :start_time, :end_time, :capacity, :active, :created_at, :updated_at)`
	if _, err = tx.NamedExecContext(ctx, query, session); err != nil {
		return fmt.Errorf("create session: %w", err)
	}

	for _, studentID := range session.StudentIDs {
		if _, err = tx.ExecContext(ctx, `INSERT INTO session_students (session_id, student_id) VALUES ($1, $2)`, session.ID, studentID); err != nil {
			return fmt.Errorf("enroll student %s: %w", studentID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit create session: %w", err)
	}
	return nil
}

// Deactivate soft-deletes a session so it stops participating in conflict
// detection.
func (r *SessionRepository) Deactivate(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE class_sessions SET active = FALSE, updated_at = $2 WHERE id = $1`, id, time.Now().UTC()); err != nil {
		return fmt.Errorf("deactivate session: %w", err)
	}
	return nil
}

type sessionStudentRow struct {
	SessionID string `db:"session_id"`
	StudentID string `db:"student_id"`
}

func (r *SessionRepository) attachRosters(ctx context.Context, sessions []models.ClassSession) error {
	if len(sessions) == 0 {
		return nil
	}
	ids := make([]string, 0, len(sessions))
	for _, s := range sessions {
		ids = append(ids, s.ID)
	}

	query, args, err := sqlx.In(`SELECT session_id, student_id FROM session_students WHERE session_id IN (?) ORDER BY student_id ASC`, ids)
	if err != nil {
		return fmt.Errorf("build roster query: %w", err)
	}
	query = r.db.Rebind(query)

	var rows []sessionStudentRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return fmt.Errorf("load rosters: %w", err)
	}

	bySession := make(map[string][]string, len(sessions))
	for _, row := range rows {
		bySession[row.SessionID] = append(bySession[row.SessionID], row.StudentID)
	}
	for i := range sessions {
		sessions[i].StudentIDs = bySession[sessions[i].ID]
	}
	return nil
}
