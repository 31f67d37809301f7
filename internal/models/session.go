package models

import (
	"fmt"
	"time"

	"github.com/harmonia-app/agenda-api/internal/timetable"
)

// ClassSession represents a recurring weekly class slot for a unit.
// Day names and HH:MM strings are the storage representation; the scheduling
// core works on parsed value types.
type ClassSession struct {
	ID         string    `db:"id" json:"id"`
	UnitID     string    `db:"unit_id" json:"unit_id"`
	Name       string    `db:"name" json:"name"`
	TeacherID  string    `db:"teacher_id" json:"teacher_id"`
	RoomID     *string   `db:"room_id" json:"room_id,omitempty"`
	CourseID   *string   `db:"course_id" json:"course_id,omitempty"`
	DayOfWeek  string    `db:"day_of_week" json:"day_of_week"`
	StartTime  string    `db:"start_time" json:"start_time"`
	EndTime    string    `db:"end_time" json:"end_time"`
	Capacity   int       `db:"capacity" json:"capacity"`
	Active     bool      `db:"active" json:"active"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
	StudentIDs []string  `db:"-" json:"student_ids"`
}

// SessionFilter describes query params for listing class sessions.
type SessionFilter struct {
	UnitID    string
	TeacherID string
	RoomID    string
	DayOfWeek string
	Active    *bool
	Page      int
	PageSize  int
}

// ToTimetable parses the row into the scheduling core's value type.
func (s ClassSession) ToTimetable() (timetable.Session, error) {
	day, ok := timetable.ParseWeekday(s.DayOfWeek)
	if !ok {
		return timetable.Session{}, fmt.Errorf("session %s: unknown day %q", s.ID, s.DayOfWeek)
	}
	start, err := timetable.ParseTimeOfDay(s.StartTime)
	if err != nil {
		return timetable.Session{}, fmt.Errorf("session %s: %w", s.ID, err)
	}
	end, err := timetable.ParseTimeOfDay(s.EndTime)
	if err != nil {
		return timetable.Session{}, fmt.Errorf("session %s: %w", s.ID, err)
	}
	return timetable.Session{
		ID:         s.ID,
		UnitID:     s.UnitID,
		Name:       s.Name,
		TeacherID:  s.TeacherID,
		RoomID:     s.RoomID,
		CourseID:   s.CourseID,
		Day:        day,
		Start:      start,
		End:        end,
		Capacity:   s.Capacity,
		StudentIDs: s.StudentIDs,
		Active:     s.Active,
	}, nil
}

// SessionsToTimetable converts rows, skipping none: a malformed row fails the
// whole snapshot so stale bad data is surfaced instead of silently ignored.
func SessionsToTimetable(sessions []ClassSession) ([]timetable.Session, error) {
	result := make([]timetable.Session, 0, len(sessions))
	for _, s := range sessions {
		converted, err := s.ToTimetable()
		if err != nil {
			return nil, err
		}
		result = append(result, converted)
	}
	return result, nil
}
