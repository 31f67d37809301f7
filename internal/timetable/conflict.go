package timetable

import (
	"fmt"
	"math"
	"strings"
)

// Room describes a bookable room at a unit.
type Room struct {
	ID       string
	UnitID   string
	Name     string
	Capacity int
	RoomType string
	// Joker marks a room flexible enough to host course types it is not
	// primarily tagged for.
	Joker bool
}

// Session is an existing scheduled class, read from a snapshot supplied by the
// caller. The detector never mutates sessions.
type Session struct {
	ID         string
	UnitID     string
	Name       string
	TeacherID  string
	RoomID     *string
	CourseID   *string
	Day        Weekday
	Start      TimeOfDay
	End        TimeOfDay
	Capacity   int
	StudentIDs []string
	Active     bool
}

// Interval returns the session's time range.
func (s Session) Interval() Interval {
	return Interval{Start: s.Start, End: s.End}
}

// Placement is the new or edited class under evaluation. ID is set only when
// editing, so the session can be excluded from conflicting with itself.
type Placement struct {
	ID         string
	UnitID     string
	TeacherID  string
	RoomID     *string
	Day        Weekday
	Start      TimeOfDay
	End        TimeOfDay
	StudentIDs []string
}

// Interval returns the candidate's time range.
func (p Placement) Interval() Interval {
	return Interval{Start: p.Start, End: p.End}
}

// ConflictKind identifies the violated scheduling rule.
type ConflictKind string

const (
	ConflictRoom           ConflictKind = "room"
	ConflictTeacher        ConflictKind = "teacher"
	ConflictStudent        ConflictKind = "student"
	ConflictOperatingHours ConflictKind = "operating_hours"
	ConflictCapacity       ConflictKind = "capacity"
)

// Severity splits conflicts into save-blocking errors and acknowledgeable
// warnings.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Conflict reports a single rule violation for a candidate placement.
type Conflict struct {
	Kind       ConflictKind `json:"kind"`
	Severity   Severity     `json:"severity"`
	Message    string       `json:"message"`
	Detail     string       `json:"detail,omitempty"`
	SessionIDs []string     `json:"sessionIds,omitempty"`
}

// nearCapacityRatio is the occupancy ratio at which a capacity warning fires.
const nearCapacityRatio = 0.8

// DetectConflicts evaluates a candidate placement against the full snapshot of
// existing sessions for a unit. Every rule is applied independently so the
// caller can surface all problems at once; the returned order is stable:
// room, teacher, student, operating hours, capacity. An empty result means the
// candidate can be committed legally.
func DetectConflicts(candidate Placement, existing []Session, rooms []Room, hours *OperatingHours) []Conflict {
	conflicts := make([]Conflict, 0, 4)

	if c := detectRoomConflict(candidate, existing); c != nil {
		conflicts = append(conflicts, *c)
	}
	if c := detectTeacherConflict(candidate, existing); c != nil {
		conflicts = append(conflicts, *c)
	}
	if c := detectStudentConflict(candidate, existing); c != nil {
		conflicts = append(conflicts, *c)
	}
	if hours != nil {
		if c := detectHoursConflict(candidate, *hours); c != nil {
			conflicts = append(conflicts, *c)
		}
	}
	if c := detectCapacityConflict(candidate, rooms); c != nil {
		conflicts = append(conflicts, *c)
	}

	return conflicts
}

// HasBlockingConflicts reports whether any conflict carries error severity.
func HasBlockingConflicts(conflicts []Conflict) bool {
	for _, c := range conflicts {
		if c.Severity == SeverityError {
			return true
		}
	}
	return false
}

// GroupBySeverity splits conflicts into errors and warnings preserving order.
func GroupBySeverity(conflicts []Conflict) (errors, warnings []Conflict) {
	for _, c := range conflicts {
		if c.Severity == SeverityError {
			errors = append(errors, c)
		} else {
			warnings = append(warnings, c)
		}
	}
	return errors, warnings
}

// collides applies the shared filter used by the room and teacher rules:
// active, not the candidate itself, same day, overlapping interval.
func collides(candidate Placement, s Session) bool {
	if !s.Active || s.ID == candidate.ID || s.Day != candidate.Day {
		return false
	}
	return candidate.Interval().Overlaps(s.Interval())
}

func sessionSummary(sessions []Session) string {
	parts := make([]string, 0, len(sessions))
	for _, s := range sessions {
		label := s.Name
		if label == "" {
			label = s.ID
		}
		parts = append(parts, fmt.Sprintf("%s (%s)", label, s.Interval()))
	}
	return strings.Join(parts, ", ")
}

func detectRoomConflict(candidate Placement, existing []Session) *Conflict {
	if candidate.RoomID == nil {
		return nil
	}
	var matched []Session
	for _, s := range existing {
		if s.RoomID != nil && *s.RoomID == *candidate.RoomID && collides(candidate, s) {
			matched = append(matched, s)
		}
	}
	if len(matched) == 0 {
		return nil
	}
	return &Conflict{
		Kind:       ConflictRoom,
		Severity:   SeverityError,
		Message:    "room is already booked at this time",
		Detail:     sessionSummary(matched),
		SessionIDs: sessionIDs(matched),
	}
}

func detectTeacherConflict(candidate Placement, existing []Session) *Conflict {
	var matched []Session
	for _, s := range existing {
		if s.TeacherID == candidate.TeacherID && collides(candidate, s) {
			matched = append(matched, s)
		}
	}
	if len(matched) == 0 {
		return nil
	}
	return &Conflict{
		Kind:       ConflictTeacher,
		Severity:   SeverityError,
		Message:    "teacher already has a class at this time",
		Detail:     sessionSummary(matched),
		SessionIDs: sessionIDs(matched),
	}
}

func detectStudentConflict(candidate Placement, existing []Session) *Conflict {
	if len(candidate.StudentIDs) == 0 {
		return nil
	}
	affected := make(map[string]struct{})
	classes := make(map[string]struct{})
	var matched []Session
	for _, s := range existing {
		if !collides(candidate, s) {
			continue
		}
		enrolled := make(map[string]struct{}, len(s.StudentIDs))
		for _, id := range s.StudentIDs {
			enrolled[id] = struct{}{}
		}
		hit := false
		for _, id := range candidate.StudentIDs {
			if _, ok := enrolled[id]; ok {
				affected[id] = struct{}{}
				hit = true
			}
		}
		if hit {
			if _, seen := classes[s.ID]; !seen {
				classes[s.ID] = struct{}{}
				matched = append(matched, s)
			}
		}
	}
	if len(affected) == 0 {
		return nil
	}
	// One aggregate warning regardless of how many students are affected.
	// Student double-booking is flagged but does not block the save.
	return &Conflict{
		Kind:       ConflictStudent,
		Severity:   SeverityWarning,
		Message:    fmt.Sprintf("%d student(s) already enrolled in another class at this time", len(affected)),
		Detail:     sessionSummary(matched),
		SessionIDs: sessionIDs(matched),
	}
}

func detectHoursConflict(candidate Placement, hours OperatingHours) *Conflict {
	if hours.Allows(candidate.Day, candidate.Interval()) {
		return nil
	}
	if candidate.Day == Sunday {
		if _, open := hours.Window(Sunday); !open {
			return &Conflict{
				Kind:     ConflictOperatingHours,
				Severity: SeverityError,
				Message:  "unit is closed on Sundays",
				Detail:   candidate.Interval().String(),
			}
		}
	}
	detail := candidate.Interval().String()
	if window, open := hours.Window(candidate.Day); open {
		detail = fmt.Sprintf("%s outside operating window %s", candidate.Interval(), window)
	}
	return &Conflict{
		Kind:     ConflictOperatingHours,
		Severity: SeverityWarning,
		Message:  "class falls outside operating hours",
		Detail:   detail,
	}
}

func detectCapacityConflict(candidate Placement, rooms []Room) *Conflict {
	if candidate.RoomID == nil {
		return nil
	}
	var room *Room
	for i := range rooms {
		if rooms[i].ID == *candidate.RoomID {
			room = &rooms[i]
			break
		}
	}
	if room == nil || room.Capacity <= 0 {
		return nil
	}
	n := len(candidate.StudentIDs)
	switch {
	case n > room.Capacity:
		return &Conflict{
			Kind:     ConflictCapacity,
			Severity: SeverityError,
			Message:  fmt.Sprintf("room %s holds %d students, %d assigned", room.Name, room.Capacity, n),
			Detail:   fmt.Sprintf("%d/%d", n, room.Capacity),
		}
	case float64(n) >= nearCapacityRatio*float64(room.Capacity):
		pct := int(math.Round(float64(n) / float64(room.Capacity) * 100))
		return &Conflict{
			Kind:     ConflictCapacity,
			Severity: SeverityWarning,
			Message:  fmt.Sprintf("room %s almost full (%d%%)", room.Name, pct),
			Detail:   fmt.Sprintf("%d/%d", n, room.Capacity),
		}
	default:
		return nil
	}
}

func sessionIDs(sessions []Session) []string {
	ids := make([]string, 0, len(sessions))
	for _, s := range sessions {
		ids = append(ids, s.ID)
	}
	return ids
}
