package dto

import "github.com/harmonia-app/agenda-api/internal/timetable"

// ValidateSessionRequest describes a new or edited class placement to check
// against the unit's existing commitments. SessionID is set only when editing
// so the placement does not conflict with its own stored state.
type ValidateSessionRequest struct {
	SessionID  *string  `json:"sessionId"`
	UnitID     string   `json:"unitId" validate:"required"`
	TeacherID  string   `json:"teacherId" validate:"required"`
	RoomID     *string  `json:"roomId"`
	DayOfWeek  string   `json:"dayOfWeek" validate:"required"`
	StartTime  string   `json:"startTime" validate:"required"`
	EndTime    string   `json:"endTime" validate:"required"`
	StudentIDs []string `json:"studentIds"`
}

// ValidateSessionResponse groups detected conflicts by severity. Blocking is
// true when at least one error-severity conflict exists; the UI is expected to
// refuse the save in that case and to ask for confirmation on warnings.
type ValidateSessionResponse struct {
	Blocking bool                 `json:"blocking"`
	Errors   []timetable.Conflict `json:"errors"`
	Warnings []timetable.Conflict `json:"warnings"`
}

// CreateSessionRequest commits a new class session after a clean validation.
type CreateSessionRequest struct {
	UnitID     string   `json:"unitId" validate:"required"`
	Name       string   `json:"name" validate:"required"`
	TeacherID  string   `json:"teacherId" validate:"required"`
	RoomID     *string  `json:"roomId"`
	CourseID   *string  `json:"courseId"`
	DayOfWeek  string   `json:"dayOfWeek" validate:"required"`
	StartTime  string   `json:"startTime" validate:"required"`
	EndTime    string   `json:"endTime" validate:"required"`
	Capacity   int      `json:"capacity" validate:"required,min=1"`
	StudentIDs []string `json:"studentIds"`
}

// SuggestSlotsRequest asks for ranked open slots for a new class.
type SuggestSlotsRequest struct {
	UnitID            string   `json:"unitId" validate:"required"`
	TeacherID         string   `json:"teacherId" validate:"required"`
	CourseID          *string  `json:"courseId"`
	DurationMinutes   int      `json:"durationMinutes" validate:"required,min=15,max=480"`
	PreferredRoomType string   `json:"preferredRoomType"`
	StudentIDs        []string `json:"studentIds"`
	Limit             int      `json:"limit" validate:"omitempty,min=1,max=50"`
}

// SuggestionPayload is the wire form of one ranked slot, with times rendered
// back to HH:MM strings.
type SuggestionPayload struct {
	Day       string   `json:"day"`
	StartTime string   `json:"startTime"`
	EndTime   string   `json:"endTime"`
	RoomID    string   `json:"roomId"`
	RoomName  string   `json:"roomName"`
	Score     int      `json:"score"`
	Reasons   []string `json:"reasons,omitempty"`
	Caveats   []string `json:"caveats,omitempty"`
}

// SuggestSlotsResponse returns ranked suggestions for the request.
type SuggestSlotsResponse struct {
	Suggestions []SuggestionPayload `json:"suggestions"`
}

// WeeklyScheduleEntry is one row of a unit's weekly timetable view.
type WeeklyScheduleEntry struct {
	SessionID string `json:"sessionId"`
	Name      string `json:"name"`
	TeacherID string `json:"teacherId"`
	RoomName  string `json:"roomName"`
	Day       string `json:"day"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Students  int    `json:"students"`
	Capacity  int    `json:"capacity"`
}

// NewSuggestionPayload converts a core suggestion to its wire form.
func NewSuggestionPayload(s timetable.Suggestion) SuggestionPayload {
	return SuggestionPayload{
		Day:       s.Day.String(),
		StartTime: s.Start.String(),
		EndTime:   s.End.String(),
		RoomID:    s.RoomID,
		RoomName:  s.RoomName,
		Score:     s.Score,
		Reasons:   s.Reasons,
		Caveats:   s.Caveats,
	}
}
