package timetable

import "sort"

// ScoreWeights carries the additive scoring deltas applied on top of the base
// score. Keeping the table as data lets the heuristic be tuned and tested
// independently of the generation loop.
type ScoreWeights struct {
	PreferredRoomType int
	JokerRoom         int
	RoomTypeMismatch  int
	AdequateOccupancy int
	NearlyFull        int
	BusinessHours     int
	EveningHours      int
	FirstClassOfDay   int
	BusyTeacherDay    int
	BackToBack        int
	Saturday          int
}

// DefaultScoreWeights returns the production weight table.
func DefaultScoreWeights() ScoreWeights {
	return ScoreWeights{
		PreferredRoomType: 20,
		JokerRoom:         10,
		RoomTypeMismatch:  -15,
		AdequateOccupancy: 10,
		NearlyFull:        -5,
		BusinessHours:     5,
		EveningHours:      3,
		FirstClassOfDay:   10,
		BusyTeacherDay:    -10,
		BackToBack:        5,
		Saturday:          -5,
	}
}

const (
	baseScore       = 100
	maxScore        = 100
	businessFrom    = 9
	businessUntil   = 17
	eveningFromHour = 19
	busyDayClasses  = 4

	// DefaultSuggestionLimit caps the number of returned suggestions when the
	// caller does not ask for a specific count.
	DefaultSuggestionLimit = 5

	occupancyAdequateFrom = 0.5
	occupancyNearlyFull   = 0.8
)

// SuggestionRequest bundles everything the recommender needs: the teacher and
// unit under consideration, the snapshot of existing sessions and rooms, the
// operating hours, and optional preferences.
type SuggestionRequest struct {
	TeacherID         string
	CourseID          *string
	UnitID            string
	DurationMinutes   int
	Sessions          []Session
	Rooms             []Room
	Hours             OperatingHours
	PreferredRoomType string
	StudentIDs        []string
	SlotStepMinutes   int
	Weights           *ScoreWeights
}

// Suggestion is one ranked open slot.
type Suggestion struct {
	Day      Weekday   `json:"day"`
	Start    TimeOfDay `json:"start"`
	End      TimeOfDay `json:"end"`
	RoomID   string    `json:"roomId"`
	RoomName string    `json:"roomName"`
	Score    int       `json:"score"`
	Reasons  []string  `json:"reasons,omitempty"`
	Caveats  []string  `json:"caveats,omitempty"`
}

// scoredSlot pairs a suggestion with its unclamped total. Ranking compares the
// totals; the suggestion itself carries the clamped, reportable score.
type scoredSlot struct {
	suggestion Suggestion
	total      int
}

// SuggestSlots enumerates every open day/time/room combination within operating
// hours and ranks it with the weight table. The generator is deliberately an
// exhaustive generate-and-score pass rather than a search: ranking compares the
// unclamped totals so slots capped at the score ceiling keep their relative
// order, and ties in the total keep generation order (Monday first, rooms in
// input order), so output is fully deterministic. Invalid inputs simply yield
// fewer or zero suggestions; this never fails.
func SuggestSlots(req SuggestionRequest, limit int) []Suggestion {
	if limit <= 0 {
		limit = DefaultSuggestionLimit
	}
	if req.DurationMinutes <= 0 {
		return nil
	}
	weights := DefaultScoreWeights()
	if req.Weights != nil {
		weights = *req.Weights
	}

	rooms := unitRooms(req.Rooms, req.UnitID)
	teacherByDay := teacherSessionsByDay(req.Sessions, req.TeacherID)

	var scored []scoredSlot
	for _, day := range AllWeekdays {
		window, open := req.Hours.Window(day)
		if !open {
			continue
		}
		dayTeacherSessions := teacherByDay[day]

		it := window.Slots(req.SlotStepMinutes)
		for {
			slotStart, ok := it.Next()
			if !ok {
				break
			}
			slot := Interval{Start: slotStart, End: slotStart.Add(req.DurationMinutes)}
			// Guards partial trailing slots that would spill past closing.
			if !window.Contains(slot) {
				continue
			}
			if teacherBusy(dayTeacherSessions, slot) {
				continue
			}

			for _, room := range rooms {
				if roomBusy(req.Sessions, room.ID, day, slot) {
					continue
				}
				if room.Capacity > 0 && len(req.StudentIDs) > room.Capacity {
					continue
				}
				s := scoreSlot(req, weights, day, slot, room, dayTeacherSessions)
				total := s.Score
				s.Score = clampScore(total)
				if s.Score > 0 {
					scored = append(scored, scoredSlot{suggestion: s, total: total})
				}
			}
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].total > scored[j].total
	})
	if len(scored) > limit {
		scored = scored[:limit]
	}
	suggestions := make([]Suggestion, 0, len(scored))
	for _, sc := range scored {
		suggestions = append(suggestions, sc.suggestion)
	}
	return suggestions
}

// scoreSlot returns the suggestion with its unclamped total in Score; the
// caller clamps for output.
func scoreSlot(req SuggestionRequest, w ScoreWeights, day Weekday, slot Interval, room Room, teacherSessions []Session) Suggestion {
	s := Suggestion{
		Day:      day,
		Start:    slot.Start,
		End:      slot.End,
		RoomID:   room.ID,
		RoomName: room.Name,
		Score:    baseScore,
	}

	if req.PreferredRoomType != "" {
		switch {
		case room.RoomType == req.PreferredRoomType:
			s.boost(w.PreferredRoomType, "compatible room type")
		case room.Joker:
			s.boost(w.JokerRoom, "joker room available")
		default:
			s.flag(w.RoomTypeMismatch, "room type differs from preferred")
		}
	}

	if len(req.StudentIDs) > 0 && room.Capacity > 0 {
		ratio := float64(len(req.StudentIDs)) / float64(room.Capacity)
		switch {
		case ratio >= occupancyAdequateFrom && ratio <= occupancyNearlyFull:
			s.boost(w.AdequateOccupancy, "adequate capacity")
		case ratio > occupancyNearlyFull:
			s.flag(w.NearlyFull, "room nearly full")
		}
	}

	hour := slot.Start.Hour()
	switch {
	case hour >= businessFrom && hour <= businessUntil:
		s.boost(w.BusinessHours, "business hours")
	case hour >= eveningFromHour:
		s.boost(w.EveningHours, "evening hours")
	}

	switch {
	case len(teacherSessions) == 0:
		s.boost(w.FirstClassOfDay, "first class of the day for teacher")
	case len(teacherSessions) >= busyDayClasses:
		s.flag(w.BusyTeacherDay, "teacher already has many classes this day")
	}

	for _, existing := range teacherSessions {
		if existing.End == slot.Start || existing.Start == slot.End {
			s.boost(w.BackToBack, "adjacent to another class")
			break
		}
	}

	if day == Saturday {
		s.Score += w.Saturday
	}

	return s
}

// boost and flag apply one weighted adjustment and record its annotation. A
// zero delta means the adjustment is disabled in the weight table, so it
// leaves score and annotations untouched.
func (s *Suggestion) boost(delta int, reason string) {
	if delta == 0 {
		return
	}
	s.Score += delta
	s.Reasons = append(s.Reasons, reason)
}

func (s *Suggestion) flag(delta int, caveat string) {
	if delta == 0 {
		return
	}
	s.Score += delta
	s.Caveats = append(s.Caveats, caveat)
}

func clampScore(score int) int {
	if score > maxScore {
		return maxScore
	}
	if score < 0 {
		return 0
	}
	return score
}

func unitRooms(rooms []Room, unitID string) []Room {
	result := make([]Room, 0, len(rooms))
	for _, r := range rooms {
		if r.UnitID == unitID {
			result = append(result, r)
		}
	}
	return result
}

func teacherSessionsByDay(sessions []Session, teacherID string) map[Weekday][]Session {
	byDay := make(map[Weekday][]Session)
	for _, s := range sessions {
		if s.Active && s.TeacherID == teacherID {
			byDay[s.Day] = append(byDay[s.Day], s)
		}
	}
	return byDay
}

func teacherBusy(sessions []Session, slot Interval) bool {
	for _, s := range sessions {
		if slot.Overlaps(s.Interval()) {
			return true
		}
	}
	return false
}

func roomBusy(sessions []Session, roomID string, day Weekday, slot Interval) bool {
	for _, s := range sessions {
		if !s.Active || s.Day != day || s.RoomID == nil || *s.RoomID != roomID {
			continue
		}
		if slot.Overlaps(s.Interval()) {
			return true
		}
	}
	return false
}
