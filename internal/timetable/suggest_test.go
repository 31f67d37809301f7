package timetable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuggestSlotsEndToEnd(t *testing.T) {
	roomID := "room-1"
	req := SuggestionRequest{
		TeacherID:       "teacher-t",
		UnitID:          "unit-1",
		DurationMinutes: 60,
		Sessions: []Session{
			session("s1", "teacher-t", &roomID, Monday, "09:00", "10:00"),
		},
		Rooms: []Room{
			{ID: "room-1", UnitID: "unit-1", Name: "Studio A", Capacity: 4},
			{ID: "room-2", UnitID: "unit-1", Name: "Studio B", Capacity: 2},
		},
		Hours: weekHours(t),
	}

	suggestions := SuggestSlots(req, 3)
	require.Len(t, suggestions, 3)

	// Monday slots lose the first-class bonus to the existing 09:00 class, so
	// the top pick lands on a later day even though everything hits the cap.
	top := suggestions[0]
	assert.NotEqual(t, Monday, top.Day)
	assert.Contains(t, top.Reasons, "first class of the day for teacher")

	firstClassSeen := false
	for _, s := range suggestions {
		assert.NotEqual(t, Sunday, s.Day, "closed day must never be suggested")
		if s.Day == Monday && s.Start == MustParseTimeOfDay("09:00") {
			t.Errorf("suggested a slot where the teacher is already booked: %v", s)
		}
		assert.Greater(t, s.Score, 0)
		assert.LessOrEqual(t, s.Score, 100)
		for _, reason := range s.Reasons {
			if reason == "first class of the day for teacher" {
				assert.NotEqual(t, Monday, s.Day)
				firstClassSeen = true
			}
		}
	}
	assert.True(t, firstClassSeen, "expected a first-class-of-day bonus on a day other than Monday")
}

func TestSuggestSlotsPrunesBookedRooms(t *testing.T) {
	roomA := "room-1"
	roomB := "room-2"
	req := SuggestionRequest{
		TeacherID:       "teacher-t",
		UnitID:          "unit-1",
		DurationMinutes: 60,
		Sessions: []Session{
			session("s1", "teacher-x", &roomA, Tuesday, "14:00", "15:00"),
			session("s2", "teacher-y", &roomB, Tuesday, "14:00", "15:00"),
		},
		Rooms: []Room{
			{ID: roomA, UnitID: "unit-1", Name: "Studio A", Capacity: 4},
			{ID: roomB, UnitID: "unit-1", Name: "Studio B", Capacity: 4},
		},
		Hours: weekHours(t),
	}

	suggestions := SuggestSlots(req, 500)
	for _, s := range suggestions {
		if s.Day == Tuesday && s.Start == MustParseTimeOfDay("14:00") {
			t.Errorf("booked room surfaced as suggestion: %+v", s)
		}
	}
}

func TestSuggestSlotsTeacherBusyPrunesWholeSlot(t *testing.T) {
	roomA := "room-1"
	req := SuggestionRequest{
		TeacherID:       "teacher-t",
		UnitID:          "unit-1",
		DurationMinutes: 60,
		Sessions: []Session{
			session("s1", "teacher-t", &roomA, Monday, "10:00", "11:00"),
		},
		Rooms: []Room{
			{ID: "room-1", UnitID: "unit-1", Name: "Studio A", Capacity: 4},
			{ID: "room-2", UnitID: "unit-1", Name: "Studio B", Capacity: 4},
		},
		Hours: weekHours(t),
	}

	suggestions := SuggestSlots(req, 1000)
	for _, s := range suggestions {
		if s.Day == Monday && s.Start == MustParseTimeOfDay("10:00") {
			t.Errorf("teacher-busy slot must be pruned for every room, got %+v", s)
		}
	}
}

func TestSuggestSlotsExcludesUndersizedRooms(t *testing.T) {
	req := SuggestionRequest{
		TeacherID:       "teacher-t",
		UnitID:          "unit-1",
		DurationMinutes: 60,
		StudentIDs:      students(3),
		Rooms: []Room{
			{ID: "room-small", UnitID: "unit-1", Name: "Booth", Capacity: 2},
			{ID: "room-big", UnitID: "unit-1", Name: "Hall", Capacity: 12},
		},
		Hours: weekHours(t),
	}

	suggestions := SuggestSlots(req, 1000)
	require.NotEmpty(t, suggestions)
	for _, s := range suggestions {
		assert.Equal(t, "room-big", s.RoomID)
	}
}

func TestSuggestSlotsRoomTypeScoring(t *testing.T) {
	req := SuggestionRequest{
		TeacherID:         "teacher-t",
		UnitID:            "unit-1",
		DurationMinutes:   60,
		PreferredRoomType: "piano",
		Rooms: []Room{
			{ID: "room-drums", UnitID: "unit-1", Name: "Drum Room", Capacity: 4, RoomType: "drums"},
			{ID: "room-piano", UnitID: "unit-1", Name: "Piano Room", Capacity: 4, RoomType: "piano"},
			{ID: "room-joker", UnitID: "unit-1", Name: "Multi Room", Capacity: 4, RoomType: "drums", Joker: true},
		},
		Hours: weekHours(t),
	}

	suggestions := SuggestSlots(req, 3000)
	require.NotEmpty(t, suggestions)

	byRoom := map[string]Suggestion{}
	rankByRoom := map[string]int{}
	for i, s := range suggestions {
		if s.Day == Monday && s.Start == MustParseTimeOfDay("10:00") {
			byRoom[s.RoomID] = s
			rankByRoom[s.RoomID] = i
		}
	}
	require.Len(t, byRoom, 3)
	assert.Contains(t, byRoom["room-piano"].Reasons, "compatible room type")
	assert.Contains(t, byRoom["room-joker"].Reasons, "joker room available")
	assert.Contains(t, byRoom["room-drums"].Caveats, "room type differs from preferred")
	// The room-type deltas all land above the cap, so the reported scores tie
	// at 100; the ranking still reflects them.
	assert.Less(t, rankByRoom["room-piano"], rankByRoom["room-joker"])
	assert.Less(t, rankByRoom["room-joker"], rankByRoom["room-drums"])
}

func TestSuggestSlotsOccupancyScoring(t *testing.T) {
	weights := DefaultScoreWeights()
	req := SuggestionRequest{
		TeacherID:       "teacher-t",
		UnitID:          "unit-1",
		DurationMinutes: 60,
		StudentIDs:      students(3),
		Rooms: []Room{
			{ID: "room-fit", UnitID: "unit-1", Name: "Fit", Capacity: 5},
			{ID: "room-tight", UnitID: "unit-1", Name: "Tight", Capacity: 3},
			{ID: "room-vast", UnitID: "unit-1", Name: "Vast", Capacity: 30},
		},
		Hours:   weekHours(t),
		Weights: &weights,
	}

	suggestions := SuggestSlots(req, 3000)
	seenFit, seenTight, seenVast := false, false, false
	for _, s := range suggestions {
		switch s.RoomID {
		case "room-fit":
			assert.Contains(t, s.Reasons, "adequate capacity")
			seenFit = true
		case "room-tight":
			assert.Contains(t, s.Caveats, "room nearly full")
			seenTight = true
		case "room-vast":
			assert.NotContains(t, s.Reasons, "adequate capacity")
			assert.NotContains(t, s.Caveats, "room nearly full")
			seenVast = true
		}
	}
	assert.True(t, seenFit && seenTight && seenVast)
}

func TestSuggestSlotsDayPartScoring(t *testing.T) {
	evening := iv(t, "18:00", "22:00")
	req := SuggestionRequest{
		TeacherID:       "teacher-t",
		UnitID:          "unit-1",
		DurationMinutes: 60,
		Rooms:           []Room{{ID: "room-1", UnitID: "unit-1", Name: "Studio A", Capacity: 4}},
		Hours:           OperatingHours{Weekdays: &evening},
	}

	suggestions := SuggestSlots(req, 3000)
	for _, s := range suggestions {
		switch s.Start.Hour() {
		case 18:
			assert.NotContains(t, s.Reasons, "evening hours")
			assert.NotContains(t, s.Reasons, "business hours")
		case 19, 20, 21:
			assert.Contains(t, s.Reasons, "evening hours")
		}
	}
}

func TestSuggestSlotsAdjacencyBonus(t *testing.T) {
	roomA := "room-1"
	req := SuggestionRequest{
		TeacherID:       "teacher-t",
		UnitID:          "unit-1",
		DurationMinutes: 60,
		Sessions: []Session{
			session("s1", "teacher-t", &roomA, Monday, "10:00", "11:00"),
		},
		Rooms: []Room{{ID: "room-2", UnitID: "unit-1", Name: "Studio B", Capacity: 4}},
		Hours: weekHours(t),
	}

	suggestions := SuggestSlots(req, 3000)
	found := false
	for _, s := range suggestions {
		if s.Day == Monday && s.Start == MustParseTimeOfDay("11:00") {
			assert.Contains(t, s.Reasons, "adjacent to another class")
			found = true
		}
		if s.Day == Monday && s.Start == MustParseTimeOfDay("13:00") {
			assert.NotContains(t, s.Reasons, "adjacent to another class")
		}
	}
	assert.True(t, found)
}

func TestSuggestSlotsSaturdayPenaltyIsSilent(t *testing.T) {
	weights := DefaultScoreWeights()
	// Neutralize everything except the Saturday penalty so the delta is visible.
	weights.FirstClassOfDay = 0
	weights.BusinessHours = 0
	weights.EveningHours = 0

	req := SuggestionRequest{
		TeacherID:       "teacher-t",
		UnitID:          "unit-1",
		DurationMinutes: 60,
		Rooms:           []Room{{ID: "room-1", UnitID: "unit-1", Name: "Studio A", Capacity: 4}},
		Hours:           weekHours(t),
		Weights:         &weights,
	}

	suggestions := SuggestSlots(req, 3000)
	for _, s := range suggestions {
		if s.Day == Saturday {
			assert.Equal(t, 95, s.Score)
			assert.Empty(t, s.Reasons)
			assert.Empty(t, s.Caveats)
		} else {
			assert.Equal(t, 100, s.Score)
		}
	}
}

func TestSuggestSlotsRankingStability(t *testing.T) {
	// Zero the additive bonuses so totals stay below the cap and the reported
	// score equals the ranking total; a tie in the output is then a real tie.
	weights := DefaultScoreWeights()
	weights.FirstClassOfDay = 0
	weights.BusinessHours = 0
	weights.EveningHours = 0

	req := SuggestionRequest{
		TeacherID:       "teacher-t",
		UnitID:          "unit-1",
		DurationMinutes: 60,
		Rooms: []Room{
			{ID: "room-1", UnitID: "unit-1", Name: "Studio A", Capacity: 4},
			{ID: "room-2", UnitID: "unit-1", Name: "Studio B", Capacity: 4},
		},
		Hours:   weekHours(t),
		Weights: &weights,
	}

	suggestions := SuggestSlots(req, 4000)
	require.NotEmpty(t, suggestions)

	// Equal scores keep generation order: Monday before Tuesday, rooms in
	// input order.
	roomOrder := map[string]int{"room-1": 0, "room-2": 1}
	for i := 1; i < len(suggestions); i++ {
		prev, cur := suggestions[i-1], suggestions[i]
		assert.GreaterOrEqual(t, prev.Score, cur.Score)
		if prev.Score == cur.Score {
			assert.False(t, generatedAfter(prev, cur, roomOrder), "tie broke generation order: %+v before %+v", prev, cur)
		}
	}
}

func TestSuggestSlotsRanksCappedSlotsByTotal(t *testing.T) {
	roomID := "room-1"
	req := SuggestionRequest{
		TeacherID:       "teacher-t",
		UnitID:          "unit-1",
		DurationMinutes: 60,
		Sessions: []Session{
			session("s1", "teacher-t", &roomID, Monday, "09:00", "10:00"),
		},
		Rooms: []Room{{ID: roomID, UnitID: "unit-1", Name: "Studio A", Capacity: 4}},
		Hours: weekHours(t),
	}

	suggestions := SuggestSlots(req, 10)
	require.NotEmpty(t, suggestions)

	// Monday 10:00 (business + adjacency) and Tuesday 09:00 (business + first
	// class) both report the capped 100, but Tuesday's total is higher and must
	// rank first, ahead of every Monday slot.
	top := suggestions[0]
	assert.Equal(t, Tuesday, top.Day)
	assert.Equal(t, MustParseTimeOfDay("09:00"), top.Start)
	assert.Equal(t, 100, top.Score)
	assert.Contains(t, top.Reasons, "first class of the day for teacher")
}

func TestSuggestSlotsScoreZeroIsExcluded(t *testing.T) {
	weights := DefaultScoreWeights()
	// Drives the raw score to exactly 0 before clamping: 100 - 115 + 10 + 5 = 0
	// for first-class business-hour slots in a mismatched room.
	weights.RoomTypeMismatch = -115

	req := SuggestionRequest{
		TeacherID:         "teacher-t",
		UnitID:            "unit-1",
		DurationMinutes:   60,
		PreferredRoomType: "piano",
		Rooms:             []Room{{ID: "room-1", UnitID: "unit-1", Name: "Drum Room", Capacity: 4, RoomType: "drums"}},
		Hours:             weekHours(t),
	}
	req.Weights = &weights

	suggestions := SuggestSlots(req, 5000)
	for _, s := range suggestions {
		assert.Greater(t, s.Score, 0, "clamped-to-zero slots must be filtered out")
	}
}

func TestSuggestSlotsIgnoresForeignUnitRooms(t *testing.T) {
	req := SuggestionRequest{
		TeacherID:       "teacher-t",
		UnitID:          "unit-1",
		DurationMinutes: 60,
		Rooms: []Room{
			{ID: "room-other", UnitID: "unit-2", Name: "Elsewhere", Capacity: 4},
		},
		Hours: weekHours(t),
	}
	assert.Empty(t, SuggestSlots(req, 10))
}

func TestSuggestSlotsDefaultLimit(t *testing.T) {
	req := SuggestionRequest{
		TeacherID:       "teacher-t",
		UnitID:          "unit-1",
		DurationMinutes: 60,
		Rooms:           []Room{{ID: "room-1", UnitID: "unit-1", Name: "Studio A", Capacity: 4}},
		Hours:           weekHours(t),
	}
	assert.Len(t, SuggestSlots(req, 0), DefaultSuggestionLimit)
}

func TestSuggestSlotsZeroDuration(t *testing.T) {
	req := SuggestionRequest{
		TeacherID: "teacher-t",
		UnitID:    "unit-1",
		Rooms:     []Room{{ID: "room-1", UnitID: "unit-1", Name: "Studio A", Capacity: 4}},
		Hours:     weekHours(t),
	}
	assert.Empty(t, SuggestSlots(req, 10))
}

// generatedAfter reports whether a was generated after b in the day/slot/room
// iteration order.
func generatedAfter(a, b Suggestion, roomOrder map[string]int) bool {
	if a.Day != b.Day {
		return a.Day > b.Day
	}
	if a.Start != b.Start {
		return a.Start > b.Start
	}
	return roomOrder[a.RoomID] > roomOrder[b.RoomID]
}
