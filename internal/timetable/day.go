package timetable

// Weekday is an ordered day-of-week enumeration. Iteration order is
// Monday-first for deterministic suggestion generation.
type Weekday int

const (
	Monday Weekday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

// AllWeekdays lists the days in canonical iteration order.
var AllWeekdays = [7]Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

var weekdayNames = [7]string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

func (d Weekday) String() string {
	if d < Monday || d > Sunday {
		return "unknown"
	}
	return weekdayNames[d]
}

// ParseWeekday maps a lowercase day name back to its Weekday.
func ParseWeekday(name string) (Weekday, bool) {
	for i, n := range weekdayNames {
		if n == name {
			return Weekday(i), true
		}
	}
	return 0, false
}

// DayCategory groups weekdays for operating-hours lookup.
type DayCategory int

const (
	CategoryWeekday DayCategory = iota
	CategorySaturday
	CategorySunday
)

// Category maps a day to its operating-hours bucket.
func (d Weekday) Category() DayCategory {
	switch d {
	case Saturday:
		return CategorySaturday
	case Sunday:
		return CategorySunday
	default:
		return CategoryWeekday
	}
}

// OperatingHours holds the per-category windows during which sessions may be
// scheduled. A nil window means the category is closed.
type OperatingHours struct {
	Weekdays *Interval
	Saturday *Interval
	Sunday   *Interval
}

// Window returns the operating window for a day, or ok=false when closed.
func (h OperatingHours) Window(d Weekday) (Interval, bool) {
	var w *Interval
	switch d.Category() {
	case CategorySaturday:
		w = h.Saturday
	case CategorySunday:
		w = h.Sunday
	default:
		w = h.Weekdays
	}
	if w == nil {
		return Interval{}, false
	}
	return *w, true
}

// Allows reports whether the interval fits fully inside the day's operating
// window. Closed days allow nothing.
func (h OperatingHours) Allows(d Weekday, iv Interval) bool {
	window, open := h.Window(d)
	if !open {
		return false
	}
	return window.Contains(iv)
}
