package models

import (
	"fmt"
	"time"

	"github.com/harmonia-app/agenda-api/internal/timetable"
)

// UnitHours stores the operating windows of a unit per day category.
// A NULL open time marks the category as closed.
type UnitHours struct {
	UnitID        string    `db:"unit_id" json:"unit_id"`
	WeekdayOpen   *string   `db:"weekday_open" json:"weekday_open,omitempty"`
	WeekdayClose  *string   `db:"weekday_close" json:"weekday_close,omitempty"`
	SaturdayOpen  *string   `db:"saturday_open" json:"saturday_open,omitempty"`
	SaturdayClose *string   `db:"saturday_close" json:"saturday_close,omitempty"`
	SundayOpen    *string   `db:"sunday_open" json:"sunday_open,omitempty"`
	SundayClose   *string   `db:"sunday_close" json:"sunday_close,omitempty"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// ToTimetable parses the row into the core's operating-hours table.
func (h UnitHours) ToTimetable() (timetable.OperatingHours, error) {
	weekdays, err := parseWindow(h.WeekdayOpen, h.WeekdayClose)
	if err != nil {
		return timetable.OperatingHours{}, fmt.Errorf("unit %s weekday hours: %w", h.UnitID, err)
	}
	saturday, err := parseWindow(h.SaturdayOpen, h.SaturdayClose)
	if err != nil {
		return timetable.OperatingHours{}, fmt.Errorf("unit %s saturday hours: %w", h.UnitID, err)
	}
	sunday, err := parseWindow(h.SundayOpen, h.SundayClose)
	if err != nil {
		return timetable.OperatingHours{}, fmt.Errorf("unit %s sunday hours: %w", h.UnitID, err)
	}
	return timetable.OperatingHours{Weekdays: weekdays, Saturday: saturday, Sunday: sunday}, nil
}

func parseWindow(open, close *string) (*timetable.Interval, error) {
	if open == nil || close == nil {
		return nil, nil
	}
	start, err := timetable.ParseTimeOfDay(*open)
	if err != nil {
		return nil, err
	}
	end, err := timetable.ParseTimeOfDay(*close)
	if err != nil {
		return nil, err
	}
	if start >= end {
		return nil, fmt.Errorf("window %s-%s is empty", start, end)
	}
	return &timetable.Interval{Start: start, End: end}, nil
}
