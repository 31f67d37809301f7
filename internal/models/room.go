package models

import (
	"time"

	"github.com/harmonia-app/agenda-api/internal/timetable"
)

// Room represents a bookable room at a unit.
type Room struct {
	ID        string    `db:"id" json:"id"`
	UnitID    string    `db:"unit_id" json:"unit_id"`
	Name      string    `db:"name" json:"name"`
	Capacity  int       `db:"capacity" json:"capacity"`
	RoomType  *string   `db:"room_type" json:"room_type,omitempty"`
	Joker     bool      `db:"joker" json:"joker"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// ToTimetable maps the row to the scheduling core's value type.
func (r Room) ToTimetable() timetable.Room {
	roomType := ""
	if r.RoomType != nil {
		roomType = *r.RoomType
	}
	return timetable.Room{
		ID:       r.ID,
		UnitID:   r.UnitID,
		Name:     r.Name,
		Capacity: r.Capacity,
		RoomType: roomType,
		Joker:    r.Joker,
	}
}

// RoomsToTimetable converts a slice of rows preserving order.
func RoomsToTimetable(rooms []Room) []timetable.Room {
	result := make([]timetable.Room, 0, len(rooms))
	for _, r := range rooms {
		result = append(result, r.ToTimetable())
	}
	return result
}
