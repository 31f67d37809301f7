package dto

// CreateRoomRequest registers a bookable room at a unit.
type CreateRoomRequest struct {
	UnitID   string  `json:"unitId" validate:"required"`
	Name     string  `json:"name" validate:"required"`
	Capacity int     `json:"capacity" validate:"required,min=1"`
	RoomType *string `json:"roomType"`
	Joker    bool    `json:"joker"`
}

// HoursWindowPayload is one open/close pair in HH:MM form.
type HoursWindowPayload struct {
	Open  string `json:"open" validate:"required"`
	Close string `json:"close" validate:"required"`
}

// SetHoursRequest replaces a unit's operating hours. An absent category means
// the unit is closed on those days.
type SetHoursRequest struct {
	Weekdays *HoursWindowPayload `json:"weekdays"`
	Saturday *HoursWindowPayload `json:"saturday"`
	Sunday   *HoursWindowPayload `json:"sunday"`
}
