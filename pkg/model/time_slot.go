package model

import "time"

// TimeSlot is one bookable (date, start_time) unit. The pair (date,
// start_time) is unique system-wide; the row is created lazily on the first
// booking attempt for that slot and is never deleted while a booking
// references it.
type TimeSlot struct {
	ID        string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Date      string    `json:"date" bson:"date" validate:"required,calendar_date"`
	StartTime string    `json:"start_time" bson:"start_time" validate:"required,wall_clock"`
	EndTime   string    `json:"end_time" bson:"end_time" validate:"required,wall_clock"`
	IsActive  bool      `json:"is_active" bson:"is_active"`
	CreatedAt time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

// DaySlot is one entry of a day's availability grid.
type DaySlot struct {
	StartTime   string `json:"start_time"`
	IsAvailable bool   `json:"is_available"`
}

// DayAvailability is the full grid for one calendar day.
type DayAvailability struct {
	Date  string    `json:"date"`
	Slots []DaySlot `json:"slots"`
}
