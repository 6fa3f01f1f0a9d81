package model

import "time"

// BlockedTime is an admin-declared exclusion that removes slots from
// availability regardless of bookings. Full-day blocks ignore the time
// fields; partial blocks need both and start_time < end_time. It has no
// relation to booking rows, availability simply subtracts it.
type BlockedTime struct {
	ID        string    `json:"id,omitempty" bson:"_id,omitempty"`
	Date      string    `json:"date,omitempty" bson:"date,omitempty" validate:"omitempty,calendar_date"`
	StartTime string    `json:"start_time,omitempty" bson:"start_time,omitempty" validate:"omitempty,wall_clock"`
	EndTime   string    `json:"end_time,omitempty" bson:"end_time,omitempty" validate:"omitempty,wall_clock"`
	IsFullDay bool      `json:"is_full_day" bson:"is_full_day"`
	Reason    string    `json:"reason,omitempty" bson:"reason,omitempty" validate:"omitempty,max=200"`
	CreatedAt time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}
