package model

import (
	"time"
)

type Booking struct {
	ID            string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	PackageID     string    `json:"package_id" bson:"package_id" validate:"required,mongodb"`
	SubPackageID  string    `json:"sub_package_id,omitempty" bson:"sub_package_id,omitempty" validate:"omitempty,mongodb"`
	VehicleType   string    `json:"vehicle_type" bson:"vehicle_type" validate:"required,oneof=sedan suv truck van"`
	Date          string    `json:"date" bson:"date" validate:"required,calendar_date"`
	Time          string    `json:"time" bson:"time" validate:"required,wall_clock"`
	TimeSlotID    string    `json:"time_slot_id,omitempty" bson:"time_slot_id" validate:"omitempty,mongodb"`
	Status        string    `json:"status" bson:"status" validate:"required,oneof=PENDING CONFIRMED COMPLETED CANCELLED"`
	AddOnIDs      []string  `json:"add_on_ids,omitempty" bson:"add_on_ids" validate:"omitempty,max=20,dive,mongodb"`
	CustomerName  string    `json:"customer_name" bson:"customer_name" validate:"required,min=2,max=100"`
	CustomerEmail string    `json:"customer_email" bson:"customer_email" validate:"required,email"`
	CustomerPhone string    `json:"customer_phone" bson:"customer_phone" validate:"required,e164"`
	Notes         string    `json:"notes,omitempty" bson:"notes,omitempty" validate:"omitempty,max=500"`
	TotalPrice    int64     `json:"total_price_cents" bson:"total_price_cents" validate:"omitempty,min=0"`
	CreatedAt     time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
	UpdatedAt     time.Time `json:"updated_at" bson:"updated_at" validate:"omitempty"`
}

// A booking never changes its date, time or slot after creation; rebooking
// means cancelling and creating a new one. Only contact fields, notes and
// status are updatable.
type BookingUpdate struct {
	CustomerName  string `json:"customer_name,omitempty" validate:"omitempty,min=2,max=100"`
	CustomerEmail string `json:"customer_email,omitempty" validate:"omitempty,email"`
	CustomerPhone string `json:"customer_phone,omitempty" validate:"omitempty,e164"`
	Notes         string `json:"notes,omitempty" validate:"omitempty,max=500"`
	Status        string `json:"status,omitempty" validate:"omitempty,oneof=PENDING CONFIRMED COMPLETED CANCELLED"`
}
