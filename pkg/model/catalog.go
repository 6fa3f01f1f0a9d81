package model

import "time"

type Package struct {
	ID          string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Name        string    `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Description string    `json:"description,omitempty" bson:"description,omitempty" validate:"omitempty,max=500"`
	IsActive    bool      `json:"is_active" bson:"is_active"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

type SubPackage struct {
	ID          string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	PackageID   string    `json:"package_id" bson:"package_id" validate:"required,mongodb"`
	Name        string    `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Description string    `json:"description,omitempty" bson:"description,omitempty" validate:"omitempty,max=500"`
	DurationMin int       `json:"duration_min" bson:"duration_min" validate:"required,min=15,max=480"`
	IsActive    bool      `json:"is_active" bson:"is_active"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

type AddOn struct {
	ID         string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Name       string    `json:"name" bson:"name" validate:"required,min=2,max=100"`
	PriceCents int64     `json:"price_cents" bson:"price_cents" validate:"min=0"`
	IsActive   bool      `json:"is_active" bson:"is_active"`
	CreatedAt  time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

// Price is the base rate for a (sub_package, vehicle_type) pair; the pair is
// unique in storage.
type Price struct {
	ID           string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	SubPackageID string    `json:"sub_package_id" bson:"sub_package_id" validate:"required,mongodb"`
	VehicleType  string    `json:"vehicle_type" bson:"vehicle_type" validate:"required,oneof=sedan suv truck van"`
	AmountCents  int64     `json:"amount_cents" bson:"amount_cents" validate:"min=0"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}
