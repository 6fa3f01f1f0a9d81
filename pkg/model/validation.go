package model

import (
	"detailbay/pkg/timegrid"

	"github.com/go-playground/validator/v10"
)

// RegisterFormats installs the calendar_date ("2006-01-02") and wall_clock
// ("15:04") validations the models reference in their struct tags.
func RegisterFormats(v *validator.Validate) error {
	if err := v.RegisterValidation("calendar_date", func(fl validator.FieldLevel) bool {
		return timegrid.ValidDate(fl.Field().String())
	}); err != nil {
		return err
	}

	return v.RegisterValidation("wall_clock", func(fl validator.FieldLevel) bool {
		return timegrid.ValidTime(fl.Field().String())
	})
}
