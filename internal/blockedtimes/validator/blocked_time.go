package validator

import (
	"errors"
	"fmt"
	"strings"

	"detailbay/pkg/logger"
	"detailbay/pkg/model"
	"detailbay/pkg/timegrid"

	"github.com/go-playground/validator/v10"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

type BlockedTimeValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewBlockedTimeValidator(log *logger.Logger) *BlockedTimeValidator {
	v := validator.New()

	if err := model.RegisterFormats(v); err != nil {
		log.Fatal("Failed to register format validators", "error", err)
	}

	return &BlockedTimeValidator{
		validate: v,
		logger:   log,
	}
}

// Validate checks tag-level formats first, then the cross-field rules a
// struct tag cannot express: a full-day block ignores times, a partial
// block needs both ends and a non-empty range. A block without a date
// recurs on every day.
func (v *BlockedTimeValidator) Validate(block *model.BlockedTime) error {
	if err := v.validate.Struct(block); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}

	var errs ValidationErrors

	if !block.IsFullDay {
		if block.StartTime == "" {
			errs = append(errs, ValidationError{Field: "start_time", Message: "start_time is required for a partial block"})
		}
		if block.EndTime == "" {
			errs = append(errs, ValidationError{Field: "end_time", Message: "end_time is required for a partial block"})
		}
		if block.StartTime != "" && block.EndTime != "" && !timegrid.Before(block.StartTime, block.EndTime) {
			errs = append(errs, ValidationError{Field: "end_time", Message: "end_time must be after start_time"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (v *BlockedTimeValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		field := strings.ToLower(err.Field())
		var message string

		switch err.Tag() {
		case "calendar_date":
			message = "must be a valid date in YYYY-MM-DD format"
		case "wall_clock":
			message = "must be a valid time in HH:MM format"
		case "max":
			message = fmt.Sprintf("must be at most %s characters", err.Param())
		default:
			message = fmt.Sprintf("failed validation rule: %s", err.Tag())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   field,
			Message: message,
		})
	}

	return validationErrors
}
