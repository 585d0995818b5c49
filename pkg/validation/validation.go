package validation

import (
	"errors"
	"fmt"
	"roombook/internal/accesscode"
	"roombook/pkg/logger"
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	TagRoomAccessCode    = "room_access_code"
	TagMeetingAccessCode = "meeting_access_code"
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

// New returns a validator with the access-code tags registered.
func New(log *logger.Logger) *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	if err := v.RegisterValidation(TagRoomAccessCode, func(fl validator.FieldLevel) bool {
		return accesscode.Valid(accesscode.Room, fl.Field().String())
	}); err != nil {
		log.Fatal("Failed to register validator", "tag", TagRoomAccessCode, "error", err)
	}

	if err := v.RegisterValidation(TagMeetingAccessCode, func(fl validator.FieldLevel) bool {
		return accesscode.Valid(accesscode.Meeting, fl.Field().String())
	}); err != nil {
		log.Fatal("Failed to register validator", "tag", TagMeetingAccessCode, "error", err)
	}

	return v
}

// Struct validates s and translates tag failures into ValidationErrors.
func Struct(v *validator.Validate, s any) error {
	if err := v.Struct(s); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return Translate(validationErrs)
		}
		return err
	}
	return nil
}

func Translate(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "min":
			message = fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s", err.Field(), err.Param())
		case "mongodb":
			message = fmt.Sprintf("%s must be a valid MongoDB ObjectID", err.Field())
		case "email":
			message = fmt.Sprintf("%s must be a valid email address", err.Field())
		case "oneof":
			message = fmt.Sprintf("%s must be one of: %s", err.Field(), err.Param())
		case "gtfield":
			message = fmt.Sprintf("%s must be after %s", err.Field(), err.Param())
		case TagRoomAccessCode:
			message = fmt.Sprintf("%s must be a 6-digit room code", err.Field())
		case TagMeetingAccessCode:
			message = fmt.Sprintf("%s must be a 12-character meeting code (A-Z, 0-9)", err.Field())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
