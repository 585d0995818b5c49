package validator

import (
	"roombook/pkg/logger"
	"roombook/pkg/model"
	"roombook/pkg/validation"

	"github.com/go-playground/validator/v10"
)

type MeetingValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewMeetingValidator(log *logger.Logger) *MeetingValidator {
	v := validation.New(log)

	log.Info("Meeting validator initialized successfully")

	return &MeetingValidator{
		validate: v,
		logger:   log,
	}
}

func (v *MeetingValidator) Validate(meeting *model.Meeting) error {
	return validation.Struct(v.validate, meeting)
}

func (v *MeetingValidator) ValidateCreate(in *model.MeetingCreate) error {
	return validation.Struct(v.validate, in)
}

func (v *MeetingValidator) ValidateUpdate(in *model.MeetingUpdate) error {
	return validation.Struct(v.validate, in)
}

func (v *MeetingValidator) ValidateCancel(in *model.MeetingCancel) error {
	return validation.Struct(v.validate, in)
}

func (v *MeetingValidator) ValidateCancelByCode(in *model.MeetingCancelByCode) error {
	return validation.Struct(v.validate, in)
}
