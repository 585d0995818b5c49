package validator

import (
	"roombook/pkg/logger"
	"roombook/pkg/model"
	"roombook/pkg/validation"

	"github.com/go-playground/validator/v10"
)

type RoomValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewRoomValidator(log *logger.Logger) *RoomValidator {
	v := validation.New(log)

	log.Info("Room validator initialized successfully")

	return &RoomValidator{
		validate: v,
		logger:   log,
	}
}

func (v *RoomValidator) Validate(room *model.Room) error {
	return validation.Struct(v.validate, room)
}

func (v *RoomValidator) ValidateCreate(in *model.RoomCreate) error {
	return validation.Struct(v.validate, in)
}

func (v *RoomValidator) ValidateUpdate(in *model.RoomUpdate) error {
	return validation.Struct(v.validate, in)
}

func (v *RoomValidator) ValidateAccessRequest(in *model.RoomAccessRequest) error {
	return validation.Struct(v.validate, in)
}
