package validator

import (
	"roombook/pkg/logger"
	"roombook/pkg/model"
	"roombook/pkg/validation"

	"github.com/go-playground/validator/v10"
)

type PrivilegedUserValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewPrivilegedUserValidator(log *logger.Logger) *PrivilegedUserValidator {
	return &PrivilegedUserValidator{
		validate: validation.New(log),
		logger:   log,
	}
}

func (v *PrivilegedUserValidator) Validate(user *model.PrivilegedUser) error {
	return validation.Struct(v.validate, user)
}

func (v *PrivilegedUserValidator) ValidateCreate(in *model.PrivilegedUserCreate) error {
	return validation.Struct(v.validate, in)
}

func (v *PrivilegedUserValidator) ValidateUpdate(in *model.PrivilegedUserUpdate) error {
	return validation.Struct(v.validate, in)
}
