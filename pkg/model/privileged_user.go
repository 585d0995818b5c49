package model

import "time"

type PrivilegedUser struct {
	ID        string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	FullName  string    `json:"full_name" bson:"full_name" validate:"required,min=1,max=200"`
	Email     string    `json:"email" bson:"email" validate:"required,email"`
	Company   string    `json:"company" bson:"company" validate:"required,min=1,max=100"`
	IsActive  bool      `json:"is_active" bson:"is_active"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

type PrivilegedUserCreate struct {
	FullName string `json:"full_name" yaml:"full_name" validate:"required,min=1,max=200"`
	Email    string `json:"email" yaml:"email" validate:"required,email"`
	Company  string `json:"company" yaml:"company" validate:"required,min=1,max=100"`
	IsActive *bool  `json:"is_active,omitempty" yaml:"is_active,omitempty"`
}

type PrivilegedUserUpdate struct {
	FullName *string `json:"full_name,omitempty" validate:"omitempty,min=1,max=200"`
	Email    *string `json:"email,omitempty" validate:"omitempty,email"`
	Company  *string `json:"company,omitempty" validate:"omitempty,min=1,max=100"`
	IsActive *bool   `json:"is_active,omitempty"`
}

type PrivilegedUserFilter struct {
	Company string
	Active  *bool
}

type PrivilegeCheck struct {
	Email      string `json:"email"`
	Privileged bool   `json:"privileged"`
}
