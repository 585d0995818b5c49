package model

import "time"

type MeetingStatus string

const (
	MeetingStatusScheduled MeetingStatus = "scheduled"
	MeetingStatusCancelled MeetingStatus = "cancelled"
	MeetingStatusCompleted MeetingStatus = "completed"
)

// SystemCanceller is recorded as cancelled_by when a meeting is preempted.
const SystemCanceller = "SYSTEM"

func (s MeetingStatus) Valid() bool {
	switch s {
	case MeetingStatusScheduled, MeetingStatusCancelled, MeetingStatusCompleted:
		return true
	}
	return false
}

func (s MeetingStatus) Terminal() bool {
	return s == MeetingStatusCancelled || s == MeetingStatusCompleted
}

type Meeting struct {
	ID                    string        `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	AccessCode            string        `json:"access_code" bson:"access_code" validate:"required,meeting_access_code"`
	Title                 string        `json:"title" bson:"title" validate:"required,min=1,max=200"`
	Description           string        `json:"description,omitempty" bson:"description,omitempty" validate:"max=2000"`
	StartDate             time.Time     `json:"start_date" bson:"start_date" validate:"required"`
	EndDate               time.Time     `json:"end_date" bson:"end_date" validate:"required,gtfield=StartDate"`
	Attendees             []string      `json:"attendees" bson:"attendees" validate:"max=500,dive,email"`
	OrganizerFullName     string        `json:"organizer_full_name" bson:"organizer_full_name" validate:"required,min=1,max=200"`
	OrganizerEmail        string        `json:"organizer_email" bson:"organizer_email" validate:"required,email"`
	RoomID                string        `json:"room_id" bson:"room_id" validate:"required,mongodb"`
	Status                MeetingStatus `json:"status" bson:"status" validate:"required,oneof=scheduled cancelled completed"`
	IsOrganizerPrivileged bool          `json:"is_organizer_privileged" bson:"is_organizer_privileged"`
	CancelledReason       string        `json:"cancelled_reason,omitempty" bson:"cancelled_reason,omitempty"`
	CancelledBy           string        `json:"cancelled_by,omitempty" bson:"cancelled_by,omitempty"`
	CancelledAt           *time.Time    `json:"cancelled_at,omitempty" bson:"cancelled_at,omitempty"`
	CompletedAt           *time.Time    `json:"completed_at,omitempty" bson:"completed_at,omitempty"`
	CreatedAt             time.Time     `json:"created_at" bson:"created_at"`
	UpdatedAt             time.Time     `json:"updated_at" bson:"updated_at"`
}

type MeetingCreate struct {
	Title             string    `json:"title" validate:"required,min=1,max=200"`
	Description       string    `json:"description,omitempty" validate:"max=2000"`
	StartDate         time.Time `json:"start_date" validate:"required"`
	EndDate           time.Time `json:"end_date" validate:"required"`
	Attendees         []string  `json:"attendees" validate:"max=500,dive,email"`
	OrganizerFullName string    `json:"organizer_full_name" validate:"required,min=1,max=200"`
	OrganizerEmail    string    `json:"organizer_email" validate:"required,email"`
	RoomID            string    `json:"room_id" validate:"required,mongodb"`
}

// MeetingUpdate carries only the fields a caller supplied; nil keeps the prior value.
type MeetingUpdate struct {
	Title             *string    `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Description       *string    `json:"description,omitempty" validate:"omitempty,max=2000"`
	StartDate         *time.Time `json:"start_date,omitempty"`
	EndDate           *time.Time `json:"end_date,omitempty"`
	Attendees         *[]string  `json:"attendees,omitempty" validate:"omitempty,max=500,dive,email"`
	OrganizerFullName *string    `json:"organizer_full_name,omitempty" validate:"omitempty,min=1,max=200"`
	OrganizerEmail    *string    `json:"organizer_email,omitempty" validate:"omitempty,email"`
	RoomID            *string    `json:"room_id,omitempty" validate:"omitempty,mongodb"`
}

type MeetingCancel struct {
	Reason      string `json:"cancelled_reason" validate:"max=500"`
	CancelledBy string `json:"cancelled_by,omitempty" validate:"max=200"`
}

type MeetingCancelByCode struct {
	AccessCode  string `json:"access_code" validate:"required,meeting_access_code"`
	Reason      string `json:"cancelled_reason" validate:"max=500"`
	CancelledBy string `json:"cancelled_by,omitempty" validate:"max=200"`
}

type MeetingFilter struct {
	RoomID         string
	OrganizerEmail string
	Status         MeetingStatus
	From           *time.Time
	To             *time.Time
}
