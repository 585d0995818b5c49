// Package lifecycle holds the pure state transitions of a meeting. Every function takes
// a meeting value and returns the next value; nothing here touches storage.
package lifecycle

import (
	"errors"
	"fmt"
	"roombook/pkg/model"
	"slices"
	"time"
)

// UnknownCanceller is recorded when a cancellation by id names no canceller.
const UnknownCanceller = "Unknown"

var (
	ErrInvalidRange = errors.New("start date must be before end date")
	ErrStartInPast  = errors.New("start date cannot be in the past")
	ErrNotScheduled = errors.New("only scheduled meetings can be modified")
)

// ValidateRange checks start < end and start >= now.
func ValidateRange(start, end, now time.Time) error {
	if !start.Before(end) {
		return ErrInvalidRange
	}
	if start.Before(now) {
		return ErrStartInPast
	}
	return nil
}

// New builds a Scheduled meeting from create input. The access code is assigned later.
func New(in model.MeetingCreate, privileged bool, now time.Time) model.Meeting {
	return model.Meeting{
		Title:                 in.Title,
		Description:           in.Description,
		StartDate:             in.StartDate.UTC(),
		EndDate:               in.EndDate.UTC(),
		Attendees:             slices.Clone(in.Attendees),
		OrganizerFullName:     in.OrganizerFullName,
		OrganizerEmail:        in.OrganizerEmail,
		RoomID:                in.RoomID,
		Status:                model.MeetingStatusScheduled,
		IsOrganizerPrivileged: privileged,
		CreatedAt:             now,
		UpdatedAt:             now,
	}
}

// ApplyUpdate overwrites the supplied fields. Range validation is left to the caller
// since it needs the merged start and end together.
func ApplyUpdate(m model.Meeting, u model.MeetingUpdate, now time.Time) (model.Meeting, error) {
	if m.Status != model.MeetingStatusScheduled {
		return m, ErrNotScheduled
	}

	if u.Title != nil {
		m.Title = *u.Title
	}
	if u.Description != nil {
		m.Description = *u.Description
	}
	if u.StartDate != nil {
		m.StartDate = u.StartDate.UTC()
	}
	if u.EndDate != nil {
		m.EndDate = u.EndDate.UTC()
	}
	if u.Attendees != nil {
		m.Attendees = slices.Clone(*u.Attendees)
	}
	if u.OrganizerFullName != nil {
		m.OrganizerFullName = *u.OrganizerFullName
	}
	if u.OrganizerEmail != nil {
		m.OrganizerEmail = *u.OrganizerEmail
	}
	if u.RoomID != nil {
		m.RoomID = *u.RoomID
	}
	m.UpdatedAt = now
	return m, nil
}

// Cancel moves a Scheduled meeting to Cancelled.
func Cancel(m model.Meeting, reason, cancelledBy string, now time.Time) (model.Meeting, error) {
	if m.Status != model.MeetingStatusScheduled {
		return m, ErrNotScheduled
	}
	if cancelledBy == "" {
		cancelledBy = UnknownCanceller
	}

	at := now
	m.Status = model.MeetingStatusCancelled
	m.CancelledReason = reason
	m.CancelledBy = cancelledBy
	m.CancelledAt = &at
	m.UpdatedAt = now
	return m, nil
}

// Preempt cancels m on behalf of a privileged organizer.
func Preempt(m model.Meeting, organizerName string, now time.Time) (model.Meeting, error) {
	return Cancel(m, PreemptionReason(organizerName), model.SystemCanceller, now)
}

func PreemptionReason(organizerName string) string {
	return fmt.Sprintf("Automatically cancelled: conflict with a meeting booked by a privileged user (%s)", organizerName)
}

// Complete moves a Scheduled meeting to Completed.
func Complete(m model.Meeting, now time.Time) (model.Meeting, error) {
	if m.Status != model.MeetingStatusScheduled {
		return m, ErrNotScheduled
	}

	at := now
	m.Status = model.MeetingStatusCompleted
	m.CompletedAt = &at
	m.UpdatedAt = now
	return m, nil
}
