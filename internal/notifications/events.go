package notifications

import (
	"roombook/pkg/model"
	"slices"
	"time"

	"github.com/google/uuid"
)

type Kind string

const (
	KindCreated         Kind = "meeting.created"
	KindUpdated         Kind = "meeting.updated"
	KindCancelled       Kind = "meeting.cancelled"
	KindAttendeeAdded   Kind = "meeting.attendee_added"
	KindAttendeeRemoved Kind = "meeting.attendee_removed"
)

const SchemaVersion = "1"

// Event is the payload published to the notification topic.
type Event struct {
	ID         string        `json:"id"`
	Kind       Kind          `json:"kind"`
	OccurredAt time.Time     `json:"occurred_at"`
	RoomName   string        `json:"room_name"`
	Recipients []string      `json:"recipients"`
	Meeting    model.Meeting `json:"meeting"`
}

func NewEvent(kind Kind, meeting model.Meeting, roomName string, recipients []string, now time.Time) Event {
	return Event{
		ID:         uuid.NewString(),
		Kind:       kind,
		OccurredAt: now,
		RoomName:   roomName,
		Recipients: recipients,
		Meeting:    meeting,
	}
}

// Created addresses the organizer and every attendee of a new meeting.
func Created(m model.Meeting, roomName string, now time.Time) []Event {
	return []Event{NewEvent(KindCreated, m, roomName, everyone(m), now)}
}

// Cancelled addresses the organizer and every attendee of a cancelled meeting.
func Cancelled(m model.Meeting, roomName string, now time.Time) []Event {
	return []Event{NewEvent(KindCancelled, m, roomName, everyone(m), now)}
}

// Updated addresses the organizer and retained attendees with an update, and
// the added and removed attendees with their own kinds.
func Updated(before, after model.Meeting, roomName string, now time.Time) []Event {
	added, removed := AttendeeDiff(before.Attendees, after.Attendees)
	added = without(added, after.OrganizerEmail)
	removed = without(removed, after.OrganizerEmail)

	retained := []string{after.OrganizerEmail}
	for _, a := range uniq(after.Attendees) {
		if !slices.Contains(added, a) && a != after.OrganizerEmail {
			retained = append(retained, a)
		}
	}

	events := []Event{NewEvent(KindUpdated, after, roomName, retained, now)}
	if len(added) > 0 {
		events = append(events, NewEvent(KindAttendeeAdded, after, roomName, added, now))
	}
	if len(removed) > 0 {
		events = append(events, NewEvent(KindAttendeeRemoved, after, roomName, removed, now))
	}
	return events
}

func everyone(m model.Meeting) []string {
	recipients := []string{m.OrganizerEmail}
	for _, a := range uniq(m.Attendees) {
		if a != m.OrganizerEmail {
			recipients = append(recipients, a)
		}
	}
	return recipients
}
