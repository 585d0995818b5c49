package notifications

import (
	"fmt"
	"strings"
)

const dateLayout = "Mon 02 Jan 2006 15:04 MST"

// Render turns an event into the mails to deliver. The organizer's copy of a
// creation notice carries the meeting access code; attendees never see it.
func Render(ev Event) ([]Mail, error) {
	m := ev.Meeting
	when := fmt.Sprintf("%s - %s", m.StartDate.UTC().Format(dateLayout), m.EndDate.UTC().Format(dateLayout))

	switch ev.Kind {
	case KindCreated:
		attendees := without(ev.Recipients, m.OrganizerEmail)
		mails := []Mail{{
			To:      []string{m.OrganizerEmail},
			Subject: fmt.Sprintf("Meeting booked: %s", m.Title),
			Body: lines(
				fmt.Sprintf("Your meeting %q is booked in %s.", m.Title, ev.RoomName),
				"When: "+when,
				"Access code: "+m.AccessCode,
				"Use this code to view or cancel the meeting.",
			),
		}}
		if len(attendees) > 0 {
			mails = append(mails, invitation(ev, attendees, when))
		}
		return mails, nil

	case KindUpdated:
		return []Mail{{
			To:      ev.Recipients,
			Subject: fmt.Sprintf("Meeting updated: %s", m.Title),
			Body: lines(
				fmt.Sprintf("The meeting %q organised by %s has changed.", m.Title, m.OrganizerFullName),
				"Room: "+ev.RoomName,
				"When: "+when,
			),
		}}, nil

	case KindAttendeeAdded:
		return []Mail{invitation(ev, ev.Recipients, when)}, nil

	case KindAttendeeRemoved:
		return []Mail{{
			To:      ev.Recipients,
			Subject: fmt.Sprintf("Removed from meeting: %s", m.Title),
			Body: lines(
				fmt.Sprintf("You are no longer invited to %q organised by %s.", m.Title, m.OrganizerFullName),
				"When: "+when,
			),
		}}, nil

	case KindCancelled:
		reason := m.CancelledReason
		if reason == "" {
			reason = "No reason given"
		}
		return []Mail{{
			To:      ev.Recipients,
			Subject: fmt.Sprintf("Meeting cancelled: %s", m.Title),
			Body: lines(
				fmt.Sprintf("The meeting %q in %s has been cancelled by %s.", m.Title, ev.RoomName, m.CancelledBy),
				"When: "+when,
				"Reason: "+reason,
			),
		}}, nil
	}

	return nil, fmt.Errorf("unknown notification kind %q", ev.Kind)
}

func invitation(ev Event, to []string, when string) Mail {
	m := ev.Meeting
	return Mail{
		To:      to,
		Subject: fmt.Sprintf("Invitation: %s", m.Title),
		Body: lines(
			fmt.Sprintf("%s invited you to %q.", m.OrganizerFullName, m.Title),
			"Room: "+ev.RoomName,
			"When: "+when,
			m.Description,
		),
	}
}

func without(items []string, drop string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item != drop {
			out = append(out, item)
		}
	}
	return out
}

func lines(parts ...string) string {
	var b strings.Builder
	for _, p := range parts {
		if p == "" {
			continue
		}
		b.WriteString(p)
		b.WriteByte('\n')
	}
	return b.String()
}
