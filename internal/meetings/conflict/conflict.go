// Package conflict decides whether a candidate meeting may take a slot in a room and,
// for privileged organizers, preempts whatever already holds it.
package conflict

import (
	"context"
	"errors"
	"fmt"
	"roombook/internal/interval"
	meetingserrors "roombook/internal/meetings/errors"
	"roombook/internal/meetings/lifecycle"
	"roombook/pkg/model"
	"sort"
	"time"
)

type Kind int

const (
	Accepted Kind = iota
	AcceptedWithPreemptions
	Rejected
)

func (k Kind) String() string {
	switch k {
	case Accepted:
		return "accepted"
	case AcceptedWithPreemptions:
		return "accepted_with_preemptions"
	case Rejected:
		return "rejected"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Outcome is the result of a resolution. IDs lists the conflicting meetings for Rejected
// and the cancelled ones for AcceptedWithPreemptions. Preempted carries the cancelled values.
type Outcome struct {
	Kind      Kind
	IDs       []string
	Preempted []model.Meeting
}

type Request struct {
	RoomID        string
	Range         interval.Range
	OrganizerName string
	Privileged    bool
	// ExcludeID is the meeting being updated, which never conflicts with itself.
	ExcludeID string
}

// Finder loads Scheduled meetings in a room whose range overlaps r.
type Finder interface {
	FindConflicts(ctx context.Context, roomID string, r interval.Range, excludeID string) ([]*model.Meeting, error)
}

// Preempter persists a cancelled meeting only if it is still Scheduled, returning
// meetingserrors.ErrStateChanged otherwise.
type Preempter interface {
	ReplaceScheduled(ctx context.Context, m *model.Meeting) error
}

// Decide is the pure decision over an already filtered conflict set.
func Decide(conflicts []model.Meeting, privileged bool) Outcome {
	if len(conflicts) == 0 {
		return Outcome{Kind: Accepted}
	}

	ids := make([]string, 0, len(conflicts))
	for _, m := range conflicts {
		ids = append(ids, m.ID)
	}

	if !privileged {
		return Outcome{Kind: Rejected, IDs: ids}
	}
	return Outcome{Kind: AcceptedWithPreemptions, IDs: ids}
}

// Filter keeps the Scheduled meetings of roomID that overlap r, skipping excludeID,
// sorted by start date.
func Filter(candidates []*model.Meeting, roomID string, r interval.Range, excludeID string) []model.Meeting {
	var out []model.Meeting
	for _, m := range candidates {
		if m == nil || m.Status != model.MeetingStatusScheduled || m.RoomID != roomID {
			continue
		}
		if excludeID != "" && m.ID == excludeID {
			continue
		}
		if !interval.Overlaps(m.StartDate, m.EndDate, r.Start, r.End) {
			continue
		}
		out = append(out, *m)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].StartDate.Before(out[j].StartDate)
	})
	return out
}

type Resolver struct {
	finder    Finder
	preempter Preempter
	now       func() time.Time
}

func NewResolver(finder Finder, preempter Preempter, now func() time.Time) *Resolver {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &Resolver{finder: finder, preempter: preempter, now: now}
}

// Resolve loads the conflict set and applies the decision. On AcceptedWithPreemptions
// every conflict is cancelled with cancelled_by=SYSTEM. A conflict that left the
// Scheduled state concurrently no longer blocks the slot and is dropped from the outcome.
func (r *Resolver) Resolve(ctx context.Context, req Request) (Outcome, error) {
	if !req.Range.Valid() {
		return Outcome{}, lifecycle.ErrInvalidRange
	}

	candidates, err := r.finder.FindConflicts(ctx, req.RoomID, req.Range, req.ExcludeID)
	if err != nil {
		return Outcome{}, fmt.Errorf("failed to load conflicting meetings: %w", err)
	}

	conflicts := Filter(candidates, req.RoomID, req.Range, req.ExcludeID)
	outcome := Decide(conflicts, req.Privileged)
	if outcome.Kind != AcceptedWithPreemptions {
		return outcome, nil
	}

	now := r.now().Truncate(time.Millisecond)
	outcome.IDs = outcome.IDs[:0]
	for _, m := range conflicts {
		cancelled, err := lifecycle.Preempt(m, req.OrganizerName, now)
		if err != nil {
			continue
		}
		if err := r.preempter.ReplaceScheduled(ctx, &cancelled); err != nil {
			if errors.Is(err, meetingserrors.ErrStateChanged) {
				continue
			}
			return Outcome{}, fmt.Errorf("failed to preempt meeting %s: %w", m.ID, err)
		}
		outcome.IDs = append(outcome.IDs, cancelled.ID)
		outcome.Preempted = append(outcome.Preempted, cancelled)
	}
	if len(outcome.Preempted) == 0 {
		outcome.Kind = Accepted
		outcome.IDs = nil
	}

	return outcome, nil
}
