package service

import (
	"context"
	"errors"
	"roombook/internal/accesscode"
	"roombook/internal/interval"
	"roombook/internal/meetings/conflict"
	meetingserrors "roombook/internal/meetings/errors"
	"roombook/internal/meetings/lifecycle"
	"roombook/internal/meetings/repository"
	"roombook/internal/meetings/validator"
	"roombook/internal/notifications"
	"roombook/pkg/config"
	apperrors "roombook/pkg/errors"
	"roombook/pkg/model"
	"roombook/pkg/sanitizer"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/sync/errgroup"
)

type SchedulingService interface {
	Create(ctx context.Context, in *model.MeetingCreate) (*model.Meeting, error)
	GetByID(ctx context.Context, id string) (*model.Meeting, error)
	GetByAccessCode(ctx context.Context, code string) (*model.Meeting, error)
	GetAll(ctx context.Context, filter model.MeetingFilter, limit int, offset int64) ([]*model.Meeting, int64, error)
	Upcoming(ctx context.Context, limit int) ([]*model.Meeting, error)
	RoomSchedule(ctx context.Context, roomID string, day time.Time) ([]*model.Meeting, error)
	Update(ctx context.Context, id string, updates *model.MeetingUpdate) (*model.Meeting, error)
	CancelByID(ctx context.Context, id string, in *model.MeetingCancel) (*model.Meeting, error)
	CancelByAccessCode(ctx context.Context, in *model.MeetingCancelByCode) (*model.Meeting, error)
	Complete(ctx context.Context, id string) (*model.Meeting, error)
	Delete(ctx context.Context, id string) error
}

// RoomDirectory resolves the room a meeting is booked in. *rooms/service.RoomService satisfies it.
type RoomDirectory interface {
	GetByID(ctx context.Context, id string) (*model.Room, error)
}

// PrivilegeOracle reports whether an organizer may preempt existing bookings.
type PrivilegeOracle interface {
	IsPrivileged(ctx context.Context, email string) (bool, error)
}

type schedulingService struct {
	repo       repository.MeetingRepository
	locks      repository.RoomLockRepository
	rooms      RoomDirectory
	privileges PrivilegeOracle
	resolver   *conflict.Resolver
	codes      *accesscode.Generator
	validator  *validator.MeetingValidator
	notifier   notifications.Notifier
	cfg        *config.Config
	now        func() time.Time
}

func NewSchedulingService(
	repo repository.MeetingRepository,
	locks repository.RoomLockRepository,
	rooms RoomDirectory,
	privileges PrivilegeOracle,
	codes *accesscode.Generator,
	validator *validator.MeetingValidator,
	notifier notifications.Notifier,
	cfg *config.Config,
	now func() time.Time,
) SchedulingService {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	if notifier == nil {
		notifier = notifications.Noop{}
	}
	return &schedulingService{
		repo:       repo,
		locks:      locks,
		rooms:      rooms,
		privileges: privileges,
		resolver:   conflict.NewResolver(repo, repo, now),
		codes:      codes,
		validator:  validator,
		notifier:   notifier,
		cfg:        cfg,
		now:        now,
	}
}

func (s *schedulingService) Create(ctx context.Context, in *model.MeetingCreate) (*model.Meeting, error) {
	sanitizeCreate(in)

	if err := s.validator.ValidateCreate(in); err != nil {
		s.cfg.Log.Warn("Meeting validation failed", "error", err)
		return nil, apperrors.Validation("Meeting validation failed", map[string]any{"error": err.Error()})
	}

	now := s.now().Truncate(time.Millisecond)
	if err := lifecycle.ValidateRange(in.StartDate, in.EndDate, now); err != nil {
		return nil, apperrors.InvalidInput(rangeMessage(err))
	}

	room, err := s.bookableRoom(ctx, in.RoomID)
	if err != nil {
		return nil, err
	}

	privileged, err := s.privileges.IsPrivileged(ctx, in.OrganizerEmail)
	if err != nil {
		s.cfg.Log.Error("Failed to resolve organizer privilege", "organizer_email", in.OrganizerEmail, "error", err)
		return nil, mapLookupError(err, "")
	}

	draft := lifecycle.New(*in, privileged, now)
	req := conflict.Request{
		RoomID:        room.ID,
		Range:         interval.New(draft.StartDate, draft.EndDate),
		OrganizerName: draft.OrganizerFullName,
		Privileged:    privileged,
	}

	var created model.Meeting
	var outcome conflict.Outcome

	err = s.withRoomLock(ctx, room.ID, func() error {
		_, err := s.codes.Allocate(ctx, accesscode.Meeting, s.repo.AccessCodeExists, func(ctx context.Context, code string) error {
			return s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
				var err error
				outcome, err = s.resolver.Resolve(sessCtx, req)
				if err != nil {
					return err
				}
				if outcome.Kind == conflict.Rejected {
					return apperrors.ConflictWithIDs("Room is already booked for this time slot", outcome.IDs)
				}

				candidate := draft
				candidate.AccessCode = code
				if err := s.validator.Validate(&candidate); err != nil {
					return apperrors.Validation("Meeting validation failed", map[string]any{"error": err.Error()})
				}
				if err := s.repo.Create(sessCtx, &candidate); err != nil {
					return err
				}
				created = candidate
				return nil
			})
		})
		return err
	})
	if err != nil {
		s.cfg.Log.Warn("Failed to create meeting",
			"room_id", room.ID,
			"organizer_email", in.OrganizerEmail,
			"privileged", privileged,
			"error", err,
		)
		return nil, mapWriteError(err, accesscode.Meeting)
	}

	s.cfg.Log.Info("Meeting created successfully",
		"id", created.ID,
		"room_id", created.RoomID,
		"outcome", outcome.Kind.String(),
		"preempted", outcome.IDs,
	)

	events := notifications.Created(created, room.Name, now)
	for _, cancelled := range outcome.Preempted {
		events = append(events, notifications.Cancelled(cancelled, room.Name, now)...)
	}
	s.notifier.Notify(events...)

	return &created, nil
}

func (s *schedulingService) GetByID(ctx context.Context, id string) (*model.Meeting, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Meeting ID cannot be empty")
	}

	meeting, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapLookupError(err, id)
	}
	return meeting, nil
}

func (s *schedulingService) GetByAccessCode(ctx context.Context, code string) (*model.Meeting, error) {
	code = sanitizer.NormalizeAccessCode(code)
	if !accesscode.Valid(accesscode.Meeting, code) {
		return nil, apperrors.InvalidInput("Invalid meeting access code format")
	}

	meeting, err := s.repo.FindByAccessCode(ctx, code)
	if err != nil {
		if errors.Is(err, meetingserrors.ErrNotFound) {
			return nil, apperrors.NotFound("Meeting with this access code")
		}
		return nil, apperrors.Internal("Failed to retrieve meeting", err)
	}
	return meeting, nil
}

func (s *schedulingService) GetAll(ctx context.Context, filter model.MeetingFilter, limit int, offset int64) ([]*model.Meeting, int64, error) {
	filter.OrganizerEmail = sanitizer.NormalizeEmail(filter.OrganizerEmail)
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, 0, apperrors.InvalidInput("Invalid meeting status: " + string(filter.Status))
	}
	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		return nil, 0, apperrors.InvalidInput("end_date must not be before start_date")
	}

	var count int64
	var meetings []*model.Meeting

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		count, err = s.repo.Count(gctx, filter)
		if err != nil {
			s.cfg.Log.Error("Failed to count meetings", "error", err)
			return apperrors.Internal("Failed to count meetings", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		meetings, err = s.repo.FindAll(gctx, filter, limit, offset)
		if err != nil {
			s.cfg.Log.Error("Failed to list meetings", "limit", limit, "offset", offset, "error", err)
			return apperrors.Internal("Failed to retrieve meetings", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	return meetings, count, nil
}

func (s *schedulingService) Upcoming(ctx context.Context, limit int) ([]*model.Meeting, error) {
	if limit <= 0 {
		limit = s.cfg.UpcomingDefaultLimit
	}
	limit = config.NormalizePaginationLimit(limit)

	meetings, err := s.repo.FindUpcoming(ctx, s.now(), limit)
	if err != nil {
		s.cfg.Log.Error("Failed to list upcoming meetings", "limit", limit, "error", err)
		return nil, apperrors.Internal("Failed to retrieve upcoming meetings", err)
	}
	return meetings, nil
}

// RoomSchedule lists the Scheduled meetings of a room starting on the UTC day of day.
func (s *schedulingService) RoomSchedule(ctx context.Context, roomID string, day time.Time) ([]*model.Meeting, error) {
	if roomID == "" {
		return nil, apperrors.InvalidInput("Room ID cannot be empty")
	}
	if _, err := s.rooms.GetByID(ctx, roomID); err != nil {
		return nil, err
	}

	meetings, err := s.repo.FindRoomSchedule(ctx, roomID, interval.Day(day))
	if err != nil {
		s.cfg.Log.Error("Failed to load room schedule", "room_id", roomID, "day", day.Format(time.DateOnly), "error", err)
		return nil, apperrors.Internal("Failed to retrieve room schedule", err)
	}
	return meetings, nil
}

// Update overwrites the supplied fields and re-checks the slot. Updates are never
// privileged: an overlap with another Scheduled meeting is always rejected.
func (s *schedulingService) Update(ctx context.Context, id string, updates *model.MeetingUpdate) (*model.Meeting, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Meeting ID cannot be empty")
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapLookupError(err, id)
	}
	if existing.Status != model.MeetingStatusScheduled {
		return nil, apperrors.InvalidState("Only scheduled meetings can be updated")
	}

	sanitizeUpdate(updates)
	if err := s.validator.ValidateUpdate(updates); err != nil {
		s.cfg.Log.Warn("Meeting update validation failed", "id", id, "error", err)
		return nil, apperrors.Validation("Invalid update input", map[string]any{"error": err.Error()})
	}

	now := s.now().Truncate(time.Millisecond)
	next, err := lifecycle.ApplyUpdate(*existing, *updates, now)
	if err != nil {
		return nil, apperrors.InvalidState("Only scheduled meetings can be updated")
	}

	if err := lifecycle.ValidateRange(next.StartDate, next.EndDate, now); err != nil {
		return nil, apperrors.InvalidInput(rangeMessage(err))
	}

	room, err := s.bookableRoom(ctx, next.RoomID)
	if err != nil {
		return nil, err
	}

	if next.OrganizerEmail != existing.OrganizerEmail {
		privileged, err := s.privileges.IsPrivileged(ctx, next.OrganizerEmail)
		if err != nil {
			return nil, mapLookupError(err, id)
		}
		next.IsOrganizerPrivileged = privileged
	}

	if err := s.validator.Validate(&next); err != nil {
		s.cfg.Log.Warn("Meeting validation failed", "id", id, "error", err)
		return nil, apperrors.Validation("Meeting validation failed", map[string]any{"error": err.Error()})
	}

	req := conflict.Request{
		RoomID:        next.RoomID,
		Range:         interval.New(next.StartDate, next.EndDate),
		OrganizerName: next.OrganizerFullName,
		ExcludeID:     id,
	}

	err = s.withRoomLock(ctx, next.RoomID, func() error {
		return s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
			outcome, err := s.resolver.Resolve(sessCtx, req)
			if err != nil {
				return err
			}
			if outcome.Kind == conflict.Rejected {
				return apperrors.ConflictWithIDs("Room is already booked for this time slot", outcome.IDs)
			}
			return s.repo.ReplaceScheduled(sessCtx, &next)
		})
	})
	if err != nil {
		s.cfg.Log.Warn("Failed to update meeting", "id", id, "error", err)
		return nil, mapWriteError(err, accesscode.Meeting)
	}

	s.cfg.Log.Info("Meeting updated successfully", "id", id, "room_id", next.RoomID)
	s.notifier.Notify(notifications.Updated(*existing, next, room.Name, now)...)

	return &next, nil
}

func (s *schedulingService) CancelByID(ctx context.Context, id string, in *model.MeetingCancel) (*model.Meeting, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Meeting ID cannot be empty")
	}

	in.Reason = sanitizer.NormalizeText(in.Reason)
	in.CancelledBy = sanitizer.NormalizeName(in.CancelledBy)
	if err := s.validator.ValidateCancel(in); err != nil {
		return nil, apperrors.Validation("Invalid cancellation input", map[string]any{"error": err.Error()})
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapLookupError(err, id)
	}

	return s.cancel(ctx, existing, in.Reason, in.CancelledBy)
}

// CancelByAccessCode cancels on behalf of whoever holds the meeting code. Without an
// explicit canceller the organizer is recorded.
func (s *schedulingService) CancelByAccessCode(ctx context.Context, in *model.MeetingCancelByCode) (*model.Meeting, error) {
	in.AccessCode = sanitizer.NormalizeAccessCode(in.AccessCode)
	in.Reason = sanitizer.NormalizeText(in.Reason)
	in.CancelledBy = sanitizer.NormalizeName(in.CancelledBy)
	if err := s.validator.ValidateCancelByCode(in); err != nil {
		return nil, apperrors.Validation("Invalid cancellation input", map[string]any{"error": err.Error()})
	}

	existing, err := s.GetByAccessCode(ctx, in.AccessCode)
	if err != nil {
		return nil, err
	}

	cancelledBy := in.CancelledBy
	if cancelledBy == "" {
		cancelledBy = existing.OrganizerFullName
	}
	return s.cancel(ctx, existing, in.Reason, cancelledBy)
}

func (s *schedulingService) cancel(ctx context.Context, existing *model.Meeting, reason, cancelledBy string) (*model.Meeting, error) {
	now := s.now().Truncate(time.Millisecond)
	next, err := lifecycle.Cancel(*existing, reason, cancelledBy, now)
	if err != nil {
		return nil, apperrors.InvalidState("Only scheduled meetings can be cancelled")
	}

	if err := s.repo.ReplaceScheduled(ctx, &next); err != nil {
		return nil, mapWriteError(err, accesscode.Meeting)
	}

	s.cfg.Log.Info("Meeting cancelled",
		"id", next.ID,
		"room_id", next.RoomID,
		"cancelled_by", next.CancelledBy,
	)
	s.notifier.Notify(notifications.Cancelled(next, s.roomName(ctx, next.RoomID), now)...)

	return &next, nil
}

// Complete is the only way into Completed; nothing sweeps meetings by clock.
func (s *schedulingService) Complete(ctx context.Context, id string) (*model.Meeting, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Meeting ID cannot be empty")
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapLookupError(err, id)
	}

	next, err := lifecycle.Complete(*existing, s.now().Truncate(time.Millisecond))
	if err != nil {
		return nil, apperrors.InvalidState("Only scheduled meetings can be completed")
	}

	if err := s.repo.ReplaceScheduled(ctx, &next); err != nil {
		return nil, mapWriteError(err, accesscode.Meeting)
	}

	s.cfg.Log.Info("Meeting completed", "id", id)
	return &next, nil
}

func (s *schedulingService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Meeting ID cannot be empty")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return mapLookupError(err, id)
	}

	s.cfg.Log.Info("Meeting deleted successfully", "id", id)
	return nil
}

func (s *schedulingService) bookableRoom(ctx context.Context, roomID string) (*model.Room, error) {
	room, err := s.rooms.GetByID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if !room.Available {
		return nil, apperrors.RoomUnavailable(room.ID)
	}
	return room, nil
}

func (s *schedulingService) roomName(ctx context.Context, roomID string) string {
	room, err := s.rooms.GetByID(ctx, roomID)
	if err != nil {
		s.cfg.Log.Warn("Failed to resolve room name for notification", "room_id", roomID, "error", err)
		return ""
	}
	return room.Name
}

// withRoomLock runs fn while holding the advisory lock of roomID. The lock is released
// even when ctx is already cancelled.
func (s *schedulingService) withRoomLock(ctx context.Context, roomID string, fn func() error) error {
	owner := uuid.NewString()
	if err := s.locks.Acquire(ctx, roomID, owner, s.cfg.MeetingLockTTL); err != nil {
		if errors.Is(err, meetingserrors.ErrLockHeld) {
			return apperrors.Conflict("Room is currently being booked by another request. Please try again.").
				WithDetails(map[string]any{"room_id": roomID})
		}
		return apperrors.Internal("Failed to acquire room lock", err)
	}

	defer func() {
		if err := s.locks.Release(context.WithoutCancel(ctx), roomID, owner); err != nil {
			s.cfg.Log.Warn("Failed to release room lock", "room_id", roomID, "owner", owner, "error", err)
		}
	}()

	return fn()
}

func sanitizeCreate(in *model.MeetingCreate) {
	in.Title = sanitizer.NormalizeName(in.Title)
	in.Description = sanitizer.NormalizeText(in.Description)
	in.OrganizerFullName = sanitizer.NormalizeName(in.OrganizerFullName)
	in.OrganizerEmail = sanitizer.NormalizeEmail(in.OrganizerEmail)
	in.Attendees = sanitizer.NormalizeAttendees(in.Attendees)
	in.RoomID = sanitizer.TrimAndNormalize(in.RoomID)
}

func sanitizeUpdate(u *model.MeetingUpdate) {
	if u.Title != nil {
		v := sanitizer.NormalizeName(*u.Title)
		u.Title = &v
	}
	if u.Description != nil {
		v := sanitizer.NormalizeText(*u.Description)
		u.Description = &v
	}
	if u.OrganizerFullName != nil {
		v := sanitizer.NormalizeName(*u.OrganizerFullName)
		u.OrganizerFullName = &v
	}
	if u.OrganizerEmail != nil {
		v := sanitizer.NormalizeEmail(*u.OrganizerEmail)
		u.OrganizerEmail = &v
	}
	if u.Attendees != nil {
		v := sanitizer.NormalizeAttendees(*u.Attendees)
		u.Attendees = &v
	}
	if u.RoomID != nil {
		v := sanitizer.TrimAndNormalize(*u.RoomID)
		u.RoomID = &v
	}
}

func rangeMessage(err error) string {
	switch {
	case errors.Is(err, lifecycle.ErrInvalidRange):
		return "Start date must be before end date"
	case errors.Is(err, lifecycle.ErrStartInPast):
		return "Start date cannot be in the past"
	default:
		return err.Error()
	}
}

func mapLookupError(err error, id string) error {
	if errors.Is(err, meetingserrors.ErrNotFound) {
		return apperrors.NotFoundWithID("Meeting", id)
	}
	if errors.Is(err, meetingserrors.ErrInvalidID) {
		return apperrors.InvalidInput("Invalid meeting ID format")
	}
	if apperrors.IsAppError(err) {
		return err
	}
	return apperrors.Internal("Failed to access meeting", err)
}

func mapWriteError(err error, kind accesscode.Kind) error {
	if apperrors.IsAppError(err) {
		return apperrors.AsAppError(err)
	}
	switch {
	case errors.Is(err, accesscode.ErrCodeSpaceExhausted):
		return apperrors.CodeSpaceExhausted(kind.String(), err)
	case errors.Is(err, meetingserrors.ErrStateChanged):
		return apperrors.InvalidState("Meeting is no longer scheduled")
	case errors.Is(err, meetingserrors.ErrDuplicateCode):
		return apperrors.Conflict("Meeting access code already in use")
	case errors.Is(err, meetingserrors.ErrNotFound):
		return apperrors.NotFound("Meeting")
	case errors.Is(err, meetingserrors.ErrInvalidID):
		return apperrors.InvalidInput("Invalid meeting ID format")
	default:
		return apperrors.Internal("Failed to save meeting", err)
	}
}
