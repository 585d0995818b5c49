package service

import (
	"context"
	"errors"
	"roombook/internal/accesscode"
	roomserrors "roombook/internal/rooms/errors"
	"roombook/internal/rooms/lockstate"
	"roombook/internal/rooms/repository"
	"roombook/internal/rooms/validator"
	"roombook/pkg/config"
	apperrors "roombook/pkg/errors"
	"roombook/pkg/model"
	"roombook/pkg/sanitizer"
	"time"

	"golang.org/x/sync/errgroup"
)

type RoomService interface {
	Create(ctx context.Context, in *model.RoomCreate) (*model.Room, error)
	GetByID(ctx context.Context, id string) (*model.Room, error)
	GetByAccessCode(ctx context.Context, code string) (*model.Room, error)
	GetAll(ctx context.Context, filter model.RoomFilter, limit int, offset int64) ([]*model.Room, int64, error)
	Update(ctx context.Context, id string, updates *model.RoomUpdate) (*model.Room, error)
	Delete(ctx context.Context, id string) error
	Lock(ctx context.Context, code string) (*model.Room, error)
	Unlock(ctx context.Context, code string) (*model.Room, error)
	CheckLockStatus(ctx context.Context, code string) (*model.RoomLockStatus, error)
}

// ScheduledMeetingCounter reports how many Scheduled meetings still reference a room.
type ScheduledMeetingCounter interface {
	CountScheduledByRoom(ctx context.Context, roomID string) (int64, error)
}

type roomService struct {
	repo      repository.RoomRepository
	meetings  ScheduledMeetingCounter
	codes     *accesscode.Generator
	validator *validator.RoomValidator
	cfg       *config.Config
	now       func() time.Time
}

func NewRoomService(
	repo repository.RoomRepository,
	meetings ScheduledMeetingCounter,
	codes *accesscode.Generator,
	validator *validator.RoomValidator,
	cfg *config.Config,
	now func() time.Time,
) RoomService {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &roomService{
		repo:      repo,
		meetings:  meetings,
		codes:     codes,
		validator: validator,
		cfg:       cfg,
		now:       now,
	}
}

func (s *roomService) Create(ctx context.Context, in *model.RoomCreate) (*model.Room, error) {
	in.Name = sanitizer.NormalizeName(in.Name)
	in.Description = sanitizer.NormalizeText(in.Description)
	in.Company = sanitizer.NormalizeCompany(in.Company)

	if err := s.validator.ValidateCreate(in); err != nil {
		s.cfg.Log.Warn("Room validation failed", "error", err)
		return nil, apperrors.Validation("Room validation failed", map[string]any{"error": err.Error()})
	}

	now := s.now().Truncate(time.Millisecond)
	room := &model.Room{
		Name:        in.Name,
		Description: in.Description,
		Company:     in.Company,
		Available:   true,
		Locked:      false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if in.Available != nil {
		room.Available = *in.Available
	}

	_, err := s.codes.Allocate(ctx, accesscode.Room, s.repo.AccessCodeExists, func(ctx context.Context, code string) error {
		room.ID = ""
		room.AccessCode = code
		if err := s.validator.Validate(room); err != nil {
			return apperrors.Validation("Room validation failed", map[string]any{"error": err.Error()})
		}
		return s.repo.Create(ctx, room)
	})
	if err != nil {
		s.cfg.Log.Error("Failed to create room", "name", room.Name, "error", err)
		return nil, mapCreateError(err)
	}

	s.cfg.Log.Info("Room created successfully",
		"id", room.ID,
		"name", room.Name,
		"company", room.Company,
	)
	return room, nil
}

func (s *roomService) GetByID(ctx context.Context, id string) (*model.Room, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Room ID cannot be empty")
	}

	room, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapLookupError(err, id)
	}
	return room, nil
}

func (s *roomService) GetByAccessCode(ctx context.Context, code string) (*model.Room, error) {
	code = sanitizer.NormalizeAccessCode(code)
	if err := s.validator.ValidateAccessRequest(&model.RoomAccessRequest{AccessCode: code}); err != nil {
		return nil, apperrors.InvalidInput("Invalid room access code format")
	}

	room, err := s.repo.FindByAccessCode(ctx, code)
	if err != nil {
		if errors.Is(err, roomserrors.ErrNotFound) {
			return nil, apperrors.NotFound("Room with this access code")
		}
		return nil, apperrors.Internal("Failed to retrieve room", err)
	}
	return room, nil
}

func (s *roomService) GetAll(ctx context.Context, filter model.RoomFilter, limit int, offset int64) ([]*model.Room, int64, error) {
	filter.Company = sanitizer.NormalizeCompany(filter.Company)

	var count int64
	var rooms []*model.Room

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		count, err = s.repo.Count(gctx, filter)
		if err != nil {
			s.cfg.Log.Error("Failed to count rooms", "error", err)
			return apperrors.Internal("Failed to count rooms", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		rooms, err = s.repo.FindAll(gctx, filter, limit, offset)
		if err != nil {
			s.cfg.Log.Error("Failed to list rooms", "limit", limit, "offset", offset, "error", err)
			return apperrors.Internal("Failed to retrieve rooms", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	return rooms, count, nil
}

func (s *roomService) Update(ctx context.Context, id string, updates *model.RoomUpdate) (*model.Room, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Room ID cannot be empty")
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapLookupError(err, id)
	}

	if err := s.validator.ValidateUpdate(updates); err != nil {
		s.cfg.Log.Warn("Room update validation failed", "id", id, "error", err)
		return nil, apperrors.Validation("Invalid update input", map[string]any{"error": err.Error()})
	}

	merged := mergeRoomUpdates(existing, updates)
	merged.UpdatedAt = s.now().Truncate(time.Millisecond)
	if err := s.validator.Validate(merged); err != nil {
		s.cfg.Log.Warn("Room validation failed", "id", id, "error", err)
		return nil, apperrors.Validation("Room validation failed", map[string]any{"error": err.Error()})
	}

	if err := s.repo.Update(ctx, id, merged); err != nil {
		s.cfg.Log.Error("Failed to update room", "id", id, "error", err)
		return nil, mapLookupError(err, id)
	}

	// Lock state is written only by Lock/Unlock, so re-read to report the current value.
	updated, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapLookupError(err, id)
	}

	s.cfg.Log.Info("Room updated successfully", "id", id)
	return updated, nil
}

func (s *roomService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Room ID cannot be empty")
	}

	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return mapLookupError(err, id)
	}

	scheduled, err := s.meetings.CountScheduledByRoom(ctx, id)
	if err != nil {
		return apperrors.Internal("Failed to check scheduled meetings", err)
	}
	if scheduled > 0 {
		return apperrors.Conflict("Room still has scheduled meetings").
			WithDetails(map[string]any{"room_id": id, "scheduled_meetings": scheduled})
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return mapLookupError(err, id)
	}

	s.cfg.Log.Info("Room deleted successfully", "id", id)
	return nil
}

func (s *roomService) Lock(ctx context.Context, code string) (*model.Room, error) {
	return s.transition(ctx, code, "lock", lockstate.Lock)
}

func (s *roomService) Unlock(ctx context.Context, code string) (*model.Room, error) {
	return s.transition(ctx, code, "unlock", lockstate.Unlock)
}

func (s *roomService) CheckLockStatus(ctx context.Context, code string) (*model.RoomLockStatus, error) {
	room, err := s.GetByAccessCode(ctx, code)
	if err != nil {
		return nil, err
	}
	return &model.RoomLockStatus{Locked: room.Locked, Room: room}, nil
}

// transition loads the room by code, applies a pure lock transform and persists it
// with a write conditioned on the prior lock state.
func (s *roomService) transition(
	ctx context.Context,
	code, action string,
	apply func(model.Room, time.Time) (model.Room, error),
) (*model.Room, error) {
	room, err := s.GetByAccessCode(ctx, code)
	if err != nil {
		return nil, err
	}

	next, err := apply(*room, s.now().Truncate(time.Millisecond))
	if err != nil {
		s.cfg.Log.Warn("Room "+action+" rejected", "id", room.ID, "error", err)
		switch {
		case errors.Is(err, lockstate.ErrAlreadyLocked):
			return nil, apperrors.InvalidState("Room is already locked")
		case errors.Is(err, lockstate.ErrAlreadyUnlocked):
			return nil, apperrors.InvalidState("Room is already unlocked")
		default:
			return nil, apperrors.InvalidState(err.Error())
		}
	}

	if err := s.repo.SetLocked(ctx, room.ID, room.Locked, next.Locked, next.UpdatedAt); err != nil {
		if errors.Is(err, roomserrors.ErrStateChanged) {
			return nil, apperrors.InvalidState("Room lock state changed concurrently")
		}
		return nil, mapLookupError(err, room.ID)
	}

	s.cfg.Log.Info("Room "+action+" applied", "id", room.ID, "locked", next.Locked)
	return &next, nil
}

func mergeRoomUpdates(existing *model.Room, updates *model.RoomUpdate) *model.Room {
	merged := *existing

	if updates.Name != nil {
		merged.Name = sanitizer.NormalizeName(*updates.Name)
	}
	if updates.Description != nil {
		merged.Description = sanitizer.NormalizeText(*updates.Description)
	}
	if updates.Company != nil {
		merged.Company = sanitizer.NormalizeCompany(*updates.Company)
	}
	if updates.Available != nil {
		merged.Available = *updates.Available
	}

	return &merged
}

func mapLookupError(err error, id string) error {
	if errors.Is(err, roomserrors.ErrNotFound) {
		return apperrors.NotFoundWithID("Room", id)
	}
	if errors.Is(err, roomserrors.ErrInvalidID) {
		return apperrors.InvalidInput("Invalid room ID format")
	}
	if apperrors.IsAppError(err) {
		return err
	}
	return apperrors.Internal("Failed to access room", err)
}

func mapCreateError(err error) error {
	if errors.Is(err, accesscode.ErrCodeSpaceExhausted) {
		return apperrors.CodeSpaceExhausted(accesscode.Room.String(), err)
	}
	if apperrors.IsAppError(err) {
		return err
	}
	return apperrors.Internal("Failed to create room", err)
}
