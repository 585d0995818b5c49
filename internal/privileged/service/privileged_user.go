package service

import (
	"context"
	"errors"
	privilegederrors "roombook/internal/privileged/errors"
	"roombook/internal/privileged/repository"
	"roombook/internal/privileged/validator"
	"roombook/pkg/config"
	apperrors "roombook/pkg/errors"
	"roombook/pkg/model"
	"roombook/pkg/sanitizer"
	"time"

	"golang.org/x/sync/errgroup"
)

type PrivilegedUserService interface {
	Create(ctx context.Context, in *model.PrivilegedUserCreate) (*model.PrivilegedUser, error)
	GetByID(ctx context.Context, id string) (*model.PrivilegedUser, error)
	GetByEmail(ctx context.Context, email string) (*model.PrivilegedUser, error)
	GetAll(ctx context.Context, filter model.PrivilegedUserFilter, limit int, offset int64) ([]*model.PrivilegedUser, int64, error)
	Update(ctx context.Context, id string, updates *model.PrivilegedUserUpdate) (*model.PrivilegedUser, error)
	Delete(ctx context.Context, id string) error
	IsPrivileged(ctx context.Context, email string) (bool, error)
}

type privilegedUserService struct {
	repo      repository.PrivilegedUserRepository
	validator *validator.PrivilegedUserValidator
	cfg       *config.Config
	now       func() time.Time
}

func NewPrivilegedUserService(
	repo repository.PrivilegedUserRepository,
	validator *validator.PrivilegedUserValidator,
	cfg *config.Config,
	now func() time.Time,
) PrivilegedUserService {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &privilegedUserService{
		repo:      repo,
		validator: validator,
		cfg:       cfg,
		now:       now,
	}
}

func (s *privilegedUserService) Create(ctx context.Context, in *model.PrivilegedUserCreate) (*model.PrivilegedUser, error) {
	in.FullName = sanitizer.NormalizeName(in.FullName)
	in.Email = sanitizer.NormalizeEmail(in.Email)
	in.Company = sanitizer.NormalizeCompany(in.Company)

	if err := s.validator.ValidateCreate(in); err != nil {
		s.cfg.Log.Warn("Privileged user validation failed", "error", err)
		return nil, apperrors.Validation("Privileged user validation failed", map[string]any{"error": err.Error()})
	}

	now := s.now().Truncate(time.Millisecond)
	user := &model.PrivilegedUser{
		FullName:  in.FullName,
		Email:     in.Email,
		Company:   in.Company,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if in.IsActive != nil {
		user.IsActive = *in.IsActive
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, privilegederrors.ErrDuplicateEmail) {
			return nil, apperrors.Conflict("A privileged user with this email already exists").
				WithDetails(map[string]any{"email": user.Email})
		}
		s.cfg.Log.Error("Failed to create privileged user", "email", user.Email, "error", err)
		return nil, apperrors.Internal("Failed to create privileged user", err)
	}

	s.cfg.Log.Info("Privileged user created successfully",
		"id", user.ID,
		"email", user.Email,
		"company", user.Company,
	)
	return user, nil
}

func (s *privilegedUserService) GetByID(ctx context.Context, id string) (*model.PrivilegedUser, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Privileged user ID cannot be empty")
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapLookupError(err, id)
	}
	return user, nil
}

// GetByEmail returns the active privileged user registered under email.
func (s *privilegedUserService) GetByEmail(ctx context.Context, email string) (*model.PrivilegedUser, error) {
	email = sanitizer.NormalizeEmail(email)
	if email == "" {
		return nil, apperrors.InvalidInput("Email cannot be empty")
	}

	user, err := s.repo.FindActiveByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, privilegederrors.ErrNotFound) {
			return nil, apperrors.NotFound("Active privileged user")
		}
		return nil, apperrors.Internal("Failed to retrieve privileged user", err)
	}
	return user, nil
}

func (s *privilegedUserService) GetAll(ctx context.Context, filter model.PrivilegedUserFilter, limit int, offset int64) ([]*model.PrivilegedUser, int64, error) {
	filter.Company = sanitizer.NormalizeCompany(filter.Company)

	var count int64
	var users []*model.PrivilegedUser

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		count, err = s.repo.Count(gctx, filter)
		if err != nil {
			s.cfg.Log.Error("Failed to count privileged users", "error", err)
			return apperrors.Internal("Failed to count privileged users", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		users, err = s.repo.FindAll(gctx, filter, limit, offset)
		if err != nil {
			s.cfg.Log.Error("Failed to list privileged users", "error", err)
			return apperrors.Internal("Failed to retrieve privileged users", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	return users, count, nil
}

func (s *privilegedUserService) Update(ctx context.Context, id string, updates *model.PrivilegedUserUpdate) (*model.PrivilegedUser, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Privileged user ID cannot be empty")
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapLookupError(err, id)
	}

	if err := s.validator.ValidateUpdate(updates); err != nil {
		s.cfg.Log.Warn("Privileged user update validation failed", "id", id, "error", err)
		return nil, apperrors.Validation("Invalid update input", map[string]any{"error": err.Error()})
	}

	merged := *existing
	if updates.FullName != nil {
		merged.FullName = sanitizer.NormalizeName(*updates.FullName)
	}
	if updates.Email != nil {
		merged.Email = sanitizer.NormalizeEmail(*updates.Email)
	}
	if updates.Company != nil {
		merged.Company = sanitizer.NormalizeCompany(*updates.Company)
	}
	if updates.IsActive != nil {
		merged.IsActive = *updates.IsActive
	}
	merged.UpdatedAt = s.now().Truncate(time.Millisecond)

	if err := s.validator.Validate(&merged); err != nil {
		return nil, apperrors.Validation("Privileged user validation failed", map[string]any{"error": err.Error()})
	}

	if err := s.repo.Update(ctx, id, &merged); err != nil {
		if errors.Is(err, privilegederrors.ErrDuplicateEmail) {
			return nil, apperrors.Conflict("A privileged user with this email already exists")
		}
		s.cfg.Log.Error("Failed to update privileged user", "id", id, "error", err)
		return nil, mapLookupError(err, id)
	}

	s.cfg.Log.Info("Privileged user updated successfully", "id", id)
	return &merged, nil
}

func (s *privilegedUserService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Privileged user ID cannot be empty")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return mapLookupError(err, id)
	}

	s.cfg.Log.Info("Privileged user deleted successfully", "id", id)
	return nil
}

// IsPrivileged reports whether email belongs to an active privileged user.
func (s *privilegedUserService) IsPrivileged(ctx context.Context, email string) (bool, error) {
	_, err := s.GetByEmail(ctx, email)
	if err == nil {
		return true, nil
	}
	if apperrors.HasCode(err, apperrors.CodeNotFound) || apperrors.HasCode(err, apperrors.CodeInvalidInput) {
		return false, nil
	}
	return false, err
}

func mapLookupError(err error, id string) error {
	if errors.Is(err, privilegederrors.ErrNotFound) {
		return apperrors.NotFoundWithID("Privileged user", id)
	}
	if errors.Is(err, privilegederrors.ErrInvalidID) {
		return apperrors.InvalidInput("Invalid privileged user ID format")
	}
	return apperrors.Internal("Failed to access privileged user", err)
}
