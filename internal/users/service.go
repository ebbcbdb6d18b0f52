package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/harvesthub-dev/harvesthub-backend/pkg/config"
	"github.com/harvesthub-dev/harvesthub-backend/pkg/db/models"
	pkgerrors "github.com/harvesthub-dev/harvesthub-backend/pkg/errors"
	"github.com/harvesthub-dev/harvesthub-backend/pkg/security"
)

type userStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	UpdateProfile(ctx context.Context, profile *models.UserProfile) error
	UpdateContactNo(ctx context.Context, userID uuid.UUID, contactNo string) error
	UpdatePasswordHash(ctx context.Context, userID uuid.UUID, hash string) error
}

// Service exposes account self-management operations.
type Service interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*models.User, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (*models.User, error)
	ChangePassword(ctx context.Context, userID uuid.UUID, current, next string) error
}

type service struct {
	repo        userStore
	passwordCfg config.PasswordConfig
}

// NewService builds a user service backed by the provided stack.
func NewService(repo userStore, passwordCfg config.PasswordConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("user repository required")
	}
	return &service{repo: repo, passwordCfg: passwordCfg}, nil
}

// UpdateProfileInput carries the optional profile fields to mutate.
type UpdateProfileInput struct {
	FullName   *string
	PictureURL *string
	ContactNo  *string
}

func (s *service) GetProfile(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *service) UpdateProfile(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (*models.User, error) {
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.ContactNo != nil {
		contact := strings.TrimSpace(*input.ContactNo)
		if contact == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "contact number cannot be empty")
		}
		if err := s.repo.UpdateContactNo(ctx, userID, contact); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update contact number")
		}
		user.ContactNo = contact
	}

	if input.FullName != nil || input.PictureURL != nil {
		profile := user.Profile
		if profile == nil {
			profile = &models.UserProfile{UserID: userID}
		}
		if input.FullName != nil {
			profile.FullName = strings.TrimSpace(*input.FullName)
		}
		if input.PictureURL != nil {
			profile.PictureURL = strings.TrimSpace(*input.PictureURL)
		}
		if err := s.repo.UpdateProfile(ctx, profile); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update profile")
		}
		user.Profile = profile
	}

	return user, nil
}

func (s *service) ChangePassword(ctx context.Context, userID uuid.UUID, current, next string) error {
	if strings.TrimSpace(next) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "new password is required")
	}
	if len(next) < 8 {
		return pkgerrors.New(pkgerrors.CodeValidation, "new password must be at least 8 characters")
	}

	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return err
	}

	ok, err := security.VerifyPassword(current, user.PasswordHash)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !ok {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "current password is incorrect")
	}

	hash, err := security.HashPassword(next, s.passwordCfg)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	if err := s.repo.UpdatePasswordHash(ctx, userID, hash); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update password")
	}
	return nil
}

func (s *service) loadUser(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing caller identity")
	}
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	return user, nil
}
