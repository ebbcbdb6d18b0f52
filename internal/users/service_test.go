package users

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/harvesthub-dev/harvesthub-backend/pkg/config"
	"github.com/harvesthub-dev/harvesthub-backend/pkg/db/models"
	"github.com/harvesthub-dev/harvesthub-backend/pkg/enums"
	pkgerrors "github.com/harvesthub-dev/harvesthub-backend/pkg/errors"
	"github.com/harvesthub-dev/harvesthub-backend/pkg/security"
)

func testPasswordConfig() config.PasswordConfig {
	return config.PasswordConfig{
		ArgonMemoryKB:    8 * 1024,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}
}

func newUsersTestService(t *testing.T, store *stubUserStore) Service {
	t.Helper()
	svc, err := NewService(store, testPasswordConfig())
	if err != nil {
		t.Fatalf("unexpected constructor error: %v", err)
	}
	return svc
}

func TestGetProfile(t *testing.T) {
	t.Parallel()

	user := &models.User{ID: uuid.New(), Email: "buyer@example.com", Role: enums.UserRoleBuyer}
	svc := newUsersTestService(t, &stubUserStore{user: user})

	got, err := svc.GetProfile(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != user.ID {
		t.Fatal("wrong user returned")
	}

	_, err = svc.GetProfile(context.Background(), uuid.Nil)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("nil caller must be unauthorized, got %v", err)
	}
}

func TestGetProfileNotFound(t *testing.T) {
	t.Parallel()

	svc := newUsersTestService(t, &stubUserStore{findErr: gorm.ErrRecordNotFound})
	_, err := svc.GetProfile(context.Background(), uuid.New())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestUpdateProfileCreatesMissingProfile(t *testing.T) {
	t.Parallel()

	user := &models.User{ID: uuid.New(), Email: "buyer@example.com"}
	store := &stubUserStore{user: user}
	svc := newUsersTestService(t, store)

	name := "  Maria Santos  "
	updated, err := svc.UpdateProfile(context.Background(), user.ID, UpdateProfileInput{FullName: &name})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Profile == nil || updated.Profile.FullName != "Maria Santos" {
		t.Fatalf("profile not updated: %+v", updated.Profile)
	}
	if store.savedProfile == nil || store.savedProfile.UserID != user.ID {
		t.Fatal("profile row must be written for the caller")
	}
}

func TestUpdateProfileRejectsEmptyContact(t *testing.T) {
	t.Parallel()

	user := &models.User{ID: uuid.New()}
	svc := newUsersTestService(t, &stubUserStore{user: user})

	blank := "   "
	_, err := svc.UpdateProfile(context.Background(), user.ID, UpdateProfileInput{ContactNo: &blank})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestChangePassword(t *testing.T) {
	t.Parallel()

	hash, err := security.HashPassword("old-password", testPasswordConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	user := &models.User{ID: uuid.New(), PasswordHash: hash}
	store := &stubUserStore{user: user}
	svc := newUsersTestService(t, store)

	if err := svc.ChangePassword(context.Background(), user.ID, "old-password", "new-password"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.savedHash == "" || store.savedHash == hash {
		t.Fatal("a fresh hash must be stored")
	}

	err = svc.ChangePassword(context.Background(), user.ID, "wrong-password", "new-password")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("unexpected error: %v", err)
	}

	err = svc.ChangePassword(context.Background(), user.ID, "old-password", "short")
	typed = pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("unexpected error: %v", err)
	}
}

type stubUserStore struct {
	user         *models.User
	findErr      error
	savedProfile *models.UserProfile
	savedHash    string
}

func (s *stubUserStore) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	if s.user == nil || s.user.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return s.user, nil
}

func (s *stubUserStore) UpdateProfile(ctx context.Context, profile *models.UserProfile) error {
	s.savedProfile = profile
	return nil
}

func (s *stubUserStore) UpdateContactNo(ctx context.Context, userID uuid.UUID, contactNo string) error {
	return nil
}

func (s *stubUserStore) UpdatePasswordHash(ctx context.Context, userID uuid.UUID, hash string) error {
	s.savedHash = hash
	return nil
}
