package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/harvesthub-dev/harvesthub-backend/internal/users"
	pkgauth "github.com/harvesthub-dev/harvesthub-backend/pkg/auth"
	"github.com/harvesthub-dev/harvesthub-backend/pkg/auth/session"
	"github.com/harvesthub-dev/harvesthub-backend/pkg/config"
	"github.com/harvesthub-dev/harvesthub-backend/pkg/db/models"
	"github.com/harvesthub-dev/harvesthub-backend/pkg/enums"
	pkgerrors "github.com/harvesthub-dev/harvesthub-backend/pkg/errors"
	redisclient "github.com/harvesthub-dev/harvesthub-backend/pkg/redis"
	"github.com/harvesthub-dev/harvesthub-backend/pkg/security"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes identity lifecycle operations.
type Service interface {
	RequestEmailVerification(ctx context.Context, email string) error
	ResendVerificationCode(ctx context.Context, email string) error
	ConfirmEmailVerification(ctx context.Context, email, code string) error
	Signup(ctx context.Context, input SignupInput) (*models.User, error)
	Login(ctx context.Context, email, password string) (*TokenPair, error)
	Refresh(ctx context.Context, accessToken, refreshToken string) (*TokenPair, error)
	Logout(ctx context.Context, accessToken string) error
}

type service struct {
	users       users.Repository
	verified    VerifiedEmailStore
	codes       CodeStore
	mailer      Mailer
	sessions    SessionManager
	tx          txRunner
	jwtCfg      config.JWTConfig
	passwordCfg config.PasswordConfig
	verifyCfg   config.VerificationConfig
}

// NewService builds an auth service backed by the provided stack.
func NewService(
	userRepo users.Repository,
	verified VerifiedEmailStore,
	codes CodeStore,
	mailer Mailer,
	sessions SessionManager,
	tx txRunner,
	jwtCfg config.JWTConfig,
	passwordCfg config.PasswordConfig,
	verifyCfg config.VerificationConfig,
) (Service, error) {
	if userRepo == nil {
		return nil, fmt.Errorf("user repository required")
	}
	if verified == nil {
		return nil, fmt.Errorf("verified email store required")
	}
	if codes == nil {
		return nil, fmt.Errorf("code store required")
	}
	if mailer == nil {
		return nil, fmt.Errorf("mailer required")
	}
	if sessions == nil {
		return nil, fmt.Errorf("session manager required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{
		users:       userRepo,
		verified:    verified,
		codes:       codes,
		mailer:      mailer,
		sessions:    sessions,
		tx:          tx,
		jwtCfg:      jwtCfg,
		passwordCfg: passwordCfg,
		verifyCfg:   verifyCfg,
	}, nil
}

// SignupInput captures the registration payload.
type SignupInput struct {
	Email     string
	Password  string
	ContactNo string
	FullName  string
	Role      enums.UserRole
}

// TokenPair bundles a freshly minted access/refresh token with the account.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	User         *models.User
}

func (s *service) RequestEmailVerification(ctx context.Context, email string) error {
	email = normalize(email)
	if email == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}

	exists, err := s.users.EmailExists(ctx, email)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check email")
	}
	if exists {
		return pkgerrors.New(pkgerrors.CodeConflict, "email is already registered")
	}

	code, err := generateCode(s.verifyCfg.CodeLength)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate code")
	}

	if err := s.codes.Set(ctx, s.codes.VerificationCodeKey(email), code, s.verifyCfg.CodeTTL); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store verification code")
	}

	if err := s.mailer.SendVerificationCode(ctx, email, code); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "send verification code")
	}
	return nil
}

// ResendVerificationCode replaces the pending code for an email and mails the
// new one. It refuses when no verification was requested, so it cannot be used
// to fish for codes on arbitrary addresses.
func (s *service) ResendVerificationCode(ctx context.Context, email string) error {
	email = normalize(email)
	if email == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}

	key := s.codes.VerificationCodeKey(email)
	if _, err := s.codes.Get(ctx, key); err != nil {
		if errors.Is(err, redisclient.ErrNotFound) {
			return pkgerrors.New(pkgerrors.CodeValidation, "no pending verification for this email")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load verification code")
	}

	exists, err := s.users.EmailExists(ctx, email)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check email")
	}
	if exists {
		return pkgerrors.New(pkgerrors.CodeConflict, "email is already registered")
	}

	code, err := generateCode(s.verifyCfg.CodeLength)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate code")
	}

	// Overwriting the key invalidates the previous code and restarts the TTL.
	if err := s.codes.Set(ctx, key, code, s.verifyCfg.CodeTTL); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store verification code")
	}

	if err := s.mailer.SendVerificationCode(ctx, email, code); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "send verification code")
	}
	return nil
}

func (s *service) ConfirmEmailVerification(ctx context.Context, email, code string) error {
	email = normalize(email)
	code = strings.TrimSpace(code)
	if email == "" || code == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "email and code are required")
	}

	key := s.codes.VerificationCodeKey(email)
	stored, err := s.codes.Get(ctx, key)
	if err != nil {
		if errors.Is(err, redisclient.ErrNotFound) {
			return pkgerrors.New(pkgerrors.CodeValidation, "verification code expired or not requested")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load verification code")
	}

	if subtle.ConstantTimeCompare([]byte(stored), []byte(code)) != 1 {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid verification code")
	}

	if err := s.verified.MarkVerified(ctx, email); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record verified email")
	}

	if err := s.codes.Del(ctx, key); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear verification code")
	}
	return nil
}

func (s *service) Signup(ctx context.Context, input SignupInput) (*models.User, error) {
	email := normalize(input.Email)
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	if len(input.Password) < 8 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "password must be at least 8 characters")
	}
	if input.Role != enums.UserRoleFarmer && input.Role != enums.UserRoleBuyer {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "role must be farmer or buyer")
	}

	verified, err := s.verified.IsVerified(ctx, email)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check verified email")
	}
	if !verified {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "email has not been verified")
	}

	exists, err := s.users.EmailExists(ctx, email)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check email")
	}
	if exists {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "email is already registered")
	}

	username, err := generateUsername(ctx, s.users, email)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "derive username")
	}

	hash, err := security.HashPassword(input.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	user := &models.User{
		Email:        email,
		Username:     username,
		ContactNo:    strings.TrimSpace(input.ContactNo),
		Role:         input.Role,
		PasswordHash: hash,
		IsActive:     true,
		// farmers wait for admin approval before listing products
		IsApproved: input.Role == enums.UserRoleBuyer,
		Profile: &models.UserProfile{
			FullName: strings.TrimSpace(input.FullName),
		},
	}

	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if _, err := s.users.WithTx(tx).Create(ctx, user); err != nil {
			return err
		}
		return s.verified.WithTx(tx).Delete(ctx, email)
	}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create account")
	}

	return user, nil
}

func (s *service) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	email = normalize(email)
	if email == "" || password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email and password are required")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}

	ok, err := security.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
	}

	if !user.IsActive || user.IsRejected {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "account is not active")
	}

	return s.mintPair(ctx, user)
}

func (s *service) Refresh(ctx context.Context, accessToken, refreshToken string) (*TokenPair, error) {
	claims, err := pkgauth.ParseAccessTokenAllowExpired(s.jwtCfg, accessToken)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token")
	}

	newAccessID, newRefresh, err := s.sessions.Rotate(ctx, claims.ID, refreshToken)
	if err != nil {
		if errors.Is(err, session.ErrInvalidRefreshToken) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid refresh token")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rotate session")
	}

	signed, err := pkgauth.MintAccessToken(s.jwtCfg, time.Now(), pkgauth.AccessTokenPayload{
		UserID: claims.UserID,
		Role:   claims.Role,
		JTI:    newAccessID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint token")
	}

	return &TokenPair{AccessToken: signed, RefreshToken: newRefresh}, nil
}

func (s *service) Logout(ctx context.Context, accessToken string) error {
	claims, err := pkgauth.ParseAccessTokenAllowExpired(s.jwtCfg, accessToken)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token")
	}
	if err := s.sessions.Revoke(ctx, claims.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revoke session")
	}
	return nil
}

func (s *service) mintPair(ctx context.Context, user *models.User) (*TokenPair, error) {
	accessID := session.NewAccessID()

	signed, err := pkgauth.MintAccessToken(s.jwtCfg, time.Now(), pkgauth.AccessTokenPayload{
		UserID: user.ID,
		Role:   user.Role,
		JTI:    accessID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint token")
	}

	refresh, err := s.sessions.Generate(ctx, accessID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create session")
	}

	return &TokenPair{AccessToken: signed, RefreshToken: refresh, User: user}, nil
}
