package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"time"

	"github.com/google/uuid"

	"github.com/tasktrack-io/tasktrack/internal/logging"
	"github.com/tasktrack-io/tasktrack/internal/user"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrNameRequired       = errors.New("name is required")
	ErrEmailRequired      = errors.New("email is required")
	ErrPasswordRequired   = errors.New("password is required")
	ErrPasswordTooShort   = errors.New("password must be at least 8 characters")
	ErrInvalidEmailFormat = errors.New("invalid email format")
)

// LoginResult is what a successful login yields: a signed token and the
// client-safe user projection. The password hash never leaves the service.
type LoginResult struct {
	Token string       `json:"token"`
	User  user.Summary `json:"user"`
}

// Service handles authentication business logic. It is stateless per
// request; the credential store is the only shared mutable resource.
type Service struct {
	users         user.Repository
	tokens        TokenService
	hasher        PasswordHasher
	logger        *logging.Logger
	tokenDuration time.Duration
}

func NewService(
	users user.Repository,
	tokens TokenService,
	hasher PasswordHasher,
	logger *logging.Logger,
	tokenDuration time.Duration,
) *Service {
	return &Service{
		users:         users,
		tokens:        tokens,
		hasher:        hasher,
		logger:        logger,
		tokenDuration: tokenDuration,
	}
}

// Signup creates a new user account. It deliberately returns no token:
// the client completes the flow with a follow-up Login call.
func (s *Service) Signup(ctx context.Context, name, email, password string) (*user.User, error) {
	if name == "" {
		return nil, ErrNameRequired
	}
	if email == "" {
		return nil, ErrEmailRequired
	}
	if len(email) > 254 {
		return nil, ErrInvalidEmailFormat
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, ErrInvalidEmailFormat
	}
	if password == "" {
		return nil, ErrPasswordRequired
	}
	if len(password) < 8 {
		return nil, ErrPasswordTooShort
	}

	passwordHash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	newUser, err := s.users.Create(ctx, name, email, passwordHash)
	if err != nil {
		if errors.Is(err, user.ErrDuplicateEmail) {
			return nil, user.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("user created", "user_id", newUser.ID.String())
	return newUser, nil
}

// Login authenticates a user and issues a token bound to the user id.
// Unknown emails and wrong passwords both collapse to
// ErrInvalidCredentials so responses do not reveal which accounts exist.
func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	existingUser, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !s.hasher.Verify(password, existingUser.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.CreateToken(existingUser.ID, existingUser.Email, s.tokenDuration)
	if err != nil {
		return nil, fmt.Errorf("failed to create token: %w", err)
	}

	return &LoginResult{
		Token: token,
		User:  existingUser.Summary(),
	}, nil
}

// ChangePassword replaces the caller's password hash after verifying the
// old password. The caller id comes from an already-verified token.
// Existing tokens stay valid; there is no rotation on password change.
func (s *Service) ChangePassword(ctx context.Context, callerID uuid.UUID, oldPassword, newPassword string) error {
	if oldPassword == "" || newPassword == "" {
		return ErrPasswordRequired
	}
	if len(newPassword) < 8 {
		return ErrPasswordTooShort
	}

	existingUser, err := s.users.GetByID(ctx, callerID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return user.ErrNotFound
		}
		return fmt.Errorf("failed to get user: %w", err)
	}

	if !s.hasher.Verify(oldPassword, existingUser.PasswordHash) {
		return ErrInvalidCredentials
	}

	passwordHash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.users.UpdatePassword(ctx, callerID, passwordHash); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	s.logger.Info("password changed", "user_id", callerID.String())
	return nil
}
