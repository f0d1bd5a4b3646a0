package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/tasktrack-io/tasktrack/internal/logging"
	"github.com/tasktrack-io/tasktrack/internal/user"
)

func newTestService(t *testing.T) (*Service, *user.MemoryRepository, TokenService) {
	t.Helper()

	tokens, err := NewPasetoService(testKey)
	require.NoError(t, err)

	repo := user.NewMemoryRepository()
	svc := NewService(repo, tokens, NewHasher(), logging.NewLogger(true), time.Hour)
	return svc, repo, tokens
}

func TestService_SignupThenLogin(t *testing.T) {
	svc, _, tokens := newTestService(t)
	ctx := context.Background()

	created, err := svc.Signup(ctx, "Ann", "ann@x.com", "secret-password")
	require.NoError(t, err)
	require.Equal(t, "ann@x.com", created.Email)
	require.NotEmpty(t, created.PasswordHash)
	require.NotEqual(t, "secret-password", created.PasswordHash)

	result, err := svc.Login(ctx, "ann@x.com", "secret-password")
	require.NoError(t, err)
	require.NotEmpty(t, result.Token)
	require.Equal(t, created.ID, result.User.ID)
	require.Equal(t, "ann@x.com", result.User.Email)

	// The issued token verifies back to the created user's id
	claims, err := tokens.VerifyToken(result.Token)
	require.NoError(t, err)
	require.Equal(t, created.ID.String(), claims.UserID)
}

func TestService_SignupValidation(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	cases := []struct {
		name                  string
		userName, email, pass string
		wantErr               error
	}{
		{"missing name", "", "a@x.com", "secret-password", ErrNameRequired},
		{"missing email", "Ann", "", "secret-password", ErrEmailRequired},
		{"bad email", "Ann", "not-an-email", "secret-password", ErrInvalidEmailFormat},
		{"missing password", "Ann", "a@x.com", "", ErrPasswordRequired},
		{"short password", "Ann", "a@x.com", "short", ErrPasswordTooShort},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Signup(ctx, tc.userName, tc.email, tc.pass)
			require.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestService_SignupDuplicateEmail(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Signup(ctx, "Ann", "ann@x.com", "secret-password")
	require.NoError(t, err)

	_, err = svc.Signup(ctx, "Another Ann", "ann@x.com", "other-password")
	require.ErrorIs(t, err, user.ErrDuplicateEmail)
}

func TestService_LoginFailures(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Signup(ctx, "Ann", "ann@x.com", "secret-password")
	require.NoError(t, err)

	// Unknown email and wrong password are indistinguishable to the caller
	_, err = svc.Login(ctx, "nonexistent@x.com", "anything8chars")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, "ann@x.com", "wrong-password")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, "", "")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestService_ChangePassword(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Signup(ctx, "Ann", "ann@x.com", "old-password")
	require.NoError(t, err)

	require.NoError(t, svc.ChangePassword(ctx, created.ID, "old-password", "new-password"))

	// New password works, old one does not
	_, err = svc.Login(ctx, "ann@x.com", "new-password")
	require.NoError(t, err)

	_, err = svc.Login(ctx, "ann@x.com", "old-password")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestService_ChangePasswordFailures(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Signup(ctx, "Ann", "ann@x.com", "secret-password")
	require.NoError(t, err)

	require.ErrorIs(t, svc.ChangePassword(ctx, created.ID, "", "new-password"), ErrPasswordRequired)
	require.ErrorIs(t, svc.ChangePassword(ctx, created.ID, "secret-password", ""), ErrPasswordRequired)
	require.ErrorIs(t, svc.ChangePassword(ctx, created.ID, "secret-password", "short"), ErrPasswordTooShort)
	require.ErrorIs(t, svc.ChangePassword(ctx, created.ID, "wrong-old", "new-password"), ErrInvalidCredentials)
	require.ErrorIs(t, svc.ChangePassword(ctx, uuid.New(), "secret-password", "new-password"), user.ErrNotFound)

	// Failed attempts must not have touched the stored hash
	_, err = svc.Login(ctx, "ann@x.com", "secret-password")
	require.NoError(t, err)
}

func TestService_TokenStaysValidAfterPasswordChange(t *testing.T) {
	svc, _, tokens := newTestService(t)
	ctx := context.Background()

	created, err := svc.Signup(ctx, "Ann", "ann@x.com", "old-password")
	require.NoError(t, err)

	result, err := svc.Login(ctx, "ann@x.com", "old-password")
	require.NoError(t, err)

	require.NoError(t, svc.ChangePassword(ctx, created.ID, "old-password", "new-password"))

	// No rotation on password change: the old token still verifies
	claims, err := tokens.VerifyToken(result.Token)
	require.NoError(t, err)
	require.Equal(t, created.ID.String(), claims.UserID)
}
