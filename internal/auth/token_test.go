package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

var (
	testKey      = []byte("0123456789abcdef0123456789abcdef")
	otherTestKey = []byte("fedcba9876543210fedcba9876543210")
)

// tokenServices builds every TokenService implementation so each
// contract test runs against both.
func tokenServices(t *testing.T, key []byte) map[string]TokenService {
	t.Helper()

	pasetoSvc, err := NewPasetoService(key)
	require.NoError(t, err)
	jwtSvc, err := NewJWTService(key)
	require.NoError(t, err)

	return map[string]TokenService{
		"paseto": pasetoSvc,
		"jwt":    jwtSvc,
	}
}

func TestTokenService_RoundTrip(t *testing.T) {
	userID := uuid.New()

	for name, svc := range tokenServices(t, testKey) {
		t.Run(name, func(t *testing.T) {
			token, err := svc.CreateToken(userID, "ann@x.com", time.Hour)
			require.NoError(t, err)
			require.NotEmpty(t, token)

			claims, err := svc.VerifyToken(token)
			require.NoError(t, err)
			require.Equal(t, userID.String(), claims.UserID)
			require.Equal(t, "ann@x.com", claims.Email)
			require.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt, time.Minute)
		})
	}
}

func TestTokenService_RejectsMutatedToken(t *testing.T) {
	for name, svc := range tokenServices(t, testKey) {
		t.Run(name, func(t *testing.T) {
			token, err := svc.CreateToken(uuid.New(), "ann@x.com", time.Hour)
			require.NoError(t, err)

			// Flip a character in the middle of the token
			mid := len(token) / 2
			flipped := byte('A')
			if token[mid] == flipped {
				flipped = 'B'
			}
			mutated := token[:mid] + string(flipped) + token[mid+1:]

			_, err = svc.VerifyToken(mutated)
			require.Error(t, err)
		})
	}
}

func TestTokenService_RejectsForeignKey(t *testing.T) {
	issuers := tokenServices(t, testKey)
	verifiers := tokenServices(t, otherTestKey)

	for name := range issuers {
		t.Run(name, func(t *testing.T) {
			token, err := issuers[name].CreateToken(uuid.New(), "ann@x.com", time.Hour)
			require.NoError(t, err)

			_, err = verifiers[name].VerifyToken(token)
			require.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestTokenService_RejectsExpiredToken(t *testing.T) {
	for name, svc := range tokenServices(t, testKey) {
		t.Run(name, func(t *testing.T) {
			token, err := svc.CreateToken(uuid.New(), "ann@x.com", -time.Minute)
			require.NoError(t, err)

			_, err = svc.VerifyToken(token)
			require.ErrorIs(t, err, ErrExpiredToken)
		})
	}
}

func TestTokenService_RejectsGarbage(t *testing.T) {
	for name, svc := range tokenServices(t, testKey) {
		t.Run(name, func(t *testing.T) {
			for _, bad := range []string{"", "garbage", "a.b.c", "v4.local."} {
				_, err := svc.VerifyToken(bad)
				require.ErrorIs(t, err, ErrInvalidToken, "token %q", bad)
			}
		})
	}
}

func TestTokenService_KeyLengthEnforced(t *testing.T) {
	_, err := NewPasetoService([]byte("too short"))
	require.Error(t, err)

	_, err = NewJWTService([]byte("too short"))
	require.Error(t, err)
}
