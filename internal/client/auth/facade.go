// Package auth is the client-side authentication facade: the only code
// that moves the session between anonymous and authenticated.
package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/tasktrack-io/tasktrack/internal/client/api"
	"github.com/tasktrack-io/tasktrack/internal/client/session"
)

// ErrSignupLoginFailed marks the ambiguous outcome where the account was
// created but the follow-up login did not establish a session. Callers
// should tell the user to log in manually.
var ErrSignupLoginFailed = errors.New("account created but login failed")

// Facade drives login, signup, and logout against the server and keeps
// the session store consistent with the outcomes.
type Facade struct {
	api     *api.Client
	session *session.Store
}

func NewFacade(apiClient *api.Client, store *session.Store) *Facade {
	return &Facade{api: apiClient, session: store}
}

// Login authenticates and establishes the session atomically. On any
// failure the session is left untouched and the server's reason is
// propagated to the caller.
func (f *Facade) Login(ctx context.Context, email, password string) error {
	resp, err := f.api.Login(ctx, email, password)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	if err := f.session.Login(resp.Token, resp.User); err != nil {
		// Session is live in memory; only persistence failed
		return fmt.Errorf("login succeeded but session persistence failed: %w", err)
	}
	return nil
}

// Signup creates the account and then logs in with the same credentials,
// preserving the two-request flow. A failed follow-up login is returned
// as ErrSignupLoginFailed wrapping the cause.
func (f *Facade) Signup(ctx context.Context, name, email, password string) error {
	if err := f.api.Signup(ctx, name, email, password); err != nil {
		return fmt.Errorf("signup failed: %w", err)
	}

	if err := f.Login(ctx, email, password); err != nil {
		return fmt.Errorf("%w: %w", ErrSignupLoginFailed, err)
	}
	return nil
}

// Logout clears the session unconditionally. There is no server-side
// revocation; the token simply stops being sent.
func (f *Facade) Logout(ctx context.Context) error {
	return f.session.Logout()
}

// ChangePassword changes the password for the authenticated user. The
// session and its token remain valid afterwards.
func (f *Facade) ChangePassword(ctx context.Context, oldPassword, newPassword string) error {
	if !f.session.Get().Authenticated() {
		return errors.New("not logged in")
	}
	return f.api.ChangePassword(ctx, oldPassword, newPassword)
}
