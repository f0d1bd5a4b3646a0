// Package nav selects which shell of the application a session is
// allowed to see.
package nav

import (
	"github.com/tasktrack-io/tasktrack/internal/client/session"
)

// Shell is a top-level screen set
type Shell int

const (
	// ShellWelcome holds the unauthenticated screens (login, signup)
	ShellWelcome Shell = iota
	// ShellAuthenticated holds the task screens
	ShellAuthenticated
)

func (s Shell) String() string {
	if s == ShellAuthenticated {
		return "authenticated"
	}
	return "welcome"
}

// SelectRoot is a pure function of session state. Token presence alone
// decides; an expired-but-present token still selects the authenticated
// shell until a protected call fails.
func SelectRoot(state session.State) Shell {
	if state.Authenticated() {
		return ShellAuthenticated
	}
	return ShellWelcome
}
