// Package session holds the client-resident record of the currently
// authenticated identity: the token and the user summary it was issued
// for. The two fields are always set and cleared together.
package session

import (
	"github.com/tasktrack-io/tasktrack/internal/user"
)

// State is an immutable snapshot of the session. The zero value is the
// anonymous state.
type State struct {
	Token string
	User  *user.Summary
}

// Authenticated reports whether a session is established. Token presence
// alone decides; an expired token is discovered reactively when a
// protected call fails.
func (s State) Authenticated() bool {
	return s.Token != ""
}
