package session

// Storage persists session state across process restarts. Implementations
// must never be given or store a password or password hash; State carries
// only the token and the user summary.
type Storage interface {
	// Load returns the persisted state and whether one was present.
	Load() (State, bool, error)
	Save(State) error
	Clear() error
}
