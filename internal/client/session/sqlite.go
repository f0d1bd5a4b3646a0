package session

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tasktrack-io/tasktrack/internal/user"

	_ "modernc.org/sqlite"
)

const sessionKey = "session"

// persistedState is the on-disk shape. Only the token and the user
// summary fields are written; there is nowhere for a hash to go.
type persistedState struct {
	Token         string    `json:"token"`
	UserID        uuid.UUID `json:"user_id"`
	UserName      string    `json:"user_name"`
	UserEmail     string    `json:"user_email"`
	UserCreatedAt time.Time `json:"user_created_at"`
}

// SQLiteStorage persists the session in a local single-row key-value
// table, surviving process restarts.
type SQLiteStorage struct {
	db *sql.DB
}

// NewSQLiteStorage opens (or creates) the session database at path
func NewSQLiteStorage(path string) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open session db: %w", err)
	}

	_, err = db.Exec(`
CREATE TABLE IF NOT EXISTS metadata (
  key   TEXT PRIMARY KEY,
  value BLOB NOT NULL
);
`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to init session db: %w", err)
	}

	return &SQLiteStorage{db: db}, nil
}

func (s *SQLiteStorage) Load() (State, bool, error) {
	var raw []byte
	err := s.db.QueryRow(`SELECT value FROM metadata WHERE key = ?`, sessionKey).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return State{}, false, nil
		}
		return State{}, false, fmt.Errorf("failed to read session: %w", err)
	}

	var p persistedState
	if err := json.Unmarshal(raw, &p); err != nil {
		return State{}, false, fmt.Errorf("failed to decode session: %w", err)
	}

	return p.toState(), true, nil
}

func (s *SQLiteStorage) Save(state State) error {
	if state.User == nil {
		return errors.New("refusing to persist session without user")
	}

	raw, err := json.Marshal(persistedState{
		Token:         state.Token,
		UserID:        state.User.ID,
		UserName:      state.User.Name,
		UserEmail:     state.User.Email,
		UserCreatedAt: state.User.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	_, err = s.db.Exec(`
INSERT INTO metadata(key, value) VALUES(?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value
`, sessionKey, raw)
	if err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}
	return nil
}

func (s *SQLiteStorage) Clear() error {
	if _, err := s.db.Exec(`DELETE FROM metadata WHERE key = ?`, sessionKey); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

// Close releases the underlying database handle
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

func (p *persistedState) toState() State {
	u := user.Summary{
		ID:        p.UserID,
		Name:      p.UserName,
		Email:     p.UserEmail,
		CreatedAt: p.UserCreatedAt,
	}
	return State{Token: p.Token, User: &u}
}
