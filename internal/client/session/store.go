// Package session holds the client-side session: the {user, token} pair
// persisted locally, restored at startup, and exposed as an explicit
// lifecycle state.
package session

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/rs/zerolog"

	"github.com/bookwyrm/bookshelf-system/internal/client/api"
)

// State is the session lifecycle. A store starts Uninitialized, passes
// through Checking exactly once during CheckAuth, and then always sits in
// one of the two final states.
type State int

const (
	StateUninitialized State = iota
	StateChecking
	StateAuthenticated
	StateUnauthenticated
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateChecking:
		return "checking"
	case StateAuthenticated:
		return "authenticated"
	case StateUnauthenticated:
		return "unauthenticated"
	default:
		return "unknown"
	}
}

// Persistence stores the two session entries durably. Save must commit both
// entries as one atomic batch: a reader never observes a token without its
// user or vice versa.
type Persistence interface {
	// Load returns the serialized user profile and the raw token. Absent
	// entries come back empty with a nil error.
	Load(ctx context.Context) (userJSON []byte, token string, err error)
	Save(ctx context.Context, userJSON []byte, token string) error
	// ClearUser drops only the user entry, keeping the rest of the document.
	ClearUser(ctx context.Context) error
	Clear(ctx context.Context) error
}

// Store is the process-wide session holder. Methods are mutex-guarded so a
// re-entrant call cannot interleave with the two-entry write, but the store
// is single-writer by convention: the UI serializes calls.
type Store struct {
	mu      sync.Mutex
	client  *api.Client
	persist Persistence
	log     zerolog.Logger

	state State
	user  *api.User
	token string
}

func NewStore(client *api.Client, persist Persistence, log zerolog.Logger) *Store {
	return &Store{
		client:  client,
		persist: persist,
		log:     log,
		state:   StateUninitialized,
	}
}

func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Store) User() *api.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

func (s *Store) SignedIn() bool {
	return s.State() == StateAuthenticated
}

// Register creates an account. The server returns no session on purpose, so
// the local state is untouched; callers follow up with Login.
func (s *Store) Register(ctx context.Context, username, email, password string) error {
	return s.client.Register(ctx, username, email, password)
}

// Login authenticates, persists the {user, token} pair atomically, and moves
// the store to Authenticated.
func (s *Store) Login(ctx context.Context, email, password string) error {
	sess, err := s.client.Login(ctx, email, password)
	if err != nil {
		return err
	}

	userJSON, err := json.Marshal(sess.User)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.persist.Save(ctx, userJSON, sess.Token); err != nil {
		// The session is still valid for this process even when the disk
		// write failed; it just will not survive a restart.
		s.log.Warn().Err(err).Msg("failed to persist session")
	}

	s.user = &sess.User
	s.token = sess.Token
	s.state = StateAuthenticated
	s.client.SetToken(sess.Token)
	return nil
}

// CheckAuth restores the session from persistent storage. It always
// terminates in Authenticated or Unauthenticated, never in Checking. A
// corrupted cached user entry is purged and treated as no session.
func (s *Store) CheckAuth(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = StateChecking

	userJSON, token, err := s.persist.Load(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("session restore failed")
		s.setUnauthenticatedLocked()
		return
	}

	var user *api.User
	if len(userJSON) > 0 {
		var u api.User
		if err := json.Unmarshal(userJSON, &u); err != nil {
			s.log.Warn().Err(err).Msg("cached user entry corrupted, purging")
			if clearErr := s.persist.ClearUser(ctx); clearErr != nil {
				s.log.Warn().Err(clearErr).Msg("failed to purge corrupted user entry")
			}
		} else {
			user = &u
		}
	}

	if token != "" && user != nil {
		s.user = user
		s.token = token
		s.state = StateAuthenticated
		s.client.SetToken(token)
		s.log.Debug().Msg("session restored from storage")
		return
	}

	s.setUnauthenticatedLocked()
}

// Logout clears the persisted pair and resets the state. The state reset is
// unconditional: a failed clear never leaves the UI stuck authenticated.
// Calling Logout when already unauthenticated is a no-op.
func (s *Store) Logout(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.persist.Clear(ctx); err != nil {
		s.log.Warn().Err(err).Msg("failed to clear persisted session")
	}
	s.setUnauthenticatedLocked()
}

func (s *Store) setUnauthenticatedLocked() {
	s.user = nil
	s.token = ""
	s.state = StateUnauthenticated
	s.client.SetToken("")
}
