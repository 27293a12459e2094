// Package session owns the auth session on the client. It bootstraps the
// persisted session on startup, follows the backend's state-change stream
// afterwards, and fans user-id changes out to listeners (the profile store
// and the screen gate).
package session

import (
	"context"
	"sync"

	"github.com/partysync/partysync-cli/internal/backend"
	"github.com/partysync/partysync-cli/internal/logging"
)

// Store is the single owner of the session. Everything else reads it
// through the accessors.
//
// Lifecycle: New → Initialize (async resolution of the persisted session)
// → change events until SignOut or Close.
type Store struct {
	auth backend.Auth
	log  logging.Logger

	mu           sync.Mutex
	session      *backend.Session
	resolved     bool
	initializing bool
	listeners    []func(userID string)
	unsubscribe  func()
}

func New(auth backend.Auth, log logging.Logger) *Store {
	return &Store{auth: auth, log: log}
}

// OnChange registers a listener invoked with the current user id (empty
// when signed out) after initial resolution and after every subsequent
// session transition. Register listeners before Initialize.
func (s *Store) OnChange(fn func(userID string)) {
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

// Initialize subscribes to the change stream and then resolves the
// persisted session. Change notifications delivered while the initial read
// is in flight are dropped: the read's own result wins, and a subscription
// replay must not race it. Initialize never fails the app — a resolution
// error logs and lands on "not signed in".
func (s *Store) Initialize(ctx context.Context) {
	s.mu.Lock()
	s.initializing = true
	s.mu.Unlock()

	s.unsubscribe = s.auth.OnStateChange(s.handleChange)

	sess, err := s.auth.Session(ctx)
	if err != nil {
		s.log.Error(ctx, "session bootstrap failed", "error", err)
		sess = nil
	}

	s.mu.Lock()
	s.session = sess
	s.resolved = true
	s.initializing = false
	s.mu.Unlock()

	s.notify(userID(sess))
}

// handleChange is the auth state-change subscriber.
func (s *Store) handleChange(sess *backend.Session) {
	s.mu.Lock()
	if s.initializing || !s.resolved {
		s.mu.Unlock()
		return
	}
	prev := userID(s.session)
	s.session = sess
	s.mu.Unlock()

	next := userID(sess)
	if next == prev {
		// Token rotation for the same user; nothing downstream cares.
		return
	}
	s.notify(next)
}

// SignOut clears local session state immediately and requests backend
// invalidation in the background. A failed backend call is logged, never
// surfaced; locally the user is already signed out.
func (s *Store) SignOut(ctx context.Context) {
	s.mu.Lock()
	s.session = nil
	s.mu.Unlock()

	s.notify("")

	go func() {
		if err := s.auth.SignOut(context.WithoutCancel(ctx)); err != nil {
			s.log.Warn(ctx, "backend sign-out failed", "error", err)
		}
	}()
}

// Close detaches from the change stream.
func (s *Store) Close() {
	if s.unsubscribe != nil {
		s.unsubscribe()
	}
}

// Resolved reports whether the initial session resolution has completed.
func (s *Store) Resolved() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resolved
}

// IsAuthenticated reports whether a non-anonymous user is signed in.
func (s *Store) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session != nil && s.session.User.ID != "" && !s.session.User.Anonymous
}

// User returns the signed-in user, or nil.
func (s *Store) User() *backend.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return nil
	}
	u := s.session.User
	return &u
}

// UserID returns the signed-in user's id, or "".
func (s *Store) UserID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return userID(s.session)
}

func (s *Store) notify(uid string) {
	s.mu.Lock()
	fns := make([]func(string), len(s.listeners))
	copy(fns, s.listeners)
	s.mu.Unlock()

	for _, fn := range fns {
		fn(uid)
	}
}

func userID(s *backend.Session) string {
	if s == nil {
		return ""
	}
	return s.User.ID
}
