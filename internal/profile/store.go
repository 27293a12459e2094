// Package profile holds the signed-in user's profile record and its
// loading flag.
package profile

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/partysync/partysync-cli/internal/backend"
	"github.com/partysync/partysync-cli/internal/logging"
)

// Store fetches and caches the profile for the active user.
//
// Overlapping fetches are serialized by a monotonic request token: only the
// response belonging to the most recently issued fetch is applied, so a
// quick succession of user-id changes cannot leave a stale profile behind.
//
// A fetch that fails settles as "no profile" — the product never designed
// an error state here, so a backend failure routes the user to profile
// setup exactly like a genuinely missing row. The error is logged.
type Store struct {
	data backend.Data
	log  logging.Logger

	seq atomic.Uint64

	mu        sync.Mutex
	profile   *backend.Profile
	loading   bool
	listeners []func()
}

func New(data backend.Data, log logging.Logger) *Store {
	return &Store{data: data, log: log}
}

// OnChange registers a listener invoked after every profile/loading change.
func (s *Store) OnChange(fn func()) {
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

// Fetch loads the profile row for userID. An empty id settles immediately
// to (no profile, not loading) without a network call.
func (s *Store) Fetch(ctx context.Context, userID string) {
	token := s.seq.Add(1)

	if userID == "" {
		s.mu.Lock()
		s.profile = nil
		s.loading = false
		s.mu.Unlock()
		s.notify()
		return
	}

	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()
	s.notify()

	p, err := s.data.ProfileByID(ctx, userID)
	if err != nil {
		if !errors.Is(err, backend.ErrNotFound) {
			s.log.Error(ctx, "profile fetch failed", "user_id", userID, "error", err)
		}
		p = nil
	}

	s.mu.Lock()
	if s.seq.Load() != token {
		// Superseded by a newer fetch; that one owns the state now.
		s.mu.Unlock()
		return
	}
	s.profile = p
	s.loading = false
	s.mu.Unlock()
	s.notify()
}

// SetProfile overrides the cached record. Setup and edit screens push the
// freshly created/updated row here instead of refetching.
func (s *Store) SetProfile(p *backend.Profile) {
	s.mu.Lock()
	s.profile = p
	s.loading = false
	s.mu.Unlock()
	s.notify()
}

// Profile returns the cached record, or nil.
func (s *Store) Profile() *backend.Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profile
}

// Loading reports whether a fetch is in flight.
func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

func (s *Store) notify() {
	s.mu.Lock()
	fns := make([]func(), len(s.listeners))
	copy(fns, s.listeners)
	s.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}
