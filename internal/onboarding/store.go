package onboarding

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/partysync/partysync-cli/internal/backend"
	"github.com/partysync/partysync-cli/internal/localstore"
	"github.com/partysync/partysync-cli/internal/logging"
)

const (
	draftKey   = "onboarding_draft"
	welcomeKey = "welcome_completed"

	// draftVersion tags the persisted draft envelope. Bump it whenever the
	// draft shape changes; a stored draft with a different version is
	// discarded instead of being half-decoded into the new shape.
	draftVersion = 1
)

var usernameChars = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// draftEnvelope is the serialized form of the persisted draft.
type draftEnvelope struct {
	Version int   `json:"version"`
	Draft   Draft `json:"draft"`
}

// Store keeps the onboarding draft and the welcome-completed flag,
// persisting both to the device-local store so a half-finished setup
// survives a restart.
type Store struct {
	kv       *localstore.KV
	log      logging.Logger
	validate *validator.Validate

	mu      sync.Mutex
	draft   Draft
	welcome bool
}

// NewStore loads persisted state. Missing or version-mismatched draft data
// falls back to the empty draft.
func NewStore(ctx context.Context, kv *localstore.KV, log logging.Logger) (*Store, error) {
	v := validator.New()
	if err := v.RegisterValidation("username_chars", func(fl validator.FieldLevel) bool {
		return usernameChars.MatchString(fl.Field().String())
	}); err != nil {
		return nil, err
	}

	s := &Store{kv: kv, log: log, validate: v, draft: EmptyDraft()}

	if raw, err := kv.Get(ctx, welcomeKey); err != nil {
		return nil, err
	} else if string(raw) == "1" {
		s.welcome = true
	}

	raw, err := kv.Get(ctx, draftKey)
	if err != nil {
		return nil, err
	}
	if raw != nil {
		var env draftEnvelope
		if uerr := json.Unmarshal(raw, &env); uerr != nil || env.Version != draftVersion {
			log.Warn(ctx, "discarding persisted onboarding draft",
				"version", env.Version, "want", draftVersion)
		} else {
			s.draft = env.Draft
			if s.draft.FavoriteGames == nil {
				s.draft.FavoriteGames = []string{}
			}
			if s.draft.Platforms == nil {
				s.draft.Platforms = []string{}
			}
			if s.draft.Availability == nil {
				s.draft.Availability = []string{}
			}
		}
	}

	return s, nil
}

// Draft returns a copy of the current draft.
func (s *Store) Draft() Draft {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft.clone()
}

// Update merges a partial draft into the current one and persists the
// result. Later patches win on overlapping fields.
func (s *Store) Update(ctx context.Context, p Patch) error {
	s.mu.Lock()
	s.draft.apply(p)
	d := s.draft.clone()
	s.mu.Unlock()

	return s.persistDraft(ctx, d)
}

// Reset restores the exact initial empty draft and persists it.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	s.draft = EmptyDraft()
	d := s.draft.clone()
	s.mu.Unlock()

	return s.persistDraft(ctx, d)
}

// WelcomeCompleted reports whether the welcome carousel was ever finished.
func (s *Store) WelcomeCompleted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.welcome
}

// SetWelcomeCompleted persists the welcome flag. Once true the carousel is
// never shown again.
func (s *Store) SetWelcomeCompleted(ctx context.Context, completed bool) error {
	s.mu.Lock()
	s.welcome = completed
	s.mu.Unlock()

	value := []byte("0")
	if completed {
		value = []byte("1")
	}
	return s.kv.Set(ctx, welcomeKey, value)
}

// ValidateDraft checks the complete-draft rules, including the allowed
// username character set that the per-step check does not enforce.
func (s *Store) ValidateDraft() error {
	s.mu.Lock()
	d := s.draft.clone()
	s.mu.Unlock()
	return s.validate.Struct(d)
}

// Commit validates the complete draft and submits it to the backend's
// profile creation procedure. On success the draft is cleared and the new
// row returned; the caller pushes it into the profile store.
func (s *Store) Commit(ctx context.Context, data backend.Data) (*backend.Profile, error) {
	if err := s.ValidateDraft(); err != nil {
		return nil, fmt.Errorf("draft incomplete: %w", err)
	}

	s.mu.Lock()
	d := s.draft.clone()
	s.mu.Unlock()

	p, err := data.CreateProfile(ctx, backend.ProfileParams{
		Username:      d.Username,
		AvatarURL:     d.AvatarURL,
		DateOfBirth:   *d.DateOfBirth,
		FavoriteGames: d.FavoriteGames,
		Platforms:     d.Platforms,
		Playstyle:     *d.Playstyle,
		Availability:  d.Availability,
		VoiceChat:     *d.VoiceChat,
		Bio:           d.Bio,
	})
	if err != nil {
		return nil, err
	}

	if rerr := s.Reset(ctx); rerr != nil {
		s.log.Warn(ctx, "failed to clear committed draft", "error", rerr)
	}
	return p, nil
}

func (s *Store) persistDraft(ctx context.Context, d Draft) error {
	raw, err := json.Marshal(draftEnvelope{Version: draftVersion, Draft: d})
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, draftKey, raw)
}
