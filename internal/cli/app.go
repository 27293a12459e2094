// Package cli is the terminal front end: a screen loop driven by the gate
// state, with one function per screen stack. All state lives in the
// injected stores; the CLI only renders and forwards input.
package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/partysync/partysync-cli/internal/avatar"
	"github.com/partysync/partysync-cli/internal/backend"
	"github.com/partysync/partysync-cli/internal/config"
	"github.com/partysync/partysync-cli/internal/gate"
	"github.com/partysync/partysync-cli/internal/localstore"
	"github.com/partysync/partysync-cli/internal/logging"
	"github.com/partysync/partysync-cli/internal/onboarding"
	"github.com/partysync/partysync-cli/internal/profile"
	"github.com/partysync/partysync-cli/internal/session"
)

// App is the application context: every collaborator is constructed once
// here and passed down explicitly, so the gating logic stays testable
// without a terminal attached.
type App struct {
	cfg *config.Config
	log logging.Logger

	db       *sql.DB
	auth     backend.Auth
	data     backend.Data
	sessions *session.Store
	profiles *profile.Store
	onboard  *onboarding.Store
	avatars  *avatar.Uploader

	reader *bufio.Reader
	out    io.Writer
}

// NewApp wires the full dependency graph from configuration.
func NewApp(ctx context.Context, cfg *config.Config, log logging.Logger) (*App, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o700); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	db, err := localstore.Open(ctx, filepath.Join(cfg.DataDir, "partysync.db"))
	if err != nil {
		return nil, err
	}

	kv := localstore.NewKV(db)

	deviceKey, err := localstore.LoadOrCreateDeviceKey(filepath.Join(cfg.DataDir, ".device_key"))
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	cache, err := localstore.NewSessionCache(kv, deviceKey)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	auth := backend.NewAuthHTTP(cfg.BackendURL, cfg.AnonKey, cache, cfg.RequestTimeout, log)
	data := backend.NewDataHTTP(cfg.BackendURL, cfg.AnonKey, auth, cfg.RequestTimeout)

	storage, err := backend.NewS3Storage(ctx,
		cfg.Storage.Endpoint, cfg.Storage.Region, cfg.Storage.Bucket,
		cfg.Storage.AccessKey, cfg.Storage.SecretKey, cfg.Storage.PublicURL)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	onboard, err := onboarding.NewStore(ctx, kv, log)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &App{
		cfg:      cfg,
		log:      log,
		db:       db,
		auth:     auth,
		data:     data,
		sessions: session.New(auth, log),
		profiles: profile.New(data, log),
		onboard:  onboard,
		avatars:  avatar.NewUploader(storage, cfg.Storage.Bucket),
		reader:   bufio.NewReader(os.Stdin),
		out:      os.Stdout,
	}, nil
}

// Run drives the screen loop until the user quits or the context ends.
func (a *App) Run(ctx context.Context) error {
	// Every session transition re-keys the profile fetch; an empty user id
	// clears the cached profile without a network call.
	a.sessions.OnChange(func(userID string) {
		a.profiles.Fetch(ctx, userID)
	})

	a.sessions.Initialize(ctx)
	defer a.sessions.Close()

	for ctx.Err() == nil {
		switch gate.Resolve(a.flags()) {
		case gate.StateInitializing:
			time.Sleep(50 * time.Millisecond)
		case gate.StateWelcome:
			if err := a.welcomeScreen(ctx); err != nil {
				return err
			}
		case gate.StateAuth:
			quit, err := a.authScreen(ctx)
			if err != nil || quit {
				return err
			}
		case gate.StateProfileSetup:
			if err := a.setupWizard(ctx); err != nil {
				return err
			}
		case gate.StateMain:
			quit, err := a.mainScreen(ctx)
			if err != nil || quit {
				return err
			}
		}
	}
	return ctx.Err()
}

// Close releases the local store.
func (a *App) Close() error {
	return a.db.Close()
}

func (a *App) flags() gate.Flags {
	return gate.Flags{
		SessionResolved:  a.sessions.Resolved(),
		Authenticated:    a.sessions.IsAuthenticated(),
		ProfileLoading:   a.profiles.Loading(),
		HasProfile:       a.profiles.Profile() != nil,
		WelcomeCompleted: a.onboard.WelcomeCompleted(),
	}
}

// alert shows a blocking error/notice line, the CLI stand-in for a modal
// alert dialog.
func (a *App) alert(msg string) {
	fmt.Fprintf(a.out, "\n[!] %s\n\n", msg)
}
