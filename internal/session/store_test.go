package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/partysync/partysync-cli/internal/backend"
	"github.com/partysync/partysync-cli/internal/logging"
)

type fakeAuth struct {
	session    *backend.Session
	sessionErr error

	listener func(*backend.Session)

	// replayDuringSession, when set, is emitted to the listener from inside
	// Session to mimic a subscription replay racing the initial read.
	replayDuringSession *backend.Session
	replay              bool

	signedOut  chan struct{}
	signOutErr error
}

func (f *fakeAuth) SignIn(ctx context.Context, email, password string) (*backend.Session, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeAuth) SignUp(ctx context.Context, email, password string) (*backend.Session, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeAuth) SignOut(ctx context.Context) error {
	if f.signedOut != nil {
		close(f.signedOut)
	}
	return f.signOutErr
}

func (f *fakeAuth) Session(ctx context.Context) (*backend.Session, error) {
	if f.replay && f.listener != nil {
		f.listener(f.replayDuringSession)
	}
	return f.session, f.sessionErr
}

func (f *fakeAuth) OnStateChange(fn func(*backend.Session)) func() {
	f.listener = fn
	return func() { f.listener = nil }
}

func sessionFor(uid string) *backend.Session {
	return &backend.Session{
		AccessToken: "at",
		User:        backend.User{ID: uid, Email: uid + "@x.test"},
	}
}

func TestInitializeResolvesPersistedSession(t *testing.T) {
	auth := &fakeAuth{session: sessionFor("u1")}
	s := New(auth, logging.Nop())

	var notified []string
	s.OnChange(func(uid string) { notified = append(notified, uid) })

	require.False(t, s.Resolved())
	s.Initialize(context.Background())

	require.True(t, s.Resolved())
	require.True(t, s.IsAuthenticated())
	require.Equal(t, "u1", s.UserID())
	require.Equal(t, []string{"u1"}, notified)
}

func TestInitializeWithoutSession(t *testing.T) {
	auth := &fakeAuth{}
	s := New(auth, logging.Nop())

	var notified []string
	s.OnChange(func(uid string) { notified = append(notified, uid) })

	s.Initialize(context.Background())

	require.True(t, s.Resolved())
	require.False(t, s.IsAuthenticated())
	require.Nil(t, s.User())
	require.Equal(t, []string{""}, notified)
}

func TestInitializeErrorLandsSignedOut(t *testing.T) {
	auth := &fakeAuth{sessionErr: errors.New("boom")}
	s := New(auth, logging.Nop())

	s.Initialize(context.Background())

	require.True(t, s.Resolved())
	require.False(t, s.IsAuthenticated())
	require.Equal(t, "", s.UserID())
}

func TestReplayDuringInitializeIsDropped(t *testing.T) {
	auth := &fakeAuth{
		session:             sessionFor("u1"),
		replay:              true,
		replayDuringSession: sessionFor("replayed"),
	}
	s := New(auth, logging.Nop())

	var notified []string
	s.OnChange(func(uid string) { notified = append(notified, uid) })

	s.Initialize(context.Background())

	// Only the initial read's result lands; the replay never notifies.
	require.Equal(t, []string{"u1"}, notified)
	require.Equal(t, "u1", s.UserID())
}

func TestChangeAfterInitializeNotifies(t *testing.T) {
	auth := &fakeAuth{}
	s := New(auth, logging.Nop())

	var notified []string
	s.OnChange(func(uid string) { notified = append(notified, uid) })

	s.Initialize(context.Background())
	auth.listener(sessionFor("u2"))

	require.Equal(t, []string{"", "u2"}, notified)
	require.True(t, s.IsAuthenticated())
	require.Equal(t, "u2", s.UserID())
}

func TestTokenRotationDoesNotNotify(t *testing.T) {
	auth := &fakeAuth{session: sessionFor("u1")}
	s := New(auth, logging.Nop())

	var notified []string
	s.OnChange(func(uid string) { notified = append(notified, uid) })

	s.Initialize(context.Background())

	rotated := sessionFor("u1")
	rotated.AccessToken = "at2"
	auth.listener(rotated)

	require.Equal(t, []string{"u1"}, notified)
}

func TestAnonymousUserIsNotAuthenticated(t *testing.T) {
	sess := sessionFor("anon")
	sess.User.Anonymous = true
	auth := &fakeAuth{session: sess}
	s := New(auth, logging.Nop())

	s.Initialize(context.Background())

	require.True(t, s.Resolved())
	require.False(t, s.IsAuthenticated())
	require.Equal(t, "anon", s.UserID())
}

func TestSignOutClearsLocallyFirst(t *testing.T) {
	auth := &fakeAuth{session: sessionFor("u1"), signedOut: make(chan struct{})}
	s := New(auth, logging.Nop())

	var notified []string
	s.OnChange(func(uid string) { notified = append(notified, uid) })

	s.Initialize(context.Background())
	s.SignOut(context.Background())

	// Local state clears synchronously, before the backend call completes.
	require.False(t, s.IsAuthenticated())
	require.Equal(t, []string{"u1", ""}, notified)

	select {
	case <-auth.signedOut:
	case <-time.After(time.Second):
		t.Fatal("backend sign-out was never requested")
	}
}

func TestSignOutBackendFailureIsSwallowed(t *testing.T) {
	auth := &fakeAuth{
		session:    sessionFor("u1"),
		signedOut:  make(chan struct{}),
		signOutErr: errors.New("network down"),
	}
	s := New(auth, logging.Nop())

	s.Initialize(context.Background())
	s.SignOut(context.Background())

	require.False(t, s.IsAuthenticated())
	<-auth.signedOut
}

func TestCloseUnsubscribes(t *testing.T) {
	auth := &fakeAuth{}
	s := New(auth, logging.Nop())

	s.Initialize(context.Background())
	require.NotNil(t, auth.listener)

	s.Close()
	require.Nil(t, auth.listener)
}
