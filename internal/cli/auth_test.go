package cli

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/partysync/partysync-cli/internal/backend"
	"github.com/partysync/partysync-cli/internal/logging"
)

type fakeAuth struct {
	session *backend.Session

	signInEmail    string
	signInPassword string
	signInErr      error

	signUpEmail   string
	signUpCalled  bool
	signUpSession *backend.Session
	signUpErr     error
}

func (f *fakeAuth) SignIn(ctx context.Context, email, password string) (*backend.Session, error) {
	f.signInEmail = email
	f.signInPassword = password
	if f.signInErr != nil {
		return nil, f.signInErr
	}
	return &backend.Session{User: backend.User{ID: "u1", Email: email}}, nil
}

func (f *fakeAuth) SignUp(ctx context.Context, email, password string) (*backend.Session, error) {
	f.signUpCalled = true
	f.signUpEmail = email
	return f.signUpSession, f.signUpErr
}

func (f *fakeAuth) SignOut(ctx context.Context) error { return nil }

func (f *fakeAuth) Session(ctx context.Context) (*backend.Session, error) { return f.session, nil }

func (f *fakeAuth) OnStateChange(fn func(*backend.Session)) func() { return func() {} }

// stubInput replaces the interactive input seams with canned answers
// consumed in order.
func stubInput(t *testing.T, texts []string, passwords []string) {
	t.Helper()

	origText := getSimpleText
	origPass := getPassword
	t.Cleanup(func() {
		getSimpleText = origText
		getPassword = origPass
	})

	getSimpleText = func(reader *bufio.Reader, prompt string, w io.Writer) (string, error) {
		require.NotEmpty(t, texts, "unexpected text prompt: %s", prompt)
		v := texts[0]
		texts = texts[1:]
		return v, nil
	}
	getPassword = func(prompt string, w io.Writer) (string, error) {
		require.NotEmpty(t, passwords, "unexpected password prompt: %s", prompt)
		v := passwords[0]
		passwords = passwords[1:]
		return v, nil
	}
}

func newTestApp(auth backend.Auth) (*App, *bytes.Buffer) {
	var out bytes.Buffer
	return &App{
		log:    logging.Nop(),
		auth:   auth,
		reader: bufio.NewReader(bytes.NewReader(nil)),
		out:    &out,
	}, &out
}

func TestLoginSuccess(t *testing.T) {
	auth := &fakeAuth{}
	app, out := newTestApp(auth)
	stubInput(t, []string{"1", "u1@x.test"}, []string{"hunter22"})

	quit, err := app.authScreen(context.Background())
	require.NoError(t, err)
	require.False(t, quit)

	require.Equal(t, "u1@x.test", auth.signInEmail)
	require.Equal(t, "hunter22", auth.signInPassword)
	require.Contains(t, out.String(), "Logged in.")
}

func TestLoginFailureShowsBackendMessage(t *testing.T) {
	auth := &fakeAuth{signInErr: &backend.APIError{Status: 400, Message: "Invalid login credentials"}}
	app, out := newTestApp(auth)
	stubInput(t, []string{"1", "u1@x.test"}, []string{"wrong"})

	quit, err := app.authScreen(context.Background())
	require.NoError(t, err)
	require.False(t, quit)
	require.Contains(t, out.String(), "Invalid login credentials")
}

func TestLoginFailureFallbackMessage(t *testing.T) {
	auth := &fakeAuth{signInErr: &backend.APIError{Status: 500}}
	app, out := newTestApp(auth)
	stubInput(t, []string{"1", "u1@x.test"}, []string{"pw"})

	_, err := app.authScreen(context.Background())
	require.NoError(t, err)
	require.Contains(t, out.String(), "An error occurred")
}

func TestSignUpPasswordMismatchBlocksNetworkCall(t *testing.T) {
	auth := &fakeAuth{}
	app, out := newTestApp(auth)
	stubInput(t, []string{"2", "u1@x.test"}, []string{"one", "two"})

	_, err := app.authScreen(context.Background())
	require.NoError(t, err)
	require.False(t, auth.signUpCalled)
	require.Contains(t, out.String(), "Passwords do not match")
}

func TestSignUpEmptyFields(t *testing.T) {
	auth := &fakeAuth{}
	app, out := newTestApp(auth)
	stubInput(t, []string{"2", ""}, []string{"pw", "pw"})

	_, err := app.authScreen(context.Background())
	require.NoError(t, err)
	require.False(t, auth.signUpCalled)
	require.Contains(t, out.String(), "Please fill in all fields")
}

func TestSignUpPendingConfirmation(t *testing.T) {
	auth := &fakeAuth{signUpSession: nil}
	app, out := newTestApp(auth)
	stubInput(t, []string{"2", "u1@x.test"}, []string{"hunter22", "hunter22"})

	_, err := app.authScreen(context.Background())
	require.NoError(t, err)
	require.True(t, auth.signUpCalled)
	require.Equal(t, "u1@x.test", auth.signUpEmail)
	require.Contains(t, out.String(), "Check your email")
}

func TestSignUpAutoConfirmed(t *testing.T) {
	auth := &fakeAuth{signUpSession: &backend.Session{User: backend.User{ID: "u1"}}}
	app, out := newTestApp(auth)
	stubInput(t, []string{"2", "u1@x.test"}, []string{"hunter22", "hunter22"})

	_, err := app.authScreen(context.Background())
	require.NoError(t, err)
	require.Contains(t, out.String(), "Account created.")
	require.NotContains(t, out.String(), "Check your email")
}

func TestAuthScreenQuit(t *testing.T) {
	app, _ := newTestApp(&fakeAuth{})
	stubInput(t, []string{"q"}, nil)

	quit, err := app.authScreen(context.Background())
	require.NoError(t, err)
	require.True(t, quit)
}

func TestAuthScreenUnknownChoice(t *testing.T) {
	app, _ := newTestApp(&fakeAuth{})
	stubInput(t, []string{"zzz"}, nil)

	quit, err := app.authScreen(context.Background())
	require.NoError(t, err)
	require.False(t, quit)
}
