package backend

import "context"

// Auth is the authentication surface of the backend.
//
// Contract:
//   - SignIn / SignUp authenticate and return the new session.
//   - SignOut invalidates the current session server-side.
//   - Session returns the current session, refreshing the access token
//     when it has expired; (nil, nil) means "no session".
//   - OnStateChange registers a listener invoked with the new session
//     (nil on sign-out) after every session transition. The returned
//     function unsubscribes.
//
// All methods must honor context cancellation/timeouts.
type Auth interface {
	SignIn(ctx context.Context, email, password string) (*Session, error)
	SignUp(ctx context.Context, email, password string) (*Session, error)
	SignOut(ctx context.Context) error
	Session(ctx context.Context) (*Session, error)
	OnStateChange(fn func(*Session)) (unsubscribe func())
}

// Data is the row-store and procedure surface of the backend.
//
// ProfileByID returns ErrNotFound when no row matches; every other error
// is a transport or backend failure.
type Data interface {
	ProfileByID(ctx context.Context, userID string) (*Profile, error)
	CreateProfile(ctx context.Context, params ProfileParams) (*Profile, error)
	UpdateProfile(ctx context.Context, params ProfileParams) (*Profile, error)
	FriendRecommendations(ctx context.Context) ([]Recommendation, error)
}

// ObjectStorage is the avatar bucket. Upload returns the public URL of the
// stored object.
type ObjectStorage interface {
	Upload(ctx context.Context, path string, data []byte, contentType string) (string, error)
	Delete(ctx context.Context, path string) error
}

// SessionCache persists the session across launches. Load returns
// (nil, nil) when nothing is stored.
type SessionCache interface {
	Load(ctx context.Context) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Clear(ctx context.Context) error
}
