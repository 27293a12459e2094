package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/partysync/partysync-cli/internal/logging"
)

// timeNow is a test seam.
var timeNow = time.Now

// AuthHTTP implements Auth against the backend's GoTrue-style auth API.
// The session is kept in memory and mirrored into a SessionCache so it
// survives restarts; an expired access token is rotated lazily via the
// refresh grant the next time the session is requested.
type AuthHTTP struct {
	baseURL string
	anonKey string
	http    *http.Client
	cache   SessionCache
	log     logging.Logger

	mu      sync.Mutex
	current *Session

	subMu   sync.Mutex
	subs    map[int]func(*Session)
	nextSub int
}

func NewAuthHTTP(baseURL, anonKey string, cache SessionCache, timeout time.Duration, log logging.Logger) *AuthHTTP {
	return &AuthHTTP{
		baseURL: baseURL,
		anonKey: anonKey,
		http:    &http.Client{Timeout: timeout},
		cache:   cache,
		log:     log,
		subs:    make(map[int]func(*Session)),
	}
}

// tokenResponse is the auth API's token payload shape.
type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

// tokenClaims are the access-token claims the client relies on.
type tokenClaims struct {
	jwt.RegisteredClaims
	Email       string `json:"email"`
	IsAnonymous bool   `json:"is_anonymous"`
}

// sessionFromToken builds a Session from a token response. Identity comes
// from the access-token claims; the signature is not verified because the
// client does not hold the signing secret — the backend does.
func sessionFromToken(tr *tokenResponse) (*Session, error) {
	claims := &tokenClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tr.AccessToken, claims); err != nil {
		return nil, fmt.Errorf("parse access token: %w", err)
	}

	expiresAt := timeNow().Add(time.Duration(tr.ExpiresIn) * time.Second)
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}

	return &Session{
		AccessToken:  tr.AccessToken,
		RefreshToken: tr.RefreshToken,
		ExpiresAt:    expiresAt,
		User: User{
			ID:        claims.Subject,
			Email:     claims.Email,
			Anonymous: claims.IsAnonymous,
		},
	}, nil
}

func (a *AuthHTTP) SignIn(ctx context.Context, email, password string) (*Session, error) {
	tr, err := a.tokenGrant(ctx, "password", map[string]string{"email": email, "password": password})
	if err != nil {
		return nil, err
	}

	s, err := sessionFromToken(tr)
	if err != nil {
		return nil, err
	}

	a.setSession(ctx, s)
	return s, nil
}

func (a *AuthHTTP) SignUp(ctx context.Context, email, password string) (*Session, error) {
	var tr tokenResponse
	err := a.post(ctx, "/auth/v1/signup", map[string]string{"email": email, "password": password}, a.anonKey, &tr)
	if err != nil {
		return nil, err
	}

	// Without auto-confirm the signup response carries no tokens; the user
	// signs in after confirming their email.
	if tr.AccessToken == "" {
		return nil, nil
	}

	s, err := sessionFromToken(&tr)
	if err != nil {
		return nil, err
	}

	a.setSession(ctx, s)
	return s, nil
}

// SignOut drops the local session first and then asks the backend to
// invalidate it. The backend call's failure is returned for logging only;
// locally the user is already signed out.
func (a *AuthHTTP) SignOut(ctx context.Context) error {
	a.mu.Lock()
	s := a.current
	a.current = nil
	a.mu.Unlock()

	if err := a.cache.Clear(ctx); err != nil {
		a.log.Warn(ctx, "failed to clear persisted session", "error", err)
	}
	a.emit(nil)

	if s == nil {
		return nil
	}
	return a.post(ctx, "/auth/v1/logout", struct{}{}, s.AccessToken, nil)
}

// Session returns the current session, restoring it from the cache on
// first use and rotating the token pair when the access token has expired.
// (nil, nil) means "not signed in".
func (a *AuthHTTP) Session(ctx context.Context) (*Session, error) {
	a.mu.Lock()
	s := a.current
	a.mu.Unlock()

	if s == nil {
		restored, err := a.cache.Load(ctx)
		if err != nil {
			return nil, fmt.Errorf("restore session: %w", err)
		}
		if restored == nil {
			return nil, nil
		}
		s = restored
		if !s.Expired(timeNow()) {
			a.setSession(ctx, s)
			return s, nil
		}
	}

	if !s.Expired(timeNow()) {
		return s, nil
	}
	return a.refresh(ctx, s)
}

// Token returns the bearer token for data calls: the session access token
// when signed in, the anon key otherwise.
func (a *AuthHTTP) Token(ctx context.Context) (string, error) {
	s, err := a.Session(ctx)
	if err != nil {
		return "", err
	}
	if s == nil {
		return a.anonKey, nil
	}
	return s.AccessToken, nil
}

// ForceRefresh rotates the token pair regardless of expiry. Data calls use
// it to retry exactly once after an unauthorized response.
func (a *AuthHTTP) ForceRefresh(ctx context.Context) (string, error) {
	a.mu.Lock()
	s := a.current
	a.mu.Unlock()

	if s == nil {
		return a.anonKey, nil
	}

	refreshed, err := a.refresh(ctx, s)
	if err != nil {
		return "", err
	}
	if refreshed == nil {
		return a.anonKey, nil
	}
	return refreshed.AccessToken, nil
}

func (a *AuthHTTP) OnStateChange(fn func(*Session)) func() {
	a.subMu.Lock()
	id := a.nextSub
	a.nextSub++
	a.subs[id] = fn
	a.subMu.Unlock()

	return func() {
		a.subMu.Lock()
		delete(a.subs, id)
		a.subMu.Unlock()
	}
}

func (a *AuthHTTP) refresh(ctx context.Context, s *Session) (*Session, error) {
	tr, err := a.tokenGrant(ctx, "refresh_token", map[string]string{"refresh_token": s.RefreshToken})
	if err != nil {
		// A rejected refresh token means the session is gone for good;
		// transport problems leave it in place for a later retry.
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			a.log.Warn(ctx, "refresh token rejected, dropping session", "error", err)
			a.mu.Lock()
			a.current = nil
			a.mu.Unlock()
			if cerr := a.cache.Clear(ctx); cerr != nil {
				a.log.Warn(ctx, "failed to clear persisted session", "error", cerr)
			}
			a.emit(nil)
			return nil, nil
		}
		return nil, err
	}

	refreshed, err := sessionFromToken(tr)
	if err != nil {
		return nil, err
	}

	a.setSession(ctx, refreshed)
	return refreshed, nil
}

// setSession stores s, mirrors it into the cache and notifies subscribers.
func (a *AuthHTTP) setSession(ctx context.Context, s *Session) {
	a.mu.Lock()
	a.current = s
	a.mu.Unlock()

	if err := a.cache.Save(ctx, s); err != nil {
		a.log.Warn(ctx, "failed to persist session", "error", err)
	}
	a.emit(s)
}

func (a *AuthHTTP) emit(s *Session) {
	a.subMu.Lock()
	fns := make([]func(*Session), 0, len(a.subs))
	for _, fn := range a.subs {
		fns = append(fns, fn)
	}
	a.subMu.Unlock()

	for _, fn := range fns {
		fn(s)
	}
}

func (a *AuthHTTP) tokenGrant(ctx context.Context, grantType string, body any) (*tokenResponse, error) {
	var tr tokenResponse
	if err := a.post(ctx, "/auth/v1/token?grant_type="+grantType, body, a.anonKey, &tr); err != nil {
		return nil, err
	}
	return &tr, nil
}

// authErrorBody covers the message field variants the auth API uses.
type authErrorBody struct {
	Message          string `json:"msg"`
	ErrorDescription string `json:"error_description"`
}

func (a *AuthHTTP) post(ctx context.Context, path string, body any, bearer string, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", a.anonKey)
	req.Header.Set("Authorization", "Bearer "+bearer)

	resp, err := a.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var eb authErrorBody
		_ = json.Unmarshal(raw, &eb)
		msg := eb.Message
		if msg == "" {
			msg = eb.ErrorDescription
		}
		return &APIError{Status: resp.StatusCode, Message: msg}
	}

	if out == nil || len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, out)
}
