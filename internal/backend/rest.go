package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// TokenSource supplies bearer tokens for data calls. AuthHTTP implements
// it; tests use fakes.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
	ForceRefresh(ctx context.Context) (string, error)
}

// DataHTTP implements Data against the backend's PostgREST-style API:
// row reads are filtered GETs, procedures are POSTs under /rpc/.
// An unauthorized response is retried exactly once after a forced token
// refresh; a second rejection is returned to the caller.
type DataHTTP struct {
	baseURL string
	anonKey string
	http    *http.Client
	tokens  TokenSource
}

func NewDataHTTP(baseURL, anonKey string, tokens TokenSource, timeout time.Duration) *DataHTTP {
	return &DataHTTP{
		baseURL: baseURL,
		anonKey: anonKey,
		http:    &http.Client{Timeout: timeout},
		tokens:  tokens,
	}
}

// ProfileByID fetches the single profile row for a user id. A missing row
// is ErrNotFound, never an empty profile.
func (d *DataHTTP) ProfileByID(ctx context.Context, userID string) (*Profile, error) {
	path := "/rest/v1/profiles?select=*&limit=1&id=eq." + url.QueryEscape(userID)

	var rows []Profile
	if err := d.do(ctx, http.MethodGet, path, nil, "", &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	return &rows[0], nil
}

func (d *DataHTTP) CreateProfile(ctx context.Context, params ProfileParams) (*Profile, error) {
	var p Profile
	if err := d.rpcSingle(ctx, "create_profile", params, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (d *DataHTTP) UpdateProfile(ctx context.Context, params ProfileParams) (*Profile, error) {
	var p Profile
	if err := d.rpcSingle(ctx, "update_profile", params, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (d *DataHTTP) FriendRecommendations(ctx context.Context) ([]Recommendation, error) {
	var recs []Recommendation
	if err := d.do(ctx, http.MethodPost, "/rest/v1/rpc/get_friend_recommendations", struct{}{}, "", &recs); err != nil {
		return nil, err
	}
	return recs, nil
}

// rpcSingle calls a procedure that returns one row, asking the backend for
// a bare object instead of a one-element array.
func (d *DataHTTP) rpcSingle(ctx context.Context, name string, params, out any) error {
	return d.do(ctx, http.MethodPost, "/rest/v1/rpc/"+name, params, "application/vnd.pgrst.object+json", out)
}

// restErrorBody is the PostgREST error payload.
type restErrorBody struct {
	Message string `json:"message"`
}

func (d *DataHTTP) do(ctx context.Context, method, path string, body any, accept string, out any) error {
	token, err := d.tokens.Token(ctx)
	if err != nil {
		return err
	}

	err = d.once(ctx, method, path, body, accept, token, out)
	if err == nil || !errors.Is(err, ErrUnauthorized) {
		return err
	}

	// Token may have gone stale between expiry check and arrival at the
	// backend; rotate once and retry.
	token, rerr := d.tokens.ForceRefresh(ctx)
	if rerr != nil {
		return err
	}
	return d.once(ctx, method, path, body, accept, token, out)
}

func (d *DataHTTP) once(ctx context.Context, method, path string, body any, accept, token string, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, d.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	req.Header.Set("apikey", d.anonKey)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := d.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var eb restErrorBody
		_ = json.Unmarshal(raw, &eb)
		return &APIError{Status: resp.StatusCode, Message: eb.Message}
	}

	if out == nil || len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, out)
}
