// Package backend defines the PartySync managed-backend surface consumed by
// the client: authentication, the profile row store and RPC procedures, and
// avatar object storage. Concrete implementations speak the backend's plain
// HTTP APIs plus its S3-compatible storage endpoint.
package backend

import "time"

// User is the identity carried by a session. It is read from the access
// token claims, never from local state.
type User struct {
	ID        string
	Email     string
	Anonymous bool
}

// Session is the credential pair issued by the auth backend together with
// the identity it belongs to. It is owned by the session store; everything
// else treats it as read-only.
type Session struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
	User         User      `json:"user"`
}

// Expired reports whether the access token is past (or within a small skew
// of) its expiry and needs a refresh before use.
func (s *Session) Expired(now time.Time) bool {
	if s == nil {
		return true
	}
	return !now.Add(expirySkew).Before(s.ExpiresAt)
}

const expirySkew = 30 * time.Second

// Profile is the durable per-user record created after onboarding.
// At most one exists per user id; its existence is the signal that
// onboarding is complete.
type Profile struct {
	ID            string    `json:"id"`
	Username      string    `json:"username"`
	AvatarURL     *string   `json:"avatar_url"`
	DateOfBirth   string    `json:"dob"`
	FavoriteGames []string  `json:"favorite_games"`
	Platforms     []string  `json:"platforms"`
	Playstyle     string    `json:"playstyle"`
	Availability  []string  `json:"availability"`
	VoiceChat     string    `json:"voice_chat"`
	Bio           string    `json:"bio"`
	CreatedAt     time.Time `json:"created_at"`
}

// ProfileParams are the fields submitted to the create_profile and
// update_profile procedures. JSON tags match the procedure argument names.
type ProfileParams struct {
	Username      string   `json:"p_username"`
	AvatarURL     *string  `json:"p_avatar_url"`
	DateOfBirth   string   `json:"p_dob"`
	FavoriteGames []string `json:"p_favorite_games"`
	Platforms     []string `json:"p_platforms"`
	Playstyle     string   `json:"p_playstyle"`
	Availability  []string `json:"p_availability"`
	VoiceChat     string   `json:"p_voice_chat"`
	Bio           string   `json:"p_bio"`
}

// Recommendation is one row of the friend recommendation feed.
type Recommendation struct {
	RecommendedID string   `json:"recommended_id"`
	Username      string   `json:"username"`
	AvatarURL     *string  `json:"avatar_url"`
	FavoriteGames []string `json:"favorite_games"`
	Platforms     []string `json:"platforms"`
	Bio           string   `json:"bio"`
}
