// Package onboarding holds the profile-setup draft, the welcome flag and
// the wizard step table. The draft mirrors the eventual profile shape and
// is accumulated across wizard steps before a single commit call.
package onboarding

// Playstyle and voice-chat values as stored by the backend.
const (
	PlaystyleCasual      = "casual"
	PlaystyleCompetitive = "competitive"
	PlaystyleBoth        = "both"

	VoiceChatYes       = "yes"
	VoiceChatNo        = "no"
	VoiceChatSometimes = "sometimes"
)

// Draft is the in-progress profile-setup data. Nullable fields are
// pointers so "not chosen yet" is distinguishable from an empty choice.
// Validate tags describe the complete-draft rules checked at commit time.
type Draft struct {
	Username      string   `json:"username" validate:"required,min=3,username_chars"`
	DateOfBirth   *string  `json:"date_of_birth" validate:"required"`
	AvatarURL     *string  `json:"avatar_url"`
	FavoriteGames []string `json:"favorite_games" validate:"min=1"`
	Platforms     []string `json:"platforms" validate:"min=1"`
	Playstyle     *string  `json:"playstyle" validate:"required,oneof=casual competitive both"`
	Availability  []string `json:"availability" validate:"min=1"`
	VoiceChat     *string  `json:"voice_chat" validate:"required,oneof=yes no sometimes"`
	Bio           string   `json:"bio"`
}

// EmptyDraft is the initial draft shape: empty strings, empty (non-nil)
// lists, unset choices.
func EmptyDraft() Draft {
	return Draft{
		FavoriteGames: []string{},
		Platforms:     []string{},
		Availability:  []string{},
	}
}

// clone deep-copies the draft so callers cannot mutate shared slices.
func (d Draft) clone() Draft {
	c := d
	c.FavoriteGames = append([]string{}, d.FavoriteGames...)
	c.Platforms = append([]string{}, d.Platforms...)
	c.Availability = append([]string{}, d.Availability...)
	if d.DateOfBirth != nil {
		v := *d.DateOfBirth
		c.DateOfBirth = &v
	}
	if d.AvatarURL != nil {
		v := *d.AvatarURL
		c.AvatarURL = &v
	}
	if d.Playstyle != nil {
		v := *d.Playstyle
		c.Playstyle = &v
	}
	if d.VoiceChat != nil {
		v := *d.VoiceChat
		c.VoiceChat = &v
	}
	return c
}

// Patch is a partial draft: nil fields are absent and leave the current
// value untouched; present fields overwrite it (shallow merge, later
// patches win). The wizard only ever sets values, so a patch cannot unset
// a field — Reset clears everything at once.
type Patch struct {
	Username      *string
	DateOfBirth   *string
	AvatarURL     *string
	FavoriteGames []string
	Platforms     []string
	Playstyle     *string
	Availability  []string
	VoiceChat     *string
	Bio           *string
}

func (d *Draft) apply(p Patch) {
	if p.Username != nil {
		d.Username = *p.Username
	}
	if p.DateOfBirth != nil {
		d.DateOfBirth = p.DateOfBirth
	}
	if p.AvatarURL != nil {
		d.AvatarURL = p.AvatarURL
	}
	if p.FavoriteGames != nil {
		d.FavoriteGames = p.FavoriteGames
	}
	if p.Platforms != nil {
		d.Platforms = p.Platforms
	}
	if p.Playstyle != nil {
		d.Playstyle = p.Playstyle
	}
	if p.Availability != nil {
		d.Availability = p.Availability
	}
	if p.VoiceChat != nil {
		d.VoiceChat = p.VoiceChat
	}
	if p.Bio != nil {
		d.Bio = *p.Bio
	}
}
