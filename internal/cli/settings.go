package cli

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/partysync/partysync-cli/internal/backend"
	"github.com/partysync/partysync-cli/internal/onboarding"
)

// settingsForm is the edit buffer for the profile settings screen.
// localAvatarPath holds a picked-but-not-yet-uploaded file; the upload
// happens inside save, and only a successful save touches the profile.
type settingsForm struct {
	username        string
	dateOfBirth     string
	avatarURL       *string
	localAvatarPath string
	favoriteGames   []string
	platforms       []string
	playstyle       string
	availability    []string
	voiceChat       string
	bio             string
}

func formFromProfile(p *backend.Profile) settingsForm {
	return settingsForm{
		username:      p.Username,
		dateOfBirth:   p.DateOfBirth,
		avatarURL:     p.AvatarURL,
		favoriteGames: append([]string{}, p.FavoriteGames...),
		platforms:     append([]string{}, p.Platforms...),
		playstyle:     p.Playstyle,
		availability:  append([]string{}, p.Availability...),
		voiceChat:     p.VoiceChat,
		bio:           p.Bio,
	}
}

// hasChanges compares the buffer against the saved profile field by field.
func (f *settingsForm) hasChanges(p *backend.Profile) bool {
	if f.localAvatarPath != "" {
		return true
	}
	return f.username != p.Username ||
		f.dateOfBirth != p.DateOfBirth ||
		!equalOptional(f.avatarURL, p.AvatarURL) ||
		!slices.Equal(f.favoriteGames, p.FavoriteGames) ||
		!slices.Equal(f.platforms, p.Platforms) ||
		f.playstyle != p.Playstyle ||
		!slices.Equal(f.availability, p.Availability) ||
		f.voiceChat != p.VoiceChat ||
		f.bio != p.Bio
}

func equalOptional(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// settingsScreen lets the user edit their profile and save it via the
// update procedure. A failed avatar upload aborts the save; the edits stay
// in the buffer so nothing is lost.
func (a *App) settingsScreen(ctx context.Context) error {
	p := a.profiles.Profile()
	if p == nil {
		return nil
	}
	form := formFromProfile(p)

	for {
		p = a.profiles.Profile()
		a.printForm(&form, p)

		choice, err := getSimpleText(a.reader, "Edit field (u/d/a/g/p/s/t/v/i), w to save, x to go back", a.out)
		if err != nil {
			return err
		}

		switch choice {
		case "x":
			return nil
		case "w":
			a.saveProfile(ctx, &form, p)
		case "u":
			if v, err := getSimpleText(a.reader, "Gamer tag", a.out); err != nil {
				return err
			} else if v != "" {
				form.username = v
			}
		case "d":
			v, err := getSimpleText(a.reader, "Date of birth, YYYY-MM-DD", a.out)
			if err != nil {
				return err
			}
			if v != "" {
				if _, perr := time.Parse(dobLayout, v); perr != nil {
					a.alert("Please enter a date as YYYY-MM-DD")
					continue
				}
				form.dateOfBirth = v
			}
		case "a":
			v, err := getSimpleText(a.reader, "Path to an image file (Enter to keep current)", a.out)
			if err != nil {
				return err
			}
			if v != "" {
				form.localAvatarPath = v
			}
		case "g":
			if values, err := GetMultiSelect(a.reader, "Favorite games:", choicesOf(onboarding.PopularGames), a.out); err != nil {
				a.alert(err.Error())
			} else if len(values) > 0 {
				form.favoriteGames = values
			}
		case "p":
			if values, err := GetMultiSelect(a.reader, "Platforms:", choicesOf(onboarding.PlatformOptions), a.out); err != nil {
				a.alert(err.Error())
			} else if len(values) > 0 {
				form.platforms = values
			}
		case "s":
			if v, err := GetSingleSelect(a.reader, "Playstyle:", playstyleChoices(), a.out); err != nil {
				a.alert(err.Error())
			} else if v != "" {
				form.playstyle = v
			}
		case "t":
			if values, err := GetMultiSelect(a.reader, "Availability:", choicesOf(onboarding.AvailabilityOptions), a.out); err != nil {
				a.alert(err.Error())
			} else if len(values) > 0 {
				form.availability = values
			}
		case "v":
			if v, err := GetSingleSelect(a.reader, "Voice chat:", voiceChoices(), a.out); err != nil {
				a.alert(err.Error())
			} else if v != "" {
				form.voiceChat = v
			}
		case "i":
			if v, err := GetMultiline(a.reader, "Your bio", a.out); err != nil {
				return err
			} else {
				form.bio = v
			}
		}
	}
}

// saveProfile validates, resolves the avatar, and submits update_profile.
func (a *App) saveProfile(ctx context.Context, form *settingsForm, p *backend.Profile) {
	if !form.hasChanges(p) {
		fmt.Fprintln(a.out, "Nothing to save.")
		return
	}
	if len(strings.TrimSpace(form.username)) < 3 {
		a.alert("Username must be at least 3 characters")
		return
	}

	user := a.sessions.User()
	if user == nil {
		a.alert("User not found")
		return
	}

	avatarURL := form.avatarURL
	if form.localAvatarPath != "" {
		url, err := a.avatars.UploadFromFile(ctx, user.ID, form.localAvatarPath)
		if err != nil {
			// Abort: the profile stays untouched and the edits stay pending.
			a.alert("Failed to upload photo: " + err.Error())
			return
		}
		if p.AvatarURL != nil {
			if derr := a.avatars.DeleteByURL(ctx, *p.AvatarURL); derr != nil {
				a.log.Warn(ctx, "failed to delete previous avatar", "error", derr)
			}
		}
		avatarURL = &url
	}

	updated, err := a.data.UpdateProfile(ctx, backend.ProfileParams{
		Username:      form.username,
		AvatarURL:     avatarURL,
		DateOfBirth:   form.dateOfBirth,
		FavoriteGames: form.favoriteGames,
		Platforms:     form.platforms,
		Playstyle:     form.playstyle,
		Availability:  form.availability,
		VoiceChat:     form.voiceChat,
		Bio:           form.bio,
	})
	if err != nil {
		a.alert(backend.UserMessage(err, "Failed to update profile"))
		return
	}

	a.profiles.SetProfile(updated)
	*form = formFromProfile(updated)
	fmt.Fprintln(a.out, "Profile updated successfully")
}

func (a *App) printForm(form *settingsForm, p *backend.Profile) {
	marker := ""
	if form.hasChanges(p) {
		marker = " (unsaved changes)"
	}
	avatar := "none"
	if form.localAvatarPath != "" {
		avatar = form.localAvatarPath + " (pending upload)"
	} else if form.avatarURL != nil {
		avatar = *form.avatarURL
	}

	fmt.Fprintf(a.out, "\n--- Profile settings%s ---\n", marker)
	fmt.Fprintf(a.out, "  u) Gamer tag:    %s\n", form.username)
	fmt.Fprintf(a.out, "  d) Birthday:     %s\n", form.dateOfBirth)
	fmt.Fprintf(a.out, "  a) Avatar:       %s\n", avatar)
	fmt.Fprintf(a.out, "  g) Games:        %s\n", strings.Join(form.favoriteGames, ", "))
	fmt.Fprintf(a.out, "  p) Platforms:    %s\n", strings.Join(form.platforms, ", "))
	fmt.Fprintf(a.out, "  s) Playstyle:    %s\n", form.playstyle)
	fmt.Fprintf(a.out, "  t) Availability: %s\n", strings.Join(form.availability, ", "))
	fmt.Fprintf(a.out, "  v) Voice chat:   %s\n", form.voiceChat)
	fmt.Fprintf(a.out, "  i) Bio:          %s\n", form.bio)
}

func choicesOf(options []string) []onboarding.Choice {
	cs := make([]onboarding.Choice, len(options))
	for i, o := range options {
		cs[i] = onboarding.Choice{Label: o, Value: o}
	}
	return cs
}

func playstyleChoices() []onboarding.Choice {
	return []onboarding.Choice{
		{Label: "Casual", Value: onboarding.PlaystyleCasual},
		{Label: "Competitive", Value: onboarding.PlaystyleCompetitive},
		{Label: "Both", Value: onboarding.PlaystyleBoth},
	}
}

func voiceChoices() []onboarding.Choice {
	return []onboarding.Choice{
		{Label: "Yes, always", Value: onboarding.VoiceChatYes},
		{Label: "Sometimes", Value: onboarding.VoiceChatSometimes},
		{Label: "Prefer not to", Value: onboarding.VoiceChatNo},
	}
}
