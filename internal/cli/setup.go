package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/partysync/partysync-cli/internal/backend"
	"github.com/partysync/partysync-cli/internal/onboarding"
)

const dobLayout = "2006-01-02"

// setupWizard walks the onboarding steps, persisting each answer into the
// draft so a restart resumes where the user left off. The final advance
// commits the whole draft in a single backend call.
func (a *App) setupWizard(ctx context.Context) error {
	steps := onboarding.Steps()
	idx := 0

	fmt.Fprintln(a.out, "\n=== Set up your profile ===")

	for idx < len(steps) {
		step := steps[idx]
		fmt.Fprintf(a.out, "\n[%d/%d] %s\n%s\n", idx+1, len(steps), step.Title, step.Description)

		back, err := a.runStep(ctx, step)
		if err != nil {
			return err
		}
		if back {
			if idx > 0 {
				idx--
			}
			continue
		}

		if !step.Optional && !step.Validate(a.onboard.Draft()) {
			a.alert("Please complete this step before continuing")
			continue
		}

		if idx < len(steps)-1 {
			idx++
			continue
		}

		// Final advance: commit the entire draft.
		p, err := a.onboard.Commit(ctx, a.data)
		if err != nil {
			a.alert(backend.UserMessage(err, "Failed to create profile"))
			continue
		}
		a.profiles.SetProfile(p)
		fmt.Fprintln(a.out, "\nProfile created. Welcome to PartySync!")
		return nil
	}
	return nil
}

// runStep collects one step's answer into the draft. It returns back=true
// when the user asked to go to the previous step ("b").
func (a *App) runStep(ctx context.Context, step onboarding.Step) (bool, error) {
	switch step.Kind {
	case onboarding.KindAvatar:
		input, err := getSimpleText(a.reader, "Path to an image file (Enter to skip, b to go back)", a.out)
		if err != nil {
			return false, err
		}
		if input == "b" {
			return true, nil
		}
		if input == "" {
			return false, nil
		}
		user := a.sessions.User()
		if user == nil {
			return false, nil
		}
		url, uerr := a.avatars.UploadFromFile(ctx, user.ID, input)
		if uerr != nil {
			a.alert("Failed to upload photo: " + uerr.Error())
			return false, nil
		}
		return false, a.onboard.Update(ctx, onboarding.Patch{AvatarURL: &url})

	case onboarding.KindUsername:
		input, err := getSimpleText(a.reader, "Gamer tag (b to go back)", a.out)
		if err != nil {
			return false, err
		}
		if input == "b" {
			return true, nil
		}
		return false, a.onboard.Update(ctx, onboarding.Patch{Username: &input})

	case onboarding.KindDOB:
		input, err := getSimpleText(a.reader, "Date of birth, YYYY-MM-DD (b to go back)", a.out)
		if err != nil {
			return false, err
		}
		if input == "b" {
			return true, nil
		}
		if _, perr := time.Parse(dobLayout, input); perr != nil {
			a.alert("Please enter a date as YYYY-MM-DD")
			return false, nil
		}
		return false, a.onboard.Update(ctx, onboarding.Patch{DateOfBirth: &input})

	case onboarding.KindMultiSelect:
		values, err := GetMultiSelect(a.reader, "Select options (b to go back):", step.Choices, a.out)
		if err != nil {
			a.alert(err.Error())
			return false, nil
		}
		return false, a.onboard.Update(ctx, a.multiSelectPatch(step.ID, values))

	case onboarding.KindSingleSelect:
		value, err := GetSingleSelect(a.reader, "Pick one:", step.Choices, a.out)
		if err != nil {
			a.alert(err.Error())
			return false, nil
		}
		if value == "" {
			return false, nil
		}
		return false, a.onboard.Update(ctx, a.singleSelectPatch(step.ID, value))

	case onboarding.KindTextarea:
		text, err := GetMultiline(a.reader, "Your bio (empty to skip)", a.out)
		if err != nil {
			return false, err
		}
		return false, a.onboard.Update(ctx, onboarding.Patch{Bio: &text})
	}
	return false, nil
}

func (a *App) multiSelectPatch(stepID string, values []string) onboarding.Patch {
	switch stepID {
	case "games":
		return onboarding.Patch{FavoriteGames: values}
	case "platforms":
		return onboarding.Patch{Platforms: values}
	case "availability":
		return onboarding.Patch{Availability: values}
	}
	return onboarding.Patch{}
}

func (a *App) singleSelectPatch(stepID, value string) onboarding.Patch {
	switch stepID {
	case "playstyle":
		return onboarding.Patch{Playstyle: &value}
	case "voice":
		return onboarding.Patch{VoiceChat: &value}
	}
	return onboarding.Patch{}
}
