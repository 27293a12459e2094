package cli

import (
	"context"
	"fmt"
)

var welcomeSlides = []string{
	"Welcome to PartySync!\nFind gamers who play what you play.",
	"Build your gamer profile:\nyour games, platforms and play times.",
	"Get matched with players\nwho fit your style. Let's go!",
}

// welcomeScreen shows the first-launch carousel once. Finishing it (or
// skipping) sets the persisted flag so it never appears again.
func (a *App) welcomeScreen(ctx context.Context) error {
	for i, slide := range welcomeSlides {
		fmt.Fprintf(a.out, "\n--- %d/%d ---\n%s\n", i+1, len(welcomeSlides), slide)
		input, err := GetSimpleText(a.reader, "(Enter to continue, s to skip)", a.out)
		if err != nil {
			return err
		}
		if input == "s" {
			break
		}
	}

	if err := a.onboard.SetWelcomeCompleted(ctx, true); err != nil {
		a.log.Warn(ctx, "failed to persist welcome flag", "error", err)
	}
	return nil
}
