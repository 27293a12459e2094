package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/partysync/partysync-cli/internal/backend"
)

// mainScreen is the signed-in tab bar. Returns quit=true when the user
// leaves the app.
func (a *App) mainScreen(ctx context.Context) (bool, error) {
	p := a.profiles.Profile()
	if p != nil {
		fmt.Fprintf(a.out, "\n=== PartySync — %s ===\n", p.Username)
	}
	fmt.Fprint(a.out, "  1) Find gamers\n  2) Profile settings\n  3) Sign out\n  q) Quit\n")

	choice, err := getSimpleText(a.reader, "Choose", a.out)
	if err != nil {
		return false, err
	}

	switch choice {
	case "1":
		a.feedScreen(ctx)
	case "2":
		if err := a.settingsScreen(ctx); err != nil {
			return false, err
		}
	case "3":
		a.sessions.SignOut(ctx)
		fmt.Fprintln(a.out, "Signed out.")
	case "q", "quit", "exit":
		return true, nil
	}
	return false, nil
}

// feedScreen renders the friend recommendation feed.
func (a *App) feedScreen(ctx context.Context) {
	recs, err := a.data.FriendRecommendations(ctx)
	if err != nil {
		a.alert(backend.UserMessage(err, "Failed to load recommendations"))
		return
	}

	if len(recs) == 0 {
		fmt.Fprintln(a.out, "\nNo recommendations yet. Check back later!")
		return
	}

	fmt.Fprintln(a.out, "\n--- Gamers for you ---")
	for _, rec := range recs {
		printRecommendation(a.out, rec)
	}
}

func printRecommendation(w io.Writer, rec backend.Recommendation) {
	bio := rec.Bio
	if bio == "" {
		bio = "User has no bio"
	}
	fmt.Fprintf(w, "\n%s\n", rec.Username)
	if len(rec.FavoriteGames) > 0 {
		fmt.Fprintf(w, "  plays: %s\n", strings.Join(rec.FavoriteGames, ", "))
	}
	if len(rec.Platforms) > 0 {
		fmt.Fprintf(w, "  on: %s\n", strings.Join(rec.Platforms, ", "))
	}
	fmt.Fprintf(w, "  %s\n", bio)
}
