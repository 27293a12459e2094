package cli

import (
	"context"
	"fmt"

	"github.com/partysync/partysync-cli/internal/backend"
)

// getSimpleText and getPassword are indirections used to facilitate
// testing; they can be swapped for stubs that avoid the terminal.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// authScreen is the login / sign-up stack. It returns quit=true when the
// user chooses to leave the app.
func (a *App) authScreen(ctx context.Context) (bool, error) {
	fmt.Fprint(a.out, "\n=== PartySync ===\n  1) Log in\n  2) Create account\n  q) Quit\n")
	choice, err := getSimpleText(a.reader, "Choose", a.out)
	if err != nil {
		return false, err
	}

	switch choice {
	case "1":
		return false, a.login(ctx)
	case "2":
		return false, a.signUp(ctx)
	case "q", "quit", "exit":
		return true, nil
	default:
		return false, nil
	}
}

func (a *App) login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword("Password", a.out)
	if err != nil {
		return err
	}

	if _, err := a.auth.SignIn(ctx, email, password); err != nil {
		a.alert(backend.UserMessage(err, "An error occurred"))
		return nil
	}

	fmt.Fprintln(a.out, "Logged in.")
	return nil
}

// signUp collects credentials and creates an account. Validation failures
// are blocked before any network call.
func (a *App) signUp(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword("Password", a.out)
	if err != nil {
		return err
	}
	confirm, err := getPassword("Confirm password", a.out)
	if err != nil {
		return err
	}

	if email == "" || password == "" || confirm == "" {
		a.alert("Please fill in all fields")
		return nil
	}
	if password != confirm {
		a.alert("Passwords do not match")
		return nil
	}

	s, err := a.auth.SignUp(ctx, email, password)
	if err != nil {
		a.alert(backend.UserMessage(err, "An error occurred"))
		return nil
	}

	if s == nil {
		fmt.Fprintln(a.out, "Account created. Check your email to confirm, then log in.")
		return nil
	}
	fmt.Fprintln(a.out, "Account created.")
	return nil
}
