// Package gate decides which top-level screen stack is visible. It keeps
// no state of its own: the decision is a pure function of the upstream
// flags, recomputed on every change.
package gate

// State is a top-level screen stack.
type State int

const (
	// StateInitializing renders nothing while session resolution or the
	// first profile fetch is still in flight.
	StateInitializing State = iota
	// StateWelcome shows the first-launch carousel.
	StateWelcome
	// StateAuth shows login / sign-up.
	StateAuth
	// StateProfileSetup shows the onboarding wizard.
	StateProfileSetup
	// StateMain shows the main tabs. Terminal until sign-out.
	StateMain
)

func (s State) String() string {
	switch s {
	case StateInitializing:
		return "initializing"
	case StateWelcome:
		return "welcome"
	case StateAuth:
		return "auth"
	case StateProfileSetup:
		return "profile-setup"
	case StateMain:
		return "main"
	default:
		return "unknown"
	}
}

// Flags are the upstream inputs the decision depends on.
type Flags struct {
	SessionResolved  bool
	Authenticated    bool
	ProfileLoading   bool
	HasProfile       bool
	WelcomeCompleted bool
}

// Resolve maps the flags onto the visible stack. An authenticated user
// with no profile goes to setup; the gate cannot tell "no profile yet"
// from "profile fetch failed", so both land there.
func Resolve(f Flags) State {
	if !f.SessionResolved {
		return StateInitializing
	}
	if !f.Authenticated {
		if !f.WelcomeCompleted {
			return StateWelcome
		}
		return StateAuth
	}
	if f.ProfileLoading {
		return StateInitializing
	}
	if !f.HasProfile {
		return StateProfileSetup
	}
	return StateMain
}
