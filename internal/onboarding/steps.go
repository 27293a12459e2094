package onboarding

import "strings"

// StepKind selects how a wizard step is rendered and which validation rule
// applies when the user advances.
type StepKind int

const (
	KindAvatar StepKind = iota
	KindUsername
	KindDOB
	KindMultiSelect
	KindSingleSelect
	KindTextarea
)

// Choice is a selectable option: the label shown to the user and the value
// stored in the draft.
type Choice struct {
	Label string
	Value string
}

// Step is one screen of the setup wizard.
type Step struct {
	ID          string
	Kind        StepKind
	Title       string
	Description string
	Choices     []Choice
	Optional    bool

	// Validate reports whether the draft satisfies this step. The wizard
	// advances only when it returns true; optional steps always do.
	Validate func(d Draft) bool
}

// PopularGames are the suggestions shown on the games step.
var PopularGames = []string{
	"League of Legends",
	"Valorant",
	"CS2",
	"Dota 2",
	"Apex Legends",
	"Fortnite",
	"Call of Duty",
	"Overwatch 2",
	"Rocket League",
	"Minecraft",
	"Among Us",
	"Fall Guys",
}

// PlatformOptions are the selectable gaming platforms.
var PlatformOptions = []string{"PC", "PlayStation", "Xbox", "Nintendo Switch", "Mobile"}

// AvailabilityOptions are the selectable play-time slots.
var AvailabilityOptions = []string{
	"Weekday Mornings",
	"Weekday Afternoons",
	"Weekday Evenings",
	"Weekend Mornings",
	"Weekend Afternoons",
	"Weekend Evenings",
	"Late Night",
}

func plainChoices(options []string) []Choice {
	cs := make([]Choice, len(options))
	for i, o := range options {
		cs[i] = Choice{Label: o, Value: o}
	}
	return cs
}

// Steps returns the wizard step table in display order.
func Steps() []Step {
	return []Step{
		{
			ID:          "avatar",
			Kind:        KindAvatar,
			Title:       "Add a Profile Picture",
			Description: "Let other gamers see who you are! (Optional)",
			Optional:    true,
			Validate:    func(Draft) bool { return true },
		},
		{
			ID:          "username",
			Kind:        KindUsername,
			Title:       "Choose Your Gamer Tag",
			Description: "What username do you use on your favorite games?",
			Validate: func(d Draft) bool {
				return len(strings.TrimSpace(d.Username)) >= 3
			},
		},
		{
			ID:          "dob",
			Kind:        KindDOB,
			Title:       "When's Your Birthday?",
			Description: "We need this to verify your age.",
			Validate:    func(d Draft) bool { return d.DateOfBirth != nil },
		},
		{
			ID:          "games",
			Kind:        KindMultiSelect,
			Title:       "What Games Do You Play?",
			Description: "Select all that apply. You can add more later!",
			Choices:     plainChoices(PopularGames),
			Validate:    func(d Draft) bool { return len(d.FavoriteGames) > 0 },
		},
		{
			ID:          "platforms",
			Kind:        KindMultiSelect,
			Title:       "What Platforms?",
			Description: "Select all that you use.",
			Choices:     plainChoices(PlatformOptions),
			Validate:    func(d Draft) bool { return len(d.Platforms) > 0 },
		},
		{
			ID:          "playstyle",
			Kind:        KindSingleSelect,
			Title:       "What's Your Playstyle?",
			Description: "How do you like to play?",
			Choices: []Choice{
				{Label: "Casual", Value: PlaystyleCasual},
				{Label: "Competitive", Value: PlaystyleCompetitive},
				{Label: "Both", Value: PlaystyleBoth},
			},
			Validate: func(d Draft) bool { return d.Playstyle != nil && *d.Playstyle != "" },
		},
		{
			ID:          "availability",
			Kind:        KindMultiSelect,
			Title:       "When Do You Usually Play?",
			Description: "Select your typical gaming times.",
			Choices:     plainChoices(AvailabilityOptions),
			Validate:    func(d Draft) bool { return len(d.Availability) > 0 },
		},
		{
			ID:          "voice",
			Kind:        KindSingleSelect,
			Title:       "Do You Use Voice Chat?",
			Description: "Let others know your communication preference.",
			Choices: []Choice{
				{Label: "Yes, always", Value: VoiceChatYes},
				{Label: "Sometimes", Value: VoiceChatSometimes},
				{Label: "Prefer not to", Value: VoiceChatNo},
			},
			Validate: func(d Draft) bool { return d.VoiceChat != nil && *d.VoiceChat != "" },
		},
		{
			ID:          "bio",
			Kind:        KindTextarea,
			Title:       "Tell Us About Yourself",
			Description: "Write a short bio to help others get to know you. (Optional)",
			Optional:    true,
			Validate:    func(Draft) bool { return true },
		},
	}
}
