package wizard

import "github.com/potmover/potmover/internal/model"

// Step is one screen of the move-funds flow.
type Step int

const (
	StepHome Step = iota
	StepSelectSource
	StepPensionWarning
	StepSelectDestination
	StepEnterAmount
	StepReview
	StepSavingsWarning
	StepConfirmed
)

var stepNames = map[Step]string{
	StepHome:              "home",
	StepSelectSource:      "select-source",
	StepPensionWarning:    "pension-warning",
	StepSelectDestination: "select-destination",
	StepEnterAmount:       "enter-amount",
	StepReview:            "review",
	StepSavingsWarning:    "savings-warning",
	StepConfirmed:         "confirmed",
}

func (s Step) String() string {
	if name, ok := stepNames[s]; ok {
		return name
	}
	return "unknown"
}

// needsPensionWarning reports whether the pension interstitial sits
// between source and destination selection.
func needsPensionWarning(r Request) bool {
	return r.Source == model.AccountPension
}

// needsSavingsWarning reports whether the savings interstitial sits
// between review and commit.
func needsSavingsWarning(r Request) bool {
	return r.Source == model.AccountSavings && r.Destination == model.AccountCurrent
}

// previous returns the step before s in the forward chain for r.
func previous(s Step, r Request) Step {
	switch s {
	case StepPensionWarning:
		return StepSelectSource
	case StepSelectDestination:
		if needsPensionWarning(r) {
			return StepPensionWarning
		}
		return StepSelectSource
	case StepEnterAmount:
		return StepSelectDestination
	case StepReview:
		return StepEnterAmount
	case StepSavingsWarning:
		return StepReview
	default:
		// Home, SelectSource and Confirmed all fall back to home.
		return StepHome
	}
}
