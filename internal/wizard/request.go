package wizard

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/potmover/potmover/internal/model"
	"github.com/potmover/potmover/internal/money"
)

// ErrIncompleteRequest means a step was entered without the fields the
// earlier steps should have supplied.
var ErrIncompleteRequest = errors.New("incomplete transfer request")

// Request is the transfer being assembled. Each step adds one field and
// hands the whole value to the next. It is never authoritative: the
// store re-checks everything when the transfer is committed.
type Request struct {
	Source      model.AccountID
	Destination model.AccountID
	Amount      decimal.Decimal
	Currency    string // display label only

	// PensionAcknowledged is set once the pension warning has been
	// accepted. Steps past the warning require it for a pension source.
	PensionAcknowledged bool
}

// Check reports what prevents r from being used to enter step.
func (r Request) Check(step Step) error {
	var missing []string
	need := func(ok bool, what string) {
		if !ok {
			missing = append(missing, what)
		}
	}

	switch step {
	case StepHome, StepSelectSource:
		return nil
	case StepPensionWarning:
		need(r.Source == model.AccountPension, "pension source")
	case StepSelectDestination:
		need(r.Source.Valid(), "source")
	case StepEnterAmount:
		need(r.Source.Valid(), "source")
		need(r.Destination.Valid(), "destination")
	case StepReview, StepSavingsWarning:
		need(r.Source.Valid(), "source")
		need(r.Destination.Valid(), "destination")
		need(r.Amount.IsPositive() && money.HasCents(r.Amount), "amount")
		if step == StepSavingsWarning {
			need(needsSavingsWarning(r), "savings to current account transfer")
		}
	default:
		// Confirmed is only reachable by committing.
		return fmt.Errorf("%w: %s cannot be entered directly", ErrIncompleteRequest, step)
	}

	if step > StepPensionWarning && needsPensionWarning(r) {
		need(r.PensionAcknowledged, "pension warning acknowledgement")
	}
	if r.Source != "" && r.Source == r.Destination {
		missing = append(missing, "distinct destination")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s needs %s", ErrIncompleteRequest, step, strings.Join(missing, ", "))
	}
	return nil
}
