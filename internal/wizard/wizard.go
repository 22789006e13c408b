// Package wizard drives the move-funds flow: pick a source, pick a
// destination, enter an amount, review, confirm. It only reads accounts
// until the final confirmation, which goes through the store's transfer.
package wizard

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/potmover/potmover/internal/model"
	"github.com/potmover/potmover/internal/money"
)

var (
	// ErrWrongStep means the action does not belong to the current step.
	ErrWrongStep = errors.New("action not available at this step")

	// ErrNoFunds means the chosen source has nothing to move.
	ErrNoFunds = errors.New("account has no funds to move")

	// ErrSameAccount means the destination is the source.
	ErrSameAccount = errors.New("destination must differ from source")

	// ErrExceedsBalance means the amount is more than the source holds.
	ErrExceedsBalance = errors.New("amount exceeds available balance")

	// ErrUnknownCurrency means the currency label is not offered.
	ErrUnknownCurrency = errors.New("unknown currency")
)

// retirementGrowth is the rough multiplier applied to money taken out of a
// pension to show what it might have been worth at retirement.
var retirementGrowth = decimal.RequireFromString("1.64")

// Store is the part of the account store the wizard uses.
type Store interface {
	Get(id model.AccountID) (model.Account, error)
	All() []model.Account
	TransferFunds(from, to model.AccountID, amount decimal.Decimal) ([]model.Transaction, error)
}

// Choice is an account offered on a selection step.
type Choice struct {
	Account   model.Account
	Available bool
}

// Summary is what the review step shows.
type Summary struct {
	Source           model.Account
	Destination      model.Account
	Amount           decimal.Decimal
	Currency         string
	SourceAfter      decimal.Decimal
	DestinationAfter decimal.Decimal
	RetirementImpact decimal.Decimal // zero unless moving out of the pension
	SavingsWarning   bool
}

// Session is one run through the flow. A Session is not safe for
// concurrent use; each user interaction owns its own.
type Session struct {
	id       string
	store    Store
	logger   *slog.Logger
	currency string

	step   Step
	req    Request
	result []model.Transaction
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) { s.logger = logger }
}

// WithCurrency sets the currency label used when none is picked.
func WithCurrency(code string) Option {
	return func(s *Session) {
		if c, ok := money.LookupCurrency(code); ok {
			s.currency = c.Code
		}
	}
}

// New starts a session at source selection.
func New(store Store, opts ...Option) *Session {
	s := &Session{
		id:       uuid.NewString(),
		store:    store,
		logger:   slog.Default(),
		currency: money.DefaultCurrency,
		step:     StepSelectSource,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("session", s.id)
	return s
}

// ID returns the session identifier used in logs.
func (s *Session) ID() string { return s.id }

// Step returns the current step.
func (s *Session) Step() Step { return s.step }

// Request returns the transfer assembled so far.
func (s *Session) Request() Request { return s.req }

// Currency returns the label amounts are shown in.
func (s *Session) Currency() string {
	if s.req.Currency != "" {
		return s.req.Currency
	}
	return s.currency
}

// Transactions returns the ledger rows written by a confirmed transfer.
func (s *Session) Transactions() []model.Transaction { return s.result }

// Enter jumps to step carrying req, the way a screen is opened with state
// handed over by the previous one. If req lacks what step needs the
// session is sent home and the reason returned.
func (s *Session) Enter(step Step, req Request) error {
	if err := req.Check(step); err != nil {
		s.home()
		s.logger.Info("redirected home", "step", step.String(), "reason", err)
		return err
	}
	if step == StepReview || step == StepSavingsWarning {
		if _, err := s.checkAmount(req.Source, req.Amount); err != nil {
			s.home()
			s.logger.Info("redirected home", "step", step.String(), "reason", err)
			return fmt.Errorf("%w: %w", ErrIncompleteRequest, err)
		}
	}
	if req.Currency == "" {
		req.Currency = s.currency
	} else {
		c, ok := money.LookupCurrency(req.Currency)
		if !ok {
			s.home()
			s.logger.Info("redirected home", "step", step.String(), "currency", req.Currency)
			return fmt.Errorf("%w: %w: %q", ErrIncompleteRequest, ErrUnknownCurrency, req.Currency)
		}
		req.Currency = c.Code
	}
	s.req = req
	s.result = nil
	s.step = step
	return nil
}

// Sources lists every account; those with nothing in them are unavailable.
func (s *Session) Sources() []Choice {
	all := s.store.All()
	out := make([]Choice, 0, len(all))
	for _, a := range all {
		out = append(out, Choice{Account: a, Available: a.Balance.IsPositive()})
	}
	return out
}

// Destinations lists every account except the chosen source.
func (s *Session) Destinations() []Choice {
	var out []Choice
	for _, a := range s.store.All() {
		if a.ID == s.req.Source {
			continue
		}
		out = append(out, Choice{Account: a, Available: true})
	}
	return out
}

// ChooseSource picks the account to move money out of.
func (s *Session) ChooseSource(id model.AccountID) error {
	if err := s.expect(StepSelectSource); err != nil {
		return err
	}
	acct, err := s.store.Get(id)
	if err != nil {
		return err
	}
	if !acct.Balance.IsPositive() {
		return fmt.Errorf("%w: %s", ErrNoFunds, acct.Name)
	}

	if s.req.Source != id {
		s.req = Request{Currency: s.req.Currency}
	}
	s.req.Source = id
	s.req.PensionAcknowledged = false
	if needsPensionWarning(s.req) {
		s.advance(StepPensionWarning)
	} else {
		s.advance(StepSelectDestination)
	}
	return nil
}

// Acknowledge accepts the warning on the current step. Accepting the
// savings warning commits the transfer.
func (s *Session) Acknowledge() error {
	switch s.step {
	case StepPensionWarning:
		s.req.PensionAcknowledged = true
		s.advance(StepSelectDestination)
		return nil
	case StepSavingsWarning:
		return s.commit()
	default:
		return fmt.Errorf("%w: no warning to acknowledge at %s", ErrWrongStep, s.step)
	}
}

// ChooseDestination picks the account to move money into.
func (s *Session) ChooseDestination(id model.AccountID) error {
	if err := s.expect(StepSelectDestination); err != nil {
		return err
	}
	if _, err := s.store.Get(id); err != nil {
		return err
	}
	if id == s.req.Source {
		return ErrSameAccount
	}
	s.req.Destination = id
	s.advance(StepEnterAmount)
	return nil
}

// CheckAmount validates amount input without changing the session. The
// amount step stays disabled while this returns an error.
func (s *Session) CheckAmount(input string) (decimal.Decimal, error) {
	amount, err := money.ParseAmount(input)
	if err != nil {
		return decimal.Zero, err
	}
	return s.checkAmount(s.req.Source, amount)
}

// EnterAmount sets the amount and currency label and moves to review.
// An empty currency keeps the current label.
func (s *Session) EnterAmount(input, currency string) error {
	if err := s.expect(StepEnterAmount); err != nil {
		return err
	}
	code := s.req.Currency
	if currency != "" {
		c, ok := money.LookupCurrency(currency)
		if !ok {
			return fmt.Errorf("%w: %q", ErrUnknownCurrency, currency)
		}
		code = c.Code
	}
	if code == "" {
		code = s.currency
	}

	amount, err := s.CheckAmount(input)
	if err != nil {
		return err
	}
	s.req.Amount = amount
	s.req.Currency = code
	s.advance(StepReview)
	return nil
}

// Review returns the numbers shown before confirming.
func (s *Session) Review() (Summary, error) {
	switch s.step {
	case StepReview, StepSavingsWarning:
	default:
		return Summary{}, fmt.Errorf("%w: nothing to review at %s", ErrWrongStep, s.step)
	}
	src, err := s.store.Get(s.req.Source)
	if err != nil {
		return Summary{}, err
	}
	dst, err := s.store.Get(s.req.Destination)
	if err != nil {
		return Summary{}, err
	}

	sum := Summary{
		Source:           src,
		Destination:      dst,
		Amount:           s.req.Amount,
		Currency:         s.req.Currency,
		SourceAfter:      src.Balance.Sub(s.req.Amount),
		DestinationAfter: dst.Balance.Add(s.req.Amount),
		RetirementImpact: decimal.Zero,
		SavingsWarning:   needsSavingsWarning(s.req),
	}
	if src.ID == model.AccountPension {
		sum.RetirementImpact = s.req.Amount.Mul(retirementGrowth).Round(2)
	}
	return sum, nil
}

// Confirm is the move-funds button on the review step. It either shows
// the savings warning or commits the transfer.
func (s *Session) Confirm() error {
	if err := s.expect(StepReview); err != nil {
		return err
	}
	if needsSavingsWarning(s.req) {
		s.advance(StepSavingsWarning)
		return nil
	}
	return s.commit()
}

// Back returns to the step before the current one in the forward chain.
// The request keeps what was collected so far.
func (s *Session) Back() Step {
	prev := previous(s.step, s.req)
	if prev == StepHome {
		s.home()
		return StepHome
	}
	s.step = prev
	return prev
}

// Abandon drops the request and returns home.
func (s *Session) Abandon() {
	s.home()
}

// Start begins a fresh run from home.
func (s *Session) Start() {
	s.home()
	s.step = StepSelectSource
}

func (s *Session) commit() error {
	if _, err := s.checkAmount(s.req.Source, s.req.Amount); err != nil {
		return err
	}
	txs, err := s.store.TransferFunds(s.req.Source, s.req.Destination, s.req.Amount)
	if err != nil {
		s.logger.Warn("transfer rejected", "from", s.req.Source, "to", s.req.Destination, "error", err)
		return fmt.Errorf("transferring funds: %w", err)
	}
	s.result = txs
	s.advance(StepConfirmed)
	s.logger.Info("transfer committed",
		"from", s.req.Source,
		"to", s.req.Destination,
		"amount", s.req.Amount.StringFixed(2),
		"currency", s.req.Currency)
	return nil
}

func (s *Session) checkAmount(source model.AccountID, amount decimal.Decimal) (decimal.Decimal, error) {
	if !amount.IsPositive() || !money.HasCents(amount) {
		return decimal.Zero, fmt.Errorf("%w: %s", money.ErrInvalidAmount, amount)
	}
	src, err := s.store.Get(source)
	if err != nil {
		return decimal.Zero, err
	}
	if amount.GreaterThan(src.Balance) {
		return decimal.Zero, fmt.Errorf("%w: %s available", ErrExceedsBalance, src.Balance.StringFixed(2))
	}
	return amount, nil
}

func (s *Session) expect(step Step) error {
	if s.step != step {
		return fmt.Errorf("%w: at %s, want %s", ErrWrongStep, s.step, step)
	}
	return nil
}

func (s *Session) advance(next Step) {
	s.logger.Debug("step", "from", s.step.String(), "to", next.String())
	s.step = next
}

func (s *Session) home() {
	s.step = StepHome
	s.req = Request{}
	s.result = nil
}
