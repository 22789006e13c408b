package wizard_test

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/potmover/potmover/internal/accounts"
	"github.com/potmover/potmover/internal/model"
	"github.com/potmover/potmover/internal/money"
	"github.com/potmover/potmover/internal/wizard"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// MockStore implements wizard.Store
type MockStore struct {
	mock.Mock
}

func (m *MockStore) Get(id model.AccountID) (model.Account, error) {
	args := m.Called(id)
	return args.Get(0).(model.Account), args.Error(1)
}

func (m *MockStore) All() []model.Account {
	args := m.Called()
	return args.Get(0).([]model.Account)
}

func (m *MockStore) TransferFunds(from, to model.AccountID, amount decimal.Decimal) ([]model.Transaction, error) {
	args := m.Called(from, to, amount)
	txs, _ := args.Get(0).([]model.Transaction)
	return txs, args.Error(1)
}

func balanceOf(t *testing.T, s *accounts.Store, id model.AccountID) decimal.Decimal {
	t.Helper()
	a, err := s.Get(id)
	require.NoError(t, err)
	return a.Balance
}

func TestNewSession(t *testing.T) {
	sess := wizard.New(accounts.NewStore())
	assert.Equal(t, wizard.StepSelectSource, sess.Step())
	_, err := uuid.Parse(sess.ID())
	assert.NoError(t, err, "session id should be a UUID")
}

func TestHappyPath_PensionToSavings(t *testing.T) {
	store := accounts.NewStore()
	sess := wizard.New(store)

	require.NoError(t, sess.ChooseSource(model.AccountPension))
	assert.Equal(t, wizard.StepPensionWarning, sess.Step())

	require.NoError(t, sess.Acknowledge())
	assert.Equal(t, wizard.StepSelectDestination, sess.Step())

	require.NoError(t, sess.ChooseDestination(model.AccountSavings))
	assert.Equal(t, wizard.StepEnterAmount, sess.Step())

	require.NoError(t, sess.EnterAmount("1000.00", ""))
	assert.Equal(t, wizard.StepReview, sess.Step())

	sum, err := sess.Review()
	require.NoError(t, err)
	assert.True(t, sum.SourceAfter.Equal(dec("47750")))
	assert.True(t, sum.DestinationAfter.Equal(dec("17250")))
	assert.True(t, sum.RetirementImpact.Equal(dec("1640")))
	assert.False(t, sum.SavingsWarning)
	assert.Equal(t, "GBP", sum.Currency)

	// Nothing moves before confirmation.
	assert.True(t, balanceOf(t, store, model.AccountPension).Equal(dec("48750")))

	require.NoError(t, sess.Confirm())
	assert.Equal(t, wizard.StepConfirmed, sess.Step())
	assert.True(t, balanceOf(t, store, model.AccountPension).Equal(dec("47750.00")))
	assert.True(t, balanceOf(t, store, model.AccountSavings).Equal(dec("17250.00")))

	txs := sess.Transactions()
	require.Len(t, txs, 2)
	pensionRows, _ := store.Transactions(model.AccountPension)
	savingsRows, _ := store.Transactions(model.AccountSavings)
	require.Len(t, pensionRows, 1)
	require.Len(t, savingsRows, 1)
	assert.True(t, pensionRows[0].Amount.Equal(dec("-1000")))
	assert.True(t, savingsRows[0].Amount.Equal(dec("1000")))
}

func TestSavingsToCurrent_ShowsWarning(t *testing.T) {
	store := accounts.NewStore()
	sess := wizard.New(store)

	require.NoError(t, sess.ChooseSource(model.AccountSavings))
	assert.Equal(t, wizard.StepSelectDestination, sess.Step(), "no pension warning for savings")
	require.NoError(t, sess.ChooseDestination(model.AccountCurrent))
	require.NoError(t, sess.EnterAmount("250", "EUR"))

	sum, err := sess.Review()
	require.NoError(t, err)
	assert.True(t, sum.SavingsWarning)
	assert.True(t, sum.RetirementImpact.IsZero())
	assert.Equal(t, "EUR", sum.Currency)

	require.NoError(t, sess.Confirm())
	assert.Equal(t, wizard.StepSavingsWarning, sess.Step())
	assert.True(t, balanceOf(t, store, model.AccountSavings).Equal(dec("16250")), "warning is not a commit")

	require.NoError(t, sess.Acknowledge())
	assert.Equal(t, wizard.StepConfirmed, sess.Step())
	assert.True(t, balanceOf(t, store, model.AccountSavings).Equal(dec("16000")))
	assert.True(t, balanceOf(t, store, model.AccountCurrent).Equal(dec("74750")))
}

func TestCurrentToSavings_NoWarnings(t *testing.T) {
	sess := wizard.New(accounts.NewStore())
	require.NoError(t, sess.ChooseSource(model.AccountCurrent))
	require.NoError(t, sess.ChooseDestination(model.AccountSavings))
	require.NoError(t, sess.EnterAmount("10", ""))
	require.NoError(t, sess.Confirm())
	assert.Equal(t, wizard.StepConfirmed, sess.Step())
}

func TestCurrencyIsLabelOnly(t *testing.T) {
	store := accounts.NewStore()
	sess := wizard.New(store)
	require.NoError(t, sess.ChooseSource(model.AccountCurrent))
	require.NoError(t, sess.ChooseDestination(model.AccountSavings))
	require.NoError(t, sess.EnterAmount("100", "jpy"))
	assert.Equal(t, "JPY", sess.Request().Currency)
	require.NoError(t, sess.Confirm())

	assert.True(t, balanceOf(t, store, model.AccountSavings).Equal(dec("16350")), "no conversion applied")
}

func TestEnterAmount_Rejections(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		currency string
		wantErr  error
	}{
		{"over limit", "99999.00", "", wizard.ErrExceedsBalance},
		{"one penny over", "16250.01", "", wizard.ErrExceedsBalance},
		{"zero", "0", "", money.ErrInvalidAmount},
		{"negative", "-5", "", money.ErrInvalidAmount},
		{"non-numeric", "ten pounds", "", money.ErrInvalidAmount},
		{"three decimals", "1.234", "", money.ErrInvalidAmount},
		{"empty", "", "", money.ErrInvalidAmount},
		{"unknown currency", "10", "BTC", wizard.ErrUnknownCurrency},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := new(MockStore)
			savings := model.Account{ID: model.AccountSavings, Name: "Savings", Balance: dec("16250.00")}
			current := model.Account{ID: model.AccountCurrent, Name: "Current Account", Balance: dec("74500.00")}
			store.On("Get", model.AccountSavings).Return(savings, nil)
			store.On("Get", model.AccountCurrent).Return(current, nil)

			sess := wizard.New(store)
			require.NoError(t, sess.ChooseSource(model.AccountSavings))
			require.NoError(t, sess.ChooseDestination(model.AccountCurrent))

			err := sess.EnterAmount(tt.input, tt.currency)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, wizard.StepEnterAmount, sess.Step(), "rejected input must not progress")

			// The commit step is never reached.
			assert.ErrorIs(t, sess.Confirm(), wizard.ErrWrongStep)
			store.AssertNotCalled(t, "TransferFunds", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestCheckAmount(t *testing.T) {
	sess := wizard.New(accounts.NewStore())
	require.NoError(t, sess.ChooseSource(model.AccountSavings))
	require.NoError(t, sess.ChooseDestination(model.AccountCurrent))

	got, err := sess.CheckAmount("16250")
	require.NoError(t, err)
	assert.True(t, got.Equal(dec("16250")))

	_, err = sess.CheckAmount("16250.01")
	assert.ErrorIs(t, err, wizard.ErrExceedsBalance)
	assert.Equal(t, wizard.StepEnterAmount, sess.Step())
}

func TestChooseSource_EmptyAccount(t *testing.T) {
	store := accounts.NewStore()
	require.NoError(t, store.UpdateBalance(model.AccountSavings, decimal.Zero))

	sess := wizard.New(store)
	err := sess.ChooseSource(model.AccountSavings)
	assert.ErrorIs(t, err, wizard.ErrNoFunds)
	assert.Equal(t, wizard.StepSelectSource, sess.Step())

	for _, c := range sess.Sources() {
		assert.Equal(t, c.Account.ID != model.AccountSavings, c.Available, "%s availability", c.Account.ID)
	}
}

func TestChooseSource_InvalidAccount(t *testing.T) {
	sess := wizard.New(accounts.NewStore())
	err := sess.ChooseSource("isa")
	assert.ErrorIs(t, err, model.ErrInvalidAccount)
	assert.Equal(t, wizard.StepSelectSource, sess.Step())
}

func TestChooseDestination_SameAsSource(t *testing.T) {
	sess := wizard.New(accounts.NewStore())
	require.NoError(t, sess.ChooseSource(model.AccountCurrent))

	err := sess.ChooseDestination(model.AccountCurrent)
	assert.ErrorIs(t, err, wizard.ErrSameAccount)
	assert.Equal(t, wizard.StepSelectDestination, sess.Step())

	dests := sess.Destinations()
	require.Len(t, dests, 2)
	for _, c := range dests {
		assert.NotEqual(t, model.AccountCurrent, c.Account.ID)
	}
}

func TestActionsOutOfOrder(t *testing.T) {
	sess := wizard.New(accounts.NewStore())
	assert.ErrorIs(t, sess.ChooseDestination(model.AccountSavings), wizard.ErrWrongStep)
	assert.ErrorIs(t, sess.EnterAmount("10", ""), wizard.ErrWrongStep)
	assert.ErrorIs(t, sess.Confirm(), wizard.ErrWrongStep)
	assert.ErrorIs(t, sess.Acknowledge(), wizard.ErrWrongStep)
	_, err := sess.Review()
	assert.ErrorIs(t, err, wizard.ErrWrongStep)
	assert.Equal(t, wizard.StepSelectSource, sess.Step())
}

func TestBack_FollowsForwardChain(t *testing.T) {
	sess := wizard.New(accounts.NewStore())
	require.NoError(t, sess.ChooseSource(model.AccountPension))
	require.NoError(t, sess.Acknowledge())
	require.NoError(t, sess.ChooseDestination(model.AccountSavings))
	require.NoError(t, sess.EnterAmount("5", ""))

	assert.Equal(t, wizard.StepEnterAmount, sess.Back())
	assert.Equal(t, wizard.StepSelectDestination, sess.Back())
	assert.Equal(t, wizard.StepPensionWarning, sess.Back())
	assert.Equal(t, wizard.StepSelectSource, sess.Back())
	assert.Equal(t, wizard.StepHome, sess.Back())
	assert.Equal(t, wizard.Request{}, sess.Request(), "leaving the flow drops the request")
}

func TestBack_SkipsPensionWarningForOtherSources(t *testing.T) {
	sess := wizard.New(accounts.NewStore())
	require.NoError(t, sess.ChooseSource(model.AccountSavings))
	assert.Equal(t, wizard.StepSelectSource, sess.Back())
}

func TestBack_FromSavingsWarning(t *testing.T) {
	sess := wizard.New(accounts.NewStore())
	require.NoError(t, sess.ChooseSource(model.AccountSavings))
	require.NoError(t, sess.ChooseDestination(model.AccountCurrent))
	require.NoError(t, sess.EnterAmount("5", ""))
	require.NoError(t, sess.Confirm())
	require.Equal(t, wizard.StepSavingsWarning, sess.Step())

	assert.Equal(t, wizard.StepReview, sess.Back())
	assert.True(t, sess.Request().Amount.Equal(dec("5")), "going back keeps the collected fields")
}

func TestBack_KeepsFieldsForReentry(t *testing.T) {
	sess := wizard.New(accounts.NewStore())
	require.NoError(t, sess.ChooseSource(model.AccountCurrent))
	require.NoError(t, sess.ChooseDestination(model.AccountSavings))
	require.NoError(t, sess.EnterAmount("5", ""))
	sess.Back()
	require.NoError(t, sess.EnterAmount("7.50", ""))
	assert.True(t, sess.Request().Amount.Equal(dec("7.5")))
	assert.Equal(t, model.AccountSavings, sess.Request().Destination)
}

func TestConfirmedThenBackGoesHome(t *testing.T) {
	sess := wizard.New(accounts.NewStore())
	require.NoError(t, sess.ChooseSource(model.AccountCurrent))
	require.NoError(t, sess.ChooseDestination(model.AccountSavings))
	require.NoError(t, sess.EnterAmount("1", ""))
	require.NoError(t, sess.Confirm())

	assert.Equal(t, wizard.StepHome, sess.Back())
	sess.Start()
	assert.Equal(t, wizard.StepSelectSource, sess.Step())
}

func TestEnter_MissingFieldsRedirectHome(t *testing.T) {
	tests := []struct {
		name string
		step wizard.Step
		req  wizard.Request
	}{
		{"destination without source", wizard.StepSelectDestination, wizard.Request{}},
		{"amount without destination", wizard.StepEnterAmount, wizard.Request{Source: model.AccountSavings}},
		{"review without amount", wizard.StepReview, wizard.Request{Source: model.AccountSavings, Destination: model.AccountCurrent}},
		{"pension warning for savings", wizard.StepPensionWarning, wizard.Request{Source: model.AccountSavings}},
		{"savings warning for pension", wizard.StepSavingsWarning, wizard.Request{Source: model.AccountPension, Destination: model.AccountSavings, Amount: dec("1")}},
		{"same account", wizard.StepEnterAmount, wizard.Request{Source: model.AccountSavings, Destination: model.AccountSavings}},
		{"bogus source", wizard.StepSelectDestination, wizard.Request{Source: "isa"}},
		{"confirmed directly", wizard.StepConfirmed, wizard.Request{Source: model.AccountCurrent, Destination: model.AccountSavings, Amount: dec("1")}},
		{"review over balance", wizard.StepReview, wizard.Request{Source: model.AccountSavings, Destination: model.AccountCurrent, Amount: dec("99999")}},
		{"pension warning not accepted", wizard.StepSelectDestination, wizard.Request{Source: model.AccountPension}},
		{"pension review not accepted", wizard.StepReview, wizard.Request{Source: model.AccountPension, Destination: model.AccountSavings, Amount: dec("1")}},
		{"unknown currency", wizard.StepReview, wizard.Request{Source: model.AccountCurrent, Destination: model.AccountSavings, Amount: dec("1"), Currency: "XYZ"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sess := wizard.New(accounts.NewStore())
			err := sess.Enter(tt.step, tt.req)
			assert.ErrorIs(t, err, wizard.ErrIncompleteRequest)
			assert.Equal(t, wizard.StepHome, sess.Step())
			assert.Equal(t, wizard.Request{}, sess.Request())
		})
	}
}

func TestEnter_UnknownCurrency(t *testing.T) {
	sess := wizard.New(accounts.NewStore())
	err := sess.Enter(wizard.StepReview, wizard.Request{
		Source:      model.AccountCurrent,
		Destination: model.AccountSavings,
		Amount:      dec("10"),
		Currency:    "XYZ",
	})
	assert.ErrorIs(t, err, wizard.ErrUnknownCurrency)
	assert.Equal(t, wizard.StepHome, sess.Step())
}

func TestEnter_NormalizesCurrency(t *testing.T) {
	sess := wizard.New(accounts.NewStore())
	require.NoError(t, sess.Enter(wizard.StepReview, wizard.Request{
		Source:      model.AccountCurrent,
		Destination: model.AccountSavings,
		Amount:      dec("10"),
		Currency:    "eur",
	}))
	assert.Equal(t, "EUR", sess.Request().Currency)
}

func TestPensionAcknowledgementResetsWithSource(t *testing.T) {
	sess := wizard.New(accounts.NewStore())
	require.NoError(t, sess.ChooseSource(model.AccountPension))
	assert.False(t, sess.Request().PensionAcknowledged)
	require.NoError(t, sess.Acknowledge())
	assert.True(t, sess.Request().PensionAcknowledged)

	// Going back to the source screen and picking again shows the warning again.
	sess.Back()
	sess.Back()
	require.Equal(t, wizard.StepSelectSource, sess.Step())
	require.NoError(t, sess.ChooseSource(model.AccountPension))
	assert.Equal(t, wizard.StepPensionWarning, sess.Step())
	assert.False(t, sess.Request().PensionAcknowledged)
}

func TestEnter_CompleteRequest(t *testing.T) {
	store := accounts.NewStore()
	sess := wizard.New(store, wizard.WithCurrency("USD"))

	err := sess.Enter(wizard.StepReview, wizard.Request{
		Source:              model.AccountPension,
		Destination:         model.AccountSavings,
		Amount:              dec("1000"),
		PensionAcknowledged: true,
	})
	require.NoError(t, err)
	assert.Equal(t, wizard.StepReview, sess.Step())
	assert.Equal(t, "USD", sess.Request().Currency)

	require.NoError(t, sess.Confirm())
	assert.True(t, balanceOf(t, store, model.AccountPension).Equal(dec("47750")))
}

func TestCommit_StoreRejection(t *testing.T) {
	store := new(MockStore)
	current := model.Account{ID: model.AccountCurrent, Name: "Current Account", Balance: dec("100")}
	savings := model.Account{ID: model.AccountSavings, Name: "Savings", Balance: dec("0")}
	store.On("Get", model.AccountCurrent).Return(current, nil)
	store.On("Get", model.AccountSavings).Return(savings, nil)
	store.On("TransferFunds", model.AccountCurrent, model.AccountSavings,
		mock.MatchedBy(func(d decimal.Decimal) bool { return d.Equal(dec("50")) })).
		Return(nil, errors.New("balance changed underneath"))

	sess := wizard.New(store)
	require.NoError(t, sess.ChooseSource(model.AccountCurrent))
	require.NoError(t, sess.ChooseDestination(model.AccountSavings))
	require.NoError(t, sess.EnterAmount("50", ""))

	err := sess.Confirm()
	assert.ErrorContains(t, err, "balance changed underneath")
	assert.Equal(t, wizard.StepReview, sess.Step(), "a rejected commit stays on review")
	assert.Empty(t, sess.Transactions())
	store.AssertExpectations(t)
}

func TestCommit_RechecksBalance(t *testing.T) {
	store := accounts.NewStore()
	sess := wizard.New(store)
	require.NoError(t, sess.ChooseSource(model.AccountCurrent))
	require.NoError(t, sess.ChooseDestination(model.AccountSavings))
	require.NoError(t, sess.EnterAmount("500", ""))

	// Balance drops between review and confirmation.
	require.NoError(t, store.UpdateBalance(model.AccountCurrent, dec("100")))

	err := sess.Confirm()
	assert.ErrorIs(t, err, wizard.ErrExceedsBalance)
	assert.Equal(t, wizard.StepReview, sess.Step())
	assert.True(t, balanceOf(t, store, model.AccountSavings).Equal(dec("16250")))
}

func TestAbandon(t *testing.T) {
	store := accounts.NewStore()
	sess := wizard.New(store)
	require.NoError(t, sess.ChooseSource(model.AccountCurrent))
	require.NoError(t, sess.ChooseDestination(model.AccountSavings))
	sess.Abandon()

	assert.Equal(t, wizard.StepHome, sess.Step())
	assert.Equal(t, wizard.Request{}, sess.Request())
	for id, want := range accounts.DefaultBalances() {
		assert.True(t, balanceOf(t, store, id).Equal(want), "%s untouched", id)
	}
}

func TestStepString(t *testing.T) {
	assert.Equal(t, "select-source", wizard.StepSelectSource.String())
	assert.Equal(t, "savings-warning", wizard.StepSavingsWarning.String())
	assert.Equal(t, "unknown", wizard.Step(99).String())
}
