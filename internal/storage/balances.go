package storage

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/potmover/potmover/internal/model"
	"github.com/potmover/potmover/internal/money"
)

// DefaultKey is the key balances are stored under.
const DefaultKey = "account_balances"

// Outcome tells the caller what Load found.
type Outcome int

const (
	// NotFound means nothing was stored yet.
	NotFound Outcome = iota
	// Loaded means the stored document parsed; Balances holds the accounts
	// it carried, which may be fewer than three.
	Loaded
	// Corrupt means something was stored but could not be parsed.
	Corrupt
)

func (o Outcome) String() string {
	switch o {
	case Loaded:
		return "loaded"
	case Corrupt:
		return "corrupt"
	default:
		return "not-found"
	}
}

// LoadResult is the outcome of reading persisted balances. Err carries the
// parse or read failure for Corrupt results and is informational only.
type LoadResult struct {
	Outcome  Outcome
	Balances map[model.AccountID]decimal.Decimal
	Err      error
}

// Balances persists the three account balances under one key as a JSON
// object of numbers: {"pension": 48750.00, "savings": 16250.00, ...}.
type Balances struct {
	kv  KV
	key string
}

// NewBalances creates a Balances adapter. An empty key uses DefaultKey.
func NewBalances(kv KV, key string) *Balances {
	if key == "" {
		key = DefaultKey
	}
	return &Balances{kv: kv, key: key}
}

// Load reads persisted balances. It never fails: absent data is NotFound
// and unreadable data is Corrupt. Unknown keys are ignored and a field
// that is not a usable balance (not a number, fractions of a penny, out
// of range) is dropped, leaving that account to its default.
func (b *Balances) Load() LoadResult {
	raw, ok, err := b.kv.Get(b.key)
	if err != nil {
		return LoadResult{Outcome: Corrupt, Err: err}
	}
	if !ok {
		return LoadResult{Outcome: NotFound}
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return LoadResult{Outcome: Corrupt, Err: fmt.Errorf("parsing %s: %w", b.key, err)}
	}
	if fields == nil {
		return LoadResult{Outcome: Corrupt, Err: fmt.Errorf("parsing %s: not an object", b.key)}
	}

	balances := make(map[model.AccountID]decimal.Decimal, len(fields))
	for _, acct := range model.AllAccountIDs() {
		v, ok := fields[string(acct)]
		if !ok {
			continue
		}
		var n json.Number
		if err := json.Unmarshal(v, &n); err != nil {
			continue
		}
		d, err := decimal.NewFromString(n.String())
		if err != nil || money.CheckBalance(d) != nil {
			continue
		}
		balances[acct] = d
	}
	return LoadResult{Outcome: Loaded, Balances: balances}
}

// Save writes balances with two decimal places.
func (b *Balances) Save(balances map[model.AccountID]decimal.Decimal) error {
	doc := make(map[string]json.Number, len(balances))
	for acct, bal := range balances {
		doc[string(acct)] = json.Number(bal.StringFixed(2))
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshaling balances: %w", err)
	}
	if err := b.kv.Set(b.key, string(data)); err != nil {
		return fmt.Errorf("saving balances: %w", err)
	}
	return nil
}
