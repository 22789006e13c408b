package id

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Entry identifies one ledger entry: a transfer (two legs) or a single
// top-up / withdrawal row. Sequences restart every month.
type Entry struct {
	Year  int
	Month int
	Seq   int
}

// ForDate returns the entry with sequence seq in the month of t.
func ForDate(t time.Time, seq int) Entry {
	return Entry{Year: t.Year(), Month: int(t.Month()), Seq: seq}
}

// String returns an entry ID like "2025-01-001".
func (e Entry) String() string {
	return fmt.Sprintf("%04d-%02d-%03d", e.Year, e.Month, e.Seq)
}

// Leg returns a leg ID like "2025-01-001a" (leg 0='a', 1='b').
func (e Entry) Leg(n int) string {
	return e.String() + string(rune('a'+n))
}

// SameMonth reports whether e falls in the month of t.
func (e Entry) SameMonth(t time.Time) bool {
	return e.Year == t.Year() && e.Month == int(t.Month())
}

// Parse parses "2025-01-001" or a leg ID "2025-01-001b".
func Parse(s string) (Entry, error) {
	parts := strings.SplitN(Base(s), "-", 3)
	if len(parts) != 3 {
		return Entry{}, fmt.Errorf("invalid entry ID format: %q", s)
	}

	var nums [3]int
	for i, label := range []string{"year", "month", "sequence"} {
		n, err := strconv.Atoi(parts[i])
		if err != nil {
			return Entry{}, fmt.Errorf("invalid %s in entry ID %q: %w", label, s, err)
		}
		nums[i] = n
	}
	if nums[1] < 1 || nums[1] > 12 {
		return Entry{}, fmt.Errorf("invalid month in entry ID %q", s)
	}
	return Entry{Year: nums[0], Month: nums[1], Seq: nums[2]}, nil
}

// Base strips the leg suffix from a leg ID.
func Base(legID string) string {
	i := len(legID)
	for i > 0 && legID[i-1] >= 'a' && legID[i-1] <= 'z' {
		i--
	}
	return legID[:i]
}
