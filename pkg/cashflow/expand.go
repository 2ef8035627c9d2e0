package cashflow

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// LookaheadMonths bounds how far past "now" recurring incomes materialize
// entries. Re-invocation on every read keeps the horizon rolling forward, so
// rows never grow without bound.
const LookaheadMonths = 4

// IncomeDefinition is the slice of an income record the engine needs. EndDate
// nil means the income recurs indefinitely up to the projection horizon.
type IncomeDefinition struct {
	ID        uint
	Amount    decimal.Decimal
	Recurring bool
	StartDate time.Time
	EndDate   *time.Time
	Archived  bool
}

// Entry is one materialized month of an income.
type Entry struct {
	IncomeID uint
	Month    time.Time
	Amount   decimal.Decimal
	Received bool
}

// EntryStore is the persistence seam for entry materialization. CreateEntry
// must treat a duplicate (income, month) pair as a no-op so that concurrent
// expansions of the same income cannot fail each other.
type EntryStore interface {
	MonthsWithEntries(incomeID uint) ([]time.Time, error)
	CreateEntry(e Entry) error
}

// covers reports whether the income's [start, end] range includes the month.
func (inc IncomeDefinition) covers(month time.Time) bool {
	if month.Before(MonthStart(inc.StartDate)) {
		return false
	}
	if inc.EndDate != nil && month.After(MonthStart(*inc.EndDate)) {
		return false
	}
	return true
}

// MissingMonths plans the expansion of a recurring income: every month from
// the income's start up to its end date or now+LookaheadMonths, whichever
// comes first, that has no entry yet. Pure; the caller persists.
func MissingMonths(inc IncomeDefinition, existing []time.Time, now time.Time) []time.Time {
	if !inc.Recurring || inc.Archived {
		return nil
	}
	have := make(map[time.Time]struct{}, len(existing))
	for _, m := range existing {
		have[MonthStart(m)] = struct{}{}
	}
	from := MonthStart(inc.StartDate)
	to := AddMonths(MonthStart(now), LookaheadMonths)
	if inc.EndDate != nil {
		if end := MonthStart(*inc.EndDate); end.Before(to) {
			to = end
		}
	}
	var missing []time.Time
	for m := from; !m.After(to); m = AddMonths(m, 1) {
		if _, ok := have[m]; !ok {
			missing = append(missing, m)
		}
	}
	return missing
}

// MaterializeOneOff persists the single entry of a non-recurring income at
// the first of its start month. One-off incomes are outside the rolling
// expansion, so this runs once at creation time; the store's duplicate
// tolerance makes a retry harmless.
func MaterializeOneOff(s EntryStore, inc IncomeDefinition) error {
	if inc.Recurring || inc.Archived {
		return nil
	}
	m := MonthStart(inc.StartDate)
	if err := s.CreateEntry(Entry{IncomeID: inc.ID, Month: m, Amount: inc.Amount}); err != nil {
		return fmt.Errorf("create entry %s for income %d: %w", MonthKey(m), inc.ID, err)
	}
	return nil
}

// EnsureEntries materializes the missing months of a recurring income through
// the injected store, each at the income's current amount and unreceived.
// Existing entries are never touched, so historical received state stays
// immutable. Safe to call repeatedly; creation is gated on existence plus the
// store's duplicate tolerance.
func EnsureEntries(s EntryStore, inc IncomeDefinition, now time.Time) error {
	if !inc.Recurring || inc.Archived {
		return nil
	}
	existing, err := s.MonthsWithEntries(inc.ID)
	if err != nil {
		return fmt.Errorf("list entry months for income %d: %w", inc.ID, err)
	}
	for _, m := range MissingMonths(inc, existing, now) {
		if err := s.CreateEntry(Entry{IncomeID: inc.ID, Month: m, Amount: inc.Amount}); err != nil {
			return fmt.Errorf("create entry %s for income %d: %w", MonthKey(m), inc.ID, err)
		}
	}
	return nil
}
