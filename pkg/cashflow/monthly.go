package cashflow

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// InstallmentDue is the slice of an installment the ledger needs. Cash flow
// reflects committed obligations, so paid state is deliberately absent.
type InstallmentDue struct {
	DueDate time.Time
	Amount  decimal.Decimal
}

// Row is one month of the ledger: realized or projected income, committed
// expense and their balance. Months strictly after "now" carry IsFuture.
type Row struct {
	Month    string          `json:"month"`
	Income   decimal.Decimal `json:"income"`
	Expense  decimal.Decimal `json:"expense"`
	Balance  decimal.Decimal `json:"balance"`
	IsFuture bool            `json:"is_future"`
}

// MonthlyInput carries everything the aggregator consumes. All records are
// expected to already be scoped to one user; the engine does no filtering.
type MonthlyInput struct {
	Incomes      []IncomeDefinition
	Entries      []Entry
	Installments []InstallmentDue
	PastMonths   int
	FutureMonths int
	Now          time.Time
}

// Monthly merges income entries and expense installments into a gapless
// month-indexed ledger over [now-past, now+future], ascending. Future months
// with no materialized income (beyond the expander's look-ahead) are projected
// by replaying active recurring definitions without persisting anything.
func Monthly(in MonthlyInput) ([]Row, error) {
	if in.PastMonths < 0 || in.FutureMonths < 0 {
		return nil, fmt.Errorf("%w: window %d/%d months", ErrInvalidInput, in.PastMonths, in.FutureMonths)
	}

	current := MonthStart(in.Now)
	total := in.PastMonths + 1 + in.FutureMonths
	months := make([]time.Time, total)
	index := make(map[time.Time]int, total)
	income := make([]decimal.Decimal, total)
	expense := make([]decimal.Decimal, total)
	for i := 0; i < total; i++ {
		m := AddMonths(current, i-in.PastMonths)
		months[i] = m
		index[m] = i
		income[i] = decimal.Zero
		expense[i] = decimal.Zero
	}

	for _, e := range in.Entries {
		if i, ok := index[MonthStart(e.Month)]; ok {
			income[i] = income[i].Add(e.Amount)
		}
	}
	for _, inst := range in.Installments {
		if i, ok := index[MonthStart(inst.DueDate)]; ok {
			expense[i] = expense[i].Add(inst.Amount)
		}
	}

	rows := make([]Row, total)
	for i, m := range months {
		future := m.After(current)
		if future && income[i].IsZero() {
			income[i] = projectedIncome(in.Incomes, m)
		}
		rows[i] = Row{
			Month:    MonthKey(m),
			Income:   income[i].Round(2),
			Expense:  expense[i].Round(2),
			Balance:  income[i].Sub(expense[i]).Round(2),
			IsFuture: future,
		}
	}
	return rows, nil
}

// projectedIncome replays active recurring definitions for a month past the
// materialized horizon.
func projectedIncome(incomes []IncomeDefinition, month time.Time) decimal.Decimal {
	sum := decimal.Zero
	for _, inc := range incomes {
		if !inc.Recurring || inc.Archived {
			continue
		}
		if inc.covers(month) {
			sum = sum.Add(inc.Amount)
		}
	}
	return sum
}
