package schedule

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Entry is one computed installment of a schedule. Amounts are fixed-point
// with two fraction digits; the set always sums exactly to the debt total.
type Entry struct {
	Number  int
	DueDate time.Time
	Amount  decimal.Decimal
	Paid    bool
	PaidAt  *time.Time
}

var oneCent = decimal.New(1, -2)

// Generate expands a total amount and installment count into a dated schedule
// anchored to the card's billing due day. Only the year/month of start matter;
// installment i falls in start's month plus i-1, on the due day (clamped to
// the month length). The base amount is total/count rounded to cents and the
// last installment absorbs the rounding remainder so the sum reconciles
// exactly.
func Generate(total decimal.Decimal, count int, start time.Time, dueDay int) ([]Entry, error) {
	if dueDay < 1 || dueDay > 31 {
		return nil, fmt.Errorf("%w: due day %d outside 1-31", ErrInvalidReference, dueDay)
	}
	if count < 1 {
		return nil, fmt.Errorf("%w: installment count %d", ErrInvalidInput, count)
	}
	if total.Sign() <= 0 {
		return nil, fmt.Errorf("%w: total amount %s", ErrInvalidInput, total)
	}
	if start.IsZero() {
		return nil, fmt.Errorf("%w: missing start date", ErrInvalidInput)
	}

	base := total.DivRound(decimal.NewFromInt(int64(count)), 2)
	if base.LessThan(oneCent) {
		// More installments than cents: base rounds to 0.00 and the schedule
		// would degenerate. Rejected rather than emitting zero installments.
		return nil, fmt.Errorf("%w: %d installments over %s leave less than a cent each", ErrInvalidInput, count, total)
	}
	last := total.Sub(base.Mul(decimal.NewFromInt(int64(count - 1))))
	if last.Sign() <= 0 {
		return nil, fmt.Errorf("%w: rounding leaves non-positive final installment %s", ErrInvalidInput, last)
	}

	entries := make([]Entry, 0, count)
	for i := 1; i <= count; i++ {
		amount := base
		if i == count {
			amount = last
		}
		// Month-count arithmetic on day 1 so Jan 31 + 1 month can never skip
		// a month; time.Date normalizes month overflow across year ends.
		anchor := time.Date(start.Year(), start.Month()+time.Month(i-1), 1, 0, 0, 0, 0, time.UTC)
		entries = append(entries, Entry{
			Number:  i,
			DueDate: ResolveDueDate(anchor.Year(), anchor.Month(), dueDay),
			Amount:  amount,
		})
	}
	return entries, nil
}
