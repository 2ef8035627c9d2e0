package schedule

import "time"

// PaidState is the paid flag of a previously persisted installment, keyed by
// its installment number.
type PaidState struct {
	Number int
	Paid   bool
	PaidAt *time.Time
}

// Reconcile re-attaches paid state to a freshly generated schedule by
// installment number. Numbers present in both keep their paid flag; new or
// renumbered installments start unpaid, and numbers that disappeared are
// simply dropped with the old schedule. Matching is strictly positional, not
// by date: a benign edit (description, amount correction) keeps user progress
// without guessing which dates correspond.
func Reconcile(next []Entry, prev []PaidState) []Entry {
	paid := make(map[int]PaidState, len(prev))
	for _, p := range prev {
		paid[p.Number] = p
	}
	out := make([]Entry, len(next))
	for i, e := range next {
		if p, ok := paid[e.Number]; ok {
			e.Paid = p.Paid
			e.PaidAt = p.PaidAt
		} else {
			e.Paid = false
			e.PaidAt = nil
		}
		out[i] = e
	}
	return out
}
