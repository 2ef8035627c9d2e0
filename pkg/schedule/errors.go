package schedule

import "errors"

// ErrInvalidInput is returned when an amount, count or date fails validation
// before any schedule is computed.
var ErrInvalidInput = errors.New("invalid schedule input")

// ErrInvalidReference is returned when the billing due day cannot be resolved
// (no card, or a day outside 1-31). No installments are produced.
var ErrInvalidReference = errors.New("invalid billing reference")
