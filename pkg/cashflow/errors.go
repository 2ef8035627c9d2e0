package cashflow

import "errors"

// ErrInvalidInput is returned for window sizes that cannot form a ledger.
var ErrInvalidInput = errors.New("invalid cash-flow input")
