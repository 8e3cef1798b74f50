package validators

import "errors"

var (
	ErrMissingField     = errors.New("missing required field")
	ErrMalformedField   = errors.New("malformed field")
	ErrAmountNotAllowed = errors.New("amount not allowed")
	ErrUnknownField     = errors.New("unknown validation field")
	ErrUnsupportedType  = errors.New("unsupported type for validation")
)
