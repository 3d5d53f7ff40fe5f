package envelope

import "errors"

// ErrMalformed is returned when an inbound payload is structurally
// defective: missing fields, wrong types, or an unsupported algorithm.
var ErrMalformed = errors.New("malformed envelope")
