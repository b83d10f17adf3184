package query

import "errors"

// ErrInvalidInput indicates a request the engine refuses to answer,
// either malformed parameters or a page with nothing in it.
var ErrInvalidInput = errors.New("query: invalid input")
