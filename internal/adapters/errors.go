package adapters

import "errors"

var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrStateMismatch    = errors.New("oauth state mismatch")
)
