package domain

import "errors"

// Sentinel errors for protocol-level failures. The matching engine never
// returns these; they belong to the wire layer, which wraps them with
// message-specific context.
var (
	ErrInvalidMessage  = errors.New("invalid_message")
	ErrVersionMismatch = errors.New("version_mismatch")
	ErrSizeMismatch    = errors.New("size_mismatch")
)
