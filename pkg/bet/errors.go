package bet

import "errors"

// Error taxonomy surfaced by the betting core. The core never retries or
// swallows these; the gateway translates them into HTTP status codes.
var (
	// ErrInvalidArgument marks malformed or missing identifiers — a caller
	// error, never retried.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrSessionInvalid marks an unknown or expired session token. The
	// caller must obtain a new session via get-or-create.
	ErrSessionInvalid = errors.New("session invalid")
)
