package roundservice

import "errors"

// Domain errors for the round service.
// These represent business logic failures that callers should map to their
// own failure surface (HTTP status, log-and-skip) rather than retrying.
var (
	// ErrRoundNotFound indicates a round does not exist.
	ErrRoundNotFound = errors.New("round not found")

	// ErrEntryNotFound indicates an entry does not exist.
	ErrEntryNotFound = errors.New("entry not found")

	// ErrPlayerNotFound indicates the referenced player does not exist.
	ErrPlayerNotFound = errors.New("player not found")

	// ErrGuestLimit indicates a guest count outside the allowed 0..2 range.
	ErrGuestLimit = errors.New("guest count must be between 0 and 2")

	// ErrInvalidStatus indicates a status outside the closed enum.
	ErrInvalidStatus = errors.New("invalid entry status")

	// ErrNotEntryOwner indicates the caller does not own the entry being mutated.
	ErrNotEntryOwner = errors.New("entry belongs to another player")

	// ErrMissingField indicates a required field was empty.
	ErrMissingField = errors.New("required field missing")
)
