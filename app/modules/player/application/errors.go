package playerservice

import "errors"

// Domain errors for the player service.
var (
	// ErrNoPlayer indicates the user has not signed up yet, so no player is
	// linked to it.
	ErrNoPlayer = errors.New("no player linked to user")

	// ErrMissingSubject indicates an empty auth subject was provided.
	ErrMissingSubject = errors.New("auth subject cannot be empty")
)
