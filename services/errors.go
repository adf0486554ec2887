package services

import "errors"

// Error taxonomy shared by the service layer. Handlers translate these to
// HTTP statuses; anything else is a store failure and surfaces as 500.
var (
	// ErrNotFound covers both truly absent resources and resources the
	// actor is not allowed to see, so existence never leaks.
	ErrNotFound = errors.New("resource not found")

	// ErrForbidden means the capability check failed on a visible resource
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidInput means a malformed request was rejected before any write
	ErrInvalidInput = errors.New("invalid input")

	// ErrEmptySubmission means the submitted value trimmed to nothing
	ErrEmptySubmission = errors.New("empty submission")

	// ErrConflict means the atomic duplicate-correct guard fired: two
	// concurrent submissions raced and the second one lost.
	ErrConflict = errors.New("conflicting concurrent write")

	// ErrRateLimited means the actor is in a wrong-attempt cooldown window
	ErrRateLimited = errors.New("too many wrong attempts, cooldown active")
)
