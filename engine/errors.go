// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package engine

import "errors"

var (
	// ErrPollNotFound is returned for an unknown poll ID.
	ErrPollNotFound = errors.New("poll not found")

	// ErrDuplicateVote is returned when a voter identity has already
	// voted on a poll. This is an expected outcome, not a failure:
	// callers render "you already voted", they do not retry.
	ErrDuplicateVote = errors.New("already voted")

	// ErrOptionOutOfRange is returned when the option index is not
	// valid for the poll (stale client state or a caller bug).
	ErrOptionOutOfRange = errors.New("option index out of range")
)

// ValidationError reports malformed poll-creation input. The reason is
// user-correctable and safe to return as-is.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
