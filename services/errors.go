// File: /services/errors.go
package services

import "errors"

var (
	// ErrNotFound — target user, request, or relationship absent or not
	// owned by the caller.
	ErrNotFound = errors.New("not found")

	// ErrInvalidOperation — the operation can never succeed (e.g. sending
	// a friend request to yourself).
	ErrInvalidOperation = errors.New("invalid operation")

	// ErrConflict — a relationship between the pair already exists.
	ErrConflict = errors.New("already exists")

	// ErrRateLimited — repeat request from the same sender inside the
	// de-duplication window.
	ErrRateLimited = errors.New("rate limited")

	// ErrInvalidID — malformed request id.
	ErrInvalidID = errors.New("invalid id")
)
