package services

import (
	"errors"
	"strings"
)

var (
	// ErrNotFound is returned when an id does not resolve.
	ErrNotFound = errors.New("not found")
	// ErrNameTaken is returned when a username collides with an
	// existing user (exact, case-sensitive match).
	ErrNameTaken = errors.New("name not available")
	// ErrBadCredentials covers both an unknown username and a wrong
	// password so the login form cannot be used to probe for accounts.
	ErrBadCredentials = errors.New("user does not exist or the password is wrong")
	// ErrForbidden is returned when the actor may not touch the resource.
	ErrForbidden = errors.New("forbidden")
	// ErrSelfLink is returned for guild requests targeting the actor
	// themselves or the zero sentinel id.
	ErrSelfLink = errors.New("cannot link to yourself")
	// ErrFactionMismatch is returned for guild requests across factions.
	ErrFactionMismatch = errors.New("users belong to different factions")
)

// isDuplicate detects unique-constraint violations across the sqlite
// and postgres drivers.
func isDuplicate(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate") || strings.Contains(msg, "UNIQUE constraint")
}
