// Package cli implements the command-line interface.
package cli

// Error codes for structured error responses.
// These codes are stable and can be relied upon by scripts.
const (
	// Config errors
	ErrConfigInvalid = "CONFIG_INVALID"

	// User errors
	ErrUserNotFound = "USER_NOT_FOUND"
	ErrUserExists   = "USER_EXISTS"

	// Note errors
	ErrNoteNotFound = "NOTE_NOT_FOUND"
	ErrNoteInvalid  = "NOTE_INVALID"

	// Search errors
	ErrSearchUnavailable = "SEARCH_UNAVAILABLE"

	// Seed errors
	ErrSeedInvalid = "SEED_INVALID"

	// Database errors
	ErrDatabaseError   = "DATABASE_ERROR"
	ErrDatabaseVersion = "DATABASE_VERSION_MISMATCH"

	// Input errors
	ErrInvalidInput    = "INVALID_INPUT"
	ErrMissingArgument = "MISSING_ARGUMENT"

	// General errors
	ErrInternal = "INTERNAL_ERROR"
)
