package model

import (
	"strings"
	"time"
)

// User represents an account that can author, follow, mute and block.
type User struct {
	// ID uniquely identifies this user.
	ID string `json:"id"`

	// Username is the handle as entered, e.g. "Alice".
	Username string `json:"username"`

	// DisplayName is the optional human-readable name.
	DisplayName string `json:"display_name,omitempty"`

	// Host is the remote host for federated accounts, empty for local ones.
	Host string `json:"host,omitempty"`

	// CanSearch gates the search capability for this user.
	CanSearch bool `json:"can_search"`

	CreatedAt time.Time `json:"created_at"`
}

// NormalizeUsername lower-cases a handle for exact-match lookup.
// Username identity is defined by this normalization; nothing else
// (diacritics, punctuation) is folded.
func NormalizeUsername(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
