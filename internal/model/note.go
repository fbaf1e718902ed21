// Package model defines the core Magpie domain types.
package model

import "time"

// Visibility is the exposure class of a note.
type Visibility string

const (
	// VisibilityPublic notes are visible to everyone, including anonymous callers.
	VisibilityPublic Visibility = "public"
	// VisibilityHome notes appear on home timelines and are visible to everyone.
	VisibilityHome Visibility = "home"
	// VisibilityFollowers notes are visible only to followers of the author.
	VisibilityFollowers Visibility = "followers"
	// VisibilitySpecified notes are visible only to the mentioned users.
	VisibilitySpecified Visibility = "specified"
)

// Visibilities lists every valid visibility class.
var Visibilities = []Visibility{
	VisibilityPublic,
	VisibilityHome,
	VisibilityFollowers,
	VisibilitySpecified,
}

// Valid reports whether v is one of the known visibility classes.
func (v Visibility) Valid() bool {
	for _, known := range Visibilities {
		if v == known {
			return true
		}
	}
	return false
}

// Note represents a single post in the searchable corpus.
type Note struct {
	// ID is a time-ordered opaque identifier; lexicographic order
	// matches creation order, which cursor pagination relies on.
	ID string `json:"id"`

	// UserID is the author's user ID.
	UserID string `json:"user_id"`

	// Text is the note body (markdown).
	Text string `json:"text"`

	// Visibility is the note's exposure class.
	Visibility Visibility `json:"visibility"`

	// Score is the aggregate reaction count. Never negative.
	Score int `json:"score"`

	// ChannelID is the channel the note was posted to, if any.
	ChannelID *string `json:"channel_id,omitempty"`

	// ReplyID is the ID of the note this note replies to, if any.
	ReplyID *string `json:"reply_id,omitempty"`

	// ReplyUserID is the author of the replied-to note, if any.
	ReplyUserID *string `json:"reply_user_id,omitempty"`

	// RenoteID is the ID of the note this note renotes, if any.
	RenoteID *string `json:"renote_id,omitempty"`

	// RenoteUserID is the author of the renoted note, if any.
	RenoteUserID *string `json:"renote_user_id,omitempty"`

	// MentionIDs lists the IDs of users mentioned in the text.
	MentionIDs []string `json:"mention_ids,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}
