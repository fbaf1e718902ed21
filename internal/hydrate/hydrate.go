// Package hydrate packs stored notes into client-facing payloads.
package hydrate

import (
	"context"
	"time"

	"github.com/corvidae/magpie/internal/model"
	"github.com/corvidae/magpie/internal/store"
)

// UserSummary is the embedded author representation.
type UserSummary struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name,omitempty"`
	Host        string `json:"host,omitempty"`
}

// NotePayload is the client-facing note representation.
type NotePayload struct {
	ID         string       `json:"id"`
	CreatedAt  string       `json:"created_at"`
	UserID     string       `json:"user_id"`
	User       *UserSummary `json:"user,omitempty"`
	Text       string       `json:"text"`
	Visibility string       `json:"visibility"`
	Score      int          `json:"score"`
	ChannelID  *string      `json:"channel_id,omitempty"`
	ReplyID    *string      `json:"reply_id,omitempty"`
	ReplyUser  *UserSummary `json:"reply_user,omitempty"`
	RenoteID   *string      `json:"renote_id,omitempty"`
	RenoteUser *UserSummary `json:"renote_user,omitempty"`
	MentionIDs []string     `json:"mention_ids,omitempty"`

	// MentionsMe is set when an authenticated caller is mentioned.
	MentionsMe bool `json:"mentions_me,omitempty"`
}

// Hydrator resolves the users referenced by notes and builds payloads.
type Hydrator struct {
	db *store.Database
}

// New creates a hydrator backed by the given store.
func New(db *store.Database) *Hydrator {
	return &Hydrator{db: db}
}

// PackMany builds payloads for a batch of notes. Authors, reply-target
// authors and renote-target authors are loaded in a single query.
func (h *Hydrator) PackMany(ctx context.Context, notes []model.Note, caller *model.User) ([]*NotePayload, error) {
	users, err := h.db.FindUsersByIDs(ctx, relatedUserIDs(notes))
	if err != nil {
		return nil, err
	}

	payloads := make([]*NotePayload, len(notes))
	for i, n := range notes {
		payloads[i] = pack(n, users, caller)
	}
	return payloads, nil
}

func pack(n model.Note, users map[string]*model.User, caller *model.User) *NotePayload {
	p := &NotePayload{
		ID:         n.ID,
		CreatedAt:  n.CreatedAt.UTC().Format(time.RFC3339),
		UserID:     n.UserID,
		User:       summarize(users[n.UserID]),
		Text:       n.Text,
		Visibility: string(n.Visibility),
		Score:      n.Score,
		ChannelID:  n.ChannelID,
		ReplyID:    n.ReplyID,
		RenoteID:   n.RenoteID,
		MentionIDs: n.MentionIDs,
	}

	if n.ReplyUserID != nil {
		p.ReplyUser = summarize(users[*n.ReplyUserID])
	}
	if n.RenoteUserID != nil {
		p.RenoteUser = summarize(users[*n.RenoteUserID])
	}

	if caller != nil {
		for _, id := range n.MentionIDs {
			if id == caller.ID {
				p.MentionsMe = true
				break
			}
		}
	}
	return p
}

func relatedUserIDs(notes []model.Note) []string {
	seen := make(map[string]bool)
	var ids []string

	add := func(id string) {
		if id != "" && !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}

	for _, n := range notes {
		add(n.UserID)
		if n.ReplyUserID != nil {
			add(*n.ReplyUserID)
		}
		if n.RenoteUserID != nil {
			add(*n.RenoteUserID)
		}
	}
	return ids
}

func summarize(u *model.User) *UserSummary {
	if u == nil {
		return nil
	}
	return &UserSummary{
		ID:          u.ID,
		Username:    u.Username,
		DisplayName: u.DisplayName,
		Host:        u.Host,
	}
}
