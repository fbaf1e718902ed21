// Package seed loads users, social-graph edges and notes from a YAML
// seed file into the store.
package seed

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/corvidae/magpie/internal/ids"
	"github.com/corvidae/magpie/internal/mention"
	"github.com/corvidae/magpie/internal/model"
	"github.com/corvidae/magpie/internal/store"
)

// File is the top-level seed document.
type File struct {
	Users   []UserSeed `yaml:"users"`
	Follows []EdgeSeed `yaml:"follows"`
	Mutes   []EdgeSeed `yaml:"mutes"`
	Blocks  []EdgeSeed `yaml:"blocks"`
	Notes   []NoteSeed `yaml:"notes"`
}

// UserSeed describes one user to create.
type UserSeed struct {
	Username    string `yaml:"username"`
	DisplayName string `yaml:"display_name"`
	Host        string `yaml:"host"`
	// CanSearch defaults to true when omitted.
	CanSearch *bool `yaml:"can_search"`
}

// EdgeSeed describes a directed relation between two usernames.
// For follows, From follows To; for mutes/blocks, From mutes/blocks To.
type EdgeSeed struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

// NoteSeed describes one note. Key names the note so later seeds can
// reply to or renote it.
type NoteSeed struct {
	Key        string    `yaml:"key"`
	Author     string    `yaml:"author"`
	Text       string    `yaml:"text"`
	Visibility string    `yaml:"visibility"`
	Score      int       `yaml:"score"`
	Channel    string    `yaml:"channel"`
	ReplyTo    string    `yaml:"reply_to"`
	RenoteOf   string    `yaml:"renote_of"`
	CreatedAt  time.Time `yaml:"created_at"`
}

// Stats summarizes what a load inserted.
type Stats struct {
	Users   int
	Follows int
	Mutes   int
	Blocks  int
	Notes   int
}

// LoadFile reads and loads a seed file.
func LoadFile(ctx context.Context, db *store.Database, path string) (Stats, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Stats{}, fmt.Errorf("failed to read seed file: %w", err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return Stats{}, fmt.Errorf("failed to parse seed file: %w", err)
	}
	return Load(ctx, db, f)
}

// Load inserts the seed document into the store: users first, then
// edges, then notes in document order.
func Load(ctx context.Context, db *store.Database, f File) (Stats, error) {
	var stats Stats
	now := time.Now().UTC()

	for _, u := range f.Users {
		if u.Username == "" {
			return stats, fmt.Errorf("seed user with empty username")
		}
		canSearch := true
		if u.CanSearch != nil {
			canSearch = *u.CanSearch
		}
		err := db.CreateUser(ctx, model.User{
			ID:          ids.New(now),
			Username:    u.Username,
			DisplayName: u.DisplayName,
			Host:        u.Host,
			CanSearch:   canSearch,
			CreatedAt:   now,
		})
		if err != nil {
			return stats, err
		}
		stats.Users++
	}

	resolve := func(name string) (string, error) {
		user, err := db.FindUserByUsername(ctx, name)
		if err != nil {
			return "", fmt.Errorf("seed references unknown user %q: %w", name, err)
		}
		return user.ID, nil
	}

	type edgeKind struct {
		edges  []EdgeSeed
		insert func(context.Context, string, string) error
		count  *int
	}
	for _, kind := range []edgeKind{
		{f.Follows, db.Follow, &stats.Follows},
		{f.Mutes, db.Mute, &stats.Mutes},
		{f.Blocks, db.Block, &stats.Blocks},
	} {
		for _, e := range kind.edges {
			fromID, err := resolve(e.From)
			if err != nil {
				return stats, err
			}
			toID, err := resolve(e.To)
			if err != nil {
				return stats, err
			}
			if err := kind.insert(ctx, fromID, toID); err != nil {
				return stats, err
			}
			*kind.count++
		}
	}

	// Note keys and authors seen so far, for reply/renote references.
	type noteRef struct {
		id     string
		userID string
	}
	byKey := make(map[string]noteRef)

	for i, ns := range f.Notes {
		authorID, err := resolve(ns.Author)
		if err != nil {
			return stats, err
		}

		visibility := model.Visibility(ns.Visibility)
		if ns.Visibility == "" {
			visibility = model.VisibilityPublic
		}

		createdAt := ns.CreatedAt
		if createdAt.IsZero() {
			// Keep document order as creation order.
			createdAt = now.Add(time.Duration(i) * time.Millisecond)
		}

		note := model.Note{
			ID:         ids.New(createdAt),
			UserID:     authorID,
			Text:       ns.Text,
			Visibility: visibility,
			Score:      ns.Score,
			CreatedAt:  createdAt,
		}
		if ns.Channel != "" {
			note.ChannelID = &ns.Channel
		}

		if ns.ReplyTo != "" {
			ref, ok := byKey[ns.ReplyTo]
			if !ok {
				return stats, fmt.Errorf("note %d replies to unknown key %q", i, ns.ReplyTo)
			}
			note.ReplyID = &ref.id
			note.ReplyUserID = &ref.userID
		}
		if ns.RenoteOf != "" {
			ref, ok := byKey[ns.RenoteOf]
			if !ok {
				return stats, fmt.Errorf("note %d renotes unknown key %q", i, ns.RenoteOf)
			}
			note.RenoteID = &ref.id
			note.RenoteUserID = &ref.userID
		}

		// Mentions that do not resolve to a user are dropped, same
		// as unresolvable search directives.
		for _, handle := range mention.Extract(ns.Text) {
			user, err := db.FindUserByUsername(ctx, handle)
			if errors.Is(err, store.ErrUserNotFound) {
				continue
			}
			if err != nil {
				return stats, err
			}
			note.MentionIDs = append(note.MentionIDs, user.ID)
		}

		if err := db.InsertNote(ctx, note); err != nil {
			return stats, err
		}
		if ns.Key != "" {
			byKey[ns.Key] = noteRef{id: note.ID, userID: note.UserID}
		}
		stats.Notes++
	}

	return stats, nil
}
