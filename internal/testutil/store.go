// Package testutil provides store fixtures for tests.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/corvidae/magpie/internal/ids"
	"github.com/corvidae/magpie/internal/model"
	"github.com/corvidae/magpie/internal/store"
)

// TestStore wraps a temp-dir SQLite database with seeding helpers.
// Each helper fails the test on error, so test bodies stay focused on
// behavior.
type TestStore struct {
	t  *testing.T
	DB *store.Database

	// clock advances 1ms per created row so IDs and created_at stay
	// strictly ordered and deterministic.
	clock time.Time
}

// NewStore opens a fresh database in a temp dir.
func NewStore(t *testing.T) *TestStore {
	t.Helper()

	db, err := store.Open(t.TempDir())
	if err != nil {
		t.Fatalf("failed to open test store: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return &TestStore{
		t:     t,
		DB:    db,
		clock: time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC),
	}
}

func (s *TestStore) tick() time.Time {
	s.clock = s.clock.Add(time.Millisecond)
	return s.clock
}

// AddUser creates a user with the given handle.
func (s *TestStore) AddUser(username string) *model.User {
	s.t.Helper()

	now := s.tick()
	u := model.User{
		ID:        ids.New(now),
		Username:  username,
		CanSearch: true,
		CreatedAt: now,
	}
	if err := s.DB.CreateUser(context.Background(), u); err != nil {
		s.t.Fatalf("failed to create user %q: %v", username, err)
	}
	return &u
}

// AddNote creates a note authored by author. Mutators adjust the note
// before insertion (visibility, score, mentions, reply targets...).
func (s *TestStore) AddNote(author *model.User, text string, mutators ...func(*model.Note)) model.Note {
	s.t.Helper()

	now := s.tick()
	n := model.Note{
		ID:         ids.New(now),
		UserID:     author.ID,
		Text:       text,
		Visibility: model.VisibilityPublic,
		CreatedAt:  now,
	}
	for _, mutate := range mutators {
		mutate(&n)
	}
	if err := s.DB.InsertNote(context.Background(), n); err != nil {
		s.t.Fatalf("failed to insert note: %v", err)
	}
	return n
}

// Follow records follower -> followee.
func (s *TestStore) Follow(follower, followee *model.User) {
	s.t.Helper()
	if err := s.DB.Follow(context.Background(), follower.ID, followee.ID); err != nil {
		s.t.Fatalf("failed to follow: %v", err)
	}
}

// Mute records muter -> mutee.
func (s *TestStore) Mute(muter, mutee *model.User) {
	s.t.Helper()
	if err := s.DB.Mute(context.Background(), muter.ID, mutee.ID); err != nil {
		s.t.Fatalf("failed to mute: %v", err)
	}
}

// Block records blocker -> blockee.
func (s *TestStore) Block(blocker, blockee *model.User) {
	s.t.Helper()
	if err := s.DB.Block(context.Background(), blocker.ID, blockee.ID); err != nil {
		s.t.Fatalf("failed to block: %v", err)
	}
}

// WithVisibility sets the note visibility.
func WithVisibility(v model.Visibility) func(*model.Note) {
	return func(n *model.Note) { n.Visibility = v }
}

// WithScore sets the reaction score.
func WithScore(score int) func(*model.Note) {
	return func(n *model.Note) { n.Score = score }
}

// WithMentions sets the mentioned user IDs.
func WithMentions(users ...*model.User) func(*model.Note) {
	return func(n *model.Note) {
		for _, u := range users {
			n.MentionIDs = append(n.MentionIDs, u.ID)
		}
	}
}

// WithReplyTo marks the note as a reply to target.
func WithReplyTo(target model.Note) func(*model.Note) {
	return func(n *model.Note) {
		n.ReplyID = &target.ID
		n.ReplyUserID = &target.UserID
	}
}

// WithRenoteOf marks the note as a renote of target.
func WithRenoteOf(target model.Note) func(*model.Note) {
	return func(n *model.Note) {
		n.RenoteID = &target.ID
		n.RenoteUserID = &target.UserID
	}
}

// WithChannel sets the channel ID.
func WithChannel(channelID string) func(*model.Note) {
	return func(n *model.Note) { n.ChannelID = &channelID }
}

// WithCreatedAt pins the creation time (and regenerates the ID so
// ordering stays consistent).
func WithCreatedAt(t time.Time) func(*model.Note) {
	return func(n *model.Note) {
		n.CreatedAt = t
		n.ID = ids.New(t)
	}
}
