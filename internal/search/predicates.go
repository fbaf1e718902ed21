package search

import (
	"time"

	"github.com/corvidae/magpie/internal/dates"
	"github.com/corvidae/magpie/internal/model"
	"github.com/corvidae/magpie/internal/predicate"
)

// AuthoredBy requires the note's author to be the given user.
func AuthoredBy(userID string) predicate.Node {
	return predicate.NewLeaf(`n.user_id = ?`, userID)
}

// CreatedOnOrAfter requires creation at or after the start of t's
// calendar day (00:00:00.000).
func CreatedOnOrAfter(t time.Time) predicate.Node {
	return predicate.NewLeaf(`n.created_at >= ?`, dates.StartOfDay(t).UnixMilli())
}

// CreatedOnOrBefore requires creation at or before the end of t's
// calendar day (23:59:59.999).
func CreatedOnOrBefore(t time.Time) predicate.Node {
	return predicate.NewLeaf(`n.created_at <= ?`, dates.EndOfDay(t).UnixMilli())
}

// MinScore requires the note's reaction score to be at least min.
func MinScore(min int) predicate.Node {
	return predicate.NewLeaf(`n.score >= ?`, min)
}

// InChannel requires the note to belong to the given channel.
func InChannel(channelID string) predicate.Node {
	return predicate.NewLeaf(`n.channel_id = ?`, channelID)
}

// TextContains requires the note text to contain the free-text term,
// case-insensitively and with LIKE wildcards matched literally.
func TextContains(term string) predicate.Node {
	return predicate.Contains("n.text", term)
}

// Mentions requires the given user to appear in the note's mention
// list.
func Mentions(userID string) predicate.Node {
	return predicate.NewLeaf(
		`EXISTS (SELECT 1 FROM note_mentions nm WHERE nm.note_id = n.id AND nm.user_id = ?)`,
		userID)
}

// FollowersOf requires the note's author to follow the given user.
// The follower set is a membership sub-query, never materialized.
func FollowersOf(userID string) predicate.Node {
	return predicate.NewLeaf(
		`n.user_id IN (SELECT f.follower_id FROM followings f WHERE f.followee_id = ?)`,
		userID)
}

// HomeScope matches notes that would appear on a home-timeline view of
// the target: authored by them, mentioning them, or home/public notes
// that are either authored by one of their followers or a reply
// directed at them. The grouping is load-bearing.
func HomeScope(target *model.User) predicate.Node {
	return predicate.Or(
		AuthoredBy(target.ID),
		Mentions(target.ID),
		predicate.And(
			predicate.NewLeaf(`n.visibility IN ('home', 'public')`),
			predicate.Or(
				FollowersOf(target.ID),
				predicate.NewLeaf(`n.reply_user_id = ?`, target.ID),
			),
		),
	)
}
