// Package scope builds the reusable visibility, mute and block
// predicates applied to every note query, independent of search.
package scope

import "github.com/corvidae/magpie/internal/predicate"

// Visibility restricts a note query to what the caller may see.
// Anonymous callers (nil callerID) see public and home notes only.
// Authenticated callers additionally see their own notes, notes
// mentioning them, followers-only notes from authors they follow, and
// specified-visibility notes addressed to them.
func Visibility(callerID *string) predicate.Node {
	open := predicate.NewLeaf(`n.visibility IN ('public', 'home')`)
	if callerID == nil {
		return open
	}

	caller := *callerID
	return predicate.Or(
		open,
		predicate.NewLeaf(`n.user_id = ?`, caller),
		mentioned(caller),
		predicate.And(
			predicate.NewLeaf(`n.visibility = 'followers'`),
			predicate.NewLeaf(`n.user_id IN (SELECT f.followee_id FROM followings f WHERE f.follower_id = ?)`, caller),
		),
		predicate.And(
			predicate.NewLeaf(`n.visibility = 'specified'`),
			mentioned(caller),
		),
	)
}

// MuteExclusion drops notes authored by users the caller has muted.
func MuteExclusion(callerID string) predicate.Node {
	return predicate.NewLeaf(
		`n.user_id NOT IN (SELECT m.mutee_id FROM mutings m WHERE m.muter_id = ?)`,
		callerID)
}

// BlockExclusion drops notes authored by users who block the caller.
func BlockExclusion(callerID string) predicate.Node {
	return predicate.NewLeaf(
		`n.user_id NOT IN (SELECT b.blocker_id FROM blockings b WHERE b.blockee_id = ?)`,
		callerID)
}

func mentioned(userID string) predicate.Node {
	return predicate.NewLeaf(
		`EXISTS (SELECT 1 FROM note_mentions nm WHERE nm.note_id = n.id AND nm.user_id = ?)`,
		userID)
}
