package search_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/corvidae/magpie/internal/hydrate"
	"github.com/corvidae/magpie/internal/model"
	"github.com/corvidae/magpie/internal/policy"
	"github.com/corvidae/magpie/internal/search"
	"github.com/corvidae/magpie/internal/testutil"
)

func newService(ts *testutil.TestStore, anonymousCanSearch bool) *search.Service {
	return search.NewService(ts.DB,
		policy.NewService(ts.DB, anonymousCanSearch),
		hydrate.New(ts.DB))
}

func run(t *testing.T, svc *search.Service, req search.Request) []*hydrate.NotePayload {
	t.Helper()
	results, err := svc.Search(context.Background(), req)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	return results
}

func resultIDs(results []*hydrate.NotePayload) map[string]bool {
	ids := make(map[string]bool, len(results))
	for _, r := range results {
		ids[r.ID] = true
	}
	return ids
}

func mustTime(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		t.Fatalf("bad time literal %q: %v", value, err)
	}
	return parsed
}

func TestSearchFreeText(t *testing.T) {
	ts := testutil.NewStore(t)
	alice := ts.AddUser("alice")

	hit := ts.AddNote(alice, "deploy checklist for friday")
	ts.AddNote(alice, "lunch plans")

	results := run(t, newService(ts, true), search.Request{Query: "deploy checklist"})
	if len(results) != 1 || results[0].ID != hit.ID {
		t.Fatalf("results = %v", resultIDs(results))
	}
}

func TestSearchFreeTextCaseInsensitive(t *testing.T) {
	ts := testutil.NewStore(t)
	alice := ts.AddUser("alice")
	hit := ts.AddNote(alice, "Deploy CHECKLIST")

	results := run(t, newService(ts, true), search.Request{Query: "dEpLoY check"})
	if len(results) != 1 || results[0].ID != hit.ID {
		t.Fatalf("results = %v", resultIDs(results))
	}
}

func TestSearchLikeWildcardsMatchLiterally(t *testing.T) {
	ts := testutil.NewStore(t)
	alice := ts.AddUser("alice")

	hit := ts.AddNote(alice, "sale: 50%_off this weekend")
	ts.AddNote(alice, "sale: 50 percent off this weekend")
	ts.AddNote(alice, "sale: 50xyoff this weekend")

	results := run(t, newService(ts, true), search.Request{Query: "50%_off"})
	if len(results) != 1 || results[0].ID != hit.ID {
		t.Fatalf("wildcards were not escaped: %v", resultIDs(results))
	}
}

func TestSearchFromDirective(t *testing.T) {
	ts := testutil.NewStore(t)
	alice := ts.AddUser("alice")
	bob := ts.AddUser("bob")

	hit := ts.AddNote(alice, "standup notes")
	ts.AddNote(bob, "standup notes")

	results := run(t, newService(ts, true), search.Request{Query: "from:alice standup"})
	if len(results) != 1 || results[0].ID != hit.ID {
		t.Fatalf("results = %v", resultIDs(results))
	}
}

func TestSearchFromIsCaseNormalized(t *testing.T) {
	ts := testutil.NewStore(t)
	alice := ts.AddUser("Alice")
	hit := ts.AddNote(alice, "hello")

	results := run(t, newService(ts, true), search.Request{Query: "from:ALICE hello"})
	if len(results) != 1 || results[0].ID != hit.ID {
		t.Fatalf("results = %v", resultIDs(results))
	}
}

func TestSearchUnresolvableFromProceeds(t *testing.T) {
	ts := testutil.NewStore(t)
	alice := ts.AddUser("alice")
	ts.AddNote(alice, "still findable")

	results := run(t, newService(ts, true), search.Request{Query: "from:doesnotexist findable"})
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
}

func TestSearchUserIDAndFromAreConjunctive(t *testing.T) {
	ts := testutil.NewStore(t)
	alice := ts.AddUser("alice")
	bob := ts.AddUser("bob")

	ts.AddNote(alice, "report")
	ts.AddNote(bob, "report")

	// from:alice AND userId=bob can match nothing.
	results := run(t, newService(ts, true), search.Request{
		Query:  "from:alice report",
		UserID: &bob.ID,
	})
	if len(results) != 0 {
		t.Fatalf("expected empty result, got %v", resultIDs(results))
	}

	// from:alice AND userId=alice matches alice's note.
	results = run(t, newService(ts, true), search.Request{
		Query:  "from:alice report",
		UserID: &alice.ID,
	})
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
}

func TestSearchChannelOnlyWithoutUserID(t *testing.T) {
	ts := testutil.NewStore(t)
	alice := ts.AddUser("alice")

	hit := ts.AddNote(alice, "channel post", testutil.WithChannel("ch1"))
	ts.AddNote(alice, "channel post", testutil.WithChannel("ch2"))
	ts.AddNote(alice, "channel post")

	channel := "ch1"
	results := run(t, newService(ts, true), search.Request{Query: "channel post", ChannelID: &channel})
	if len(results) != 1 || results[0].ID != hit.ID {
		t.Fatalf("results = %v", resultIDs(results))
	}
}

func TestSearchDateRangeInclusive(t *testing.T) {
	ts := testutil.NewStore(t)
	alice := ts.AddUser("alice")

	before := ts.AddNote(alice, "entry", testutil.WithCreatedAt(mustTime(t, "2023-12-31T23:59:59.999Z")))
	first := ts.AddNote(alice, "entry", testutil.WithCreatedAt(mustTime(t, "2024-01-01T00:00:00Z")))
	last := ts.AddNote(alice, "entry", testutil.WithCreatedAt(mustTime(t, "2024-01-01T23:59:59.999Z")))
	after := ts.AddNote(alice, "entry", testutil.WithCreatedAt(mustTime(t, "2024-01-02T00:00:00Z")))

	results := run(t, newService(ts, true), search.Request{Query: "start:2024-01-01 end:2024-01-01 entry"})
	got := resultIDs(results)

	if !got[first.ID] || !got[last.ID] {
		t.Errorf("boundary notes should match: %v", got)
	}
	if got[before.ID] || got[after.ID] {
		t.Errorf("out-of-range notes matched: %v", got)
	}
}

func TestSearchReactionsThreshold(t *testing.T) {
	ts := testutil.NewStore(t)
	alice := ts.AddUser("alice")

	hot := ts.AddNote(alice, "post", testutil.WithScore(7))
	ts.AddNote(alice, "post", testutil.WithScore(2))

	results := run(t, newService(ts, true), search.Request{Query: "reactions:5 post"})
	if len(results) != 1 || results[0].ID != hot.ID {
		t.Fatalf("results = %v", resultIDs(results))
	}
}

func TestSearchReactionsZeroAppliesNoFilter(t *testing.T) {
	ts := testutil.NewStore(t)
	alice := ts.AddUser("alice")

	ts.AddNote(alice, "post", testutil.WithScore(0))
	ts.AddNote(alice, "post", testutil.WithScore(9))

	// Pins the zero-threshold quirk: reactions:0 behaves like no
	// reactions directive at all.
	results := run(t, newService(ts, true), search.Request{Query: "reactions:0 post"})
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
}

func TestSearchReactionsMalformedAppliesNoFilter(t *testing.T) {
	ts := testutil.NewStore(t)
	alice := ts.AddUser("alice")

	ts.AddNote(alice, "post", testutil.WithScore(0))
	ts.AddNote(alice, "post", testutil.WithScore(9))

	results := run(t, newService(ts, true), search.Request{Query: "reactions:abc post"})
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
}

func TestSearchPolicyDenied(t *testing.T) {
	ts := testutil.NewStore(t)
	alice := ts.AddUser("alice")
	ts.AddNote(alice, "hidden")

	// Anonymous caller, anonymous search disabled.
	svc := newService(ts, false)
	_, err := svc.Search(context.Background(), search.Request{Query: "hidden"})
	if !errors.Is(err, search.ErrSearchUnavailable) {
		t.Fatalf("err = %v, want ErrSearchUnavailable", err)
	}
}

func TestSearchPolicyDeniedForRestrictedUser(t *testing.T) {
	ts := testutil.NewStore(t)
	alice := ts.AddUser("alice")
	restricted := ts.AddUser("restricted")
	ts.AddNote(alice, "hidden")

	if err := ts.DB.SetCanSearch(context.Background(), restricted.ID, false); err != nil {
		t.Fatal(err)
	}

	svc := newService(ts, true)
	_, err := svc.Search(context.Background(), search.Request{Query: "hidden", CallerID: &restricted.ID})
	if !errors.Is(err, search.ErrSearchUnavailable) {
		t.Fatalf("err = %v, want ErrSearchUnavailable", err)
	}
}

func TestSearchEmptyResultIsNotAnError(t *testing.T) {
	ts := testutil.NewStore(t)
	ts.AddUser("alice")

	results := run(t, newService(ts, true), search.Request{Query: "nothing matches this"})
	if len(results) != 0 {
		t.Fatalf("expected no results, got %d", len(results))
	}
}

func TestSearchLimitClamp(t *testing.T) {
	ts := testutil.NewStore(t)
	alice := ts.AddUser("alice")
	for i := 0; i < 15; i++ {
		ts.AddNote(alice, "bulk")
	}

	// Zero limit means the default of 10.
	results := run(t, newService(ts, true), search.Request{Query: "bulk"})
	if len(results) != 10 {
		t.Errorf("default limit: got %d results", len(results))
	}

	results = run(t, newService(ts, true), search.Request{Query: "bulk", Limit: 3})
	if len(results) != 3 {
		t.Errorf("explicit limit: got %d results", len(results))
	}
}

func TestSearchPaginationCursors(t *testing.T) {
	ts := testutil.NewStore(t)
	alice := ts.AddUser("alice")

	n1 := ts.AddNote(alice, "page")
	n2 := ts.AddNote(alice, "page")
	n3 := ts.AddNote(alice, "page")

	// Default order is newest first.
	results := run(t, newService(ts, true), search.Request{Query: "page"})
	if len(results) != 3 || results[0].ID != n3.ID || results[2].ID != n1.ID {
		t.Fatalf("unexpected order: %v", []string{results[0].ID, results[1].ID, results[2].ID})
	}

	// until walks backwards.
	results = run(t, newService(ts, true), search.Request{Query: "page", UntilID: n3.ID})
	if len(results) != 2 || results[0].ID != n2.ID {
		t.Fatalf("until: %v", resultIDs(results))
	}

	// since alone walks forward in ascending order.
	results = run(t, newService(ts, true), search.Request{Query: "page", SinceID: n1.ID})
	if len(results) != 2 || results[0].ID != n2.ID || results[1].ID != n3.ID {
		t.Fatalf("since: %v", resultIDs(results))
	}
}

func TestSearchHomeScope(t *testing.T) {
	ts := testutil.NewStore(t)
	bob := ts.AddUser("bob")
	carol := ts.AddUser("carol")
	dave := ts.AddUser("dave")
	ts.Follow(carol, bob)

	own := ts.AddNote(bob, "note")
	mention := ts.AddNote(dave, "note", testutil.WithMentions(bob))
	fromFollower := ts.AddNote(carol, "note", testutil.WithVisibility(model.VisibilityHome))
	replyToBob := ts.AddNote(dave, "note", testutil.WithReplyTo(own))
	stranger := ts.AddNote(dave, "note")
	followersOnly := ts.AddNote(carol, "note", testutil.WithVisibility(model.VisibilityFollowers))

	results := run(t, newService(ts, true), search.Request{Query: "home:bob note", CallerID: &bob.ID})
	got := resultIDs(results)

	for _, want := range []model.Note{own, mention, fromFollower, replyToBob} {
		if !got[want.ID] {
			t.Errorf("note %s should be in bob's home scope", want.ID)
		}
	}
	if got[stranger.ID] {
		t.Errorf("unrelated note leaked into home scope")
	}
	// Followers-only visibility stays outside the home scope even when
	// the author follows the target.
	if got[followersOnly.ID] {
		t.Errorf("followers-only note leaked into home scope")
	}
}

func TestSearchVisibilityAnonymous(t *testing.T) {
	ts := testutil.NewStore(t)
	alice := ts.AddUser("alice")

	public := ts.AddNote(alice, "note")
	home := ts.AddNote(alice, "note", testutil.WithVisibility(model.VisibilityHome))
	ts.AddNote(alice, "note", testutil.WithVisibility(model.VisibilityFollowers))
	ts.AddNote(alice, "note", testutil.WithVisibility(model.VisibilitySpecified))

	results := run(t, newService(ts, true), search.Request{Query: "note"})
	got := resultIDs(results)
	if len(got) != 2 || !got[public.ID] || !got[home.ID] {
		t.Fatalf("anonymous visibility: %v", got)
	}
}

func TestSearchVisibilityForCaller(t *testing.T) {
	ts := testutil.NewStore(t)
	alice := ts.AddUser("alice")
	bob := ts.AddUser("bob")
	carol := ts.AddUser("carol")
	ts.Follow(bob, alice)

	ownFollowers := ts.AddNote(bob, "note", testutil.WithVisibility(model.VisibilityFollowers))
	followedFollowers := ts.AddNote(alice, "note", testutil.WithVisibility(model.VisibilityFollowers))
	notFollowed := ts.AddNote(carol, "note", testutil.WithVisibility(model.VisibilityFollowers))
	dmToBob := ts.AddNote(carol, "note", testutil.WithVisibility(model.VisibilitySpecified), testutil.WithMentions(bob))
	dmToOther := ts.AddNote(carol, "note", testutil.WithVisibility(model.VisibilitySpecified), testutil.WithMentions(alice))

	results := run(t, newService(ts, true), search.Request{Query: "note", CallerID: &bob.ID})
	got := resultIDs(results)

	for _, want := range []model.Note{ownFollowers, followedFollowers, dmToBob} {
		if !got[want.ID] {
			t.Errorf("note %s should be visible to bob", want.ID)
		}
	}
	if got[notFollowed.ID] {
		t.Errorf("followers-only note from a non-followed author is visible")
	}
	if got[dmToOther.ID] {
		t.Errorf("specified note addressed elsewhere is visible")
	}
}

func TestSearchMutesAndBlocks(t *testing.T) {
	ts := testutil.NewStore(t)
	alice := ts.AddUser("alice")
	muted := ts.AddUser("muted")
	blocker := ts.AddUser("blocker")
	ts.Mute(alice, muted)
	ts.Block(blocker, alice)

	kept := ts.AddNote(ts.AddUser("other"), "note")
	ts.AddNote(muted, "note")
	ts.AddNote(blocker, "note")

	results := run(t, newService(ts, true), search.Request{Query: "note", CallerID: &alice.ID})
	if len(results) != 1 || results[0].ID != kept.ID {
		t.Fatalf("results = %v", resultIDs(results))
	}

	// Anonymous callers are not subject to either exclusion.
	results = run(t, newService(ts, true), search.Request{Query: "note"})
	if len(results) != 3 {
		t.Fatalf("anonymous should see all three, got %d", len(results))
	}
}
