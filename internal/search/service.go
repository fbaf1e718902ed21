package search

import (
	"context"
	"errors"
	"fmt"

	"github.com/corvidae/magpie/internal/hydrate"
	"github.com/corvidae/magpie/internal/model"
	"github.com/corvidae/magpie/internal/policy"
	"github.com/corvidae/magpie/internal/predicate"
	"github.com/corvidae/magpie/internal/scope"
	"github.com/corvidae/magpie/internal/store"
)

// ErrSearchUnavailable is returned when the caller's policy forbids
// search. It is raised before any query construction.
var ErrSearchUnavailable = errors.New("search is unavailable")

// Limit bounds for a single search request.
const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// Request is a single search invocation.
type Request struct {
	// Query is the raw search string, possibly containing directives.
	Query string

	// SinceID/UntilID window results by opaque ordered note ID.
	SinceID string
	UntilID string

	// Limit is clamped to [1, MaxLimit]; zero or negative means
	// DefaultLimit.
	Limit int

	// Offset is accepted for interface compatibility and unused by
	// the filtering and pagination logic.
	Offset int

	// Host is accepted and unused; this store has no remote-host
	// partitioning.
	Host *string

	// UserID restricts results to one author. Applies alongside a
	// from: directive, not instead of it.
	UserID *string

	// ChannelID restricts results to one channel. Only consulted
	// when UserID is absent.
	ChannelID *string

	// CallerID identifies the authenticated caller, nil for
	// anonymous.
	CallerID *string
}

// Service compiles and executes note searches.
type Service struct {
	db       *store.Database
	policy   *policy.Service
	hydrator *hydrate.Hydrator
}

// NewService creates a search service.
func NewService(db *store.Database, pol *policy.Service, hydrator *hydrate.Hydrator) *Service {
	return &Service{db: db, policy: pol, hydrator: hydrator}
}

// Search runs one request end to end: policy gate, tokenize, resolve,
// predicate assembly, scope filters, execution, hydration.
func (s *Service) Search(ctx context.Context, req Request) ([]*hydrate.NotePayload, error) {
	pol, err := s.policy.SearchPolicy(ctx, req.CallerID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve search policy: %w", err)
	}
	if !pol.CanSearch {
		return nil, ErrSearchUnavailable
	}

	var caller *model.User
	if req.CallerID != nil {
		caller, err = s.db.FindUserByID(ctx, *req.CallerID)
		if err != nil {
			return nil, fmt.Errorf("failed to load caller: %w", err)
		}
	}

	parsed := Tokenize(req.Query)

	where, err := s.buildWhere(ctx, parsed, req, caller)
	if err != nil {
		return nil, err
	}

	notes, err := s.db.QueryNotes(ctx, store.NoteQuery{
		Where:   where,
		SinceID: req.SinceID,
		UntilID: req.UntilID,
		Limit:   clampLimit(req.Limit),
	})
	if err != nil {
		return nil, err
	}

	return s.hydrator.PackMany(ctx, notes, caller)
}

// buildWhere translates the parsed query into one predicate tree,
// AND-ed at the top level in a fixed order: author, date-from,
// date-to, minimum score, home scope, explicit author/channel
// override, free text, then the external scope filters.
func (s *Service) buildWhere(ctx context.Context, parsed Parsed, req Request, caller *model.User) (predicate.Node, error) {
	var parts []predicate.Node

	author, err := s.resolveUser(ctx, parsed.Author)
	if err != nil {
		return nil, err
	}
	if author != nil {
		parts = append(parts, AuthoredBy(author.ID))
	}

	if parsed.Since != nil {
		parts = append(parts, CreatedOnOrAfter(*parsed.Since))
	}
	if parsed.Until != nil {
		parts = append(parts, CreatedOnOrBefore(*parsed.Until))
	}

	// A parsed zero is indistinguishable from "absent" upstream, so
	// zero-threshold filtering stays unreachable on purpose.
	if parsed.MinScore != nil && *parsed.MinScore != 0 {
		parts = append(parts, MinScore(*parsed.MinScore))
	}

	homeTarget, err := s.resolveUser(ctx, parsed.HomeTarget)
	if err != nil {
		return nil, err
	}
	if homeTarget != nil {
		parts = append(parts, HomeScope(homeTarget))
	}

	if req.UserID != nil {
		parts = append(parts, AuthoredBy(*req.UserID))
	} else if req.ChannelID != nil {
		parts = append(parts, InChannel(*req.ChannelID))
	}

	if parsed.FreeText != "" {
		parts = append(parts, TextContains(parsed.FreeText))
	}

	parts = append(parts, scope.Visibility(req.CallerID))
	if caller != nil {
		parts = append(parts, scope.MuteExclusion(caller.ID))
		parts = append(parts, scope.BlockExclusion(caller.ID))
	}

	return predicate.And(parts...), nil
}

// resolveUser looks up a directive's username. Empty names and
// unknown names both resolve to nil: the filter is silently dropped.
func (s *Service) resolveUser(ctx context.Context, name string) (*model.User, error) {
	if name == "" {
		return nil, nil
	}
	user, err := s.db.FindUserByUsername(ctx, name)
	if errors.Is(err, store.ErrUserNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}
