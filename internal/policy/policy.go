// Package policy answers capability questions about callers.
package policy

import (
	"context"

	"github.com/corvidae/magpie/internal/store"
)

// Policy holds the capabilities granted to a caller.
type Policy struct {
	CanSearch bool
}

// Service looks up policies from user records, with a configurable
// default for anonymous callers.
type Service struct {
	db                 *store.Database
	anonymousCanSearch bool
}

// NewService creates a policy service.
func NewService(db *store.Database, anonymousCanSearch bool) *Service {
	return &Service{db: db, anonymousCanSearch: anonymousCanSearch}
}

// SearchPolicy returns the search policy for the given caller, or the
// anonymous default when callerID is nil.
func (s *Service) SearchPolicy(ctx context.Context, callerID *string) (Policy, error) {
	if callerID == nil {
		return Policy{CanSearch: s.anonymousCanSearch}, nil
	}

	user, err := s.db.FindUserByID(ctx, *callerID)
	if err != nil {
		return Policy{}, err
	}
	return Policy{CanSearch: user.CanSearch}, nil
}
