package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/corvidae/magpie/internal/model"
	"github.com/corvidae/magpie/internal/store"
)

// openDatabase opens the store at the resolved data dir.
func openDatabase() (*store.Database, error) {
	db, err := store.Open(resolvedDataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

// lookupUser resolves a username argument to a user, with a friendly
// error when it does not exist.
func lookupUser(ctx context.Context, db *store.Database, username string) (*model.User, error) {
	user, err := db.FindUserByUsername(ctx, username)
	if errors.Is(err, store.ErrUserNotFound) {
		return nil, fmt.Errorf("user '%s' not found\n\nRun 'mag user add %s' to create them", username, username)
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}
