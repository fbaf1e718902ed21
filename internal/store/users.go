package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/corvidae/magpie/internal/model"
	"github.com/corvidae/magpie/internal/sqlutil"
)

// CreateUser inserts a new user. The username must be unique under
// lower-case normalization.
func (d *Database) CreateUser(ctx context.Context, u model.User) error {
	_, err := d.db.ExecContext(ctx, `
		INSERT INTO users (id, username, username_lower, display_name, host, can_search, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, u.ID, u.Username, model.NormalizeUsername(u.Username), u.DisplayName, u.Host,
		boolToInt(u.CanSearch), u.CreatedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to create user %q: %w", u.Username, err)
	}
	return nil
}

// FindUserByID looks up a user by ID.
func (d *Database) FindUserByID(ctx context.Context, id string) (*model.User, error) {
	row := d.db.QueryRowContext(ctx, userSelect+` WHERE id = ?`, id)
	return scanUserRow(row)
}

// FindUserByUsername looks up a user by exact match on the lower-cased
// username. Returns ErrUserNotFound when no user matches.
func (d *Database) FindUserByUsername(ctx context.Context, name string) (*model.User, error) {
	row := d.db.QueryRowContext(ctx, userSelect+` WHERE username_lower = ?`, model.NormalizeUsername(name))
	return scanUserRow(row)
}

// FindUsersByIDs batch-loads users, keyed by ID. Missing IDs are
// simply absent from the result.
func (d *Database) FindUsersByIDs(ctx context.Context, ids []string) (map[string]*model.User, error) {
	placeholders, args := sqlutil.InClauseArgs(ids)
	rows, err := d.db.QueryContext(ctx, userSelect+` WHERE id IN (`+placeholders+`)`, args...)
	if err != nil {
		return nil, err
	}

	users, err := sqlutil.ScanRows(rows, func(r *sql.Rows) (*model.User, error) {
		return scanUser(r)
	})
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*model.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}
	return byID, nil
}

// SetCanSearch updates the search capability flag for a user.
func (d *Database) SetCanSearch(ctx context.Context, userID string, canSearch bool) error {
	res, err := d.db.ExecContext(ctx, `UPDATE users SET can_search = ? WHERE id = ?`,
		boolToInt(canSearch), userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrUserNotFound
	}
	return nil
}

// Follow records that follower follows followee. Idempotent.
func (d *Database) Follow(ctx context.Context, followerID, followeeID string) error {
	return d.insertEdge(ctx, "followings", "follower_id", "followee_id", followerID, followeeID)
}

// Mute records that muter mutes mutee. Idempotent.
func (d *Database) Mute(ctx context.Context, muterID, muteeID string) error {
	return d.insertEdge(ctx, "mutings", "muter_id", "mutee_id", muterID, muteeID)
}

// Block records that blocker blocks blockee. Idempotent.
func (d *Database) Block(ctx context.Context, blockerID, blockeeID string) error {
	return d.insertEdge(ctx, "blockings", "blocker_id", "blockee_id", blockerID, blockeeID)
}

func (d *Database) insertEdge(ctx context.Context, table, fromCol, toCol, fromID, toID string) error {
	query := fmt.Sprintf(`INSERT OR IGNORE INTO %s (%s, %s) VALUES (?, ?)`, table, fromCol, toCol)
	if _, err := d.db.ExecContext(ctx, query, fromID, toID); err != nil {
		return fmt.Errorf("failed to insert %s edge: %w", table, err)
	}
	return nil
}

const userSelect = `
	SELECT id, username, display_name, host, can_search, created_at
	FROM users`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(s rowScanner) (*model.User, error) {
	var u model.User
	var canSearch int
	var createdAt int64
	if err := s.Scan(&u.ID, &u.Username, &u.DisplayName, &u.Host, &canSearch, &createdAt); err != nil {
		return nil, err
	}
	u.CanSearch = canSearch != 0
	u.CreatedAt = millisToTime(createdAt)
	return &u, nil
}

func scanUserRow(row *sql.Row) (*model.User, error) {
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
