package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/corvidae/magpie/internal/model"
	"github.com/corvidae/magpie/internal/predicate"
	"github.com/corvidae/magpie/internal/sqlutil"
)

// NoteQuery is a compiled note query: an optional predicate tree plus
// ID-cursor pagination bounds and a row limit.
type NoteQuery struct {
	// Where is the compiled filter condition over alias "n". Nil
	// means no filtering beyond pagination.
	Where predicate.Node

	// SinceID/UntilID are exclusive ID-cursor bounds. Empty means
	// unbounded on that side.
	SinceID string
	UntilID string

	// Limit caps the number of returned rows. Must be positive.
	Limit int
}

// InsertNote stores a note and its mention rows in one transaction.
func (d *Database) InsertNote(ctx context.Context, n model.Note) error {
	if !n.Visibility.Valid() {
		return fmt.Errorf("invalid visibility %q", n.Visibility)
	}

	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO notes (id, user_id, text, visibility, score, channel_id,
			reply_id, reply_user_id, renote_id, renote_user_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, n.ID, n.UserID, n.Text, string(n.Visibility), n.Score, n.ChannelID,
		n.ReplyID, n.ReplyUserID, n.RenoteID, n.RenoteUserID, n.CreatedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to insert note: %w", err)
	}

	for _, userID := range n.MentionIDs {
		_, err = tx.ExecContext(ctx, `
			INSERT OR IGNORE INTO note_mentions (note_id, user_id) VALUES (?, ?)
		`, n.ID, userID)
		if err != nil {
			return fmt.Errorf("failed to insert mention: %w", err)
		}
	}

	return tx.Commit()
}

// AddReaction increments a note's reaction score.
func (d *Database) AddReaction(ctx context.Context, noteID string, delta int) error {
	res, err := d.db.ExecContext(ctx,
		`UPDATE notes SET score = MAX(0, score + ?) WHERE id = ?`, delta, noteID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNoteNotFound
	}
	return nil
}

// QueryNotes executes a compiled note query.
//
// Ordering follows the cursor direction: ascending by ID when only
// SinceID is set (walking forward from a cursor), descending
// otherwise (newest first).
func (d *Database) QueryNotes(ctx context.Context, q NoteQuery) ([]model.Note, error) {
	conditions := []string{"1 = 1"}
	var args []any

	if q.SinceID != "" {
		conditions = append(conditions, "n.id > ?")
		args = append(args, q.SinceID)
	}
	if q.UntilID != "" {
		conditions = append(conditions, "n.id < ?")
		args = append(args, q.UntilID)
	}

	if cond, condArgs := predicate.SQL(q.Where); cond != "" {
		conditions = append(conditions, cond)
		args = append(args, condArgs...)
	}

	order := "DESC"
	if q.SinceID != "" && q.UntilID == "" {
		order = "ASC"
	}

	limit := q.Limit
	if limit <= 0 {
		return nil, fmt.Errorf("invalid limit %d", limit)
	}
	args = append(args, limit)

	query := fmt.Sprintf(`
		SELECT n.id, n.user_id, n.text, n.visibility, n.score, n.channel_id,
			n.reply_id, n.reply_user_id, n.renote_id, n.renote_user_id, n.created_at
		FROM notes n
		WHERE %s
		ORDER BY n.id %s
		LIMIT ?
	`, strings.Join(conditions, " AND "), order)

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("note query failed: %w", err)
	}

	notes, err := sqlutil.ScanRows(rows, scanNote)
	if err != nil {
		return nil, err
	}

	if err := d.attachMentions(ctx, notes); err != nil {
		return nil, err
	}
	return notes, nil
}

// attachMentions loads mention rows for the given notes in one query.
func (d *Database) attachMentions(ctx context.Context, notes []model.Note) error {
	if len(notes) == 0 {
		return nil
	}

	noteIDs := make([]string, len(notes))
	index := make(map[string]int, len(notes))
	for i, n := range notes {
		noteIDs[i] = n.ID
		index[n.ID] = i
	}

	placeholders, args := sqlutil.InClauseArgs(noteIDs)
	rows, err := d.db.QueryContext(ctx, `
		SELECT note_id, user_id FROM note_mentions WHERE note_id IN (`+placeholders+`)
	`, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var noteID, userID string
		if err := rows.Scan(&noteID, &userID); err != nil {
			return err
		}
		if i, ok := index[noteID]; ok {
			notes[i].MentionIDs = append(notes[i].MentionIDs, userID)
		}
	}
	return rows.Err()
}

func scanNote(rows *sql.Rows) (model.Note, error) {
	var n model.Note
	var visibility string
	var createdAt int64
	err := rows.Scan(&n.ID, &n.UserID, &n.Text, &visibility, &n.Score, &n.ChannelID,
		&n.ReplyID, &n.ReplyUserID, &n.RenoteID, &n.RenoteUserID, &createdAt)
	if err != nil {
		return model.Note{}, err
	}
	n.Visibility = model.Visibility(visibility)
	n.CreatedAt = millisToTime(createdAt)
	return n, nil
}

func millisToTime(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}
