package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/corvidae/magpie/internal/ids"
	"github.com/corvidae/magpie/internal/mention"
	"github.com/corvidae/magpie/internal/model"
	"github.com/corvidae/magpie/internal/store"
	"github.com/corvidae/magpie/internal/ui"
)

var noteCmd = &cobra.Command{
	Use:   "note",
	Short: "Manage notes",
}

var (
	noteAuthor     string
	noteVisibility string
	noteChannel    string
	noteReplyTo    string
)

var noteAddCmd = &cobra.Command{
	Use:   "add <text>",
	Short: "Post a note",
	Long: `Post a note as a user. Mentions (@handle) are extracted from the
text and recorded when they resolve to existing users.

Examples:
  mag note add --as alice "shipping the new parser today"
  mag note add --as bob --visibility followers "thanks @alice!"
  mag note add --as bob --reply-to 0abc12de34xx "agreed"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDatabase()
		if err != nil {
			return handleError(ErrDatabaseError, err, "")
		}
		defer db.Close()

		ctx := cmd.Context()
		author, err := lookupUser(ctx, db, noteAuthor)
		if err != nil {
			return handleError(ErrUserNotFound, err, "")
		}

		visibility := model.Visibility(noteVisibility)
		if !visibility.Valid() {
			return handleErrorMsg(ErrNoteInvalid,
				fmt.Sprintf("invalid visibility %q (public, home, followers, specified)", noteVisibility), "")
		}

		now := time.Now().UTC()
		note := model.Note{
			ID:         ids.New(now),
			UserID:     author.ID,
			Text:       args[0],
			Visibility: visibility,
			CreatedAt:  now,
		}
		if noteChannel != "" {
			note.ChannelID = &noteChannel
		}

		if noteReplyTo != "" {
			target, err := findNoteAuthor(cmd, db, noteReplyTo)
			if err != nil {
				return handleError(ErrNoteNotFound, err, "")
			}
			note.ReplyID = &noteReplyTo
			note.ReplyUserID = &target
		}

		for _, handle := range mention.Extract(note.Text) {
			user, err := db.FindUserByUsername(ctx, handle)
			if errors.Is(err, store.ErrUserNotFound) {
				continue
			}
			if err != nil {
				return handleError(ErrDatabaseError, err, "")
			}
			note.MentionIDs = append(note.MentionIDs, user.ID)
		}

		if err := db.InsertNote(ctx, note); err != nil {
			return handleError(ErrDatabaseError, err, "")
		}

		if jsonOutput {
			outputSuccess(note, nil)
			return nil
		}
		fmt.Println(ui.Successf("Posted note %s as %s", note.ID, ui.Handle(author.Username)))
		return nil
	},
}

var reactDelta int

var noteReactCmd = &cobra.Command{
	Use:   "react <note-id>",
	Short: "Add reactions to a note",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDatabase()
		if err != nil {
			return handleError(ErrDatabaseError, err, "")
		}
		defer db.Close()

		if err := db.AddReaction(cmd.Context(), args[0], reactDelta); err != nil {
			return handleError(ErrNoteNotFound, err, "")
		}

		if jsonOutput {
			outputSuccess(map[string]interface{}{"note_id": args[0], "delta": reactDelta}, nil)
			return nil
		}
		fmt.Println(ui.Successf("Updated score of %s by %+d", args[0], reactDelta))
		return nil
	},
}

// findNoteAuthor returns the author ID of a note.
func findNoteAuthor(cmd *cobra.Command, db *store.Database, noteID string) (string, error) {
	var userID string
	row := db.DB().QueryRowContext(cmd.Context(), `SELECT user_id FROM notes WHERE id = ?`, noteID)
	if err := row.Scan(&userID); err != nil {
		return "", fmt.Errorf("note %q not found", noteID)
	}
	return userID, nil
}

func init() {
	noteAddCmd.Flags().StringVar(&noteAuthor, "as", "", "Author username (required)")
	noteAddCmd.Flags().StringVar(&noteVisibility, "visibility", "public", "Visibility: public, home, followers, specified")
	noteAddCmd.Flags().StringVar(&noteChannel, "channel", "", "Channel ID")
	noteAddCmd.Flags().StringVar(&noteReplyTo, "reply-to", "", "ID of the note being replied to")
	_ = noteAddCmd.MarkFlagRequired("as")

	noteReactCmd.Flags().IntVar(&reactDelta, "count", 1, "Number of reactions to add")

	noteCmd.AddCommand(noteAddCmd)
	noteCmd.AddCommand(noteReactCmd)
	rootCmd.AddCommand(noteCmd)
}
