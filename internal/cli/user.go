package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/corvidae/magpie/internal/ids"
	"github.com/corvidae/magpie/internal/model"
	"github.com/corvidae/magpie/internal/store"
	"github.com/corvidae/magpie/internal/ui"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage users and the social graph",
}

var (
	userDisplayName string
	userHost        string
	userNoSearch    bool
)

var userAddCmd = &cobra.Command{
	Use:   "add <username>",
	Short: "Create a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDatabase()
		if err != nil {
			return handleError(ErrDatabaseError, err, "")
		}
		defer db.Close()

		now := time.Now().UTC()
		user := model.User{
			ID:          ids.New(now),
			Username:    args[0],
			DisplayName: userDisplayName,
			Host:        userHost,
			CanSearch:   !userNoSearch,
			CreatedAt:   now,
		}
		if err := db.CreateUser(cmd.Context(), user); err != nil {
			return handleError(ErrUserExists, err, "Usernames must be unique (case-insensitive)")
		}

		if jsonOutput {
			outputSuccess(user, nil)
			return nil
		}
		fmt.Println(ui.Successf("Created user %s (%s)", ui.Handle(user.Username), user.ID))
		return nil
	},
}

// edgeInsert is one of Database.Follow/Mute/Block.
type edgeInsert func(db *store.Database, ctx context.Context, fromID, toID string) error

// edgeCommand builds a follow/mute/block subcommand; all three take
// two usernames and insert one directed edge.
func edgeCommand(use, short, doneVerb string, insert edgeInsert) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDatabase()
			if err != nil {
				return handleError(ErrDatabaseError, err, "")
			}
			defer db.Close()

			from, err := lookupUser(cmd.Context(), db, args[0])
			if err != nil {
				return handleError(ErrUserNotFound, err, "")
			}
			to, err := lookupUser(cmd.Context(), db, args[1])
			if err != nil {
				return handleError(ErrUserNotFound, err, "")
			}

			if err := insert(db, cmd.Context(), from.ID, to.ID); err != nil {
				return handleError(ErrDatabaseError, err, "")
			}

			if jsonOutput {
				outputSuccess(map[string]interface{}{
					"from": from.Username,
					"to":   to.Username,
				}, nil)
				return nil
			}
			fmt.Println(ui.Successf("%s now %s %s", ui.Handle(from.Username), doneVerb, ui.Handle(to.Username)))
			return nil
		},
	}
}

func init() {
	userAddCmd.Flags().StringVar(&userDisplayName, "display-name", "", "Display name")
	userAddCmd.Flags().StringVar(&userHost, "host", "", "Remote host for federated accounts")
	userAddCmd.Flags().BoolVar(&userNoSearch, "no-search", false, "Deny the search capability to this user")

	userCmd.AddCommand(userAddCmd)
	userCmd.AddCommand(edgeCommand(
		"follow <follower> <followee>", "Record that one user follows another", "follows",
		func(db *store.Database, ctx context.Context, fromID, toID string) error {
			return db.Follow(ctx, fromID, toID)
		}))
	userCmd.AddCommand(edgeCommand(
		"mute <muter> <target>", "Hide a user's notes from someone's search results", "mutes",
		func(db *store.Database, ctx context.Context, fromID, toID string) error {
			return db.Mute(ctx, fromID, toID)
		}))
	userCmd.AddCommand(edgeCommand(
		"block <blocker> <target>", "Block a user; the blocker's notes disappear from their searches", "blocks",
		func(db *store.Database, ctx context.Context, fromID, toID string) error {
			return db.Block(ctx, fromID, toID)
		}))

	rootCmd.AddCommand(userCmd)
}
