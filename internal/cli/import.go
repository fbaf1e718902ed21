package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/corvidae/magpie/internal/seed"
	"github.com/corvidae/magpie/internal/ui"
)

var importCmd = &cobra.Command{
	Use:   "import <seed.yaml>",
	Short: "Load users, edges and notes from a YAML seed file",
	Long: `Load a YAML seed file into the database.

The file may contain users, follows, mutes, blocks and notes.
Mentions in note text are resolved against the user table; handles
that do not resolve are skipped. Notes may reference earlier notes by
key for replies and renotes.

Example seed file:

  users:
    - username: alice
    - username: bob
  follows:
    - {from: bob, to: alice}
  notes:
    - {key: first, author: alice, text: "hello @bob"}
    - {author: bob, text: "welcome!", reply_to: first}`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDatabase()
		if err != nil {
			return handleError(ErrDatabaseError, err, "")
		}
		defer db.Close()

		stats, err := seed.LoadFile(cmd.Context(), db, args[0])
		if err != nil {
			return handleError(ErrSeedInvalid, err, "")
		}

		if jsonOutput {
			outputSuccess(map[string]interface{}{
				"users":   stats.Users,
				"follows": stats.Follows,
				"mutes":   stats.Mutes,
				"blocks":  stats.Blocks,
				"notes":   stats.Notes,
			}, nil)
			return nil
		}

		fmt.Println(ui.Successf("Imported %d users, %d follows, %d mutes, %d blocks, %d notes",
			stats.Users, stats.Follows, stats.Mutes, stats.Blocks, stats.Notes))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
}
