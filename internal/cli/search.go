package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/corvidae/magpie/internal/hydrate"
	"github.com/corvidae/magpie/internal/policy"
	"github.com/corvidae/magpie/internal/search"
	"github.com/corvidae/magpie/internal/ui"
)

var (
	searchLimit   int
	searchSinceID string
	searchUntilID string
	searchCaller  string
	searchUser    string
	searchChannel string
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search notes",
	Long: `Search notes with free text and directives.

Directives (whole tokens, combinable):
  from:<user>       only notes by that user
  home:<user>       notes a home timeline of that user would show
  start:<date>      notes on or after the date (YYYY-MM-DD)
  end:<date>        notes on or before the date
  reactions:<min>   notes with at least that many reactions

Anything else is matched as literal free text, case-insensitively.

Examples:
  mag search "deploy checklist"
  mag search "from:alice start:2024-01-01 end:2024-03-31 retro"
  mag search --as bob "home:alice reactions:5"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDatabase()
		if err != nil {
			return handleError(ErrDatabaseError, err, "")
		}
		defer db.Close()

		ctx := cmd.Context()
		req := search.Request{
			Query:   strings.Join(args, " "),
			SinceID: searchSinceID,
			UntilID: searchUntilID,
			Limit:   searchLimit,
		}

		if searchCaller != "" {
			caller, err := lookupUser(ctx, db, searchCaller)
			if err != nil {
				return handleError(ErrUserNotFound, err, "")
			}
			req.CallerID = &caller.ID
		}
		if searchUser != "" {
			author, err := lookupUser(ctx, db, searchUser)
			if err != nil {
				return handleError(ErrUserNotFound, err, "")
			}
			req.UserID = &author.ID
		}
		if searchChannel != "" {
			req.ChannelID = &searchChannel
		}

		svc := search.NewService(db, policy.NewService(db, cfg.AnonymousCanSearch()), hydrate.New(db))

		started := time.Now()
		results, err := svc.Search(ctx, req)
		if errors.Is(err, search.ErrSearchUnavailable) {
			return handleError(ErrSearchUnavailable, err, "Search is disabled for this caller by policy")
		}
		if err != nil {
			return handleError(ErrDatabaseError, err, "")
		}

		if jsonOutput {
			outputSuccess(map[string]interface{}{
				"query":   req.Query,
				"results": results,
			}, &Meta{Count: len(results), QueryTimeMs: time.Since(started).Milliseconds()})
			return nil
		}

		if len(results) == 0 {
			fmt.Printf("No results found for: %s\n", req.Query)
			return nil
		}

		fmt.Printf("Found %d results for: %s\n\n", len(results), req.Query)
		display := ui.NewDisplayContext()
		fmt.Print(display.RenderNoteList(noteViews(results), display.IsTTY))
		return nil
	},
}

func noteViews(results []*hydrate.NotePayload) []ui.NoteView {
	views := make([]ui.NoteView, len(results))
	for i, r := range results {
		view := ui.NoteView{
			Index:      i + 1,
			CreatedAt:  r.CreatedAt,
			Visibility: r.Visibility,
			Score:      r.Score,
			Text:       r.Text,
		}
		if r.User != nil {
			view.Username = r.User.Username
			view.DisplayName = r.User.DisplayName
		}
		views[i] = view
	}
	return views
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 10, "Maximum number of results (1-100)")
	searchCmd.Flags().StringVar(&searchSinceID, "since", "", "Only notes with an ID after this cursor")
	searchCmd.Flags().StringVar(&searchUntilID, "until", "", "Only notes with an ID before this cursor")
	searchCmd.Flags().StringVar(&searchCaller, "as", "", "Search as this user (applies mutes, blocks and visibility)")
	searchCmd.Flags().StringVar(&searchUser, "user", "", "Restrict to notes by this user")
	searchCmd.Flags().StringVar(&searchChannel, "channel", "", "Restrict to notes in this channel")
	rootCmd.AddCommand(searchCmd)
}
