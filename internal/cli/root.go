// Package cli implements the command-line interface.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/corvidae/magpie/internal/config"
	"github.com/corvidae/magpie/internal/ui"
)

var (
	// Global flags
	configPath  string
	dataDirFlag string
	jsonOutput  bool

	// Resolved values
	resolvedDataDir string
	cfg             *config.Config
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "mag",
	Short: "Magpie - a local microblog archive with searchable notes",
	Long: `Magpie stores notes - short posts with authors, visibility, mentions,
replies and reactions - in a local SQLite database and makes them
searchable with a small query language:

  mag search "release notes from:alice start:2024-01-01 reactions:5"

Directives: from:<user>, home:<user>, start:<date>, end:<date>,
reactions:<min>. Everything else is matched as free text.

Named for the bird that hoards whatever catches its eye.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		switch cmd.Name() {
		case "completion", "help", "version":
			return nil
		}
		if cmd.Parent() != nil && cmd.Parent().Name() == "completion" {
			return nil
		}

		var err error
		if configPath != "" {
			cfg, err = config.LoadFrom(configPath)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		ui.ConfigureTheme(cfg.UI.Accent)
		ui.ConfigureMarkdownCodeTheme(cfg.UI.CodeTheme)

		if dataDirFlag != "" {
			resolvedDataDir = dataDirFlag
		} else {
			resolvedDataDir, err = cfg.ResolveDataDir()
			if err != nil {
				return err
			}
		}
		return nil
	},
	SilenceUsage:  true,
	SilenceErrors: false,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file")
	rootCmd.PersistentFlags().StringVar(&dataDirFlag, "data-dir", "", "Path to the data directory")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
}
