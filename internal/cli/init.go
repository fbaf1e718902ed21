package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/corvidae/magpie/internal/config"
	"github.com/corvidae/magpie/internal/ui"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the data directory and database",
	Long: `Create the Magpie data directory and an empty database.

Writes a config file at the default location (or --config) when one
does not already exist.

Examples:
  mag init
  mag init --data-dir ~/magpie-data`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDatabase()
		if err != nil {
			return handleError(ErrDatabaseError, err, "")
		}
		defer db.Close()

		path := configPath
		if path == "" {
			path = config.DefaultPath()
		}
		if cfg.DataDir == "" && dataDirFlag != "" {
			cfg.DataDir = dataDirFlag
		}
		if err := config.Save(path, cfg); err != nil {
			return handleError(ErrConfigInvalid, err, "")
		}

		if jsonOutput {
			outputSuccess(map[string]interface{}{
				"data_dir": resolvedDataDir,
				"config":   path,
			}, nil)
			return nil
		}

		fmt.Println(ui.Successf("Initialized magpie data directory at %s", resolvedDataDir))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
