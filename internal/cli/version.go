package cli

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/corvidae/magpie/internal/buildinfo"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		version := buildinfo.Version
		if version == "" {
			if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
				version = info.Main.Version
			} else {
				version = "dev"
			}
		}

		if jsonOutput {
			outputSuccess(map[string]interface{}{
				"version": version,
				"commit":  buildinfo.Commit,
				"date":    buildinfo.Date,
			}, nil)
			return
		}

		fmt.Printf("mag %s", version)
		if buildinfo.Commit != "" {
			fmt.Printf(" (%s)", buildinfo.Commit)
		}
		fmt.Println()
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
