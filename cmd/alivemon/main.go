// Command alivemon watches web pages and mails operators when one stops
// answering with 200.
//
// Usage:
//
//	alivemon run                  # monitor until interrupted
//	alivemon check                # run a single cycle and exit
//	alivemon validate             # check settings and the site document
//	alivemon version
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const appName = "alivemon"

// Set at build time via -ldflags "-X main.version=...".
var version = "1.2.0"

var settingsFile string

var rootCmd = &cobra.Command{
	Use:   appName,
	Short: "Web page liveness monitor with mail alerts",
	Long: `alivemon probes every URL listed in the site document on a fixed,
clock-aligned interval and mails each configured recipient when a page
still fails after its retries.

Settings come from alivemon.yaml (./config or .) and ALIVEMON_* environment
variables. The site document (alive_mon.json by default) is re-read on every
cycle, so edits take effect without a restart.`,
	SilenceUsage: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", appName, version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&settingsFile, "settings", "s", "", "path to settings file (default: alivemon.yaml in ./config or .)")
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
