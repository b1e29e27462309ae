package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Run a single monitoring cycle and exit",
	Long: `Probe every URL once (with retries), send failure mails as usual and
exit. The exit code is 1 when the site document is unusable.`,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer func() { _ = a.logger.Sync() }()

	rep, err := a.cycle.Run(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "probed %d, failed %d\n", rep.Probed, rep.Failed)
	return nil
}
