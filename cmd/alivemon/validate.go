package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hamed0406/alivemon/internal/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate settings and the site document",
	Long: `Load the process settings and the site document without probing
anything. Missing site-document fields are listed by name.

Exit codes:
  0 - both are valid
  1 - something is missing or malformed (details on stderr)`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(settingsFile)
	if err != nil {
		return err
	}
	sites, err := config.LoadSites(cfg.SitesFile)
	if err != nil {
		var mf *config.MissingFieldsError
		if errors.As(err, &mf) {
			for _, f := range mf.Fields {
				fmt.Fprintf(cmd.ErrOrStderr(), "missing: %s (%s)\n", f.Label, f.Key)
			}
		}
		return fmt.Errorf("invalid site document: %w", err)
	}

	heartbeat := cfg.HeartbeatCron
	if heartbeat == "" {
		heartbeat = "disabled"
	}
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Config is valid!")
	fmt.Fprintf(out, "  Sites file:   %s\n", cfg.SitesFile)
	fmt.Fprintf(out, "  URLs:         %d\n", len(sites.URLs))
	fmt.Fprintf(out, "  Recipients:   %d\n", len(sites.Recipients))
	fmt.Fprintf(out, "  Interval:     every %d min\n", cfg.CheckIntervalMinutes)
	fmt.Fprintf(out, "  Attempts:     %d (backoff %s, timeout %s)\n", cfg.MaxAttempts, cfg.RetryBackoff, cfg.RequestTimeout)
	fmt.Fprintf(out, "  Heartbeat:    %s\n", heartbeat)
	return nil
}
