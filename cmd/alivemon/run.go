package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hamed0406/alivemon/internal/httpapi"
	apimw "github.com/hamed0406/alivemon/internal/httpapi/middleware"
	"github.com/hamed0406/alivemon/internal/scheduler"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Monitor until interrupted",
	Long: `Run one monitoring cycle immediately, then one on every interval
boundary (for example :00, :10, :20 with a 10 minute interval). The
regular notice is mailed on the heartbeat cron schedule.`,
	RunE: runMonitor,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runMonitor(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer func() { _ = a.logger.Sync() }()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a.logger.Info("app_start", zap.String("version", version), zap.String("sites_file", a.cfg.SitesFile))

	sched := scheduler.New(a.logger.Named("scheduler"), a.cycle, scheduler.Options{
		Interval:        scheduler.Every(a.cfg.CheckIntervalMinutes),
		HeartbeatSpec:   a.cfg.HeartbeatCron,
		SkipOverlapping: a.cfg.SkipOverlappingCycles,
	})

	if a.cfg.Ops.Addr != "" {
		srv := &http.Server{
			Addr: a.cfg.Ops.Addr,
			Handler: httpapi.NewServer(a.logger.Named("ops"), a.health, sched).
				Router(apimw.Keys{Admin: a.cfg.Ops.AdminKeys}, a.cfg.Ops.RPM, a.cfg.Ops.Burst),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			a.logger.Info("ops_listen", zap.String("addr", srv.Addr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				a.logger.Error("ops_server_error", zap.Error(err))
			}
		}()
		// Stop accepting manual triggers before the scheduler drains.
		srvDone := make(chan struct{})
		go func() {
			defer close(srvDone)
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
		defer func() { <-srvDone }()
	}

	sched.Run(ctx)
	a.logger.Info("app_stop")
	return nil
}
