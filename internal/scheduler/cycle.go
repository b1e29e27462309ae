package scheduler

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/hamed0406/alivemon/internal/config"
	"github.com/hamed0406/alivemon/internal/domain"
	"github.com/hamed0406/alivemon/internal/notify"
	"github.com/hamed0406/alivemon/internal/probe"
)

// Notifier is the part of notify.Dispatcher a cycle needs.
type Notifier interface {
	NotifyFailure(ctx context.Context, env notify.Envelope, o domain.Outcome) error
	NotifyHeartbeat(ctx context.Context, env notify.Envelope) error
}

type Diagnoser interface {
	Classify(ctx context.Context, rawURL string) string
}

type CycleReport struct {
	Probed   int
	Failed   int
	Notified int
}

// Cycle runs one monitoring pass over every URL in the site document.
type Cycle struct {
	Logger      *zap.Logger
	SitesFile   string
	Checker     probe.Checker
	Notifier    Notifier
	DNS         Diagnoser // optional
	Concurrency int       // 0 = unbounded
	Health      *Health   // optional

	// LoadSites defaults to config.LoadSites.
	LoadSites func(path string) (config.Sites, error)
}

func (c *Cycle) load() (config.Sites, error) {
	load := c.LoadSites
	if load == nil {
		load = config.LoadSites
	}
	sites, err := load(c.SitesFile)
	if c.Health != nil {
		c.Health.recordLoad(err)
	}
	if err == nil {
		return sites, nil
	}

	var mf *config.MissingFieldsError
	if errors.As(err, &mf) {
		c.Logger.Error("cycle_config_error",
			zap.String("file", c.SitesFile),
			zap.Strings("missing", mf.Labels()),
			zap.Strings("missing_keys", mf.Keys()),
		)
	} else {
		c.Logger.Error("cycle_config_error", zap.String("file", c.SitesFile), zap.Error(err))
	}
	return config.Sites{}, err
}

// Run probes every target concurrently and waits for all of them. A
// configuration error aborts the cycle before any probe is issued.
func (c *Cycle) Run(ctx context.Context) (CycleReport, error) {
	sites, err := c.load()
	if err != nil {
		return CycleReport{}, err
	}

	cycle := domain.Cycle{StartedAt: time.Now(), Targets: sites.Targets()}
	env := notify.Envelope{Sender: sites.Sender, Recipients: sites.Recipients}
	c.Logger.Info("cycle_started",
		zap.Time("started_at", cycle.StartedAt),
		zap.Int("targets", len(cycle.Targets)),
	)

	var sem chan struct{}
	if c.Concurrency > 0 {
		sem = make(chan struct{}, c.Concurrency)
	}
	var (
		wg               sync.WaitGroup
		failed, notified atomic.Int64
	)

	for _, tgt := range cycle.Targets {
		tgt := tgt // per-iteration copy (go.mod targets go 1.21)
		if sem != nil {
			sem <- struct{}{}
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			if sem != nil {
				defer func() { <-sem }()
			}
			// cron.Recover only covers the job goroutine, not this one.
			defer func() {
				if r := recover(); r != nil {
					failed.Add(1)
					c.Logger.Error("target_panic", zap.String("url", tgt.URL), zap.Any("panic", r), zap.Stack("stack"))
				}
			}()
			if c.checkTarget(ctx, env, tgt) {
				return
			}
			failed.Add(1)
			notified.Add(1)
		}()
	}
	wg.Wait()

	report := CycleReport{
		Probed:   len(cycle.Targets),
		Failed:   int(failed.Load()),
		Notified: int(notified.Load()),
	}
	if c.Health != nil {
		c.Health.recordCycle(cycle.StartedAt)
	}
	c.Logger.Info("cycle_done",
		zap.Int("probed", report.Probed),
		zap.Int("failed", report.Failed),
		zap.Duration("took", time.Since(cycle.StartedAt)),
	)
	return report, nil
}

// checkTarget reports whether the target is alive. Failures are handed to
// the notifier before returning.
func (c *Cycle) checkTarget(ctx context.Context, env notify.Envelope, tgt domain.Target) bool {
	out := probe.MonitorURL(ctx, c.Checker, tgt.URL)
	if out.Alive {
		c.Logger.Info("target_ok", zap.String("url", out.URL), zap.Int("attempts", out.Attempts))
		return true
	}

	if out.StatusCode == 0 && c.DNS != nil {
		out.DNSClass = c.DNS.Classify(ctx, tgt.URL)
	}
	c.Logger.Warn("target_down",
		zap.String("url", out.URL),
		zap.String("status", out.StatusText()),
		zap.Int("attempts", out.Attempts),
		zap.Int64("elapsed_ms", out.ElapsedMS),
		zap.String("error", out.Error),
		zap.String("dns", out.DNSClass),
	)
	if err := c.Notifier.NotifyFailure(ctx, env, out); err != nil {
		c.Logger.Warn("notify_incomplete", zap.String("url", out.URL), zap.Error(err))
	}
	return false
}

// Heartbeat sends the regular notice to the recipients of the current
// site document.
func (c *Cycle) Heartbeat(ctx context.Context) error {
	sites, err := c.load()
	if err != nil {
		return err
	}
	c.Logger.Info("heartbeat_started", zap.Int("recipients", len(sites.Recipients)))
	if err := c.Notifier.NotifyHeartbeat(ctx, notify.Envelope{Sender: sites.Sender, Recipients: sites.Recipients}); err != nil {
		c.Logger.Warn("notify_incomplete", zap.String("kind", "heartbeat"), zap.Error(err))
	}
	return nil
}
