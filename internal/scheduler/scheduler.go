package scheduler

import (
	"context"
	"sync"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

type Options struct {
	Interval        Schedule
	HeartbeatSpec   string // standard 5-field cron; empty disables
	SkipOverlapping bool
}

// Scheduler runs a cycle at startup and then on Options.Interval, plus the
// optional heartbeat notice. Jobs run on their own goroutines, so a slow
// cycle never holds up the timer.
type Scheduler struct {
	Logger *zap.Logger
	Cycle  *Cycle

	cron      *cron.Cron
	check     cron.Job
	heartbeat cron.Job
	opts      Options

	mu      sync.Mutex
	ctx     context.Context
	stopped bool
	wg      sync.WaitGroup
}

func New(logger *zap.Logger, cycle *Cycle, opts Options) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	cl := cronLogger{l: logger.Sugar()}

	wrappers := []cron.JobWrapper{cron.Recover(cl)}
	if opts.SkipOverlapping {
		wrappers = append(wrappers, cron.SkipIfStillRunning(cl))
	}

	s := &Scheduler{
		Logger: logger,
		Cycle:  cycle,
		cron:   cron.New(cron.WithLogger(cl)),
		opts:   opts,
		ctx:    context.Background(),
	}
	// The startup run, timer ticks and manual triggers share one wrapped
	// job so the overlap guard sees all of them.
	s.check = cron.NewChain(wrappers...).Then(cron.FuncJob(s.runCheck))
	s.heartbeat = cron.NewChain(cron.Recover(cl)).Then(cron.FuncJob(s.runHeartbeat))

	s.cron.Schedule(opts.Interval, s.check)
	if opts.HeartbeatSpec != "" {
		if _, err := s.cron.AddJob(opts.HeartbeatSpec, s.heartbeat); err != nil {
			logger.Error("heartbeat_schedule_error", zap.String("spec", opts.HeartbeatSpec), zap.Error(err))
		}
	}
	return s
}

// Run starts the scheduler and blocks until ctx is cancelled, then waits
// for running jobs to finish.
func (s *Scheduler) Run(ctx context.Context) {
	s.mu.Lock()
	s.ctx = ctx
	s.mu.Unlock()

	s.Logger.Info("scheduler_started",
		zap.Int("interval_minutes", s.opts.Interval.Minutes),
		zap.String("heartbeat", s.opts.HeartbeatSpec),
		zap.Bool("skip_overlapping", s.opts.SkipOverlapping),
	)

	s.Trigger()
	s.cron.Start()

	<-ctx.Done()
	s.mu.Lock()
	s.stopped = true
	s.mu.Unlock()
	<-s.cron.Stop().Done()
	s.wg.Wait()
	s.Logger.Info("scheduler_stopped")
}

// Trigger runs a check cycle now, off the caller's goroutine. It reports
// false once Run has begun shutting down.
func (s *Scheduler) Trigger() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return false
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.check.Run()
	}()
	return true
}

func (s *Scheduler) runContext() context.Context {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ctx
}

func (s *Scheduler) runCheck() {
	ctx := s.runContext()
	if ctx.Err() != nil {
		return
	}
	// Errors are logged by the cycle; the next tick retries.
	_, _ = s.Cycle.Run(ctx)
}

func (s *Scheduler) runHeartbeat() {
	ctx := s.runContext()
	if ctx.Err() != nil {
		return
	}
	_ = s.Cycle.Heartbeat(ctx)
}
