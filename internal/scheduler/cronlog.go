package scheduler

import (
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// cronLogger routes robfig/cron's logging into zap. The engine's chatty
// wake/run lines go to debug; skipped overlapping runs are worth an info line.
type cronLogger struct {
	l *zap.SugaredLogger
}

var _ cron.Logger = cronLogger{}

func (c cronLogger) Info(msg string, keysAndValues ...interface{}) {
	if msg == "skip" {
		c.l.Infow("cycle_skipped_overlap", keysAndValues...)
		return
	}
	c.l.Debugw("cron_"+msg, keysAndValues...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.l.Errorw("cron_"+msg, append(keysAndValues, "error", err)...)
}
