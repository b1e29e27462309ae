package notify

import (
	"context"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/hamed0406/alivemon/internal/domain"
)

// Envelope is the sender and recipient list from the current site snapshot.
type Envelope struct {
	Sender     domain.Credentials
	Recipients []string
}

type Dispatcher struct {
	Logger   *zap.Logger
	Mailer   Mailer
	Channels []Notifier
	App      App
}

func NewDispatcher(logger *zap.Logger, mailer Mailer, app App, channels ...Notifier) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	live := make([]Notifier, 0, len(channels))
	for _, c := range channels {
		if c != nil && !isNilNotifier(c) {
			live = append(live, c)
		}
	}
	return &Dispatcher{Logger: logger, Mailer: mailer, Channels: live, App: app}
}

// NotifyFailure makes one delivery attempt per recipient and channel. A
// failed delivery is logged and never stops the rest; the combined error is
// informational only.
func (d *Dispatcher) NotifyFailure(ctx context.Context, env Envelope, o domain.Outcome) error {
	return d.dispatch(ctx, env, d.App.FailureMessage(o), zap.String("url", o.URL))
}

func (d *Dispatcher) NotifyHeartbeat(ctx context.Context, env Envelope) error {
	return d.dispatch(ctx, env, d.App.HeartbeatMessage(), zap.String("kind", "heartbeat"))
}

func (d *Dispatcher) dispatch(ctx context.Context, env Envelope, msg domain.Message, about zap.Field) error {
	var errs error
	sent := 0
	for _, to := range env.Recipients {
		if err := d.Mailer.Send(ctx, env.Sender, to, msg.Subject, msg.Body); err != nil {
			d.Logger.Error("mail_send_failed", about, zap.String("to", to), zap.Error(err))
			errs = multierr.Append(errs, err)
			continue
		}
		sent++
		d.Logger.Info("mail_sent", about, zap.String("to", to))
	}
	for _, ch := range d.Channels {
		if err := ch.Send(ctx, msg); err != nil {
			d.Logger.Error("channel_send_failed", about, zap.String("channel", ch.Name()), zap.Error(err))
			errs = multierr.Append(errs, err)
			continue
		}
		sent++
	}
	if len(env.Recipients) == 0 {
		d.Logger.Warn("no_recipients", about)
	}
	d.Logger.Debug("dispatch_done", about,
		zap.Int("delivered", sent),
		zap.Int("failed", len(multierr.Errors(errs))),
	)
	return errs
}

func isNilNotifier(n Notifier) bool {
	s, ok := n.(*Slack)
	return ok && s == nil
}
