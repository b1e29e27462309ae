package notify

import (
	"context"
	"errors"
	"sync"
	"testing"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/hamed0406/alivemon/internal/domain"
)

type sentMail struct {
	from    domain.Credentials
	to      string
	subject string
	body    string
}

type fakeMailer struct {
	mu   sync.Mutex
	fail map[string]bool
	sent []sentMail
}

func (f *fakeMailer) Send(ctx context.Context, from domain.Credentials, to, subject, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentMail{from: from, to: to, subject: subject, body: body})
	if f.fail[to] {
		return errors.New("mailbox unavailable")
	}
	return nil
}

func (f *fakeMailer) attemptsTo(to string) int {
	n := 0
	for _, s := range f.sent {
		if s.to == to {
			n++
		}
	}
	return n
}

type fakeChannel struct {
	n   int
	err error
}

func (f *fakeChannel) Name() string { return "fake" }
func (f *fakeChannel) Send(ctx context.Context, msg domain.Message) error {
	f.n++
	return f.err
}

var testApp = App{Name: "alivemon", Version: "1.2.0"}

func failing() domain.Outcome {
	return domain.Outcome{URL: "https://example.com", StatusCode: 503, Error: "unexpected status code: 503", Attempts: 3}
}

func TestDispatcher_FailureForOneRecipientDoesNotStopOthers(t *testing.T) {
	m := &fakeMailer{fail: map[string]bool{"a@example.com": true}}
	core, logs := observer.New(zapcore.InfoLevel)
	d := NewDispatcher(zap.New(core), m, testApp)

	env := Envelope{
		Sender:     domain.Credentials{Address: "monitor@example.com", Secret: "x"},
		Recipients: []string{"a@example.com", "b@example.com", "c@example.com"},
	}
	err := d.NotifyFailure(context.Background(), env, failing())

	if len(m.sent) != 3 {
		t.Fatalf("want 3 delivery attempts, got %d", len(m.sent))
	}
	if m.attemptsTo("b@example.com") != 1 || m.attemptsTo("c@example.com") != 1 {
		t.Fatalf("recipients after the failure were skipped: %+v", m.sent)
	}
	if len(multierr.Errors(err)) != 1 {
		t.Fatalf("want exactly one aggregated error, got %v", err)
	}
	if logs.FilterMessage("mail_send_failed").Len() != 1 {
		t.Fatalf("want one mail_send_failed log, got %d", logs.FilterMessage("mail_send_failed").Len())
	}
	if m.sent[1].from.Address != "monitor@example.com" {
		t.Fatalf("sender not passed to mailer: %+v", m.sent[1].from)
	}
}

func TestDispatcher_RepeatedCallsAreIndependent(t *testing.T) {
	m := &fakeMailer{fail: map[string]bool{"a@example.com": true}}
	d := NewDispatcher(zap.NewNop(), m, testApp)
	env := Envelope{Recipients: []string{"a@example.com", "b@example.com"}}

	const n = 4
	for i := 0; i < n; i++ {
		_ = d.NotifyFailure(context.Background(), env, failing())
	}
	if len(m.sent) != n*len(env.Recipients) {
		t.Fatalf("want %d attempts, got %d", n*len(env.Recipients), len(m.sent))
	}
	if m.attemptsTo("a@example.com") != n {
		t.Fatalf("failed recipient should get exactly one attempt per call, got %d", m.attemptsTo("a@example.com"))
	}
}

func TestDispatcher_NoRecipients(t *testing.T) {
	m := &fakeMailer{}
	d := NewDispatcher(zap.NewNop(), m, testApp)
	if err := d.NotifyFailure(context.Background(), Envelope{}, failing()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(m.sent) != 0 {
		t.Fatalf("nothing should be sent")
	}
}

func TestDispatcher_HeartbeatReachesEveryone(t *testing.T) {
	m := &fakeMailer{}
	ch := &fakeChannel{}
	d := NewDispatcher(zap.NewNop(), m, testApp, ch)

	env := Envelope{Recipients: []string{"a@example.com", "b@example.com"}}
	if err := d.NotifyHeartbeat(context.Background(), env); err != nil {
		t.Fatalf("heartbeat: %v", err)
	}
	if len(m.sent) != 2 || ch.n != 1 {
		t.Fatalf("want 2 mails and 1 channel post, got %d/%d", len(m.sent), ch.n)
	}
	if m.sent[0].subject != testApp.HeartbeatMessage().Subject {
		t.Fatalf("unexpected subject %q", m.sent[0].subject)
	}
}

func TestDispatcher_ChannelFailureIsIsolated(t *testing.T) {
	m := &fakeMailer{}
	bad := &fakeChannel{err: errors.New("webhook down")}
	good := &fakeChannel{}
	d := NewDispatcher(zap.NewNop(), m, testApp, bad, good, (*Slack)(nil))

	if len(d.Channels) != 2 {
		t.Fatalf("nil slack should be dropped, got %d channels", len(d.Channels))
	}
	err := d.NotifyFailure(context.Background(), Envelope{Recipients: []string{"a@example.com"}}, failing())
	if err == nil {
		t.Fatalf("want channel error reported")
	}
	if good.n != 1 || len(m.sent) != 1 {
		t.Fatalf("other deliveries should proceed: good=%d mails=%d", good.n, len(m.sent))
	}
}
