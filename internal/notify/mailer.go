package notify

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"github.com/hamed0406/alivemon/internal/domain"
)

// DefaultSMTPTimeout bounds one whole delivery: dial, greeting, auth and data.
const DefaultSMTPTimeout = 30 * time.Second

type SMTPMailer struct {
	Host    string
	Port    int
	Timeout time.Duration

	// send is (*SMTPMailer).sendMail unless replaced in tests.
	send func(ctx context.Context, addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewSMTPMailer(host string, port int, timeout time.Duration) *SMTPMailer {
	if timeout <= 0 {
		timeout = DefaultSMTPTimeout
	}
	m := &SMTPMailer{Host: host, Port: port, Timeout: timeout}
	m.send = m.sendMail
	return m
}

// Send delivers one plain-text message. Every call dials its own
// connection, so concurrent use needs no locking.
func (m *SMTPMailer) Send(ctx context.Context, from domain.Credentials, to, subject, body string) error {
	if m == nil || m.Host == "" {
		return errors.New("smtp disabled")
	}
	if to == "" {
		return errors.New("empty recipient")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	var auth smtp.Auth
	if from.Address != "" && from.Secret != "" {
		auth = smtp.PlainAuth("", from.Address, from.Secret, m.Host)
	}

	send := m.send
	if send == nil {
		send = m.sendMail
	}
	addr := net.JoinHostPort(m.Host, strconv.Itoa(m.Port))
	if err := send(ctx, addr, auth, from.Address, []string{to}, buildMIME(from.Address, to, subject, body)); err != nil {
		return fmt.Errorf("send to %s: %w", to, err)
	}
	return nil
}

// sendMail follows smtp.SendMail, but the whole exchange is bounded by the
// mailer timeout and the connection is closed as soon as ctx is done.
func (m *SMTPMailer) sendMail(ctx context.Context, addr string, a smtp.Auth, from string, to []string, msg []byte) (err error) {
	timeout := m.Timeout
	if timeout <= 0 {
		timeout = DefaultSMTPTimeout
	}
	deadline := time.Now().Add(timeout)

	// A connection closed by ctx surfaces as a network error; report the
	// context's reason instead.
	defer func() {
		if err != nil && ctx.Err() != nil {
			err = ctx.Err()
		}
	}()

	conn, err := (&net.Dialer{Deadline: deadline}).DialContext(ctx, "tcp", addr)
	if err != nil {
		return err
	}
	defer conn.Close()
	if err := conn.SetDeadline(deadline); err != nil {
		return err
	}
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	c, err := smtp.NewClient(conn, m.Host)
	if err != nil {
		return err
	}
	defer c.Close()

	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(&tls.Config{ServerName: m.Host}); err != nil {
			return err
		}
	}
	if a != nil {
		if ok, _ := c.Extension("AUTH"); ok {
			if err := c.Auth(a); err != nil {
				return err
			}
		}
	}
	if err := c.Mail(from); err != nil {
		return err
	}
	for _, rcpt := range to {
		if err := c.Rcpt(rcpt); err != nil {
			return err
		}
	}
	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return c.Quit()
}

func buildMIME(from, to, subject, body string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	fmt.Fprintf(&b, "Date: %s\r\n", time.Now().Format(time.RFC1123Z))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(body, "\n", "\r\n"))
	return []byte(b.String())
}
