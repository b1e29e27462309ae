package notify

import (
	"context"

	"github.com/hamed0406/alivemon/internal/domain"
)

// Notifier is a broadcast channel that is not addressed per recipient,
// such as a chat webhook.
type Notifier interface {
	Name() string
	Send(ctx context.Context, msg domain.Message) error
}

// Mailer is the mail-transport capability.
type Mailer interface {
	Send(ctx context.Context, from domain.Credentials, to, subject, body string) error
}
