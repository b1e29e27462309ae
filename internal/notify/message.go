package notify

import (
	"fmt"
	"strings"

	"github.com/hamed0406/alivemon/internal/domain"
)

// App identifies the process in subjects and bodies.
type App struct {
	Name    string
	Version string
}

func (a App) tag() string {
	return "<" + a.Name + ">"
}

// FailureMessage renders the operator alert for a failed outcome.
func (a App) FailureMessage(o domain.Outcome) domain.Message {
	var b strings.Builder
	b.WriteString("An abnormal response was detected for the following web page.\n\n")
	fmt.Fprintf(&b, "URL: %s\n", o.URL)
	fmt.Fprintf(&b, "HTTP status code: %s\n", o.StatusText())
	if o.Error != "" {
		fmt.Fprintf(&b, "Error: %s\n", o.Error)
	}
	if o.DNSClass != "" {
		fmt.Fprintf(&b, "DNS: %s\n", o.DNSClass)
	}
	fmt.Fprintf(&b, "Attempts: %d, last response time: %dms\n", o.Attempts, o.ElapsedMS)
	b.WriteString("\nAdministrators: restart the server hosting this page or take other action as needed.\n")
	fmt.Fprintf(&b, "\n\nAppVersion: %s\n", a.Version)

	return domain.Message{
		Subject: a.tag() + " Web page abnormal response detected",
		Body:    b.String(),
	}
}

// HeartbeatMessage renders the regular "still running" notice.
func (a App) HeartbeatMessage() domain.Message {
	return domain.Message{
		Subject: a.tag() + " Regular notice",
		Body: "This is a regular notice from the web page liveness monitor.\n" +
			"The monitor is running normally. No action is required.\n\n\n" +
			"AppVersion: " + a.Version + "\n",
	}
}
