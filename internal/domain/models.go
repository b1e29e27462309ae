package domain

import (
	"strconv"
	"time"
)

// NoStatus is rendered in place of an HTTP status when no response arrived.
const NoStatus = "N/A"

type Target struct {
	URL string `json:"url"`
}

type Credentials struct {
	Address string `json:"addr"`
	Secret  string `json:"-"`
}

// Outcome is the result of one URL's retry sequence. All measurement fields
// come from a single attempt: the first that succeeded, or the last tried.
type Outcome struct {
	Alive      bool   `json:"alive"`
	URL        string `json:"url"`
	StatusCode int    `json:"status_code,omitempty"` // 0 when no response was received
	ElapsedMS  int64  `json:"elapsed_ms"`
	Error      string `json:"error,omitempty"`
	Attempts   int    `json:"attempts"`
	DNSClass   string `json:"dns_class,omitempty"`
}

func (o Outcome) StatusText() string {
	if o.StatusCode == 0 {
		return NoStatus
	}
	return strconv.Itoa(o.StatusCode)
}

type Cycle struct {
	StartedAt time.Time
	Targets   []Target
}

type Message struct {
	Subject string
	Body    string
}
