package scheduler

import (
	"errors"
	"sync"
	"time"

	"github.com/hamed0406/alivemon/internal/config"
)

// Health tracks whether the latest site-document load succeeded and when
// the last cycle finished. Only the latest state is kept.
type Health struct {
	mu        sync.RWMutex
	loaded    bool
	loadErr   error
	lastCycle time.Time
}

type HealthSnapshot struct {
	Ready     bool
	Error     string
	Missing   []string
	LastCycle time.Time
}

func (h *Health) recordLoad(err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.loaded = true
	h.loadErr = err
}

func (h *Health) recordCycle(at time.Time) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.lastCycle = at
}

func (h *Health) Snapshot() HealthSnapshot {
	h.mu.RLock()
	defer h.mu.RUnlock()
	s := HealthSnapshot{Ready: h.loaded && h.loadErr == nil, LastCycle: h.lastCycle}
	if h.loadErr != nil {
		s.Error = h.loadErr.Error()
		var mf *config.MissingFieldsError
		if errors.As(h.loadErr, &mf) {
			s.Missing = mf.Labels()
		}
	}
	return s
}
