// Package clipboard watches the system clipboard and reports text changes.
package clipboard

import (
	"context"
	"time"

	"github.com/hammamikhairi/clipspeak/internal/domain"
	"github.com/hammamikhairi/clipspeak/internal/logger"
)

// Result tells the monitor what to do after a callback.
type Result int

const (
	// Continue keeps watching.
	Continue Result = iota
	// Stop makes Run return.
	Stop
)

// Handler receives clipboard events. Callbacks run on the monitor's
// goroutine, so the next poll waits until they return.
type Handler interface {
	OnChange(ctx context.Context, text string) Result
	OnError(ctx context.Context, err error) Result
}

// DefaultPollInterval is how often the clipboard is read.
const DefaultPollInterval = 250 * time.Millisecond

// MonitorOption configures the Monitor.
type MonitorOption func(*Monitor)

// WithPollInterval sets the clipboard polling interval.
func WithPollInterval(d time.Duration) MonitorOption {
	return func(m *Monitor) {
		if d > 0 {
			m.interval = d
		}
	}
}

// Monitor polls a ClipboardReader and invokes a Handler once per content
// change. The content present when Run starts is the baseline and does not
// fire an event.
type Monitor struct {
	reader   domain.ClipboardReader
	interval time.Duration
	log      *logger.Logger

	primed  bool
	last    string
	lastErr string
}

// NewMonitor creates a clipboard monitor.
func NewMonitor(reader domain.ClipboardReader, log *logger.Logger, opts ...MonitorOption) *Monitor {
	m := &Monitor{
		reader:   reader,
		interval: DefaultPollInterval,
		log:      log,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Run blocks, polling the clipboard until ctx is cancelled or the handler
// returns Stop. It returns ctx.Err() on cancellation and nil on Stop.
func (m *Monitor) Run(ctx context.Context, h Handler) error {
	m.log.Info("clipboard monitor started (interval=%s)", m.interval)
	defer m.log.Info("clipboard monitor stopped")

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		if m.poll(ctx, h) == Stop {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// poll performs a single read and dispatches at most one callback.
func (m *Monitor) poll(ctx context.Context, h Handler) Result {
	text, err := m.reader.ReadText()
	if err != nil {
		// Report a failure once, not on every tick while it persists.
		if err.Error() == m.lastErr {
			return Continue
		}
		m.lastErr = err.Error()
		m.log.Debug("clipboard: read failed: %v", err)
		return h.OnError(ctx, err)
	}
	m.lastErr = ""

	if !m.primed {
		m.primed = true
		m.last = text
		m.log.Debug("clipboard: baseline set (%d bytes)", len(text))
		return Continue
	}

	if text == m.last {
		return Continue
	}
	m.last = text

	m.log.Debug("clipboard: change detected (%d bytes)", len(text))
	return h.OnChange(ctx, text)
}
