package intake

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"orderdesk/internal/config"
)

// ConnState is the value shown by the console's connectivity indicator.
type ConnState string

// List of indicator states
const (
	ConnConnected    ConnState = "connected"
	ConnReconnecting ConnState = "reconnecting"
)

// HealthIndicator drives the console's connectivity dot. Each tick has a
// small independent chance of flipping to a transient reconnecting state
// that clears itself shortly after.
//
// This is a presentation affordance only: it never probes the order store
// and has no effect on data correctness. Real store failures surface
// through the repositories, not here.
type HealthIndicator struct {
	cfg  config.Intake
	roll func() float64

	mu    sync.Mutex
	state ConnState
	timer *time.Timer
}

// NewHealthIndicator creates an indicator; roll may be nil for rand.Float64.
func NewHealthIndicator(cfg config.Intake, roll func() float64) *HealthIndicator {
	if roll == nil {
		roll = rand.Float64
	}
	return &HealthIndicator{
		cfg:   cfg,
		roll:  roll,
		state: ConnConnected,
	}
}

// State returns the current indicator state.
func (h *HealthIndicator) State() ConnState {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}

// Run ticks until ctx is cancelled, then stops any pending clear timer.
func (h *HealthIndicator) Run(ctx context.Context) {
	ticker := time.NewTicker(h.cfg.HealthTick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			if h.timer != nil {
				h.timer.Stop()
			}
			h.mu.Unlock()
			return
		case <-ticker.C:
			h.tick()
		}
	}
}

func (h *HealthIndicator) tick() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.state == ConnReconnecting {
		return
	}
	if h.roll() >= h.cfg.ReconnectOdds {
		return
	}

	h.state = ConnReconnecting
	h.timer = time.AfterFunc(h.cfg.ReconnectClear, func() {
		h.mu.Lock()
		h.state = ConnConnected
		h.mu.Unlock()
	})
}
