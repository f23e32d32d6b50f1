package intake

import (
	"context"
	"sync"
	"time"
)

// Toast is the single in-app notification currently on screen.
type Toast struct {
	Notification Notification
	ShownAt      time.Time
}

// ToastManager holds at most one toast at a time. A new arrival replaces
// the visible toast and restarts the expiry timer; the toast also clears
// itself after the configured duration or on explicit dismissal.
type ToastManager struct {
	duration time.Duration
	now      func() time.Time

	mu      sync.Mutex
	current *Toast
	timer   *time.Timer
	stopped bool
}

// NewToastManager creates a ToastManager with the given auto-expiry duration.
func NewToastManager(duration time.Duration) *ToastManager {
	if duration <= 0 {
		duration = 5 * time.Second
	}
	return &ToastManager{
		duration: duration,
		now:      time.Now,
	}
}

// Notify implements Notifier: showing the toast is the delivery.
func (t *ToastManager) Notify(_ context.Context, n Notification) error {
	t.Show(n)
	return nil
}

// Show replaces the current toast and restarts its expiry timer.
func (t *ToastManager) Show(n Notification) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopped {
		return
	}
	if t.timer != nil {
		t.timer.Stop()
	}
	toast := &Toast{Notification: n, ShownAt: t.now()}
	t.current = toast
	t.timer = time.AfterFunc(t.duration, func() { t.expire(toast) })
}

// expire clears the toast only if it is still the one the timer was armed
// for; a replacement already cancelled this timer's claim.
func (t *ToastManager) expire(toast *Toast) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.current == toast {
		t.current = nil
	}
}

// Dismiss clears the visible toast before its timer fires.
func (t *ToastManager) Dismiss() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.timer != nil {
		t.timer.Stop()
	}
	t.current = nil
}

// Current returns the visible toast, or nil.
func (t *ToastManager) Current() *Toast {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.current
}

// Stop tears the manager down; no toast is shown afterwards and no timer
// callback fires against stale state.
func (t *ToastManager) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopped = true
	if t.timer != nil {
		t.timer.Stop()
	}
	t.current = nil
}
