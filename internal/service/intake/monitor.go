package intake

import (
	"context"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"

	"orderdesk/internal/domain"
	"orderdesk/internal/logx"
)

// Notification is the payload raised once per newly arrived order.
type Notification struct {
	OrderID      string          `json:"order_id"`
	Number       int             `json:"number"`
	CustomerName string          `json:"customer_name"`
	Total        decimal.Decimal `json:"total"`
}

// Notifier delivers one notification over one channel (toast, queue, log).
// Channel failures are the channel's problem: the monitor logs them and
// moves on, it never blocks order visibility on a broken channel.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// Monitor observes the order collection and raises a notification exactly
// once per order id it has not seen before. Detection is a set difference
// on ids, so a burst of N simultaneous arrivals yields N notifications.
type Monitor struct {
	notifiers []Notifier
	logger    logx.Logger

	notified prometheus.Counter
	failures prometheus.Counter

	mu     sync.Mutex
	seen   map[string]struct{}
	primed bool
}

// NewMonitor creates a Monitor fanning out to the given notifiers.
func NewMonitor(logger logx.Logger, notified, failures prometheus.Counter, notifiers ...Notifier) *Monitor {
	return &Monitor{
		notifiers: notifiers,
		logger:    logger,
		notified:  notified,
		failures:  failures,
		seen:      make(map[string]struct{}),
	}
}

// Observe diffs the current collection against the previously seen id set
// and notifies for every order present now but absent before, in collection
// order (newest last). The first observation primes the set silently so a
// console restart does not replay the whole backlog. Returns the number of
// new orders.
func (m *Monitor) Observe(ctx context.Context, orders []domain.Order) int {
	fresh := m.diff(orders)

	for i := range fresh {
		m.fanOut(ctx, Notification{
			OrderID:      fresh[i].ID,
			Number:       fresh[i].Number,
			CustomerName: fresh[i].CustomerName,
			Total:        fresh[i].Total(),
		})
	}
	return len(fresh)
}

func (m *Monitor) diff(orders []domain.Order) []domain.Order {
	m.mu.Lock()
	defer m.mu.Unlock()

	var fresh []domain.Order
	for i := range orders {
		if _, ok := m.seen[orders[i].ID]; !ok {
			m.seen[orders[i].ID] = struct{}{}
			if m.primed {
				fresh = append(fresh, orders[i])
			}
		}
	}
	if !m.primed {
		m.primed = true
		return nil
	}
	return fresh
}

func (m *Monitor) fanOut(ctx context.Context, n Notification) {
	if m.notified != nil {
		m.notified.Inc()
	}
	for _, nf := range m.notifiers {
		if err := nf.Notify(ctx, n); err != nil {
			if m.failures != nil {
				m.failures.Inc()
			}
			m.logger.Warn("notification channel failed",
				logx.String("order_id", n.OrderID),
				logx.Err(err),
			)
		}
	}
	m.logger.Info("new order",
		logx.String("event", "order_arrived"),
		logx.String("order_id", n.OrderID),
		logx.Int("number", n.Number),
		logx.String("customer", n.CustomerName),
		logx.String("total", n.Total.String()),
	)
}
