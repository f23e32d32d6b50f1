package app

import (
	"context"

	"orderdesk/internal/domain"
	"orderdesk/internal/repository"
	"orderdesk/internal/service/dispatch"
	"orderdesk/internal/service/intake"
	"orderdesk/internal/transport/kafka"
)

// makeIntakeFeed turns change events into intake observations. The event
// itself only wakes the monitor up; detection is a set difference over the
// current collection, so replays and out-of-order events cannot produce
// duplicate notifications.
func makeIntakeFeed(orders *repository.OrderRepo, monitor *intake.Monitor) kafka.HandleFunc {
	return func(ctx context.Context, _ kafka.ChangeEvent) error {
		list, err := orders.List(ctx)
		if err != nil {
			return err
		}
		monitor.Observe(ctx, list)
		return nil
	}
}

// makeDispatchFeed releases a driver once the order reaches a terminal
// status. ReleaseDriver is idempotent, so event redelivery is harmless.
func makeDispatchFeed(svc *dispatch.Service) kafka.HandleFunc {
	return func(ctx context.Context, ev kafka.ChangeEvent) error {
		switch domain.OrderStatus(ev.Status) {
		case domain.StatusCompleted, domain.StatusCancelled:
			return svc.ReleaseDriver(ctx, ev.OrderID)
		default:
			return nil
		}
	}
}
