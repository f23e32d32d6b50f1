package dispatch

import (
	"context"
	"time"

	"orderdesk/internal/apperr"
	"orderdesk/internal/config"
	"orderdesk/internal/domain"
	"orderdesk/internal/logx"
	"orderdesk/internal/ports/dispatchtx"
)

// Service assigns drivers to delivery orders and computes delivery ETAs.
// It is the only writer of driver load counters and of the departure/ETA
// fields on orders.
type Service struct {
	orders           OrderReader
	drivers          DriverLister
	tx               TxRunner
	cfg              config.Dispatch
	operationTimeout time.Duration
	logger           logx.Logger
	now              func() time.Time
}

// NewService creates and configures a dispatch Service.
func NewService(orders OrderReader, drivers DriverLister, tx TxRunner, cfg config.Dispatch, timeout time.Duration, logger logx.Logger) *Service {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Service{
		orders:           orders,
		drivers:          drivers,
		tx:               tx,
		cfg:              cfg,
		operationTimeout: timeout,
		logger:           logger,
		now:              func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.operationTimeout)
}

// AssignDriver points a delivery order at a driver; nil unassigns. The
// previous driver's load is decremented and the new one's incremented in
// the same transaction, so across any sequence of reassignments a single
// order is never counted against more than one driver. Offline drivers are
// rejected here, not only filtered from the candidate list.
func (s *Service) AssignDriver(ctx context.Context, orderID string, driverID *int64) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	err := s.tx.WithTx(ctx, func(tx dispatchtx.Repository) error {
		o, err := tx.GetOrderForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if o == nil {
			return apperr.ErrNotFound
		}
		if o.Delivery.Type != domain.DeliveryTypeDelivery {
			return apperr.ErrInvalid
		}

		prev := o.AssignedDriverID
		if prev != nil && driverID != nil && *prev == *driverID {
			return nil
		}

		if driverID != nil {
			d, err := tx.GetDriverForUpdate(ctx, *driverID)
			if err != nil {
				return err
			}
			if d == nil {
				return apperr.ErrNotFound
			}
			if !d.Assignable() {
				return apperr.ErrInvalid
			}
		}

		if prev != nil {
			if err := tx.AdjustDriverLoad(ctx, *prev, -1); err != nil {
				return err
			}
		}
		if err := tx.SetOrderDriver(ctx, orderID, driverID); err != nil {
			return err
		}
		if driverID != nil {
			return tx.AdjustDriverLoad(ctx, *driverID, +1)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("driver assignment changed",
		logx.String("event", "driver_assignment_changed"),
		logx.String("order_id", orderID),
		logx.Bool("assigned", driverID != nil),
	)
	return nil
}

// StartDelivery stamps departure time and ETA on a preparing delivery
// order and moves it to the delivery status in one store round-trip.
// estimatedMinutes must be positive; it is clamped to the configured range
// because the downstream ETA display has no validation of its own.
func (s *Service) StartDelivery(ctx context.Context, orderID string, estimatedMinutes int) (*domain.Order, error) {
	if estimatedMinutes <= 0 {
		return nil, apperr.ErrInvalid
	}
	minutes := clamp(estimatedMinutes, s.cfg.MinETAMinutes, s.cfg.MaxETAMinutes)

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	o, err := s.orders.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, apperr.ErrNotFound
	}
	if o.Delivery.Type != domain.DeliveryTypeDelivery {
		return nil, apperr.ErrInvalid
	}
	if o.Status != domain.StatusPreparing {
		return nil, apperr.ErrInvalidTransition
	}

	departedAt := s.now()
	eta := departedAt.Add(time.Duration(minutes) * time.Minute)

	updated, err := s.orders.StartDelivery(ctx, orderID, departedAt, eta, o.Version)
	if err != nil {
		return nil, err
	}

	s.logger.Info("delivery started",
		logx.String("event", "delivery_started"),
		logx.String("order_id", orderID),
		logx.Int("estimated_minutes", minutes),
		logx.Time("eta", eta),
	)
	return updated, nil
}

// ReleaseDriver frees the driver of a finished delivery order: the load
// counter is decremented and the order's driver reference cleared, which
// makes the release safe to repeat on event redelivery.
func (s *Service) ReleaseDriver(ctx context.Context, orderID string) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	return s.tx.WithTx(ctx, func(tx dispatchtx.Repository) error {
		o, err := tx.GetOrderForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if o == nil || o.AssignedDriverID == nil {
			return nil
		}
		if err := tx.AdjustDriverLoad(ctx, *o.AssignedDriverID, -1); err != nil {
			return err
		}
		return tx.SetOrderDriver(ctx, orderID, nil)
	})
}

// Candidates returns the drivers an operator may assign: everyone except
// those manually taken offline. Busy drivers stay in the list; stacking
// deliveries on one driver is an operator call.
func (s *Service) Candidates(ctx context.Context) ([]domain.Driver, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	all, err := s.drivers.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Driver, 0, len(all))
	for _, d := range all {
		if d.Assignable() {
			out = append(out, d)
		}
	}
	return out, nil
}

// PickupReadyAt computes the displayed ready estimate for pickup orders.
// It is derived at display time and never persisted.
func (s *Service) PickupReadyAt(o *domain.Order) time.Time {
	return o.CreatedAt.Add(time.Duration(s.cfg.PickupMinutes) * time.Minute)
}

func clamp(v, lo, hi int) int {
	if lo > 0 && v < lo {
		return lo
	}
	if hi > 0 && v > hi {
		return hi
	}
	return v
}
