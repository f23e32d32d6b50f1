package orderflow

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"orderdesk/internal/apperr"
	"orderdesk/internal/domain"
	"orderdesk/internal/logx"
)

// Service validates and applies order status transitions. It owns no
// dispatch bookkeeping: ETA and driver fields belong to the dispatch
// service and are never touched here.
type Service struct {
	store            OrderStore
	defaultAuthor    string
	operationTimeout time.Duration
	logger           logx.Logger
	conflicts        prometheus.Counter
	now              func() time.Time
}

// NewService creates and configures a lifecycle Service. defaultAuthor is
// the operator staff name used when a note carries no author; conflicts
// counts store updates rejected on a stale version token and may be nil.
func NewService(store OrderStore, defaultAuthor string, timeout time.Duration, logger logx.Logger, conflicts prometheus.Counter) *Service {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Service{
		store:            store,
		defaultAuthor:    defaultAuthor,
		operationTimeout: timeout,
		logger:           logger,
		conflicts:        conflicts,
		now:              func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.operationTimeout)
}

func (s *Service) countConflict(err error) {
	if s.conflicts != nil && errors.Is(err, apperr.ErrConflict) {
		s.conflicts.Inc()
	}
}

// ApplyTransition moves an order to target along the lifecycle graph.
// Graph violations fail locally with ErrInvalidTransition before any store
// call; a stale version surfaces as ErrConflict from the store.
func (s *Service) ApplyTransition(ctx context.Context, orderID string, target domain.OrderStatus, version int64) (*domain.Order, error) {
	if !target.Valid() {
		return nil, apperr.ErrInvalid
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	o, err := s.store.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, apperr.ErrNotFound
	}
	if !o.Status.CanTransition(target, o.Delivery.Type) {
		return nil, apperr.ErrInvalidTransition
	}

	updated, err := s.store.UpdateStatus(ctx, orderID, target, version)
	if err != nil {
		s.countConflict(err)
		return nil, err
	}

	s.logger.Info("order status changed",
		logx.String("event", "order_status_changed"),
		logx.String("order_id", orderID),
		logx.String("from", string(o.Status)),
		logx.String("to", string(target)),
	)
	return updated, nil
}

// MarkPrinted lets a receipt print double as fulfilment confirmation: a
// non-terminal order is forced to completed regardless of its position in
// the graph. Terminal orders are returned unchanged.
func (s *Service) MarkPrinted(ctx context.Context, orderID string) (*domain.Order, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	o, err := s.store.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, apperr.ErrNotFound
	}
	if o.Status.Terminal() {
		return o, nil
	}

	updated, err := s.store.UpdateStatus(ctx, orderID, domain.StatusCompleted, o.Version)
	if err != nil {
		s.countConflict(err)
		return nil, err
	}

	s.logger.Info("order completed via print",
		logx.String("event", "order_printed"),
		logx.String("order_id", orderID),
		logx.String("from", string(o.Status)),
	)
	return updated, nil
}

// AppendNote appends an operator note to an order.
func (s *Service) AppendNote(ctx context.Context, orderID, author, text string) (domain.StaffNote, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return domain.StaffNote{}, apperr.ErrInvalid
	}
	author = strings.TrimSpace(author)
	if author == "" {
		author = s.defaultAuthor
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	note := domain.StaffNote{Author: author, Text: text, CreatedAt: s.now()}
	if err := s.store.AppendStaffNote(ctx, orderID, note); err != nil {
		return domain.StaffNote{}, err
	}
	return note, nil
}
