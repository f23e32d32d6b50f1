package handlers

import (
	"context"
	"time"

	"orderdesk/internal/domain"
	"orderdesk/internal/repository"
	"orderdesk/internal/service/dispatch"
	"orderdesk/internal/service/orderflow"
)

type orderflowUsecase interface {
	ApplyTransition(ctx context.Context, orderID string, target domain.OrderStatus, version int64) (*domain.Order, error)
	MarkPrinted(ctx context.Context, orderID string) (*domain.Order, error)
	AppendNote(ctx context.Context, orderID, author, text string) (domain.StaffNote, error)
}

// NewOrderflowUsecase wires an orderflow Service into an orderflowUsecase.
func NewOrderflowUsecase(svc *orderflow.Service) orderflowUsecase {
	return svc
}

type dispatchUsecase interface {
	AssignDriver(ctx context.Context, orderID string, driverID *int64) error
	StartDelivery(ctx context.Context, orderID string, estimatedMinutes int) (*domain.Order, error)
	Candidates(ctx context.Context) ([]domain.Driver, error)
	PickupReadyAt(o *domain.Order) time.Time
}

// NewDispatchUsecase wires a dispatch Service into a dispatchUsecase.
func NewDispatchUsecase(svc *dispatch.Service) dispatchUsecase {
	return svc
}

type orderReader interface {
	List(ctx context.Context) ([]domain.Order, error)
	Get(ctx context.Context, id string) (*domain.Order, error)
}

type driverRegistry interface {
	Get(ctx context.Context, id int64) (*domain.Driver, error)
	List(ctx context.Context) ([]domain.Driver, error)
	Create(ctx context.Context, d *domain.Driver) (int64, error)
	UpdatePartial(ctx context.Context, u domain.PartialDriverUpdate) (bool, error)
	SetManuallyOffline(ctx context.Context, id int64, offline bool) error
	Delete(ctx context.Context, id int64) error
}

type menuCatalog interface {
	List(ctx context.Context) ([]domain.MenuItem, error)
}

// NewOrderReader exposes the order repository to the handlers.
func NewOrderReader(repo *repository.OrderRepo) orderReader { return repo }

// NewDriverRegistry exposes the driver repository to the handlers.
func NewDriverRegistry(repo *repository.DriverRepo) driverRegistry { return repo }

// NewMenuCatalog exposes the menu repository to the handlers.
func NewMenuCatalog(repo *repository.MenuRepo) menuCatalog { return repo }
