package app

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/dig"

	"orderdesk/internal/config"
	"orderdesk/internal/http/handlers"
	"orderdesk/internal/http/middleware/ratelimit"
	"orderdesk/internal/http/router"
	"orderdesk/internal/logx"
	"orderdesk/internal/metrics"
	"orderdesk/internal/notify"
	"orderdesk/internal/repository"
	"orderdesk/internal/service/dispatch"
	"orderdesk/internal/service/intake"
	"orderdesk/internal/service/orderflow"
	"orderdesk/internal/transport/kafka"
)

// ContainerBuilder is a dig container builder.
type ContainerBuilder struct {
	dbConnect func(context.Context, string, int, time.Duration) (*pgxpool.Pool, error)
	logFatalf func(string, ...interface{})
}

// NewContainerBuilder returns a new dig container builder
func NewContainerBuilder() *ContainerBuilder {
	return &ContainerBuilder{
		dbConnect: connectDbWithRetry,
		logFatalf: log.Fatalf,
	}
}

// WithDBConnect sets the database connection function
func (b *ContainerBuilder) WithDBConnect(
	fn func(context.Context, string, int, time.Duration) (*pgxpool.Pool, error),
) *ContainerBuilder {
	if fn != nil {
		b.dbConnect = fn
	}
	return b
}

// WithLogFatalf sets the log.Fatalf function
func (b *ContainerBuilder) WithLogFatalf(fn func(string, ...interface{})) *ContainerBuilder {
	if fn != nil {
		b.logFatalf = fn
	}
	return b
}

// MustBuild builds the console (API) container.
func (b *ContainerBuilder) MustBuild(ctx context.Context) *dig.Container {
	container, err := b.build(ctx)
	if err != nil {
		b.logFatalf("failed to build container: %v", err)
	}
	return container
}

// MustBuildWorker builds the dispatch worker container.
func (b *ContainerBuilder) MustBuildWorker(ctx context.Context) *dig.Container {
	container, err := b.buildWorker(ctx)
	if err != nil {
		b.logFatalf("failed to build worker container: %v", err)
	}
	return container
}

func (b *ContainerBuilder) build(ctx context.Context) (*dig.Container, error) {
	container := dig.New()

	if err := registerCore(container, ctx); err != nil {
		return nil, fmt.Errorf("core: %w", err)
	}
	if err := registerMetrics(container); err != nil {
		return nil, fmt.Errorf("metrics: %w", err)
	}
	if err := registerDb(container, b.dbConnect); err != nil {
		return nil, fmt.Errorf("DB: %w", err)
	}
	if err := registerService(container); err != nil {
		return nil, fmt.Errorf("service: %w", err)
	}
	if err := registerIntake(container); err != nil {
		return nil, fmt.Errorf("intake: %w", err)
	}
	if err := registerHTTP(container); err != nil {
		return nil, fmt.Errorf("http: %w", err)
	}
	return container, nil
}

func (b *ContainerBuilder) buildWorker(ctx context.Context) (*dig.Container, error) {
	container := dig.New()

	if err := registerCore(container, ctx); err != nil {
		return nil, fmt.Errorf("core: %w", err)
	}
	if err := registerDb(container, b.dbConnect); err != nil {
		return nil, fmt.Errorf("DB: %w", err)
	}
	if err := registerService(container); err != nil {
		return nil, fmt.Errorf("service: %w", err)
	}
	if err := registerWorkerFeed(container); err != nil {
		return nil, fmt.Errorf("feed: %w", err)
	}
	return container, nil
}

// MustBuildContainer builds the console (API) container.
func MustBuildContainer(ctx context.Context) *dig.Container {
	return NewContainerBuilder().MustBuild(ctx)
}

// MustBuildWorkerContainer builds the dispatch worker container.
func MustBuildWorkerContainer(ctx context.Context) *dig.Container {
	return NewContainerBuilder().MustBuildWorker(ctx)
}

func provideAll(container *dig.Container, providers ...any) error {
	for _, provider := range providers {
		if err := container.Provide(provider); err != nil {
			return fmt.Errorf("provide %T: %w", provider, err)
		}
	}
	return nil
}

func registerCore(container *dig.Container, ctx context.Context) error {
	return provideAll(container,
		func() context.Context { return ctx },
		config.Load,
		NewLogger,
	)
}

func registerMetrics(container *dig.Container) error {
	named := map[string]func() prometheus.Counter{
		"rate_limit_exceeded_total":   metrics.NewRateLimitExceededTotal,
		"orders_notified_total":       metrics.NewOrdersNotifiedTotal,
		"notification_failures_total": metrics.NewNotificationFailuresTotal,
		"store_conflicts_total":       metrics.NewStoreConflictsTotal,
	}
	for name, ctor := range named {
		ctor := ctor
		provider := func() prometheus.Counter {
			c := ctor()
			prometheus.MustRegister(c)
			return c
		}
		if err := container.Provide(provider, dig.Name(name)); err != nil {
			return fmt.Errorf("provide counter %s: %w", name, err)
		}
	}
	return nil
}

func registerDb(
	container *dig.Container,
	dbConnect func(context.Context, string, int, time.Duration) (*pgxpool.Pool, error),
) error {
	providerDB := func(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
		return dbConnect(ctx, cfg.DB.DSN(), 10, time.Second)
	}
	return provideAll(container, providerDB)
}

func registerService(container *dig.Container) error {
	return provideAll(container,
		repository.NewOrderRepo,
		repository.NewDriverRepo,
		repository.NewMenuRepo,
		func() time.Duration { return 3 * time.Second },
		func(repo *repository.OrderRepo) orderflow.OrderStore { return repo },
		func(repo *repository.OrderRepo) dispatch.OrderReader { return repo },
		func(repo *repository.OrderRepo) dispatch.TxRunner { return repo },
		func(repo *repository.DriverRepo) dispatch.DriverLister { return repo },
		newOrderflowService,
		func(
			orders dispatch.OrderReader,
			drivers dispatch.DriverLister,
			tx dispatch.TxRunner,
			cfg *config.Config,
			timeout time.Duration,
			logger logx.Logger,
		) *dispatch.Service {
			return dispatch.NewService(orders, drivers, tx, cfg.Dispatch, timeout, logger)
		},
	)
}

type orderflowIn struct {
	dig.In
	Store     orderflow.OrderStore
	Cfg       *config.Config
	Timeout   time.Duration
	Logger    logx.Logger
	Conflicts prometheus.Counter `name:"store_conflicts_total"`
}

func newOrderflowService(in orderflowIn) *orderflow.Service {
	return orderflow.NewService(in.Store, in.Cfg.Operator.StaffName, in.Timeout, in.Logger, in.Conflicts)
}

type monitorIn struct {
	dig.In
	Logger    logx.Logger
	Notified  prometheus.Counter `name:"orders_notified_total"`
	Failures  prometheus.Counter `name:"notification_failures_total"`
	Toasts    *intake.ToastManager
	Publisher *notify.Publisher
}

func newMonitor(in monitorIn) *intake.Monitor {
	notifiers := []intake.Notifier{in.Toasts}
	if in.Publisher != nil {
		notifiers = append(notifiers, in.Publisher)
	}
	return intake.NewMonitor(in.Logger, in.Notified, in.Failures, notifiers...)
}

func registerIntake(container *dig.Container) error {
	return provideAll(container,
		func(cfg *config.Config) *intake.ToastManager {
			return intake.NewToastManager(cfg.Intake.ToastDuration)
		},
		func(cfg *config.Config) *intake.HealthIndicator {
			return intake.NewHealthIndicator(cfg.Intake, nil)
		},
		func(cfg *config.Config) (*notify.Publisher, error) {
			return notify.NewPublisher(cfg.AMQP.URL, cfg.AMQP.Queue, cfg.Operator.SoundEnabled)
		},
		newMonitor,
		func(cfg *config.Config, orders *repository.OrderRepo, monitor *intake.Monitor, logger logx.Logger) (*kafka.Consumer, error) {
			return kafka.NewConsumer(
				cfg.Kafka.Brokers,
				cfg.Kafka.GroupID,
				cfg.Kafka.Topic,
				makeIntakeFeed(orders, monitor),
				logger,
			)
		},
	)
}

func registerWorkerFeed(container *dig.Container) error {
	return provideAll(container,
		func(cfg *config.Config, svc *dispatch.Service, logger logx.Logger) (*kafka.Consumer, error) {
			return kafka.NewConsumer(
				cfg.Kafka.Brokers,
				cfg.Kafka.GroupID+"-dispatch",
				cfg.Kafka.Topic,
				makeDispatchFeed(svc),
				logger,
			)
		},
	)
}

func registerHTTP(container *dig.Container) error {
	serverProvider := func(cfg *config.Config, mux http.Handler) *http.Server {
		return &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Port),
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      15 * time.Second,
			IdleTimeout:       60 * time.Second,
		}
	}
	routerProvider := func(
		logger logx.Logger,
		base *handlers.Handlers,
		orders *handlers.OrderHandler,
		drivers *handlers.DriverHandler,
		analytics *handlers.AnalyticsHandler,
		intakeH *handlers.IntakeHandler,
		rl *ratelimit.Middleware,
	) http.Handler {
		return router.New(router.Deps{
			Logger:    logger,
			Base:      base,
			Orders:    orders,
			Drivers:   drivers,
			Analytics: analytics,
			Intake:    intakeH,
			RateLimit: rl,
		})
	}
	return provideAll(container,
		handlers.New,
		handlers.NewOrderReader,
		handlers.NewDriverRegistry,
		handlers.NewMenuCatalog,
		handlers.NewOrderflowUsecase,
		handlers.NewDispatchUsecase,
		handlers.NewOrderHandler,
		handlers.NewDriverHandler,
		handlers.NewAnalyticsHandler,
		handlers.NewIntakeHandler,
		newRateLimitClock,
		newRateLimiter,
		newRateLimitMiddleware,
		routerProvider,
		serverProvider,
	)
}
