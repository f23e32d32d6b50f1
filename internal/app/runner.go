package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/dig"

	"orderdesk/internal/config"
	"orderdesk/internal/http/pprofserver"
	"orderdesk/internal/logx"
	"orderdesk/internal/notify"
	"orderdesk/internal/service/intake"
	"orderdesk/internal/transport/kafka"
)

// MustRun starts the console using the provided DI container
func MustRun(container *dig.Container) {
	if err := run(container); err != nil {
		switch {
		case errors.Is(err, context.Canceled):
			log.Println("shutdown requested, exiting")
			return
		case errors.Is(err, context.DeadlineExceeded):
			log.Println("startup aborted: startup timeout exceeded")
			return
		default:
			log.Fatalf("run error: %v", err)
		}
	}
}

type runIn struct {
	dig.In
	Ctx       context.Context
	Cfg       *config.Config
	Server    *http.Server
	Pool      *pgxpool.Pool
	Logger    logx.Logger
	Consumer  *kafka.Consumer
	Health    *intake.HealthIndicator
	Toasts    *intake.ToastManager
	Publisher *notify.Publisher
}

func run(container *dig.Container) error {
	return container.Invoke(func(in runIn) error {
		go in.Health.Run(in.Ctx)
		if in.Consumer != nil {
			go func() {
				if err := in.Consumer.Run(in.Ctx); err != nil && !errors.Is(err, context.Canceled) {
					in.Logger.Error("order feed stopped", logx.Err(err))
				}
			}()
		}
		startPprof(in.Cfg, in.Logger)
		startServer(in.Server, in.Logger)

		waitForShutdown(in.Ctx, in.Logger)
		gracefulShutdown(in.Server, in.Logger, 15*time.Second)
		closeResources(in)
		return nil
	})
}

func startServer(server *http.Server, logger logx.Logger) {
	go func() {
		logger.Info("orderdesk listening", logx.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen error: %v", err)
		}
	}()
}

func startPprof(cfg *config.Config, logger logx.Logger) {
	if cfg.PprofPort <= 0 {
		return
	}
	addr := fmt.Sprintf("localhost:%d", cfg.PprofPort)
	go func() {
		if err := http.ListenAndServe(addr, pprofserver.Handler(pprofserver.Config{})); err != nil {
			logger.Warn("pprof server stopped", logx.Err(err))
		}
	}()
}

func waitForShutdown(ctx context.Context, logger logx.Logger) {
	<-ctx.Done()
	logger.Info("shutting down orderdesk...")
}

func gracefulShutdown(srv *http.Server, logger logx.Logger, timeout time.Duration) {
	shCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(shCtx); err != nil {
		logger.Warn("graceful shutdown error", logx.Err(err))
	}
}

func closeResources(in runIn) {
	if err := in.Server.Close(); err != nil {
		in.Logger.Warn("server close error", logx.Err(err))
	}
	if in.Consumer != nil {
		if err := in.Consumer.Close(); err != nil {
			in.Logger.Warn("feed close error", logx.Err(err))
		}
	}
	in.Toasts.Stop()
	in.Publisher.Close()
	in.Pool.Close()
}
