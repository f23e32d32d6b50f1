package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"orderdesk/internal/http/handlers"
	mw "orderdesk/internal/http/middleware"
	"orderdesk/internal/http/middleware/ratelimit"
	"orderdesk/internal/logx"
)

// Deps carries everything the router mounts.
type Deps struct {
	Logger    logx.Logger
	Base      *handlers.Handlers
	Orders    *handlers.OrderHandler
	Drivers   *handlers.DriverHandler
	Analytics *handlers.AnalyticsHandler
	Intake    *handlers.IntakeHandler
	RateLimit *ratelimit.Middleware
}

// New constructs a chi-based http.Handler with base middleware and routes.
func New(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(5 * time.Second))
	r.Use(mw.Observability(d.Logger))
	if d.RateLimit != nil {
		r.Use(d.RateLimit.Handler())
	}

	r.Get("/ping", d.Base.Ping)
	r.Method(http.MethodHead, "/healthcheck", http.HandlerFunc(d.Base.HealthcheckHead))
	r.Handle("/metrics", promhttp.Handler())

	r.Get("/orders", d.Orders.List)
	r.Route("/order/{id}", func(r chi.Router) {
		r.Get("/", d.Orders.GetByID)
		r.Post("/status", d.Orders.UpdateStatus)
		r.Post("/printed", d.Orders.MarkPrinted)
		r.Post("/notes", d.Orders.AppendNote)
		r.Put("/driver", d.Orders.AssignDriver)
		r.Post("/delivery", d.Orders.StartDelivery)
	})

	r.Get("/drivers", d.Drivers.List)
	r.Get("/drivers/candidates", d.Drivers.Candidates)
	r.Post("/driver", d.Drivers.Create)
	r.Put("/driver", d.Drivers.Update)
	r.Get("/driver/{id}", d.Drivers.GetByID)
	r.Post("/driver/{id}/offline", d.Drivers.SetOffline)
	r.Delete("/driver/{id}", d.Drivers.Delete)

	r.Get("/analytics/report", d.Analytics.Report)
	r.Get("/analytics/active", d.Analytics.Active)

	r.Get("/intake/health", d.Intake.Health)
	r.Get("/intake/toast", d.Intake.Toast)
	r.Delete("/intake/toast", d.Intake.DismissToast)

	r.NotFound(http.HandlerFunc(d.Base.NotFound))

	return r
}
