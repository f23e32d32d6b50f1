package router_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"orderdesk/internal/http/handlers"
	"orderdesk/internal/http/router"
	"orderdesk/internal/logx"
)

func TestNew_PingAndNotFound(t *testing.T) {
	h := router.New(router.Deps{
		Logger:    logx.Nop(),
		Base:      handlers.New(logx.Nop()),
		Orders:    &handlers.OrderHandler{},
		Drivers:   &handlers.DriverHandler{},
		Analytics: &handlers.AnalyticsHandler{},
		Intake:    &handlers.IntakeHandler{},
	})

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/ping", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/nope", nil))
	require.Equal(t, http.StatusNotFound, rr.Code)
}
