package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"orderdesk/internal/config"
	"orderdesk/internal/logx"
	"orderdesk/internal/service/intake"
)

func newIntakeHandler(roll func() float64) (*IntakeHandler, *intake.ToastManager) {
	cfg := config.Intake{
		ToastDuration:  time.Minute,
		HealthTick:     time.Minute,
		ReconnectOdds:  0.05,
		ReconnectClear: time.Minute,
	}
	toasts := intake.NewToastManager(cfg.ToastDuration)
	h := NewIntakeHandler(logx.Nop(), intake.NewHealthIndicator(cfg, roll), toasts)
	return h, toasts
}

func TestIntakeHandler_Health(t *testing.T) {
	t.Parallel()

	h, _ := newIntakeHandler(nil)

	rr := httptest.NewRecorder()
	h.Health(rr, httptest.NewRequest(http.MethodGet, "/intake/health", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	var resp map[string]intake.ConnState
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	require.Equal(t, intake.ConnConnected, resp["state"])
}

func TestIntakeHandler_ToastLifecycle(t *testing.T) {
	t.Parallel()

	h, toasts := newIntakeHandler(nil)

	rr := httptest.NewRecorder()
	h.Toast(rr, httptest.NewRequest(http.MethodGet, "/intake/toast", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	var resp toastResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	require.Nil(t, resp.Toast)

	toasts.Show(intake.Notification{
		OrderID:      testOrderID,
		Number:       12,
		CustomerName: "Jan",
		Total:        decimal.RequireFromString("18.00"),
	})

	rr = httptest.NewRecorder()
	h.Toast(rr, httptest.NewRequest(http.MethodGet, "/intake/toast", nil))
	resp = toastResponse{}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	require.NotNil(t, resp.Toast)
	require.Equal(t, 12, resp.Toast.Notification.Number)

	rr = httptest.NewRecorder()
	h.DismissToast(rr, httptest.NewRequest(http.MethodDelete, "/intake/toast", nil))
	require.Equal(t, http.StatusNoContent, rr.Code)
	require.Nil(t, toasts.Current())
}
