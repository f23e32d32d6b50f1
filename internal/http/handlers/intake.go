package handlers

import (
	"net/http"

	"orderdesk/internal/logx"
	"orderdesk/internal/service/intake"
)

// IntakeHandler exposes the intake monitor's presentation state: the
// connectivity indicator and the single notification toast.
type IntakeHandler struct {
	health *intake.HealthIndicator
	toasts *intake.ToastManager
	logger logx.Logger
}

// NewIntakeHandler wires the health indicator and toast manager into HTTP handlers.
func NewIntakeHandler(logger logx.Logger, health *intake.HealthIndicator, toasts *intake.ToastManager) *IntakeHandler {
	return &IntakeHandler{
		health: health,
		toasts: toasts,
		logger: logger,
	}
}

// Health handles GET /intake/health.
func (h *IntakeHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(h.logger, w, r, http.StatusOK, map[string]intake.ConnState{
		"state": h.health.State(),
	})
}

type toastResponse struct {
	Toast *intake.Toast `json:"toast"`
}

// Toast handles GET /intake/toast; the toast is null when none is visible.
func (h *IntakeHandler) Toast(w http.ResponseWriter, r *http.Request) {
	writeJSON(h.logger, w, r, http.StatusOK, toastResponse{Toast: h.toasts.Current()})
}

// DismissToast handles DELETE /intake/toast.
func (h *IntakeHandler) DismissToast(w http.ResponseWriter, _ *http.Request) {
	h.toasts.Dismiss()
	w.WriteHeader(http.StatusNoContent)
}
