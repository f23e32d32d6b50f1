package handlers

import (
	"errors"
	"net/http"

	"orderdesk/internal/apperr"
	"orderdesk/internal/logx"
)

// OrderHandler serves HTTP endpoints for order resources.
type OrderHandler struct {
	orders   orderReader
	flow     orderflowUsecase
	dispatch dispatchUsecase
	logger   logx.Logger
}

// NewOrderHandler wires the order store and the lifecycle/dispatch usecases
// into HTTP handlers.
func NewOrderHandler(logger logx.Logger, orders orderReader, flow orderflowUsecase, dispatch dispatchUsecase) *OrderHandler {
	return &OrderHandler{
		orders:   orders,
		flow:     flow,
		dispatch: dispatch,
		logger:   logger,
	}
}

// List handles GET /orders.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.orders.List(r.Context())
	if err != nil {
		writeError(h.logger, w, r, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, ordersToResponse(list, h.dispatch))
}

// GetByID handles GET /order/{id}.
func (h *OrderHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := orderIDFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid order id")
		return
	}

	o, err := h.orders.Get(r.Context(), id)
	if err != nil {
		writeError(h.logger, w, r, http.StatusInternalServerError, "internal error")
		return
	}
	if o == nil {
		writeError(h.logger, w, r, http.StatusNotFound, "order not found")
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, orderToResponse(o, h.dispatch))
}

// UpdateStatus handles POST /order/{id}/status. The request carries the
// caller's last seen version; a stale one answers 409 so the client
// refreshes instead of overwriting newer state.
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := orderIDFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid order id")
		return
	}
	var req updateStatusRequest
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}

	o, err := h.flow.ApplyTransition(r.Context(), id, req.Status, req.Version)
	switch {
	case err == nil:
		writeJSON(h.logger, w, r, http.StatusOK, orderToResponse(o, h.dispatch))
	case errors.Is(err, apperr.ErrInvalid):
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid status")
	case errors.Is(err, apperr.ErrInvalidTransition):
		writeError(h.logger, w, r, http.StatusConflict, "transition not allowed")
	case errors.Is(err, apperr.ErrConflict):
		writeError(h.logger, w, r, http.StatusConflict, "order changed, refresh and retry")
	case errors.Is(err, apperr.ErrNotFound):
		writeError(h.logger, w, r, http.StatusNotFound, "order not found")
	default:
		writeError(h.logger, w, r, http.StatusInternalServerError, "internal error")
	}
}

// MarkPrinted handles POST /order/{id}/printed.
func (h *OrderHandler) MarkPrinted(w http.ResponseWriter, r *http.Request) {
	id, err := orderIDFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid order id")
		return
	}

	o, err := h.flow.MarkPrinted(r.Context(), id)
	switch {
	case err == nil:
		writeJSON(h.logger, w, r, http.StatusOK, orderToResponse(o, h.dispatch))
	case errors.Is(err, apperr.ErrConflict):
		writeError(h.logger, w, r, http.StatusConflict, "order changed, refresh and retry")
	case errors.Is(err, apperr.ErrNotFound):
		writeError(h.logger, w, r, http.StatusNotFound, "order not found")
	default:
		writeError(h.logger, w, r, http.StatusInternalServerError, "internal error")
	}
}

// AppendNote handles POST /order/{id}/notes.
func (h *OrderHandler) AppendNote(w http.ResponseWriter, r *http.Request) {
	id, err := orderIDFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid order id")
		return
	}
	var req appendNoteRequest
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}

	note, err := h.flow.AppendNote(r.Context(), id, req.Author, req.Text)
	switch {
	case err == nil:
		writeJSON(h.logger, w, r, http.StatusCreated, note)
	case errors.Is(err, apperr.ErrInvalid):
		writeError(h.logger, w, r, http.StatusBadRequest, "note text required")
	case errors.Is(err, apperr.ErrNotFound):
		writeError(h.logger, w, r, http.StatusNotFound, "order not found")
	default:
		writeError(h.logger, w, r, http.StatusInternalServerError, "internal error")
	}
}

// AssignDriver handles PUT /order/{id}/driver. A null driver_id unassigns.
func (h *OrderHandler) AssignDriver(w http.ResponseWriter, r *http.Request) {
	id, err := orderIDFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid order id")
		return
	}
	var req assignDriverRequest
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}

	err = h.dispatch.AssignDriver(r.Context(), id, req.DriverID)
	switch {
	case err == nil:
		writeJSON(h.logger, w, r, http.StatusOK, map[string]string{"status": "ok"})
	case errors.Is(err, apperr.ErrInvalid):
		writeError(h.logger, w, r, http.StatusBadRequest, "driver not assignable")
	case errors.Is(err, apperr.ErrNotFound):
		writeError(h.logger, w, r, http.StatusNotFound, "not found")
	default:
		writeError(h.logger, w, r, http.StatusInternalServerError, "internal error")
	}
}

// StartDelivery handles POST /order/{id}/delivery.
func (h *OrderHandler) StartDelivery(w http.ResponseWriter, r *http.Request) {
	id, err := orderIDFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid order id")
		return
	}
	var req startDeliveryRequest
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}

	o, err := h.dispatch.StartDelivery(r.Context(), id, req.EstimatedMinutes)
	switch {
	case err == nil:
		writeJSON(h.logger, w, r, http.StatusOK, orderToResponse(o, h.dispatch))
	case errors.Is(err, apperr.ErrInvalid):
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid input")
	case errors.Is(err, apperr.ErrInvalidTransition):
		writeError(h.logger, w, r, http.StatusConflict, "order is not being prepared")
	case errors.Is(err, apperr.ErrConflict):
		writeError(h.logger, w, r, http.StatusConflict, "order changed, refresh and retry")
	case errors.Is(err, apperr.ErrNotFound):
		writeError(h.logger, w, r, http.StatusNotFound, "order not found")
	default:
		writeError(h.logger, w, r, http.StatusInternalServerError, "internal error")
	}
}
