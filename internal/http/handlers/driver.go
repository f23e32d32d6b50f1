package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"orderdesk/internal/apperr"
	"orderdesk/internal/domain"
	"orderdesk/internal/logx"
)

// DriverHandler serves HTTP endpoints for driver resources.
type DriverHandler struct {
	registry driverRegistry
	dispatch dispatchUsecase
	logger   logx.Logger
}

// NewDriverHandler wires the driver registry and dispatch usecase into HTTP handlers.
func NewDriverHandler(logger logx.Logger, registry driverRegistry, dispatch dispatchUsecase) *DriverHandler {
	return &DriverHandler{
		registry: registry,
		dispatch: dispatch,
		logger:   logger,
	}
}

// GetByID handles GET /driver/{id}.
func (h *DriverHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid id")
		return
	}

	d, err := h.registry.Get(r.Context(), id)
	if err != nil {
		writeError(h.logger, w, r, http.StatusInternalServerError, "internal error")
		return
	}
	if d == nil {
		writeError(h.logger, w, r, http.StatusNotFound, "driver not found")
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, driverToResponse(*d))
}

// List handles GET /drivers.
func (h *DriverHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.registry.List(r.Context())
	if err != nil {
		writeError(h.logger, w, r, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, driversToResponse(list))
}

// Candidates handles GET /drivers/candidates: the drivers an operator may
// assign to a delivery right now.
func (h *DriverHandler) Candidates(w http.ResponseWriter, r *http.Request) {
	list, err := h.dispatch.Candidates(r.Context())
	if err != nil {
		writeError(h.logger, w, r, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, driversToResponse(list))
}

// Create handles POST /driver.
func (h *DriverHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createDriverRequest
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" || !domain.ValidatePhone(req.Phone) {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid input")
		return
	}

	id, err := h.registry.Create(r.Context(), &domain.Driver{Name: req.Name, Phone: req.Phone})
	switch {
	case err == nil:
		w.Header().Set("Location", "/driver/"+strconv.FormatInt(id, 10))
		writeJSON(h.logger, w, r, http.StatusCreated, map[string]any{"id": id})
	case errors.Is(err, apperr.ErrConflict):
		writeError(h.logger, w, r, http.StatusConflict, "phone already exists")
	default:
		writeError(h.logger, w, r, http.StatusInternalServerError, "internal error")
	}
}

// Update handles PUT /driver with partial updates from the request body.
func (h *DriverHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateDriverRequest
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}
	if req.ID <= 0 {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid id")
		return
	}
	if req.Phone != nil && !domain.ValidatePhone(*req.Phone) {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid phone")
		return
	}

	found, err := h.registry.UpdatePartial(r.Context(), domain.PartialDriverUpdate{
		ID:    req.ID,
		Name:  req.Name,
		Phone: req.Phone,
	})
	switch {
	case err == nil && !found:
		writeError(h.logger, w, r, http.StatusNotFound, "driver not found")
	case err == nil:
		writeJSON(h.logger, w, r, http.StatusOK, map[string]string{"status": "ok"})
	case errors.Is(err, apperr.ErrConflict):
		writeError(h.logger, w, r, http.StatusConflict, "phone already exists")
	default:
		writeError(h.logger, w, r, http.StatusInternalServerError, "internal error")
	}
}

// SetOffline handles POST /driver/{id}/offline. The flag is an operator
// override; it never touches the delivery counters.
func (h *DriverHandler) SetOffline(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid id")
		return
	}
	var req setOfflineRequest
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}

	err = h.registry.SetManuallyOffline(r.Context(), id, req.Offline)
	switch {
	case err == nil:
		writeJSON(h.logger, w, r, http.StatusOK, map[string]string{"status": "ok"})
	case errors.Is(err, apperr.ErrNotFound):
		writeError(h.logger, w, r, http.StatusNotFound, "driver not found")
	default:
		writeError(h.logger, w, r, http.StatusInternalServerError, "internal error")
	}
}

// Delete handles DELETE /driver/{id}. Drivers with outstanding deliveries
// answer 409.
func (h *DriverHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid id")
		return
	}

	err = h.registry.Delete(r.Context(), id)
	switch {
	case err == nil:
		w.WriteHeader(http.StatusNoContent)
	case errors.Is(err, apperr.ErrConflict):
		writeError(h.logger, w, r, http.StatusConflict, "driver has active deliveries")
	case errors.Is(err, apperr.ErrNotFound):
		writeError(h.logger, w, r, http.StatusNotFound, "driver not found")
	default:
		writeError(h.logger, w, r, http.StatusInternalServerError, "internal error")
	}
}
