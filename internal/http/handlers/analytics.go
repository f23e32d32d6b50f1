package handlers

import (
	"net/http"
	"time"

	"orderdesk/internal/logx"
	"orderdesk/internal/service/analytics"
)

// AnalyticsHandler computes reports over the full order collection on
// demand. Reports are snapshots; nothing is cached between requests.
type AnalyticsHandler struct {
	orders  orderReader
	catalog menuCatalog
	logger  logx.Logger
	now     func() time.Time
}

// NewAnalyticsHandler wires the order store and menu catalog into the
// report endpoint.
func NewAnalyticsHandler(logger logx.Logger, orders orderReader, catalog menuCatalog) *AnalyticsHandler {
	return &AnalyticsHandler{
		orders:  orders,
		catalog: catalog,
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Report handles GET /analytics/report.
//
// Query parameters:
//
//	from, to    inclusive calendar days (2006-01-02); default last 7 days
//	range=all   disables the date filter
//	granularity week (default) or month, sets the trend window
func (h *AnalyticsHandler) Report(w http.ResponseWriter, r *http.Request) {
	opts, ok := h.parseOptions(w, r)
	if !ok {
		return
	}

	orders, err := h.orders.List(r.Context())
	if err != nil {
		writeError(h.logger, w, r, http.StatusInternalServerError, "internal error")
		return
	}
	catalog, err := h.catalog.List(r.Context())
	if err != nil {
		writeError(h.logger, w, r, http.StatusInternalServerError, "internal error")
		return
	}

	report := analytics.Compute(h.now(), orders, catalog, opts)
	writeJSON(h.logger, w, r, http.StatusOK, report)
}

type activeCountResponse struct {
	ActiveCount int `json:"active_count"`
}

// Active handles GET /analytics/active, the live in-flight order count.
func (h *AnalyticsHandler) Active(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.List(r.Context())
	if err != nil {
		writeError(h.logger, w, r, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, activeCountResponse{ActiveCount: analytics.ActiveCount(orders)})
}

func (h *AnalyticsHandler) parseOptions(w http.ResponseWriter, r *http.Request) (analytics.Options, bool) {
	q := r.URL.Query()

	opts := analytics.Options{Granularity: analytics.GranularityWeek}
	switch g := q.Get("granularity"); g {
	case "", string(analytics.GranularityWeek):
	case string(analytics.GranularityMonth):
		opts.Granularity = analytics.GranularityMonth
	default:
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid granularity")
		return opts, false
	}

	if q.Get("range") == "all" {
		return opts, true
	}

	fromStr, toStr := q.Get("from"), q.Get("to")
	if fromStr == "" && toStr == "" {
		opts.Range = analytics.LastDays(h.now(), 7)
		return opts, true
	}
	if fromStr == "" || toStr == "" {
		writeError(h.logger, w, r, http.StatusBadRequest, "from and to must be given together")
		return opts, false
	}

	from, err := time.Parse(time.DateOnly, fromStr)
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid from date")
		return opts, false
	}
	to, err := time.Parse(time.DateOnly, toStr)
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid to date")
		return opts, false
	}
	if to.Before(from) {
		writeError(h.logger, w, r, http.StatusBadRequest, "to is before from")
		return opts, false
	}

	opts.Range = &analytics.DateRange{Start: from, End: to}
	return opts, true
}
