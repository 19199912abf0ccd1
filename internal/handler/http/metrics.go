package http

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"EstateRef-Backend/internal/analytics"
	"EstateRef-Backend/internal/auth"
)

var errRangeInverted = errors.New("end date must not be before start date")

func errInvalidDate(field string) error {
	return fmt.Errorf("invalid %s date, expected YYYY-MM-DD", field)
}

// MetricsHandler serves conversion metrics for affiliates and admins.
type MetricsHandler struct {
	aggregator *analytics.Aggregator
	log        *zap.Logger
}

// NewMetricsHandler creates a new metrics handler.
func NewMetricsHandler(aggregator *analytics.Aggregator, log *zap.Logger) *MetricsHandler {
	return &MetricsHandler{
		aggregator: aggregator,
		log:        log,
	}
}

// AffiliateMetrics returns metrics scoped to the authenticated affiliate.
//
//	@Summary		Affiliate metrics
//	@Description	Returns the authenticated affiliate's visit and lead metrics for a date range
//	@Tags			Analytics
//	@Produce		json
//	@Security		BearerAuth
//	@Param			start	query		string	false	"Start date (YYYY-MM-DD), defaults to 30 days ago"
//	@Param			end		query		string	false	"End date (YYYY-MM-DD), defaults to today"
//	@Success		200		{object}	analytics.MetricSnapshot
//	@Failure		400		{object}	map[string]string	"Invalid date range"
//	@Failure		401		{object}	map[string]string	"Authorization required"
//	@Router			/api/affiliate/metrics [get]
func (h *MetricsHandler) AffiliateMetrics(w http.ResponseWriter, r *http.Request) {
	affiliateID, ok := auth.GetAffiliateIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Authorization required", http.StatusUnauthorized)
		return
	}
	h.serve(w, r, affiliateID)
}

// GlobalMetrics returns metrics across all affiliates; admin only.
//
//	@Summary		Global metrics
//	@Description	Returns global conversion metrics, top listings and top affiliates
//	@Tags			Analytics
//	@Produce		json
//	@Param			start	query		string	false	"Start date (YYYY-MM-DD), defaults to 30 days ago"
//	@Param			end		query		string	false	"End date (YYYY-MM-DD), defaults to today"
//	@Success		200		{object}	analytics.MetricSnapshot
//	@Failure		400		{object}	map[string]string	"Invalid date range"
//	@Failure		403		{object}	map[string]string	"Admin key required"
//	@Router			/api/admin/metrics [get]
func (h *MetricsHandler) GlobalMetrics(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, analytics.GlobalScope)
}

func (h *MetricsHandler) serve(w http.ResponseWriter, r *http.Request, scope int64) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	start, end, err := parseDateRange(r)
	if err != nil {
		writeError(w, err.Error(), "", http.StatusBadRequest)
		return
	}

	snapshot, err := h.aggregator.GetMetrics(r.Context(), scope, start, end)
	if err != nil {
		h.log.Error("failed to compute metrics",
			zap.Int64("scope", scope),
			zap.Error(err))
		writeError(w, "Internal server error", "", http.StatusInternalServerError)
		return
	}

	writeJSON(w, snapshot, http.StatusOK)
}

// parseDateRange reads start/end query dates, defaulting to the last 30 days.
func parseDateRange(r *http.Request) (time.Time, time.Time, error) {
	const layout = "2006-01-02"
	now := time.Now().UTC()

	start := now.AddDate(0, 0, -30)
	end := now

	if raw := r.URL.Query().Get("start"); raw != "" {
		parsed, err := time.Parse(layout, raw)
		if err != nil {
			return time.Time{}, time.Time{}, errInvalidDate("start")
		}
		start = parsed
	}
	if raw := r.URL.Query().Get("end"); raw != "" {
		parsed, err := time.Parse(layout, raw)
		if err != nil {
			return time.Time{}, time.Time{}, errInvalidDate("end")
		}
		end = parsed
	}

	if end.Before(start) {
		return time.Time{}, time.Time{}, errRangeInverted
	}
	return start, end, nil
}
