package http

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"EstateRef-Backend/internal/domain"
	"EstateRef-Backend/internal/repository"
	"EstateRef-Backend/internal/service"
)

// AdminHandler exposes back-office operations, guarded by a static API key.
type AdminHandler struct {
	apiKey     string
	affiliates *service.AffiliateService
	leads      *service.LeadService
	log        *zap.Logger
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(apiKey string, affiliates *service.AffiliateService, leads *service.LeadService, log *zap.Logger) *AdminHandler {
	return &AdminHandler{
		apiKey:     apiKey,
		affiliates: affiliates,
		leads:      leads,
		log:        log,
	}
}

// RequireKey rejects requests without the admin API key. An empty configured
// key disables the admin surface entirely.
func (h *AdminHandler) RequireKey(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		provided := r.Header.Get("X-Admin-Key")
		if h.apiKey == "" || subtle.ConstantTimeCompare([]byte(provided), []byte(h.apiKey)) != 1 {
			h.log.Debug("admin key rejected", zap.String("path", r.URL.Path))
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	}
}

// AffiliateStatusRequest is the affiliate status change body.
type AffiliateStatusRequest struct {
	Status string `json:"status"`
}

// HandleAffiliates routes /api/admin/affiliates/{id}/status.
//
//	@Summary		Change affiliate status
//	@Description	Approve or block an affiliate account
//	@Tags			Admin
//	@Accept			json
//	@Param			id		path	int						true	"Affiliate ID"
//	@Param			request	body	AffiliateStatusRequest	true	"Target status: active or blocked"
//	@Success		204
//	@Failure		403	{object}	map[string]string	"Admin key required"
//	@Failure		404	{object}	map[string]string	"Affiliate not found"
//	@Router			/api/admin/affiliates/{id}/status [patch]
func (h *AdminHandler) HandleAffiliates(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPatch {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id, ok := pathID(r.URL.Path, "/api/admin/affiliates/", "/status")
	if !ok {
		http.NotFound(w, r)
		return
	}

	var req AffiliateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request format", "", http.StatusBadRequest)
		return
	}

	var err error
	switch domain.AffiliateStatus(req.Status) {
	case domain.AffiliateStatusActive:
		err = h.affiliates.Approve(r.Context(), id)
	case domain.AffiliateStatusBlocked:
		err = h.affiliates.Block(r.Context(), id)
	default:
		writeError(w, "status must be active or blocked", "status", http.StatusBadRequest)
		return
	}

	if err != nil {
		if errors.Is(err, repository.ErrAffiliateNotFound) {
			http.NotFound(w, r)
			return
		}
		h.log.Error("failed to change affiliate status", zap.Int64("affiliate_id", id), zap.Error(err))
		writeError(w, "Internal server error", "", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// LeadStatusRequest is the lead status change body.
type LeadStatusRequest struct {
	Status string `json:"status"`
}

// HandleLeads routes /api/admin/leads/{id}/status.
//
//	@Summary		Change lead status
//	@Description	Move a lead through its workflow (new, follow_up, survey, closed, lost)
//	@Tags			Admin
//	@Accept			json
//	@Produce		json
//	@Param			id		path		int					true	"Lead ID"
//	@Param			request	body		LeadStatusRequest	true	"Target status"
//	@Success		200		{object}	LeadResponse
//	@Failure		403		{object}	map[string]string	"Admin key required"
//	@Failure		404		{object}	map[string]string	"Lead not found"
//	@Failure		422		{object}	map[string]string	"Invalid transition"
//	@Router			/api/admin/leads/{id}/status [patch]
func (h *AdminHandler) HandleLeads(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPatch {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id, ok := pathID(r.URL.Path, "/api/admin/leads/", "/status")
	if !ok {
		http.NotFound(w, r)
		return
	}

	var req LeadStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request format", "", http.StatusBadRequest)
		return
	}

	status, err := domain.ParseLeadStatus(req.Status)
	if err != nil {
		writeError(w, err.Error(), "status", http.StatusBadRequest)
		return
	}

	lead, err := h.leads.ChangeStatus(r.Context(), id, status)
	if err != nil {
		var vErr *service.ValidationError
		switch {
		case errors.Is(err, repository.ErrLeadNotFound):
			http.NotFound(w, r)
		case errors.As(err, &vErr):
			writeError(w, vErr.Message, vErr.Field, http.StatusUnprocessableEntity)
		default:
			h.log.Error("failed to change lead status", zap.Int64("lead_id", id), zap.Error(err))
			writeError(w, "Internal server error", "", http.StatusInternalServerError)
		}
		return
	}

	writeJSON(w, leadResponse(lead), http.StatusOK)
}

// pathID extracts the numeric id between a prefix and suffix of the path.
func pathID(path, prefix, suffix string) (int64, bool) {
	rest := strings.TrimPrefix(path, prefix)
	if rest == path || !strings.HasSuffix(rest, suffix) {
		return 0, false
	}
	raw := strings.TrimSuffix(rest, suffix)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
