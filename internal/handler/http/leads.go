package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"EstateRef-Backend/internal/domain"
	"EstateRef-Backend/internal/service"
)

// LeadsHandler accepts contact-form submissions.
type LeadsHandler struct {
	leads *service.LeadService
	log   *zap.Logger
}

// NewLeadsHandler creates a new leads handler.
func NewLeadsHandler(leads *service.LeadService, log *zap.Logger) *LeadsHandler {
	return &LeadsHandler{
		leads: leads,
		log:   log,
	}
}

// CreateLeadRequest is the lead submission body.
type CreateLeadRequest struct {
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	ListingID int64  `json:"listing_id"`
	Notes     string `json:"notes,omitempty"`
}

// LeadResponse is the public view of a created lead.
type LeadResponse struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	ListingID int64  `json:"listing_id"`
	Status    string `json:"status"`
}

// Create records a new lead. The affiliate credit, if any, comes from the
// attribution resolved for the request, never from the request body.
//
//	@Summary		Submit a lead
//	@Description	Record a contact-form submission for a listing
//	@Tags			Leads
//	@Accept			json
//	@Produce		json
//	@Param			request	body		CreateLeadRequest	true	"Lead submission"
//	@Success		201		{object}	LeadResponse
//	@Failure		422		{object}	map[string]string	"Validation failed"
//	@Router			/api/leads [post]
func (h *LeadsHandler) Create(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req CreateLeadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Debug("invalid lead request", zap.Error(err))
		writeError(w, "Invalid request format", "", http.StatusBadRequest)
		return
	}

	lead, err := h.leads.SubmitLead(r.Context(), service.SubmitLeadInput{
		Name:        req.Name,
		Phone:       req.Phone,
		ListingID:   req.ListingID,
		AffiliateID: AttributedAffiliate(r.Context()),
		Notes:       req.Notes,
	})
	if err != nil {
		var vErr *service.ValidationError
		if errors.As(err, &vErr) {
			writeError(w, vErr.Message, vErr.Field, http.StatusUnprocessableEntity)
			return
		}
		h.log.Error("failed to submit lead", zap.Error(err))
		writeError(w, "Internal server error", "", http.StatusInternalServerError)
		return
	}

	writeJSON(w, leadResponse(lead), http.StatusCreated)
}

func leadResponse(l *domain.Lead) LeadResponse {
	return LeadResponse{
		ID:        l.ID,
		Name:      l.Name,
		Phone:     l.Phone,
		ListingID: l.ListingID,
		Status:    string(l.Status),
	}
}
