package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"EstateRef-Backend/internal/domain"
	"EstateRef-Backend/internal/repository"
)

// ListingsHandler serves the public property catalog.
type ListingsHandler struct {
	storage repository.Storage
	log     *zap.Logger
}

// NewListingsHandler creates a new listings handler.
func NewListingsHandler(storage repository.Storage, log *zap.Logger) *ListingsHandler {
	return &ListingsHandler{
		storage: storage,
		log:     log,
	}
}

// ListingResponse is the public view of a listing.
type ListingResponse struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Slug        string  `json:"slug"`
	Location    string  `json:"location"`
	Price       float64 `json:"price"`
	Description string  `json:"description,omitempty"`
}

// List returns all published listings.
//
//	@Summary		List published listings
//	@Description	Returns the public property catalog
//	@Tags			Listings
//	@Produce		json
//	@Param			ref	query		string	false	"Affiliate referral code"
//	@Success		200	{array}		ListingResponse
//	@Router			/api/listings [get]
func (h *ListingsHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	listings, err := h.storage.ListPublishedListings(r.Context())
	if err != nil {
		h.log.Error("failed to list listings", zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	out := make([]ListingResponse, 0, len(listings))
	for _, listing := range listings {
		out = append(out, listingResponse(listing))
	}
	writeJSON(w, out, http.StatusOK)
}

// GetBySlug returns one published listing by its slug.
//
//	@Summary		Get a listing
//	@Description	Returns one published listing by slug
//	@Tags			Listings
//	@Produce		json
//	@Param			slug	path		string	true	"Listing slug"
//	@Param			ref		query		string	false	"Affiliate referral code"
//	@Success		200		{object}	ListingResponse
//	@Failure		404		{object}	map[string]string	"Listing not found"
//	@Router			/api/listings/{slug} [get]
func (h *ListingsHandler) GetBySlug(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	slug := strings.TrimPrefix(r.URL.Path, "/api/listings/")
	if slug == "" || strings.Contains(slug, "/") {
		http.NotFound(w, r)
		return
	}

	listing, err := h.storage.GetListingBySlug(r.Context(), slug)
	if err != nil {
		if errors.Is(err, repository.ErrListingNotFound) {
			http.NotFound(w, r)
			return
		}
		h.log.Error("failed to get listing", zap.String("slug", slug), zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, listingResponse(listing), http.StatusOK)
}

func listingResponse(l *domain.Listing) ListingResponse {
	return ListingResponse{
		ID:          l.ID,
		Title:       l.Title,
		Slug:        l.Slug,
		Location:    l.Location,
		Price:       l.Price,
		Description: l.Description,
	}
}

func writeJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, message, field string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	resp := map[string]string{"error": message}
	if field != "" {
		resp["field"] = field
	}
	json.NewEncoder(w).Encode(resp)
}
