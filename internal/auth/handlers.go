package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"EstateRef-Backend/internal/domain"
	"EstateRef-Backend/internal/repository"
	"EstateRef-Backend/internal/service"
)

// Handlers implements affiliate registration and login.
type Handlers struct {
	storage         repository.Storage
	affiliates      *service.AffiliateService
	jwtService      *JWTService
	passwordService *PasswordService
	log             *zap.Logger
}

// NewHandlers creates the authentication handlers.
func NewHandlers(storage repository.Storage, affiliates *service.AffiliateService, jwtService *JWTService, passwordService *PasswordService, log *zap.Logger) *Handlers {
	return &Handlers{
		storage:         storage,
		affiliates:      affiliates,
		jwtService:      jwtService,
		passwordService: passwordService,
		log:             log,
	}
}

// RegisterRequest is the registration request body.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
	Password string `json:"password"`
}

// LoginRequest is the login request body.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is the successful authentication response.
type AuthResponse struct {
	AccessToken  string        `json:"access_token"`
	RefreshToken string        `json:"refresh_token"`
	Affiliate    AffiliateInfo `json:"affiliate"`
}

// AffiliateInfo is the public view of an affiliate account.
type AffiliateInfo struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	ReferralCode string `json:"referral_code"`
	Status       string `json:"status"`
}

// ErrorResponse is the error body shape.
type ErrorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// Register creates a new affiliate account.
//
//	@Summary		Register a new affiliate
//	@Description	Create a new affiliate account; it stays pending until approved
//	@Tags			Authentication
//	@Accept			json
//	@Produce		json
//	@Param			request	body		RegisterRequest	true	"Registration request"
//	@Success		201		{object}	AffiliateInfo	"Affiliate registered, pending approval"
//	@Failure		400		{object}	ErrorResponse	"Invalid request data"
//	@Failure		409		{object}	ErrorResponse	"Email already registered"
//	@Router			/api/auth/register [post]
func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Debug("invalid registration request", zap.Error(err))
		h.writeError(w, "Invalid request format", "", http.StatusBadRequest)
		return
	}

	if err := IsValidPassword(req.Password); err != nil {
		h.writeError(w, err.Error(), "password", http.StatusBadRequest)
		return
	}

	affiliate, err := h.affiliates.Register(r.Context(), service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: req.Password,
	})
	if err != nil {
		var vErr *service.ValidationError
		switch {
		case errors.As(err, &vErr):
			h.writeError(w, vErr.Message, vErr.Field, http.StatusBadRequest)
		case errors.Is(err, repository.ErrEmailExists):
			h.writeError(w, "An account with this email already exists", "email", http.StatusConflict)
		default:
			h.log.Error("failed to register affiliate", zap.Error(err))
			h.writeError(w, "Internal server error", "", http.StatusInternalServerError)
		}
		return
	}

	// No tokens on registration: pending accounts cannot log in yet.
	h.writeJSON(w, affiliateInfo(affiliate), http.StatusCreated)
}

// Login authenticates an active affiliate.
//
//	@Summary		Login affiliate
//	@Description	Authenticate an approved affiliate and receive JWT tokens
//	@Tags			Authentication
//	@Accept			json
//	@Produce		json
//	@Param			request	body		LoginRequest	true	"Login request"
//	@Success		200		{object}	AuthResponse	"Login successful"
//	@Failure		401		{object}	ErrorResponse	"Invalid credentials"
//	@Failure		403		{object}	ErrorResponse	"Account not active"
//	@Router			/api/auth/login [post]
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Debug("invalid login request", zap.Error(err))
		h.writeError(w, "Invalid request format", "", http.StatusBadRequest)
		return
	}

	affiliate, err := h.storage.GetAffiliateByEmail(r.Context(), normalizeEmail(req.Email))
	if err != nil {
		h.log.Debug("affiliate not found for login", zap.String("email", req.Email))
		h.writeError(w, "Invalid email or password", "", http.StatusUnauthorized)
		return
	}

	if err := h.passwordService.VerifyPassword(affiliate.PasswordHash, req.Password); err != nil {
		h.log.Debug("invalid password", zap.Int64("affiliate_id", affiliate.ID))
		h.writeError(w, "Invalid email or password", "", http.StatusUnauthorized)
		return
	}

	if !affiliate.IsActive() {
		h.log.Debug("login for non-active affiliate",
			zap.Int64("affiliate_id", affiliate.ID),
			zap.String("status", string(affiliate.Status)))
		h.writeError(w, "Account is not active", "", http.StatusForbidden)
		return
	}

	accessToken, err := h.jwtService.GenerateAccessToken(affiliate.ID, affiliate.Email)
	if err != nil {
		h.log.Error("failed to generate access token", zap.Error(err))
		h.writeError(w, "Internal server error", "", http.StatusInternalServerError)
		return
	}

	refreshToken, err := h.jwtService.GenerateRefreshToken(affiliate.ID, affiliate.Email)
	if err != nil {
		h.log.Error("failed to generate refresh token", zap.Error(err))
		h.writeError(w, "Internal server error", "", http.StatusInternalServerError)
		return
	}

	h.log.Info("affiliate logged in", zap.Int64("affiliate_id", affiliate.ID))
	h.writeJSON(w, AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		Affiliate:    affiliateInfo(affiliate),
	}, http.StatusOK)
}

func affiliateInfo(a *domain.Affiliate) AffiliateInfo {
	return AffiliateInfo{
		ID:           a.ID,
		Name:         a.Name,
		Email:        a.Email,
		ReferralCode: a.ReferralCode,
		Status:       string(a.Status),
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (h *Handlers) writeJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

func (h *Handlers) writeError(w http.ResponseWriter, message, field string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{Error: message, Field: field})
}
