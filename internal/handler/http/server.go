// Package http wires the HTTP surface: the public catalog behind attribution
// tracking, lead capture, affiliate auth and metrics, and the admin API.
package http

import (
	"net/http"
	"strings"

	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"

	"EstateRef-Backend/internal/analytics"
	"EstateRef-Backend/internal/auth"
	"EstateRef-Backend/internal/config"
	"EstateRef-Backend/internal/repository"
	"EstateRef-Backend/internal/service"
	"EstateRef-Backend/internal/visits"
)

// Server bundles all HTTP handlers and middleware.
type Server struct {
	authHandlers    *auth.Handlers
	listingsHandler *ListingsHandler
	leadsHandler    *LeadsHandler
	metricsHandler  *MetricsHandler
	adminHandler    *AdminHandler
	healthHandler   *HealthHandler
	attribution     *AttributionMiddleware
	authMiddleware  *auth.Middleware
	log             *zap.Logger
}

// NewServer creates the HTTP server wiring.
func NewServer(
	cfg *config.Config,
	storage repository.Storage,
	affiliates *service.AffiliateService,
	leads *service.LeadService,
	aggregator *analytics.Aggregator,
	recorder *visits.Recorder,
	jwtService *auth.JWTService,
	passwordService *auth.PasswordService,
	log *zap.Logger,
) *Server {
	return &Server{
		authHandlers:    auth.NewHandlers(storage, affiliates, jwtService, passwordService, log),
		listingsHandler: NewListingsHandler(storage, log),
		leadsHandler:    NewLeadsHandler(leads, log),
		metricsHandler:  NewMetricsHandler(aggregator, log),
		adminHandler:    NewAdminHandler(cfg.HTTPServer.AdminAPIKey, affiliates, leads, log),
		healthHandler:   NewHealthHandler(storage, log),
		attribution:     NewAttributionMiddleware(&cfg.Attribution, affiliates, recorder, log),
		authMiddleware:  auth.NewMiddleware(jwtService, log),
		log:             log,
	}
}

// SetupRoutes configures the route table.
func (s *Server) SetupRoutes() http.Handler {
	mux := http.NewServeMux()

	// Health checks (no auth)
	mux.HandleFunc("/health", s.healthHandler.Health)
	mux.HandleFunc("/ready", s.healthHandler.Ready)

	// Swagger documentation
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	// Auth endpoints (no auth)
	mux.HandleFunc("/api/auth/register", s.withCORS(s.authHandlers.Register))
	mux.HandleFunc("/api/auth/login", s.withCORS(s.authHandlers.Login))

	// Public catalog, behind attribution tracking
	mux.HandleFunc("/api/listings", s.withCORS(s.attribution.Tracked(s.listingsHandler.List, noListingRef)))
	mux.HandleFunc("/api/listings/", s.withCORS(s.attribution.Tracked(s.listingsHandler.GetBySlug, slugListingRef)))

	// Lead capture resolves attribution but is not itself a page view
	mux.HandleFunc("/api/leads", s.withCORS(s.attribution.Resolve(s.leadsHandler.Create)))

	// Affiliate dashboard (JWT auth)
	mux.HandleFunc("/api/affiliate/metrics", s.withCORS(s.authMiddleware.RequireAuth(s.metricsHandler.AffiliateMetrics)))

	// Admin API (static key)
	mux.HandleFunc("/api/admin/metrics", s.withCORS(s.adminHandler.RequireKey(s.metricsHandler.GlobalMetrics)))
	mux.HandleFunc("/api/admin/affiliates/", s.withCORS(s.adminHandler.RequireKey(s.adminHandler.HandleAffiliates)))
	mux.HandleFunc("/api/admin/leads/", s.withCORS(s.adminHandler.RequireKey(s.adminHandler.HandleLeads)))

	return mux
}

// noListingRef marks routes without an associated listing.
func noListingRef(_ *http.Request) visits.ListingRef {
	return visits.NoListing{}
}

// slugListingRef derives the listing slug from a /api/listings/{slug} path.
func slugListingRef(r *http.Request) visits.ListingRef {
	slug := strings.TrimPrefix(r.URL.Path, "/api/listings/")
	if slug == "" || strings.Contains(slug, "/") {
		return visits.NoListing{}
	}
	return visits.ListingSlug{Slug: slug}
}

// withCORS adds CORS headers to a handler.
func (s *Server) withCORS(handler http.HandlerFunc) http.HandlerFunc {
	return s.authMiddleware.CORS(handler)
}
