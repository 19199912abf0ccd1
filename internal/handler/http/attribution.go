package http

import (
	"context"
	"net"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"EstateRef-Backend/internal/attribution"
	"EstateRef-Backend/internal/config"
	"EstateRef-Backend/internal/service"
	"EstateRef-Backend/internal/visits"
)

type contextKey string

// attributedAffiliateKey holds the affiliate id resolved for the request, if
// any.
const attributedAffiliateKey contextKey = "attributed_affiliate"

// AttributionMiddleware resolves the referring affiliate for public traffic,
// maintains the session cookie and records visit events.
type AttributionMiddleware struct {
	cfg        *config.Attribution
	affiliates *service.AffiliateService
	recorder   *visits.Recorder
	log        *zap.Logger
}

// NewAttributionMiddleware creates the attribution middleware.
func NewAttributionMiddleware(cfg *config.Attribution, affiliates *service.AffiliateService, recorder *visits.Recorder, log *zap.Logger) *AttributionMiddleware {
	return &AttributionMiddleware{
		cfg:        cfg,
		affiliates: affiliates,
		recorder:   recorder,
		log:        log,
	}
}

// ListingRefFunc derives the listing reference for a tracked route.
type ListingRefFunc func(r *http.Request) visits.ListingRef

// Resolve attaches attribution to the request without recording a visit.
// Lead submissions use this: the form post itself is not a page view.
func (m *AttributionMiddleware) Resolve(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res := m.resolve(w, r)
		next.ServeHTTP(w, r.WithContext(m.withAttribution(r.Context(), res)))
	}
}

// Tracked attaches attribution and records a visit for attributed traffic.
// Partial-update requests (HX-Request header) refresh fragments of a page the
// visitor is already on; they bypass resolution entirely: no lookup, no
// cookie write, no visit.
func (m *AttributionMiddleware) Tracked(next http.HandlerFunc, refFor ListingRefFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("HX-Request") != "" {
			next.ServeHTTP(w, r)
			return
		}

		res := m.resolve(w, r)

		if res.Attributed() {
			m.recorder.Record(r.Context(), visits.RecordInput{
				AffiliateID: res.AffiliateID,
				Listing:     refFor(r),
				IPAddress:   extractIPAddress(r),
				UserAgent:   r.UserAgent(),
				URL:         r.URL.Path,
			})
		}

		next.ServeHTTP(w, r.WithContext(m.withAttribution(r.Context(), res)))
	}
}

// resolve runs attribution for one request and refreshes the session cookie
// when an explicit referral code matched.
func (m *AttributionMiddleware) resolve(w http.ResponseWriter, r *http.Request) attribution.Resolution {
	rc := attribution.RequestContext{
		RefCode: r.URL.Query().Get(m.cfg.RefParam),
	}
	if cookie, err := r.Cookie(m.cfg.CookieName); err == nil {
		rc.TokenValue = cookie.Value
	}

	res := attribution.Resolve(rc, m.affiliates.LookupActiveCode(r.Context()))

	if res.WriteToken {
		http.SetCookie(w, &http.Cookie{
			Name:     m.cfg.CookieName,
			Value:    attribution.TokenValue(res.AffiliateID),
			Path:     "/",
			MaxAge:   m.cfg.CookieTTLMin * 60,
			Expires:  time.Now().Add(time.Duration(m.cfg.CookieTTLMin) * time.Minute),
			HttpOnly: true,
			Secure:   m.cfg.CookieSecure,
			SameSite: http.SameSiteLaxMode,
		})
		m.log.Debug("attribution cookie written",
			zap.Int64("affiliate_id", res.AffiliateID))
	}

	return res
}

func (m *AttributionMiddleware) withAttribution(ctx context.Context, res attribution.Resolution) context.Context {
	if !res.Attributed() {
		return ctx
	}
	return context.WithValue(ctx, attributedAffiliateKey, res.AffiliateID)
}

// AttributedAffiliate returns the affiliate id resolved for the request, nil
// when the visitor arrived unattributed.
func AttributedAffiliate(ctx context.Context) *int64 {
	if id, ok := ctx.Value(attributedAffiliateKey).(int64); ok {
		return &id
	}
	return nil
}

// extractIPAddress extracts the client IP, honoring proxy headers.
func extractIPAddress(r *http.Request) string {
	if ip := r.Header.Get("X-Forwarded-For"); ip != "" {
		ips := strings.Split(ip, ",")
		if len(ips) > 0 {
			return strings.TrimSpace(ips[0])
		}
	}

	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return strings.TrimSpace(ip)
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}
