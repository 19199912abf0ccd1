package notifier

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"EstateRef-Backend/internal/config"
	"EstateRef-Backend/internal/domain"
	"EstateRef-Backend/internal/repository"
)

// WhatsAppSender delivers lead notifications over the WATI session-message
// API. The office phone always gets a message; the attributed affiliate gets
// one too when the lead carries an attribution and the affiliate has a phone
// on file.
type WhatsAppSender struct {
	cfg     *config.WhatsApp
	storage repository.Storage
	client  *http.Client
	log     *zap.Logger
}

// NewWhatsAppSender creates a WhatsApp sender backed by the WATI API.
func NewWhatsAppSender(cfg *config.WhatsApp, storage repository.Storage, log *zap.Logger) *WhatsAppSender {
	return &WhatsAppSender{
		cfg:     cfg,
		storage: storage,
		client:  &http.Client{Timeout: 10 * time.Second},
		log:     log,
	}
}

// NotifyLeadCreated sends the office a new-lead message and, when the lead is
// attributed, tells the referring affiliate as well. Partial delivery is an
// error so the dispatcher retries the whole event; the API call is idempotent
// enough that a duplicate message beats a silent miss.
func (s *WhatsAppSender) NotifyLeadCreated(ctx context.Context, lead *domain.Lead) error {
	if !s.cfg.Enabled {
		s.log.Debug("whatsapp notifications disabled, skipping", zap.Int64("lead_id", lead.ID))
		return nil
	}

	listing, err := s.storage.GetListingByID(ctx, lead.ListingID)
	if err != nil {
		return fmt.Errorf("failed to load listing for notification: %w", err)
	}

	if s.cfg.OfficePhone != "" {
		msg := fmt.Sprintf("New lead: %s (%s) is interested in %s.", lead.Name, lead.Phone, listing.Title)
		if err := s.sendSessionMessage(ctx, s.cfg.OfficePhone, msg); err != nil {
			return fmt.Errorf("failed to notify office: %w", err)
		}
	}

	if lead.AffiliateID != nil {
		affiliate, err := s.storage.GetAffiliateByID(ctx, *lead.AffiliateID)
		if err != nil {
			return fmt.Errorf("failed to load affiliate for notification: %w", err)
		}
		if affiliate.Phone != "" {
			msg := fmt.Sprintf("Hi %s, your referral %s just enquired about %s. Great work!",
				affiliate.Name, lead.Name, listing.Title)
			if err := s.sendSessionMessage(ctx, affiliate.Phone, msg); err != nil {
				return fmt.Errorf("failed to notify affiliate: %w", err)
			}
		}
	}

	return nil
}

// sendSessionMessage posts one message to the WATI sendSessionMessage
// endpoint. WATI takes the recipient and text as query parameters on a POST
// with an empty body.
func (s *WhatsAppSender) sendSessionMessage(ctx context.Context, phone, message string) error {
	endpoint := fmt.Sprintf("%s/api/v1/sendSessionMessage/%s?messageText=%s",
		s.cfg.APIURL, url.PathEscape(phone), url.QueryEscape(message))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to build whatsapp request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("whatsapp request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("whatsapp API returned status %d: %s", resp.StatusCode, string(body))
	}

	s.log.Info("whatsapp message sent", zap.String("phone", maskPhone(phone)))
	return nil
}

// maskPhone hides the middle digits of a phone number for logging.
func maskPhone(phone string) string {
	if len(phone) < 6 {
		return "***"
	}
	return phone[:3] + "****" + phone[len(phone)-3:]
}
