// Package service contains the application use-cases, between HTTP handlers
// and storage.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"EstateRef-Backend/internal/domain"
	"EstateRef-Backend/internal/repository"
)

const (
	maxNameLength  = 120
	minPhoneDigits = 10
	maxPhoneDigits = 15
)

// ValidationError reports a rejected input field. Handlers map it to a 422
// with the field name, so callers can render the message next to the input.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// EventSubmitter enqueues a created lead for asynchronous notification.
type EventSubmitter interface {
	Submit(lead *domain.Lead) error
}

// LeadService validates and records contact-form submissions.
type LeadService struct {
	storage    repository.Storage
	dispatcher EventSubmitter
	log        *zap.Logger
}

// NewLeadService creates a new lead service. dispatcher may be nil when
// notifications are disabled.
func NewLeadService(storage repository.Storage, dispatcher EventSubmitter, log *zap.Logger) *LeadService {
	return &LeadService{
		storage:    storage,
		dispatcher: dispatcher,
		log:        log,
	}
}

// SubmitLeadInput is one contact-form submission. AffiliateID carries the
// attribution resolved for the visitor's session, nil when the visitor arrived
// unattributed.
type SubmitLeadInput struct {
	Name        string
	Phone       string
	ListingID   int64
	AffiliateID *int64
	Notes       string
}

// SubmitLead validates the submission, persists the lead with status "new"
// and enqueues the created event. A failed enqueue is logged but never fails
// the submission: the lead is already durable at that point.
func (s *LeadService) SubmitLead(ctx context.Context, input SubmitLeadInput) (*domain.Lead, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, &ValidationError{Field: "name", Message: "name is required"}
	}
	if len(name) > maxNameLength {
		return nil, &ValidationError{Field: "name", Message: fmt.Sprintf("name must be at most %d characters", maxNameLength)}
	}

	phone, err := NormalizePhone(input.Phone)
	if err != nil {
		return nil, &ValidationError{Field: "phone", Message: err.Error()}
	}

	if _, err := s.storage.GetListingByID(ctx, input.ListingID); err != nil {
		if errors.Is(err, repository.ErrListingNotFound) {
			return nil, &ValidationError{Field: "listing_id", Message: "listing does not exist"}
		}
		return nil, fmt.Errorf("failed to verify listing: %w", err)
	}

	lead := &domain.Lead{
		AffiliateID: input.AffiliateID,
		ListingID:   input.ListingID,
		Name:        name,
		Phone:       phone,
		Status:      domain.LeadStatusNew,
		Notes:       input.Notes,
	}

	if err := s.storage.CreateLead(ctx, lead); err != nil {
		return nil, fmt.Errorf("failed to create lead: %w", err)
	}

	s.log.Info("lead created",
		zap.Int64("lead_id", lead.ID),
		zap.Int64("listing_id", lead.ListingID),
		zap.Int64p("affiliate_id", lead.AffiliateID))

	if s.dispatcher != nil {
		if err := s.dispatcher.Submit(lead); err != nil {
			// The lead is already persisted; losing the notification is the
			// lesser failure.
			s.log.Error("failed to enqueue lead notification",
				zap.Int64("lead_id", lead.ID),
				zap.Error(err))
		}
	}

	return lead, nil
}

// ChangeStatus moves a lead through its workflow. The transition rules live on
// the lead entity; this only loads, delegates and persists.
func (s *LeadService) ChangeStatus(ctx context.Context, leadID int64, target domain.LeadStatus) (*domain.Lead, error) {
	lead, err := s.storage.GetLeadByID(ctx, leadID)
	if err != nil {
		return nil, err
	}

	if err := lead.TransitionTo(target); err != nil {
		return nil, &ValidationError{Field: "status", Message: err.Error()}
	}

	if err := s.storage.UpdateLeadStatus(ctx, leadID, target); err != nil {
		return nil, fmt.Errorf("failed to update lead status: %w", err)
	}

	s.log.Info("lead status changed",
		zap.Int64("lead_id", leadID),
		zap.String("status", string(target)))
	return lead, nil
}

// NormalizePhone strips every non-digit character and validates the remaining
// length. "+254 712-345 678" and "0712345678" both normalize cleanly.
func NormalizePhone(raw string) (string, error) {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()

	if len(digits) < minPhoneDigits || len(digits) > maxPhoneDigits {
		return "", fmt.Errorf("phone must contain between %d and %d digits", minPhoneDigits, maxPhoneDigits)
	}
	return digits, nil
}
