package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"EstateRef-Backend/internal/config"
	"EstateRef-Backend/internal/domain"
	"EstateRef-Backend/internal/repository"
	"EstateRef-Backend/pkg/random"
)

// maxCodeAttempts bounds the referral-code collision retry loop.
const maxCodeAttempts = 5

// PasswordHasher hashes plaintext passwords for storage.
type PasswordHasher interface {
	HashPassword(password string) (string, error)
}

// AffiliateService handles affiliate registration and lifecycle.
type AffiliateService struct {
	storage   repository.Storage
	cfg       *config.Attribution
	passwords PasswordHasher
	log       *zap.Logger
}

// NewAffiliateService creates a new affiliate service.
func NewAffiliateService(storage repository.Storage, cfg *config.Attribution, passwords PasswordHasher, log *zap.Logger) *AffiliateService {
	return &AffiliateService{
		storage:   storage,
		cfg:       cfg,
		passwords: passwords,
		log:       log,
	}
}

// RegisterInput holds a new affiliate registration.
type RegisterInput struct {
	Name     string
	Email    string
	Phone    string
	Password string
}

// Register creates a pending affiliate account with a fresh unique referral
// code. New accounts never start active; an admin approves them explicitly.
func (s *AffiliateService) Register(ctx context.Context, input RegisterInput) (*domain.Affiliate, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, &ValidationError{Field: "name", Message: "name is required"}
	}
	if len(name) > maxNameLength {
		return nil, &ValidationError{Field: "name", Message: fmt.Sprintf("name must be at most %d characters", maxNameLength)}
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, &ValidationError{Field: "email", Message: "a valid email is required"}
	}

	if len(input.Password) < 8 {
		return nil, &ValidationError{Field: "password", Message: "password must be at least 8 characters"}
	}

	phone := ""
	if strings.TrimSpace(input.Phone) != "" {
		normalized, err := NormalizePhone(input.Phone)
		if err != nil {
			return nil, &ValidationError{Field: "phone", Message: err.Error()}
		}
		phone = normalized
	}

	hash, err := s.passwords.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	code, err := s.generateReferralCode(ctx)
	if err != nil {
		return nil, err
	}

	affiliate := &domain.Affiliate{
		Name:         name,
		Email:        email,
		Phone:        phone,
		PasswordHash: hash,
		ReferralCode: code,
		Status:       domain.AffiliateStatusPending,
	}

	if err := s.storage.CreateAffiliate(ctx, affiliate); err != nil {
		return nil, err
	}

	s.log.Info("affiliate registered",
		zap.Int64("affiliate_id", affiliate.ID),
		zap.String("referral_code", affiliate.ReferralCode))
	return affiliate, nil
}

// generateReferralCode draws random codes until one is free. Collisions on a
// random code of this length are rare, so a handful of attempts is plenty.
func (s *AffiliateService) generateReferralCode(ctx context.Context) (string, error) {
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code, err := random.NewRandomString(s.cfg.ReferralCodeLength)
		if err != nil {
			return "", fmt.Errorf("failed to generate referral code: %w", err)
		}

		exists, err := s.storage.ReferralCodeExists(ctx, code)
		if err != nil {
			return "", fmt.Errorf("failed to check referral code: %w", err)
		}
		if !exists {
			return code, nil
		}

		s.log.Warn("referral code collision, retrying",
			zap.String("code", code),
			zap.Int("attempt", attempt+1))
	}
	return "", fmt.Errorf("failed to generate unique referral code after %d attempts", maxCodeAttempts)
}

// Approve activates a pending or blocked affiliate.
func (s *AffiliateService) Approve(ctx context.Context, id int64) error {
	return s.setStatus(ctx, id, domain.AffiliateStatusActive)
}

// Block disables an affiliate. Blocked affiliates stop matching referral
// codes, but previously issued session tokens keep attributing to them until
// the tokens expire.
func (s *AffiliateService) Block(ctx context.Context, id int64) error {
	return s.setStatus(ctx, id, domain.AffiliateStatusBlocked)
}

func (s *AffiliateService) setStatus(ctx context.Context, id int64, status domain.AffiliateStatus) error {
	if err := s.storage.UpdateAffiliateStatus(ctx, id, status); err != nil {
		return err
	}
	s.log.Info("affiliate status updated",
		zap.Int64("affiliate_id", id),
		zap.String("status", string(status)))
	return nil
}

// LookupActiveCode adapts storage to the attribution resolver's lookup
// contract: only active affiliates match.
func (s *AffiliateService) LookupActiveCode(ctx context.Context) func(code string) (int64, bool) {
	return func(code string) (int64, bool) {
		affiliate, err := s.storage.GetActiveAffiliateByCode(ctx, code)
		if err != nil {
			return 0, false
		}
		return affiliate.ID, true
	}
}
