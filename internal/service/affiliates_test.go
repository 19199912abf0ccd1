package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"EstateRef-Backend/internal/config"
	"EstateRef-Backend/internal/domain"
	"EstateRef-Backend/internal/repository"
	"EstateRef-Backend/internal/repository/memory"
)

// minCostHasher keeps bcrypt cheap in tests.
type minCostHasher struct{}

func (minCostHasher) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	return string(hash), err
}

func newAffiliateFixture() (*AffiliateService, *memory.MemStorage) {
	storage := memory.New()
	cfg := &config.Attribution{ReferralCodeLength: 8}
	return NewAffiliateService(storage, cfg, minCostHasher{}, zap.NewNop()), storage
}

func TestRegister(t *testing.T) {
	svc, _ := newAffiliateFixture()

	affiliate, err := svc.Register(context.Background(), RegisterInput{
		Name:     "Alice Agent",
		Email:    "Alice@Example.com",
		Phone:    "+254 700 000 001",
		Password: "s3cret-pass",
	})
	require.NoError(t, err)

	assert.Equal(t, "alice@example.com", affiliate.Email, "email is lowercased")
	assert.Equal(t, "254700000001", affiliate.Phone)
	assert.Equal(t, domain.AffiliateStatusPending, affiliate.Status, "new accounts await approval")
	assert.Len(t, affiliate.ReferralCode, 8)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(affiliate.PasswordHash), []byte("s3cret-pass")))
}

func TestRegister_Validation(t *testing.T) {
	svc, _ := newAffiliateFixture()
	ctx := context.Background()

	tests := []struct {
		name  string
		input RegisterInput
		field string
	}{
		{"missing name", RegisterInput{Email: "a@b.com", Password: "longenough"}, "name"},
		{"bad email", RegisterInput{Name: "A", Email: "not-an-email", Password: "longenough"}, "email"},
		{"short password", RegisterInput{Name: "A", Email: "a@b.com", Password: "short"}, "password"},
		{"bad phone", RegisterInput{Name: "A", Email: "a@b.com", Phone: "123", Password: "longenough"}, "phone"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tt.input)
			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.field, vErr.Field)
		})
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, _ := newAffiliateFixture()
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Name: "A", Email: "dup@example.com", Password: "longenough"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, RegisterInput{Name: "B", Email: "dup@example.com", Password: "longenough"})
	assert.ErrorIs(t, err, repository.ErrEmailExists)
}

func TestApproveAndBlock(t *testing.T) {
	svc, storage := newAffiliateFixture()
	ctx := context.Background()

	affiliate, err := svc.Register(ctx, RegisterInput{Name: "A", Email: "a@b.com", Password: "longenough"})
	require.NoError(t, err)

	require.NoError(t, svc.Approve(ctx, affiliate.ID))
	got, err := storage.GetAffiliateByID(ctx, affiliate.ID)
	require.NoError(t, err)
	assert.True(t, got.IsActive())

	require.NoError(t, svc.Block(ctx, affiliate.ID))
	got, err = storage.GetAffiliateByID(ctx, affiliate.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.AffiliateStatusBlocked, got.Status)
}

func TestLookupActiveCode(t *testing.T) {
	svc, _ := newAffiliateFixture()
	ctx := context.Background()

	affiliate, err := svc.Register(ctx, RegisterInput{Name: "A", Email: "a@b.com", Password: "longenough"})
	require.NoError(t, err)

	lookup := svc.LookupActiveCode(ctx)

	// Pending affiliates never match their code.
	_, ok := lookup(affiliate.ReferralCode)
	assert.False(t, ok)

	require.NoError(t, svc.Approve(ctx, affiliate.ID))
	id, ok := lookup(affiliate.ReferralCode)
	assert.True(t, ok)
	assert.Equal(t, affiliate.ID, id)

	_, ok = lookup("NOPE1234")
	assert.False(t, ok)

	require.NoError(t, svc.Block(ctx, affiliate.ID))
	_, ok = lookup(affiliate.ReferralCode)
	assert.False(t, ok, "blocked affiliates stop matching")
}
