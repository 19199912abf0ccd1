package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"EstateRef-Backend/internal/domain"
	"EstateRef-Backend/internal/repository/memory"
)

// fakeDispatcher records submitted leads; it can be told to fail.
type fakeDispatcher struct {
	submitted []*domain.Lead
	err       error
}

func (f *fakeDispatcher) Submit(lead *domain.Lead) error {
	if f.err != nil {
		return f.err
	}
	f.submitted = append(f.submitted, lead)
	return nil
}

func newLeadFixture(t *testing.T) (*LeadService, *memory.MemStorage, *fakeDispatcher) {
	t.Helper()
	storage := memory.New()
	require.NoError(t, storage.CreateListing(context.Background(), &domain.Listing{
		Title: "Villa X", Slug: "villa-x", IsPublished: true,
	}))
	dispatcher := &fakeDispatcher{}
	return NewLeadService(storage, dispatcher, zap.NewNop()), storage, dispatcher
}

func TestSubmitLead_Success(t *testing.T) {
	svc, _, dispatcher := newLeadFixture(t)

	affID := int64(9)
	lead, err := svc.SubmitLead(context.Background(), SubmitLeadInput{
		Name:        "  John Buyer  ",
		Phone:       "+254 712-345 678",
		ListingID:   1,
		AffiliateID: &affID,
	})
	require.NoError(t, err)

	assert.Equal(t, "John Buyer", lead.Name, "name is trimmed")
	assert.Equal(t, "254712345678", lead.Phone, "phone keeps digits only")
	assert.Equal(t, domain.LeadStatusNew, lead.Status)
	require.NotNil(t, lead.AffiliateID)
	assert.Equal(t, int64(9), *lead.AffiliateID)

	require.Len(t, dispatcher.submitted, 1)
	assert.Equal(t, lead.ID, dispatcher.submitted[0].ID)
}

func TestSubmitLead_Unattributed(t *testing.T) {
	svc, _, _ := newLeadFixture(t)

	lead, err := svc.SubmitLead(context.Background(), SubmitLeadInput{
		Name: "Walk In", Phone: "0712345678", ListingID: 1,
	})
	require.NoError(t, err)
	assert.Nil(t, lead.AffiliateID)
}

func TestSubmitLead_Validation(t *testing.T) {
	svc, _, _ := newLeadFixture(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		input SubmitLeadInput
		field string
	}{
		{"missing name", SubmitLeadInput{Phone: "0712345678", ListingID: 1}, "name"},
		{"blank name", SubmitLeadInput{Name: "   ", Phone: "0712345678", ListingID: 1}, "name"},
		{"name too long", SubmitLeadInput{Name: strings.Repeat("x", 121), Phone: "0712345678", ListingID: 1}, "name"},
		{"phone too short", SubmitLeadInput{Name: "A B", Phone: "071234567", ListingID: 1}, "phone"},
		{"phone too long", SubmitLeadInput{Name: "A B", Phone: "1234567890123456", ListingID: 1}, "phone"},
		{"phone without digits", SubmitLeadInput{Name: "A B", Phone: "call me", ListingID: 1}, "phone"},
		{"unknown listing", SubmitLeadInput{Name: "A B", Phone: "0712345678", ListingID: 999}, "listing_id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.SubmitLead(ctx, tt.input)
			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.field, vErr.Field)
		})
	}
}

func TestSubmitLead_BoundaryPhoneLengths(t *testing.T) {
	svc, _, _ := newLeadFixture(t)
	ctx := context.Background()

	// 10 and 15 digits are both inside the accepted range.
	_, err := svc.SubmitLead(ctx, SubmitLeadInput{Name: "Ten", Phone: "0712345678", ListingID: 1})
	assert.NoError(t, err)
	_, err = svc.SubmitLead(ctx, SubmitLeadInput{Name: "Fifteen", Phone: "123456789012345", ListingID: 1})
	assert.NoError(t, err)
}

func TestSubmitLead_EnqueueFailureDoesNotFailSubmission(t *testing.T) {
	svc, _, dispatcher := newLeadFixture(t)
	dispatcher.err = errors.New("queue is full")

	lead, err := svc.SubmitLead(context.Background(), SubmitLeadInput{
		Name: "John", Phone: "0712345678", ListingID: 1,
	})
	require.NoError(t, err, "a failed enqueue must not fail the submission")
	assert.NotZero(t, lead.ID)
}

func TestChangeStatus(t *testing.T) {
	svc, storage, _ := newLeadFixture(t)
	ctx := context.Background()

	lead, err := svc.SubmitLead(ctx, SubmitLeadInput{Name: "John", Phone: "0712345678", ListingID: 1})
	require.NoError(t, err)

	updated, err := svc.ChangeStatus(ctx, lead.ID, domain.LeadStatusFollowUp)
	require.NoError(t, err)
	assert.Equal(t, domain.LeadStatusFollowUp, updated.Status)

	stored, err := storage.GetLeadByID(ctx, lead.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.LeadStatusFollowUp, stored.Status)
}

func TestChangeStatus_ClosedLeadCannotReopen(t *testing.T) {
	svc, _, _ := newLeadFixture(t)
	ctx := context.Background()

	lead, err := svc.SubmitLead(ctx, SubmitLeadInput{Name: "John", Phone: "0712345678", ListingID: 1})
	require.NoError(t, err)

	_, err = svc.ChangeStatus(ctx, lead.ID, domain.LeadStatusClosed)
	require.NoError(t, err)

	_, err = svc.ChangeStatus(ctx, lead.ID, domain.LeadStatusNew)
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "status", vErr.Field)
}

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		raw     string
		want    string
		wantErr bool
	}{
		{"+254 712-345 678", "254712345678", false},
		{"(071) 234 5678", "0712345678", false},
		{"0712345678", "0712345678", false},
		{"123456789", "", true},        // 9 digits
		{"1234567890123456", "", true}, // 16 digits
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := NormalizePhone(tt.raw)
		if tt.wantErr {
			assert.Error(t, err, tt.raw)
			continue
		}
		require.NoError(t, err, tt.raw)
		assert.Equal(t, tt.want, got)
	}
}
