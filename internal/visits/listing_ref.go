package visits

import (
	"context"

	"EstateRef-Backend/internal/domain"
	"EstateRef-Backend/internal/repository"
)

// ListingRef identifies the listing associated with a request's route, if
// any. It is a closed tagged union: a route either resolved the entity
// already, carries a slug still to be looked up, or references no listing.
type ListingRef interface {
	isListingRef()
}

// ResolvedListing wraps a listing entity already bound to the route.
type ResolvedListing struct {
	Listing *domain.Listing
}

// ListingSlug carries a slug route parameter to be resolved via lookup.
type ListingSlug struct {
	Slug string
}

// NoListing marks a route without an associated listing.
type NoListing struct{}

func (ResolvedListing) isListingRef() {}
func (ListingSlug) isListingRef()     {}
func (NoListing) isListingRef()       {}

// resolveListingID turns a ListingRef into an optional listing id. A slug
// that matches nothing resolves to no listing rather than an error.
func resolveListingID(ctx context.Context, storage repository.Storage, ref ListingRef) *int64 {
	switch r := ref.(type) {
	case ResolvedListing:
		if r.Listing == nil {
			return nil
		}
		id := r.Listing.ID
		return &id
	case ListingSlug:
		if r.Slug == "" {
			return nil
		}
		listing, err := storage.GetListingBySlug(ctx, r.Slug)
		if err != nil {
			return nil
		}
		id := listing.ID
		return &id
	case NoListing:
		return nil
	default:
		return nil
	}
}
