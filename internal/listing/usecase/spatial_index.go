package usecase

import (
	"context"
	"sort"

	"github.com/staybooking/listing-service/internal/listing/domain"
	"github.com/staybooking/listing-service/internal/listing/geo"
	"github.com/staybooking/listing-service/internal/platform/logger"
)

// SpatialIndex turns a validated search query into the matching listing set.
// The store prefilter may over-approximate the radius (Mongo's $centerSphere
// does not, but an in-memory store might), so every candidate is re-checked
// with the exact haversine distance here. The result therefore does not depend
// on which storage backs the store.
type SpatialIndex struct {
	listings     domain.ListingStore
	availability *AvailabilityChecker
	logger       *logger.Logger
}

func NewSpatialIndex(listings domain.ListingStore, availability *AvailabilityChecker, log *logger.Logger) *SpatialIndex {
	return &SpatialIndex{
		listings:     listings,
		availability: availability,
		logger:       log,
	}
}

// Search returns listings within q.RadiusKm of q.Center with capacity for
// q.MinCapacity guests and no active booking overlapping [q.CheckIn,
// q.CheckOut). Results are ordered by ascending listing id so a fixed data
// snapshot always yields the same sequence.
func (idx *SpatialIndex) Search(ctx context.Context, q domain.SearchQuery) ([]*domain.Listing, error) {
	candidates, err := idx.listings.FindNear(ctx, q.Center, q.RadiusKm, q.MinCapacity)
	if err != nil {
		idx.logger.Error("SpatialIndex.Search: candidate lookup failed", "error", err.Error())
		return nil, err
	}

	matches := make([]*domain.Listing, 0, len(candidates))
	for _, listing := range candidates {
		if listing.GuestCapacity < q.MinCapacity {
			continue
		}
		if geo.DistanceKm(listing.Location, q.Center) > q.RadiusKm {
			continue
		}
		overlap, err := idx.availability.HasActiveOverlap(ctx, listing.ID, q.CheckIn, q.CheckOut)
		if err != nil {
			return nil, err
		}
		if overlap {
			continue
		}
		matches = append(matches, listing)
	}

	sort.Slice(matches, func(i, j int) bool { return matches[i].ID < matches[j].ID })
	return matches, nil
}
