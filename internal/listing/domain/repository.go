package domain

import (
	"context"
	"time"
)

type ListingStore interface {
	// Create persists the listing and assigns its identity.
	Create(ctx context.Context, listing *Listing) error
	FindByID(ctx context.Context, id string) (*Listing, error)
	FindByHost(ctx context.Context, hostID string) ([]*Listing, error)
	// FindNear returns candidates with guestCapacity >= minCapacity whose
	// location is at most radiusKm from center. The store may over-approximate
	// the radius; callers re-check exact distance.
	FindNear(ctx context.Context, center GeoPoint, radiusKm float64, minCapacity int) ([]*Listing, error)
	Delete(ctx context.Context, id string) error
}

type BookingStore interface {
	// FindOverlapping returns active bookings on the listing whose stay
	// interval intersects [checkIn, checkOut). Active and overlap follow
	// Booking.IsActive and Booking.Overlaps.
	FindOverlapping(ctx context.Context, listingID string, checkIn, checkOut time.Time) ([]*Booking, error)
	// HasActive reports whether any active booking exists for the listing.
	HasActive(ctx context.Context, listingID string) (bool, error)
}

type FavoriteStore interface {
	Add(ctx context.Context, favorite *Favorite) error
	Remove(ctx context.Context, guestID, listingID string) error
	FindByGuest(ctx context.Context, guestID string) ([]*Favorite, error)
}

// HostDirectory resolves a host identity to a contact address for
// notifications. Backed by the user collection owned by the user service.
type HostDirectory interface {
	GetEmailByID(ctx context.Context, hostID string) (string, error)
}
