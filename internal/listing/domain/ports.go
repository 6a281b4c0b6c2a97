package domain

import "context"

// Geocoder resolves a postal address to coordinates. Implementations wrap an
// external provider; failures are reported as ErrGeocodingFailure.
type Geocoder interface {
	Resolve(ctx context.Context, address string) (GeoPoint, error)
}

// PhotoStorage stores one binary blob and returns a durable public URL.
type PhotoStorage interface {
	Upload(ctx context.Context, data []byte) (string, error)
}

// ListingLocker serializes mutations for a single listing id. Acquire blocks
// until the lock is held or ctx is done; the returned release function must be
// called exactly once.
type ListingLocker interface {
	Acquire(ctx context.Context, listingID string) (release func(), err error)
}

// EventPublisher emits domain events after a mutation commits.
type EventPublisher interface {
	Publish(ctx context.Context, subject string, payload interface{}) error
}
