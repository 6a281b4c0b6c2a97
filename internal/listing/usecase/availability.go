package usecase

import (
	"context"
	"time"

	"github.com/staybooking/listing-service/internal/listing/domain"
	"github.com/staybooking/listing-service/internal/platform/logger"
)

// AvailabilityChecker answers whether a listing is blocked by active bookings.
// A booking is active when it is not cancelled and its check-out date is today
// or later; overlap is evaluated on half-open [checkIn, checkOut) intervals.
type AvailabilityChecker struct {
	bookings domain.BookingStore
	logger   *logger.Logger
}

func NewAvailabilityChecker(bookings domain.BookingStore, log *logger.Logger) *AvailabilityChecker {
	return &AvailabilityChecker{bookings: bookings, logger: log}
}

// HasActiveOverlap reports whether any active booking on the listing overlaps
// [checkIn, checkOut).
func (c *AvailabilityChecker) HasActiveOverlap(ctx context.Context, listingID string, checkIn, checkOut time.Time) (bool, error) {
	overlapping, err := c.bookings.FindOverlapping(ctx, listingID, checkIn, checkOut)
	if err != nil {
		c.logger.Error("AvailabilityChecker.HasActiveOverlap: booking lookup failed", "listing_id", listingID, "error", err.Error())
		return false, err
	}
	return len(overlapping) > 0, nil
}

// HasAnyActiveBooking reports whether the listing has any active booking at
// all, regardless of dates. Used by the delete guard.
func (c *AvailabilityChecker) HasAnyActiveBooking(ctx context.Context, listingID string) (bool, error) {
	active, err := c.bookings.HasActive(ctx, listingID)
	if err != nil {
		c.logger.Error("AvailabilityChecker.HasAnyActiveBooking: booking lookup failed", "listing_id", listingID, "error", err.Error())
		return false, err
	}
	return active, nil
}

// dateOf truncates a timestamp to its UTC calendar date. Booking dates are
// stored at day granularity, so comparisons happen at day granularity too.
func dateOf(t time.Time) time.Time {
	year, month, day := t.UTC().Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
