package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/staybooking/listing-service/internal/listing/domain"
	"github.com/staybooking/listing-service/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHasActiveOverlap(t *testing.T) {
	today := date(2025, time.May, 1)

	booking := func(status domain.BookingStatus, in, out time.Time) *domain.Booking {
		return &domain.Booking{ID: "b1", ListingID: "L", Status: status, CheckInDate: in, CheckOutDate: out}
	}

	tests := []struct {
		name    string
		booking *domain.Booking
		want    bool
	}{
		{
			name:    "confirmed booking inside the window overlaps",
			booking: booking(domain.BookingConfirmed, date(2025, time.June, 2), date(2025, time.June, 3)),
			want:    true,
		},
		{
			name:    "requested booking counts as active",
			booking: booking(domain.BookingRequested, date(2025, time.June, 2), date(2025, time.June, 3)),
			want:    true,
		},
		{
			name:    "cancelled booking is ignored",
			booking: booking(domain.BookingCancelled, date(2025, time.June, 2), date(2025, time.June, 3)),
			want:    false,
		},
		{
			name:    "booking checked out before today is ignored",
			booking: booking(domain.BookingConfirmed, date(2025, time.April, 1), date(2025, time.April, 10)),
			want:    false,
		},
		{
			name:    "stay ending on the query check-in does not overlap",
			booking: booking(domain.BookingConfirmed, date(2025, time.May, 28), date(2025, time.June, 1)),
			want:    false,
		},
		{
			name:    "stay starting on the query check-out does not overlap",
			booking: booking(domain.BookingConfirmed, date(2025, time.June, 5), date(2025, time.June, 8)),
			want:    false,
		},
		{
			name:    "stay straddling the query window overlaps",
			booking: booking(domain.BookingConfirmed, date(2025, time.May, 20), date(2025, time.June, 10)),
			want:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeBookingStore{bookings: []*domain.Booking{tt.booking}, today: today}
			checker := NewAvailabilityChecker(store, logger.NewLogger())

			got, err := checker.HasActiveOverlap(context.Background(), "L",
				date(2025, time.June, 1), date(2025, time.June, 5))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHasAnyActiveBooking(t *testing.T) {
	today := date(2025, time.May, 1)
	store := &fakeBookingStore{
		bookings: []*domain.Booking{
			{ID: "b1", ListingID: "L", Status: domain.BookingCancelled, CheckInDate: date(2025, time.June, 1), CheckOutDate: date(2025, time.June, 5)},
			{ID: "b2", ListingID: "L", Status: domain.BookingConfirmed, CheckInDate: date(2025, time.March, 1), CheckOutDate: date(2025, time.March, 5)},
			{ID: "b3", ListingID: "M", Status: domain.BookingConfirmed, CheckInDate: date(2025, time.June, 1), CheckOutDate: date(2025, time.June, 5)},
		},
		today: today,
	}
	checker := NewAvailabilityChecker(store, logger.NewLogger())

	// L only has a cancelled and a past booking.
	active, err := checker.HasAnyActiveBooking(context.Background(), "L")
	require.NoError(t, err)
	assert.False(t, active)

	active, err = checker.HasAnyActiveBooking(context.Background(), "M")
	require.NoError(t, err)
	assert.True(t, active)
}

func TestBookingActiveOnCheckoutDay(t *testing.T) {
	// A booking checking out today still blocks the listing.
	today := date(2025, time.May, 1)
	store := &fakeBookingStore{
		bookings: []*domain.Booking{
			{ID: "b1", ListingID: "L", Status: domain.BookingConfirmed, CheckInDate: date(2025, time.April, 28), CheckOutDate: today},
		},
		today: today,
	}
	checker := NewAvailabilityChecker(store, logger.NewLogger())

	active, err := checker.HasAnyActiveBooking(context.Background(), "L")
	require.NoError(t, err)
	assert.True(t, active)
}
