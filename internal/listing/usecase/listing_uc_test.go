package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/staybooking/listing-service/internal/listing/domain"
	"github.com/staybooking/listing-service/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type listingFixture struct {
	uc        *ListingUsecase
	store     *fakeListingStore
	bookings  *fakeBookingStore
	geocoder  *fakeGeocoder
	storage   *fakePhotoStorage
	locker    *fakeLocker
	publisher *fakePublisher
	notifier  *fakeNotifier
}

func newListingFixture(listings []*domain.Listing, bookings []*domain.Booking) *listingFixture {
	log := logger.NewLogger()
	f := &listingFixture{
		store:     newFakeListingStore(listings...),
		bookings:  &fakeBookingStore{bookings: bookings, today: fixedNow()},
		geocoder:  &fakeGeocoder{point: domain.GeoPoint{Lat: 37.0, Lon: -122.0}},
		storage:   &fakePhotoStorage{},
		locker:    newFakeLocker(),
		publisher: &fakePublisher{},
		notifier:  &fakeNotifier{},
	}
	f.uc = NewListingUsecase(ListingUsecaseDeps{
		Listings:     f.store,
		Availability: NewAvailabilityChecker(f.bookings, log),
		Geocoder:     f.geocoder,
		Photos:       NewPhotoUsecase(f.storage, 4, log),
		Locker:       f.locker,
		Events:       f.publisher,
		Notifier:     f.notifier,
		Logger:       log,
		Now:          fixedNow,
	})
	return f
}

func TestCreateListing_HappyPath(t *testing.T) {
	f := newListingFixture(nil, nil)

	listing, err := f.uc.CreateListing(context.Background(), "host-1", "Sea Cabin", "1 Beach Rd", "cozy", 4,
		blobs("img1", "img2", "img3"))
	require.NoError(t, err)
	require.NotNil(t, listing)

	assert.NotEmpty(t, listing.ID)
	assert.Equal(t, "host-1", listing.HostID)
	assert.Equal(t, domain.GeoPoint{Lat: 37.0, Lon: -122.0}, listing.Location)
	assert.Equal(t, []string{"https://cdn.test/img1", "https://cdn.test/img2", "https://cdn.test/img3"}, listing.PhotoURLs)
	assert.Equal(t, fixedNow(), listing.CreatedAt)

	stored, err := f.store.FindByID(context.Background(), listing.ID)
	require.NoError(t, err)
	assert.Equal(t, listing, stored)

	assert.Equal(t, []string{"listing.created"}, f.publisher.subjects)
	assert.Equal(t, []string{"host-1"}, f.notifier.created)
}

func TestCreateListing_ValidationRejectsBeforeAnyIO(t *testing.T) {
	tests := []struct {
		name          string
		listingName   string
		address       string
		guestCapacity int
	}{
		{"zero capacity", "Cabin", "1 Beach Rd", 0},
		{"negative capacity", "Cabin", "1 Beach Rd", -2},
		{"missing name", "", "1 Beach Rd", 4},
		{"missing address", "Cabin", "", 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newListingFixture(nil, nil)

			_, err := f.uc.CreateListing(context.Background(), "host-1", tt.listingName, tt.address, "", tt.guestCapacity, blobs("img"))
			assert.ErrorIs(t, err, domain.ErrInvalidListingParameters)

			assert.Zero(t, f.geocoder.calls)
			assert.Zero(t, f.storage.uploads)
			assert.Empty(t, f.store.listings)
		})
	}
}

func TestCreateListing_GeocodeFailureAbortsCreate(t *testing.T) {
	f := newListingFixture(nil, nil)
	f.geocoder.err = domain.ErrGeocodingFailure

	_, err := f.uc.CreateListing(context.Background(), "host-1", "Cabin", "nowhere", "", 4, blobs("img"))
	assert.ErrorIs(t, err, domain.ErrGeocodingFailure)

	assert.Empty(t, f.store.listings)
	assert.Empty(t, f.publisher.subjects)
	assert.Empty(t, f.notifier.created)
}

func TestCreateListing_UploadFailureAbortsCreate(t *testing.T) {
	f := newListingFixture(nil, nil)
	f.storage.failOn = "broken"

	_, err := f.uc.CreateListing(context.Background(), "host-1", "Cabin", "1 Beach Rd", "", 4,
		blobs("img1", "broken"))
	assert.ErrorIs(t, err, domain.ErrImageUploadFailure)
	assert.NotErrorIs(t, err, domain.ErrGeocodingFailure)

	assert.Empty(t, f.store.listings)
	assert.Empty(t, f.publisher.subjects)
}

func TestCreateListing_NoImages(t *testing.T) {
	f := newListingFixture(nil, nil)

	listing, err := f.uc.CreateListing(context.Background(), "host-1", "Cabin", "1 Beach Rd", "", 2, nil)
	require.NoError(t, err)

	assert.NotNil(t, listing.PhotoURLs)
	assert.Empty(t, listing.PhotoURLs)
	assert.Zero(t, f.storage.uploads)
}

func TestDeleteListing_HappyPath(t *testing.T) {
	listing := &domain.Listing{ID: "listing-1", HostID: "host-1", Name: "Cabin"}
	f := newListingFixture([]*domain.Listing{listing}, nil)

	err := f.uc.DeleteListing(context.Background(), "host-1", "listing-1")
	require.NoError(t, err)

	_, err = f.store.FindByID(context.Background(), "listing-1")
	assert.ErrorIs(t, err, domain.ErrListingNotFound)

	assert.Equal(t, []string{"listing.deleted"}, f.publisher.subjects)
	assert.Equal(t, []string{"host-1"}, f.notifier.deleted)
	assert.Equal(t, 1, f.locker.acquires)
	assert.Equal(t, 1, f.locker.releases)
}

func TestDeleteListing_UnknownListing(t *testing.T) {
	f := newListingFixture(nil, nil)

	err := f.uc.DeleteListing(context.Background(), "host-1", "no-such-listing")
	assert.ErrorIs(t, err, domain.ErrListingNotFound)
	assert.Equal(t, f.locker.acquires, f.locker.releases)
}

func TestDeleteListing_WrongOwner(t *testing.T) {
	listing := &domain.Listing{ID: "listing-1", HostID: "host-1", Name: "Cabin"}
	f := newListingFixture([]*domain.Listing{listing}, nil)

	err := f.uc.DeleteListing(context.Background(), "host-2", "listing-1")
	assert.ErrorIs(t, err, domain.ErrDeleteNotAllowed)

	// Listing untouched.
	stored, ferr := f.store.FindByID(context.Background(), "listing-1")
	require.NoError(t, ferr)
	assert.Equal(t, listing, stored)
	assert.Empty(t, f.publisher.subjects)
}

func TestDeleteListing_ActiveBookingBlocksDelete(t *testing.T) {
	listing := &domain.Listing{ID: "listing-1", HostID: "host-1", Name: "Cabin"}
	booking := &domain.Booking{
		ID: "b1", ListingID: "listing-1", Status: domain.BookingConfirmed,
		CheckInDate: date(2025, time.June, 1), CheckOutDate: date(2025, time.June, 5),
	}
	f := newListingFixture([]*domain.Listing{listing}, []*domain.Booking{booking})

	err := f.uc.DeleteListing(context.Background(), "host-1", "listing-1")
	assert.ErrorIs(t, err, domain.ErrDeleteNotAllowed)

	_, ferr := f.store.FindByID(context.Background(), "listing-1")
	assert.NoError(t, ferr)
}

func TestDeleteListing_PastAndCancelledBookingsDoNotBlock(t *testing.T) {
	listing := &domain.Listing{ID: "listing-1", HostID: "host-1", Name: "Cabin"}
	bookings := []*domain.Booking{
		{ID: "b1", ListingID: "listing-1", Status: domain.BookingConfirmed,
			CheckInDate: date(2025, time.March, 1), CheckOutDate: date(2025, time.March, 5)},
		{ID: "b2", ListingID: "listing-1", Status: domain.BookingCancelled,
			CheckInDate: date(2025, time.June, 1), CheckOutDate: date(2025, time.June, 5)},
	}
	f := newListingFixture([]*domain.Listing{listing}, bookings)

	err := f.uc.DeleteListing(context.Background(), "host-1", "listing-1")
	assert.NoError(t, err)
}

func TestDeleteListing_ConcurrentDeletesOneWinner(t *testing.T) {
	listing := &domain.Listing{ID: "listing-1", HostID: "host-1", Name: "Cabin"}
	f := newListingFixture([]*domain.Listing{listing}, nil)

	const attempts = 8
	errs := make([]error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = f.uc.DeleteListing(context.Background(), "host-1", "listing-1")
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, domain.ErrListingNotFound)
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Len(t, f.store.deleted, 1)
	assert.Equal(t, attempts, f.locker.acquires)
	assert.Equal(t, attempts, f.locker.releases)
}

func TestGetListingByID(t *testing.T) {
	listing := &domain.Listing{ID: "listing-1", HostID: "host-1", Name: "Cabin", GuestCapacity: 3}
	f := newListingFixture([]*domain.Listing{listing}, nil)

	view, err := f.uc.GetListingByID(context.Background(), "listing-1")
	require.NoError(t, err)
	assert.Equal(t, "listing-1", view.ID)
	assert.Equal(t, 3, view.GuestCapacity)

	_, err = f.uc.GetListingByID(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrListingNotFound)
}

func TestListByHost(t *testing.T) {
	f := newListingFixture([]*domain.Listing{
		{ID: "listing-1", HostID: "host-1", Name: "Cabin"},
		{ID: "listing-2", HostID: "host-2", Name: "Loft"},
		{ID: "listing-3", HostID: "host-1", Name: "Barn"},
	}, nil)

	views, err := f.uc.ListByHost(context.Background(), "host-1")
	require.NoError(t, err)

	ids := make([]string, 0, len(views))
	for _, v := range views {
		ids = append(ids, v.ID)
	}
	assert.ElementsMatch(t, []string{"listing-1", "listing-3"}, ids)
}

func TestCreateListing_StoreFailureSurfaced(t *testing.T) {
	f := newListingFixture(nil, nil)
	boom := errors.New("write refused")
	f.uc.listings = &failingListingStore{fakeListingStore: f.store, createErr: boom}

	_, err := f.uc.CreateListing(context.Background(), "host-1", "Cabin", "1 Beach Rd", "", 2, nil)
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, f.publisher.subjects)
	assert.Empty(t, f.notifier.created)
}

type failingListingStore struct {
	*fakeListingStore
	createErr error
}

func (s *failingListingStore) Create(ctx context.Context, listing *domain.Listing) error {
	return s.createErr
}
