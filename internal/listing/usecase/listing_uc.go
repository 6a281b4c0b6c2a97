package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/staybooking/listing-service/internal/listing/domain"
	"github.com/staybooking/listing-service/internal/platform/logger"
	"go.opentelemetry.io/otel/attribute"
	oteltrace "go.opentelemetry.io/otel/trace"
)

// HostNotifier delivers out-of-band notifications to hosts after a mutation
// commits. Delivery failures never fail the mutation.
type HostNotifier interface {
	ListingCreated(ctx context.Context, hostID, listingName string) error
	ListingDeleted(ctx context.Context, hostID, listingName string) error
}

// ListingUsecaseDeps wires the collaborators of ListingUsecase. Events and
// Notifier run after commit; everything else participates in the guarded
// mutation itself.
type ListingUsecaseDeps struct {
	Listings     domain.ListingStore
	Availability *AvailabilityChecker
	Geocoder     domain.Geocoder
	Photos       *PhotoUsecase
	Locker       domain.ListingLocker
	Events       domain.EventPublisher
	Notifier     HostNotifier
	Logger       *logger.Logger
	Now          func() time.Time
}

// ListingUsecase guards the two mutating operations on listings. Create fans
// out to image upload and geocoding concurrently and persists all-or-nothing;
// Delete serializes its check-then-act guard sequence per listing id.
type ListingUsecase struct {
	listings     domain.ListingStore
	availability *AvailabilityChecker
	geocoder     domain.Geocoder
	photos       *PhotoUsecase
	locker       domain.ListingLocker
	events       domain.EventPublisher
	notifier     HostNotifier
	logger       *logger.Logger
	now          func() time.Time
}

func NewListingUsecase(deps ListingUsecaseDeps) *ListingUsecase {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &ListingUsecase{
		listings:     deps.Listings,
		availability: deps.Availability,
		geocoder:     deps.Geocoder,
		photos:       deps.Photos,
		locker:       deps.Locker,
		events:       deps.Events,
		notifier:     deps.Notifier,
		logger:       deps.Logger,
		now:          deps.Now,
	}
}

// CreateListing validates input, then uploads images and geocodes the address
// in parallel. If either collaborator fails, nothing is persisted. Uploaded
// objects are not reclaimed when geocoding fails afterwards; the URLs are
// logged so the objects can be reaped.
func (uc *ListingUsecase) CreateListing(ctx context.Context, hostID, name, address, description string, guestCapacity int, images [][]byte) (*domain.Listing, error) {
	ctx, span := tracer.Start(ctx, "ListingUsecase.CreateListing", oteltrace.WithAttributes(
		attribute.String("host_id", hostID),
		attribute.Int("images", len(images)),
	))
	defer span.End()

	if guestCapacity <= 0 {
		return nil, fmt.Errorf("%w: guest capacity must be positive", domain.ErrInvalidListingParameters)
	}
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrInvalidListingParameters)
	}
	if address == "" {
		return nil, fmt.Errorf("%w: address is required", domain.ErrInvalidListingParameters)
	}

	uc.logger.Info("ListingUsecase.CreateListing: creating listing", "host_id", hostID, "name", name)

	fanoutCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg        sync.WaitGroup
		urls      []string
		location  domain.GeoPoint
		uploadErr error
		geoErr    error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		urls, uploadErr = uc.photos.UploadAll(fanoutCtx, images)
		if uploadErr != nil {
			cancel()
		}
	}()
	go func() {
		defer wg.Done()
		location, geoErr = uc.geocoder.Resolve(fanoutCtx, address)
		if geoErr != nil {
			cancel()
		}
	}()
	wg.Wait()

	// The failing branch cancels its sibling, so prefer whichever error is
	// not mere cancellation fallout.
	if uploadErr != nil && !errors.Is(uploadErr, context.Canceled) {
		span.RecordError(uploadErr)
		return nil, uploadErr
	}
	if geoErr != nil && !errors.Is(geoErr, context.Canceled) {
		if len(urls) > 0 {
			uc.logger.Warn("ListingUsecase.CreateListing: geocoding failed after uploads completed, stored objects not reclaimed",
				"host_id", hostID, "orphaned_urls", urls)
		}
		span.RecordError(geoErr)
		return nil, geoErr
	}
	if uploadErr != nil {
		return nil, uploadErr
	}
	if geoErr != nil {
		return nil, geoErr
	}

	listing := &domain.Listing{
		HostID:        hostID,
		Name:          name,
		Address:       address,
		Description:   description,
		GuestCapacity: guestCapacity,
		PhotoURLs:     urls,
		Location:      location,
		CreatedAt:     uc.now(),
	}
	if err := uc.listings.Create(ctx, listing); err != nil {
		uc.logger.Error("ListingUsecase.CreateListing: failed to persist listing", "host_id", hostID, "error", err.Error())
		span.RecordError(err)
		return nil, err
	}

	uc.logger.Info("ListingUsecase.CreateListing: listing created", "listing_id", listing.ID, "host_id", hostID)
	uc.afterCommit(ctx, "listing.created", listing, uc.notifier.ListingCreated)
	return listing, nil
}

// DeleteListing removes a listing after its guard sequence passes: the
// listing exists, the caller owns it, and no active booking remains. The
// sequence runs under a per-listing lock so a booking confirmed between the
// availability check and the delete cannot slip through.
func (uc *ListingUsecase) DeleteListing(ctx context.Context, hostID, listingID string) error {
	ctx, span := tracer.Start(ctx, "ListingUsecase.DeleteListing", oteltrace.WithAttributes(
		attribute.String("host_id", hostID),
		attribute.String("listing_id", listingID),
	))
	defer span.End()

	release, err := uc.locker.Acquire(ctx, listingID)
	if err != nil {
		uc.logger.Error("ListingUsecase.DeleteListing: failed to acquire listing lock", "listing_id", listingID, "error", err.Error())
		return fmt.Errorf("acquire listing lock: %w", err)
	}
	defer release()

	listing, err := uc.listings.FindByID(ctx, listingID)
	if err != nil {
		if errors.Is(err, domain.ErrListingNotFound) {
			return domain.ErrListingNotFound
		}
		uc.logger.Error("ListingUsecase.DeleteListing: failed to load listing", "listing_id", listingID, "error", err.Error())
		return err
	}

	if listing.HostID != hostID {
		uc.logger.Warn("ListingUsecase.DeleteListing: caller does not own listing",
			"listing_id", listingID, "owner_id", listing.HostID, "host_id", hostID)
		return fmt.Errorf("%w: host %s does not own listing %s", domain.ErrDeleteNotAllowed, hostID, listingID)
	}

	active, err := uc.availability.HasAnyActiveBooking(ctx, listingID)
	if err != nil {
		return err
	}
	if active {
		uc.logger.Warn("ListingUsecase.DeleteListing: active bookings exist", "listing_id", listingID)
		return fmt.Errorf("%w: active bookings exist for listing %s", domain.ErrDeleteNotAllowed, listingID)
	}

	if err := uc.listings.Delete(ctx, listingID); err != nil {
		uc.logger.Error("ListingUsecase.DeleteListing: failed to delete listing", "listing_id", listingID, "error", err.Error())
		span.RecordError(err)
		return err
	}

	uc.logger.Info("ListingUsecase.DeleteListing: listing deleted", "listing_id", listingID, "host_id", hostID)
	uc.afterCommit(ctx, "listing.deleted", listing, uc.notifier.ListingDeleted)
	return nil
}

// GetListingByID returns a single listing as a read view.
func (uc *ListingUsecase) GetListingByID(ctx context.Context, listingID string) (*ListingView, error) {
	listing, err := uc.listings.FindByID(ctx, listingID)
	if err != nil {
		if errors.Is(err, domain.ErrListingNotFound) {
			return nil, domain.ErrListingNotFound
		}
		uc.logger.Error("ListingUsecase.GetListingByID: lookup failed", "listing_id", listingID, "error", err.Error())
		return nil, err
	}
	view := toListingView(listing)
	return &view, nil
}

// ListByHost returns all listings owned by the host.
func (uc *ListingUsecase) ListByHost(ctx context.Context, hostID string) ([]ListingView, error) {
	listings, err := uc.listings.FindByHost(ctx, hostID)
	if err != nil {
		uc.logger.Error("ListingUsecase.ListByHost: lookup failed", "host_id", hostID, "error", err.Error())
		return nil, err
	}
	views := make([]ListingView, 0, len(listings))
	for _, listing := range listings {
		views = append(views, toListingView(listing))
	}
	return views, nil
}

type listingEvent struct {
	ListingID string `json:"listing_id"`
	HostID    string `json:"host_id"`
	Name      string `json:"name"`
}

// afterCommit publishes the domain event and notifies the host. Both are
// best-effort: failures are logged and never surfaced to the caller.
func (uc *ListingUsecase) afterCommit(ctx context.Context, subject string, listing *domain.Listing, notify func(context.Context, string, string) error) {
	event := listingEvent{ListingID: listing.ID, HostID: listing.HostID, Name: listing.Name}
	if err := uc.events.Publish(ctx, subject, event); err != nil {
		uc.logger.Error("ListingUsecase: failed to publish event", "subject", subject, "listing_id", listing.ID, "error", err.Error())
	}
	if err := notify(ctx, listing.HostID, listing.Name); err != nil {
		uc.logger.Error("ListingUsecase: failed to notify host", "subject", subject, "host_id", listing.HostID, "error", err.Error())
	}
}
