package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/staybooking/listing-service/internal/listing/domain"
	"github.com/staybooking/listing-service/internal/listing/geo"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

type fakeListingStore struct {
	mu       sync.Mutex
	listings map[string]*domain.Listing
	nextID   int
	deleted  []string
}

func newFakeListingStore(listings ...*domain.Listing) *fakeListingStore {
	s := &fakeListingStore{listings: make(map[string]*domain.Listing)}
	for _, l := range listings {
		s.listings[l.ID] = l
	}
	return s
}

func (s *fakeListingStore) Create(ctx context.Context, listing *domain.Listing) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	listing.ID = fmt.Sprintf("listing-%03d", s.nextID)
	s.listings[listing.ID] = listing
	return nil
}

func (s *fakeListingStore) FindByID(ctx context.Context, id string) (*domain.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	listing, ok := s.listings[id]
	if !ok {
		return nil, domain.ErrListingNotFound
	}
	return listing, nil
}

func (s *fakeListingStore) FindByHost(ctx context.Context, hostID string) ([]*domain.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*domain.Listing
	for _, l := range s.listings {
		if l.HostID == hostID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (s *fakeListingStore) FindNear(ctx context.Context, center domain.GeoPoint, radiusKm float64, minCapacity int) ([]*domain.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*domain.Listing
	for _, l := range s.listings {
		if l.GuestCapacity < minCapacity {
			continue
		}
		if geo.DistanceKm(l.Location, center) > radiusKm {
			continue
		}
		out = append(out, l)
	}
	return out, nil
}

func (s *fakeListingStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.listings[id]; !ok {
		return domain.ErrListingNotFound
	}
	delete(s.listings, id)
	s.deleted = append(s.deleted, id)
	return nil
}

// fakeBookingStore derives both queries from the domain predicates so the
// candidate set cannot diverge from what a real store computes.
type fakeBookingStore struct {
	bookings []*domain.Booking
	today    time.Time
}

func (s *fakeBookingStore) FindOverlapping(ctx context.Context, listingID string, checkIn, checkOut time.Time) ([]*domain.Booking, error) {
	var out []*domain.Booking
	for _, b := range s.bookings {
		if b.ListingID == listingID && b.IsActive(s.today) && b.Overlaps(checkIn, checkOut) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (s *fakeBookingStore) HasActive(ctx context.Context, listingID string) (bool, error) {
	for _, b := range s.bookings {
		if b.ListingID == listingID && b.IsActive(s.today) {
			return true, nil
		}
	}
	return false, nil
}

type fakeGeocoder struct {
	point domain.GeoPoint
	err   error
	calls int
	mu    sync.Mutex
}

func (g *fakeGeocoder) Resolve(ctx context.Context, address string) (domain.GeoPoint, error) {
	g.mu.Lock()
	g.calls++
	g.mu.Unlock()
	if g.err != nil {
		return domain.GeoPoint{}, g.err
	}
	return g.point, nil
}

// fakePhotoStorage maps blob content to a deterministic URL so ordering
// assertions do not depend on upload completion order. failOn makes the
// matching blob fail.
type fakePhotoStorage struct {
	mu          sync.Mutex
	uploads     int
	inFlight    int
	maxInFlight int
	failOn      string
	delay       time.Duration
}

func (s *fakePhotoStorage) Upload(ctx context.Context, data []byte) (string, error) {
	s.mu.Lock()
	s.uploads++
	s.inFlight++
	if s.inFlight > s.maxInFlight {
		s.maxInFlight = s.inFlight
	}
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.inFlight--
		s.mu.Unlock()
	}()

	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	if s.failOn != "" && string(data) == s.failOn {
		return "", fmt.Errorf("storage unavailable")
	}
	return "https://cdn.test/" + string(data), nil
}

type fakeLocker struct {
	mu       sync.Mutex
	locks    map[string]*sync.Mutex
	acquires int
	releases int
}

func newFakeLocker() *fakeLocker {
	return &fakeLocker{locks: make(map[string]*sync.Mutex)}
}

func (l *fakeLocker) Acquire(ctx context.Context, listingID string) (func(), error) {
	l.mu.Lock()
	m, ok := l.locks[listingID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[listingID] = m
	}
	l.acquires++
	l.mu.Unlock()

	m.Lock()
	return func() {
		l.mu.Lock()
		l.releases++
		l.mu.Unlock()
		m.Unlock()
	}, nil
}

type fakePublisher struct {
	mu       sync.Mutex
	subjects []string
}

func (p *fakePublisher) Publish(ctx context.Context, subject string, payload interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.subjects = append(p.subjects, subject)
	return nil
}

type fakeNotifier struct {
	mu      sync.Mutex
	created []string
	deleted []string
}

func (n *fakeNotifier) ListingCreated(ctx context.Context, hostID, listingName string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.created = append(n.created, hostID)
	return nil
}

func (n *fakeNotifier) ListingDeleted(ctx context.Context, hostID, listingName string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.deleted = append(n.deleted, hostID)
	return nil
}
