package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/staybooking/listing-service/internal/listing/domain"
	"github.com/staybooking/listing-service/internal/platform/logger"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	oteltrace "go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("listing-service/usecase")

// ListingView is the read-only representation returned to callers of search
// and listing lookups.
type ListingView struct {
	ID            string   `json:"id"`
	HostID        string   `json:"host_id"`
	Name          string   `json:"name"`
	Address       string   `json:"address"`
	Description   string   `json:"description"`
	GuestCapacity int      `json:"guest_capacity"`
	PhotoURLs     []string `json:"photo_urls"`
	Lat           float64  `json:"lat"`
	Lon           float64  `json:"lon"`
}

func toListingView(l *domain.Listing) ListingView {
	return ListingView{
		ID:            l.ID,
		HostID:        l.HostID,
		Name:          l.Name,
		Address:       l.Address,
		Description:   l.Description,
		GuestCapacity: l.GuestCapacity,
		PhotoURLs:     l.PhotoURLs,
		Lat:           l.Location.Lat,
		Lon:           l.Location.Lon,
	}
}

// SearchUsecase validates search requests and delegates to the spatial index.
type SearchUsecase struct {
	index  *SpatialIndex
	logger *logger.Logger
	now    func() time.Time
}

func NewSearchUsecase(index *SpatialIndex, log *logger.Logger, now func() time.Time) *SearchUsecase {
	if now == nil {
		now = time.Now
	}
	return &SearchUsecase{index: index, logger: log, now: now}
}

// Search checks parameters in a fixed order, failing fast on the first
// violation, then runs the query. minCapacity of zero means no capacity
// constraint.
func (uc *SearchUsecase) Search(ctx context.Context, lat, lon, radiusKm float64, checkIn, checkOut time.Time, minCapacity int) ([]ListingView, error) {
	ctx, span := tracer.Start(ctx, "SearchUsecase.Search", oteltrace.WithAttributes(
		attribute.Float64("lat", lat),
		attribute.Float64("lon", lon),
		attribute.Float64("radius_km", radiusKm),
	))
	defer span.End()

	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return nil, fmt.Errorf("%w: latitude or longitude out of range", domain.ErrInvalidSearchParameters)
	}
	if radiusKm <= 0 {
		return nil, fmt.Errorf("%w: radius must be positive", domain.ErrInvalidSearchParameters)
	}
	if !checkIn.Before(checkOut) {
		return nil, fmt.Errorf("%w: check-in date must be before check-out date", domain.ErrInvalidSearchParameters)
	}
	if checkIn.Before(dateOf(uc.now())) {
		return nil, fmt.Errorf("%w: check-in date must not be in the past", domain.ErrInvalidSearchParameters)
	}
	if minCapacity < 0 {
		return nil, fmt.Errorf("%w: minimum guest capacity must not be negative", domain.ErrInvalidSearchParameters)
	}

	query := domain.SearchQuery{
		Center:      domain.GeoPoint{Lat: lat, Lon: lon},
		RadiusKm:    radiusKm,
		CheckIn:     checkIn,
		CheckOut:    checkOut,
		MinCapacity: minCapacity,
	}

	listings, err := uc.index.Search(ctx, query)
	if err != nil {
		uc.logger.Error("SearchUsecase.Search: index query failed", "error", err.Error())
		return nil, err
	}

	views := make([]ListingView, 0, len(listings))
	for _, listing := range listings {
		views = append(views, toListingView(listing))
	}
	uc.logger.Info("SearchUsecase.Search: query completed", "results", len(views), "radius_km", radiusKm)
	return views, nil
}
