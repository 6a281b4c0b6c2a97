package mongodb

import (
	"fmt"
	"time"

	"github.com/staybooking/listing-service/internal/listing/domain"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// geoJSONPoint is the GeoJSON form Mongo needs for 2dsphere queries.
// Coordinates are [lon, lat], the reverse of the domain GeoPoint.
type geoJSONPoint struct {
	Type        string     `bson:"type"`
	Coordinates [2]float64 `bson:"coordinates"`
}

func toGeoJSON(p domain.GeoPoint) geoJSONPoint {
	return geoJSONPoint{Type: "Point", Coordinates: [2]float64{p.Lon, p.Lat}}
}

func (g geoJSONPoint) toGeoPoint() domain.GeoPoint {
	return domain.GeoPoint{Lat: g.Coordinates[1], Lon: g.Coordinates[0]}
}

type listingDocument struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	HostID        string             `bson:"host_id"`
	Name          string             `bson:"name"`
	Address       string             `bson:"address"`
	Description   string             `bson:"description"`
	GuestCapacity int                `bson:"guest_capacity"`
	PhotoURLs     []string           `bson:"photo_urls,omitempty"`
	Location      geoJSONPoint       `bson:"location"`
	CreatedAt     time.Time          `bson:"created_at"`
}

type bookingDocument struct {
	ID           primitive.ObjectID   `bson:"_id,omitempty"`
	ListingID    string               `bson:"listing_id"`
	GuestID      string               `bson:"guest_id"`
	CheckInDate  time.Time            `bson:"check_in_date"`
	CheckOutDate time.Time            `bson:"check_out_date"`
	Status       domain.BookingStatus `bson:"status"`
}

type favoriteDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	GuestID   string             `bson:"guest_id"`
	ListingID string             `bson:"listing_id"`
	CreatedAt time.Time          `bson:"created_at"`
}

func toListingDocument(l *domain.Listing) (*listingDocument, error) {
	if l == nil {
		return nil, nil
	}

	var docID primitive.ObjectID
	if l.ID != "" {
		var err error
		docID, err = primitive.ObjectIDFromHex(l.ID)
		if err != nil {
			return nil, fmt.Errorf("toListingDocument: invalid ID format '%s': %w", l.ID, err)
		}
	}

	return &listingDocument{
		ID:            docID,
		HostID:        l.HostID,
		Name:          l.Name,
		Address:       l.Address,
		Description:   l.Description,
		GuestCapacity: l.GuestCapacity,
		PhotoURLs:     l.PhotoURLs,
		Location:      toGeoJSON(l.Location),
		CreatedAt:     l.CreatedAt,
	}, nil
}

func toDomainListing(d *listingDocument) *domain.Listing {
	if d == nil {
		return nil
	}
	return &domain.Listing{
		ID:            d.ID.Hex(),
		HostID:        d.HostID,
		Name:          d.Name,
		Address:       d.Address,
		Description:   d.Description,
		GuestCapacity: d.GuestCapacity,
		PhotoURLs:     d.PhotoURLs,
		Location:      d.Location.toGeoPoint(),
		CreatedAt:     d.CreatedAt,
	}
}

func toDomainListings(docs []*listingDocument) []*domain.Listing {
	listings := make([]*domain.Listing, 0, len(docs))
	for _, doc := range docs {
		listings = append(listings, toDomainListing(doc))
	}
	return listings
}

func toDomainBooking(d *bookingDocument) *domain.Booking {
	if d == nil {
		return nil
	}
	return &domain.Booking{
		ID:           d.ID.Hex(),
		ListingID:    d.ListingID,
		GuestID:      d.GuestID,
		CheckInDate:  d.CheckInDate,
		CheckOutDate: d.CheckOutDate,
		Status:       d.Status,
	}
}

func toFavoriteDocument(f *domain.Favorite) (*favoriteDocument, error) {
	if f == nil {
		return nil, nil
	}

	var docID primitive.ObjectID
	if f.ID != "" {
		var err error
		docID, err = primitive.ObjectIDFromHex(f.ID)
		if err != nil {
			return nil, fmt.Errorf("toFavoriteDocument: invalid ID format '%s': %w", f.ID, err)
		}
	}

	return &favoriteDocument{
		ID:        docID,
		GuestID:   f.GuestID,
		ListingID: f.ListingID,
		CreatedAt: f.CreatedAt,
	}, nil
}

func toDomainFavorite(d *favoriteDocument) *domain.Favorite {
	if d == nil {
		return nil
	}
	return &domain.Favorite{
		ID:        d.ID.Hex(),
		GuestID:   d.GuestID,
		ListingID: d.ListingID,
		CreatedAt: d.CreatedAt,
	}
}
