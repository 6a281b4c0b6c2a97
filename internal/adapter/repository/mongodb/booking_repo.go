package mongodb

import (
	"context"
	"time"

	"github.com/staybooking/listing-service/internal/listing/domain"
	"github.com/staybooking/listing-service/internal/platform/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// BookingRepository reads the bookings collection owned by the booking
// service. This service never writes bookings; it only needs the overlap and
// active-existence queries behind the availability checks.
type BookingRepository struct {
	collection *mongo.Collection
	logger     *logger.Logger
	now        func() time.Time
}

func NewBookingRepository(db *mongo.Database, log *logger.Logger, now func() time.Time) *BookingRepository {
	if now == nil {
		now = time.Now
	}
	return &BookingRepository{
		collection: db.Collection("bookings"),
		logger:     log,
		now:        now,
	}
}

func (r *BookingRepository) today() time.Time {
	year, month, day := r.now().UTC().Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// FindOverlapping returns active bookings on the listing whose half-open stay
// interval intersects [checkIn, checkOut). The bson filter mirrors
// domain.Booking.IsActive and domain.Booking.Overlaps.
func (r *BookingRepository) FindOverlapping(ctx context.Context, listingID string, checkIn, checkOut time.Time) ([]*domain.Booking, error) {
	query := bson.M{
		"listing_id":     listingID,
		"status":         bson.M{"$ne": domain.BookingCancelled},
		"check_out_date": bson.M{"$gte": r.today(), "$gt": checkIn},
		"check_in_date":  bson.M{"$lt": checkOut},
	}

	cursor, err := r.collection.Find(ctx, query)
	if err != nil {
		r.logger.Error("BookingRepository.FindOverlapping: Find failed", "listing_id", listingID, "error", err.Error())
		return nil, err
	}

	var docs []*bookingDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	bookings := make([]*domain.Booking, 0, len(docs))
	for _, doc := range docs {
		bookings = append(bookings, toDomainBooking(doc))
	}
	return bookings, nil
}

// HasActive reports whether the listing has any non-cancelled booking whose
// check-out date is today or later.
func (r *BookingRepository) HasActive(ctx context.Context, listingID string) (bool, error) {
	query := bson.M{
		"listing_id":     listingID,
		"status":         bson.M{"$ne": domain.BookingCancelled},
		"check_out_date": bson.M{"$gte": r.today()},
	}

	err := r.collection.FindOne(ctx, query).Err()
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return false, nil
		}
		r.logger.Error("BookingRepository.HasActive: FindOne failed", "listing_id", listingID, "error", err.Error())
		return false, err
	}
	return true, nil
}
