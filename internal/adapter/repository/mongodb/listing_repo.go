package mongodb

import (
	"context"
	"errors"
	"fmt"

	"github.com/staybooking/listing-service/internal/listing/domain"
	"github.com/staybooking/listing-service/internal/listing/geo"
	"github.com/staybooking/listing-service/internal/platform/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ListingRepository struct {
	collection *mongo.Collection
	logger     *logger.Logger
}

func NewListingRepository(db *mongo.Database, log *logger.Logger) *ListingRepository {
	return &ListingRepository{
		collection: db.Collection("listings"),
		logger:     log,
	}
}

// EnsureIndexes creates the 2dsphere index the radius prefilter relies on and
// the host index used by FindByHost. Called once at startup.
func (r *ListingRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "location", Value: "2dsphere"}}},
		{Keys: bson.D{{Key: "host_id", Value: 1}}},
	})
	if err != nil {
		r.logger.Error("ListingRepository.EnsureIndexes: failed to create indexes", "error", err.Error())
	}
	return err
}

func (r *ListingRepository) Create(ctx context.Context, listing *domain.Listing) error {
	doc, err := toListingDocument(listing)
	if err != nil {
		return fmt.Errorf("failed to prepare listing for database: %w", err)
	}

	res, err := r.collection.InsertOne(ctx, doc)
	if err != nil {
		r.logger.Error("ListingRepository.Create: InsertOne failed", "host_id", listing.HostID, "error", err.Error())
		return err
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		r.logger.Error("ListingRepository.Create: InsertOne returned unexpected ID type", "type", fmt.Sprintf("%T", res.InsertedID))
		return errors.New("failed to retrieve generated listing ID")
	}
	listing.ID = oid.Hex()
	return nil
}

func (r *ListingRepository) FindByID(ctx context.Context, id string) (*domain.Listing, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrListingNotFound
	}

	var doc listingDocument
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrListingNotFound
		}
		r.logger.Error("ListingRepository.FindByID: FindOne failed", "listing_id", id, "error", err.Error())
		return nil, err
	}
	return toDomainListing(&doc), nil
}

func (r *ListingRepository) FindByHost(ctx context.Context, hostID string) ([]*domain.Listing, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"host_id": hostID},
		options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		r.logger.Error("ListingRepository.FindByHost: Find failed", "host_id", hostID, "error", err.Error())
		return nil, err
	}

	var docs []*listingDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	return toDomainListings(docs), nil
}

// FindNear returns candidates within radiusKm of center with capacity for at
// least minCapacity guests. The radius is padded slightly; callers re-check
// the exact haversine distance.
func (r *ListingRepository) FindNear(ctx context.Context, center domain.GeoPoint, radiusKm float64, minCapacity int) ([]*domain.Listing, error) {
	radians := radiusKm * 1.01 / geo.EarthRadiusKm

	query := bson.M{
		"location": bson.M{
			"$geoWithin": bson.M{
				"$centerSphere": bson.A{bson.A{center.Lon, center.Lat}, radians},
			},
		},
	}
	if minCapacity > 0 {
		query["guest_capacity"] = bson.M{"$gte": minCapacity}
	}

	cursor, err := r.collection.Find(ctx, query,
		options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		r.logger.Error("ListingRepository.FindNear: Find failed", "radius_km", radiusKm, "error", err.Error())
		return nil, err
	}

	var docs []*listingDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	return toDomainListings(docs), nil
}

func (r *ListingRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrListingNotFound
	}

	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		r.logger.Error("ListingRepository.Delete: DeleteOne failed", "listing_id", id, "error", err.Error())
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrListingNotFound
	}
	return nil
}
