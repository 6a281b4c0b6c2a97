package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/staybooking/listing-service/internal/listing/domain"
	"github.com/staybooking/listing-service/internal/platform/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type FavoriteRepository struct {
	collection *mongo.Collection
	logger     *logger.Logger
}

func NewFavoriteRepository(db *mongo.Database, log *logger.Logger) *FavoriteRepository {
	return &FavoriteRepository{
		collection: db.Collection("favorites"),
		logger:     log,
	}
}

// EnsureIndexes creates the unique guest+listing index duplicate detection
// relies on.
func (r *FavoriteRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "guest_id", Value: 1}, {Key: "listing_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		r.logger.Error("FavoriteRepository.EnsureIndexes: failed to create index", "error", err.Error())
	}
	return err
}

func (r *FavoriteRepository) Add(ctx context.Context, favorite *domain.Favorite) error {
	favorite.CreatedAt = time.Now().UTC()

	doc, err := toFavoriteDocument(favorite)
	if err != nil {
		return fmt.Errorf("failed to prepare favorite for database: %w", err)
	}

	res, err := r.collection.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicateFavorite
		}
		r.logger.Error("FavoriteRepository.Add: InsertOne failed", "guest_id", favorite.GuestID, "listing_id", favorite.ListingID, "error", err.Error())
		return err
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		r.logger.Error("FavoriteRepository.Add: InsertOne returned unexpected ID type", "type", fmt.Sprintf("%T", res.InsertedID))
		return errors.New("failed to retrieve generated favorite ID")
	}
	favorite.ID = oid.Hex()
	return nil
}

func (r *FavoriteRepository) Remove(ctx context.Context, guestID, listingID string) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"guest_id": guestID, "listing_id": listingID})
	if err != nil {
		r.logger.Error("FavoriteRepository.Remove: DeleteOne failed", "guest_id", guestID, "listing_id", listingID, "error", err.Error())
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrFavoriteNotFound
	}
	return nil
}

func (r *FavoriteRepository) FindByGuest(ctx context.Context, guestID string) ([]*domain.Favorite, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"guest_id": guestID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		r.logger.Error("FavoriteRepository.FindByGuest: Find failed", "guest_id", guestID, "error", err.Error())
		return nil, err
	}

	var docs []*favoriteDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	favorites := make([]*domain.Favorite, 0, len(docs))
	for _, doc := range docs {
		favorites = append(favorites, toDomainFavorite(doc))
	}
	return favorites, nil
}
