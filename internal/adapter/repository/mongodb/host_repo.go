package mongodb

import (
	"context"
	"errors"
	"fmt"

	"github.com/staybooking/listing-service/internal/platform/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// HostRepository reads the users collection owned by the user service to
// resolve host contact addresses for notifications.
type HostRepository struct {
	collection *mongo.Collection
	logger     *logger.Logger
}

func NewHostRepository(db *mongo.Database, log *logger.Logger) *HostRepository {
	return &HostRepository{
		collection: db.Collection("users"),
		logger:     log,
	}
}

func (r *HostRepository) GetEmailByID(ctx context.Context, hostID string) (string, error) {
	oid, err := primitive.ObjectIDFromHex(hostID)
	if err != nil {
		return "", fmt.Errorf("invalid host ID format: %w", err)
	}

	var doc struct {
		Email string `bson:"email"`
	}
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", errors.New("host not found")
		}
		r.logger.Error("HostRepository.GetEmailByID: FindOne failed", "host_id", hostID, "error", err.Error())
		return "", err
	}
	return doc.Email, nil
}
