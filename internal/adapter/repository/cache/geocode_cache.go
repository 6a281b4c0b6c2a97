package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/staybooking/listing-service/internal/listing/domain"
	"github.com/staybooking/listing-service/internal/platform/logger"
)

const geocodeTTL = 24 * time.Hour

// GeocodeCache is a read-through Redis cache in front of a Geocoder.
// Addresses rarely move, so results are cached for a day. Cache errors
// degrade to a provider call and never fail the resolution.
type GeocodeCache struct {
	client *redis.Client
	next   domain.Geocoder
	logger *logger.Logger
}

func NewGeocodeCache(addr string, next domain.Geocoder, log *logger.Logger) (*GeocodeCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr, // e.g., "localhost:6379"
	})
	if _, err := client.Ping(context.Background()).Result(); err != nil {
		return nil, err
	}
	return &GeocodeCache{client: client, next: next, logger: log}, nil
}

func (c *GeocodeCache) Resolve(ctx context.Context, address string) (domain.GeoPoint, error) {
	key := "geocode:" + address

	data, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		var point domain.GeoPoint
		if json.Unmarshal(data, &point) == nil {
			return point, nil
		}
	} else if err != redis.Nil {
		c.logger.Warn("GeocodeCache.Resolve: cache read failed, falling back to provider", "error", err.Error())
	}

	point, err := c.next.Resolve(ctx, address)
	if err != nil {
		return domain.GeoPoint{}, err
	}

	if data, err := json.Marshal(point); err == nil {
		if err := c.client.Set(ctx, key, data, geocodeTTL).Err(); err != nil {
			c.logger.Warn("GeocodeCache.Resolve: cache write failed", "error", err.Error())
		}
	}
	return point, nil
}
