package lock

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/staybooking/listing-service/internal/platform/logger"
)

const (
	lockTTL       = 30 * time.Second
	retryInterval = 50 * time.Millisecond
)

// releaseScript deletes the lock key only while we still own it, so an
// expired lock taken over by another caller is never released by us.
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

// RedisListingLocker serializes mutations per listing id across service
// instances with a SET NX + TTL advisory lock. The booking service takes the
// same "listing_lock:<id>" key before confirming a booking, which closes the
// window between the delete guard's availability check and the delete.
type RedisListingLocker struct {
	client *redis.Client
	logger *logger.Logger
}

func NewRedisListingLocker(addr string, log *logger.Logger) (*RedisListingLocker, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})
	if _, err := client.Ping(context.Background()).Result(); err != nil {
		return nil, err
	}
	return &RedisListingLocker{client: client, logger: log}, nil
}

// Acquire blocks until the per-listing lock is held or ctx is done. The TTL
// bounds how long a crashed holder can wedge the listing.
func (l *RedisListingLocker) Acquire(ctx context.Context, listingID string) (func(), error) {
	key := "listing_lock:" + listingID
	token := uuid.New().String()

	for {
		ok, err := l.client.SetNX(ctx, key, token, lockTTL).Result()
		if err != nil {
			return nil, err
		}
		if ok {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(retryInterval):
		}
	}

	release := func() {
		if err := releaseScript.Run(context.Background(), l.client, []string{key}, token).Err(); err != nil {
			l.logger.Error("RedisListingLocker: failed to release lock", "key", key, "error", err.Error())
		}
	}
	return release, nil
}
