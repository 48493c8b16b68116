package workspace

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"omnia-service/internal/domain/business"

	"github.com/redis/go-redis/v9"
	"github.com/vmihailenco/msgpack/v5"
)

const maxTxRetries = 5

// RedisStore keeps snapshots as msgpack blobs. All keys of one business
// share a hash tag so WATCH works on a cluster too.
type RedisStore struct {
	client redis.UniversalClient
	ttl    time.Duration
	now    func() time.Time
}

func NewRedisStore(client redis.UniversalClient, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl, now: time.Now}
}

func snapshotKey(businessID string) string {
	return "omnia:ws:{" + businessID + "}:snapshot"
}

func redisTokenKey(businessID string, kind Kind) string {
	return "omnia:ws:{" + businessID + "}:token:" + string(kind)
}

// NextToken increments the counter and refreshes its expiry with the
// snapshot TTL, so idle businesses do not leave counters behind.
func (r *RedisStore) NextToken(ctx context.Context, businessID string, kind Kind) (uint64, error) {
	key := redisTokenKey(businessID, kind)
	var incr *redis.IntCmd
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		if r.ttl > 0 {
			pipe.Expire(ctx, key, r.ttl)
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to issue generation token: %w", err)
	}
	n, err := incr.Uint64()
	if err != nil {
		return 0, fmt.Errorf("failed to issue generation token: %w", err)
	}
	return n, nil
}

func (r *RedisStore) Apply(ctx context.Context, businessID string, res Result) (bool, error) {
	tKey := redisTokenKey(businessID, res.Kind)
	sKey := snapshotKey(businessID)
	applied := false

	txf := func(tx *redis.Tx) error {
		applied = false
		latest, err := tx.Get(ctx, tKey).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if latest != strconv.FormatUint(res.Token, 10) {
			return nil
		}

		snap, err := r.load(ctx, tx, businessID)
		if err != nil {
			return err
		}
		snap.apply(res, r.now())
		data, err := msgpack.Marshal(snap)
		if err != nil {
			return fmt.Errorf("failed to encode snapshot: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, sKey, data, r.ttl)
			return nil
		})
		if err == nil {
			applied = true
		}
		return err
	}

	for i := 0; i < maxTxRetries; i++ {
		err := r.client.Watch(ctx, txf, tKey, sKey)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return false, fmt.Errorf("failed to apply %s result: %w", res.Kind, err)
		}
		return applied, nil
	}
	return false, fmt.Errorf("failed to apply %s result: too much contention", res.Kind)
}

func (r *RedisStore) SaveProfile(ctx context.Context, businessID string, p business.Profile) error {
	sKey := snapshotKey(businessID)
	txf := func(tx *redis.Tx) error {
		snap, err := r.load(ctx, tx, businessID)
		if err != nil {
			return err
		}
		snap.Profile = &p
		snap.UpdatedAt = r.now()
		data, err := msgpack.Marshal(snap)
		if err != nil {
			return fmt.Errorf("failed to encode snapshot: %w", err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, sKey, data, r.ttl)
			return nil
		})
		return err
	}

	for i := 0; i < maxTxRetries; i++ {
		err := r.client.Watch(ctx, txf, sKey)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to save profile snapshot: %w", err)
		}
		return nil
	}
	return fmt.Errorf("failed to save profile snapshot: too much contention")
}

func (r *RedisStore) Get(ctx context.Context, businessID string) (*Snapshot, error) {
	return r.load(ctx, r.client, businessID)
}

func (r *RedisStore) Delete(ctx context.Context, businessID string) error {
	if err := r.client.Del(ctx, snapshotKey(businessID)).Err(); err != nil {
		return fmt.Errorf("failed to delete workspace: %w", err)
	}
	return nil
}

// getter is satisfied by both the client and a WATCH transaction.
type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func (r *RedisStore) load(ctx context.Context, c getter, businessID string) (*Snapshot, error) {
	data, err := c.Get(ctx, snapshotKey(businessID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return &Snapshot{BusinessID: businessID}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}

	var snap Snapshot
	if err := msgpack.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return &snap, nil
}
