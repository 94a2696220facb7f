package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisOAuthStateRepository keeps single-use login state nonces. Consume is
// a GETDEL so a replayed callback cannot reuse a state.
type RedisOAuthStateRepository struct {
	client *redis.Client
}

func NewRedisOAuthStateRepository(client *redis.Client) *RedisOAuthStateRepository {
	return &RedisOAuthStateRepository{client: client}
}

func stateKey(state string) string {
	return "oauth:state:" + state
}

func (r *RedisOAuthStateRepository) Save(ctx context.Context, state string, ttl time.Duration) error {
	return r.client.Set(ctx, stateKey(state), "1", ttl).Err()
}

func (r *RedisOAuthStateRepository) Consume(ctx context.Context, state string) (bool, error) {
	err := r.client.GetDel(ctx, stateKey(state)).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
