package auth

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	refreshKeyPrefix     = "refresh:"
	refreshUserKeyPrefix = "refresh_user:"
)

// redisRefreshTokenStore keeps refresh tokens in Redis with TTL expiry.
type redisRefreshTokenStore struct {
	client *redis.Client
}

// NewRedisRefreshTokenStore returns a Redis-backed implementation.
func NewRedisRefreshTokenStore(client *redis.Client) RefreshTokenStore {
	return &redisRefreshTokenStore{client: client}
}

func (s *redisRefreshTokenStore) Save(ctx context.Context, token, userID string, ttl time.Duration) error {
	if err := s.client.Set(ctx, refreshKeyPrefix+token, userID, ttl).Err(); err != nil {
		return err
	}
	userKey := refreshUserKeyPrefix + userID
	if err := s.client.SAdd(ctx, userKey, token).Err(); err != nil {
		return err
	}
	// the per-user index may outlive individual tokens; bound it by the same TTL
	return s.client.Expire(ctx, userKey, ttl).Err()
}

func (s *redisRefreshTokenStore) Consume(ctx context.Context, token string) (string, error) {
	userID, err := s.client.GetDel(ctx, refreshKeyPrefix+token).Result()
	if err == redis.Nil {
		return "", ErrRefreshTokenInvalid
	}
	if err != nil {
		return "", err
	}
	_ = s.client.SRem(ctx, refreshUserKeyPrefix+userID, token).Err()
	return userID, nil
}

func (s *redisRefreshTokenStore) Lookup(ctx context.Context, token string) (string, error) {
	userID, err := s.client.Get(ctx, refreshKeyPrefix+token).Result()
	if err == redis.Nil {
		return "", ErrRefreshTokenInvalid
	}
	if err != nil {
		return "", err
	}
	return userID, nil
}

func (s *redisRefreshTokenStore) Delete(ctx context.Context, token string) error {
	userID, err := s.client.Get(ctx, refreshKeyPrefix+token).Result()
	if err == redis.Nil {
		return nil
	}
	if err != nil {
		return err
	}
	if err := s.client.Del(ctx, refreshKeyPrefix+token).Err(); err != nil {
		return err
	}
	return s.client.SRem(ctx, refreshUserKeyPrefix+userID, token).Err()
}

func (s *redisRefreshTokenStore) DeleteAllForUser(ctx context.Context, userID string) error {
	userKey := refreshUserKeyPrefix + userID
	tokens, err := s.client.SMembers(ctx, userKey).Result()
	if err != nil && err != redis.Nil {
		return err
	}
	for _, token := range tokens {
		if err := s.client.Del(ctx, refreshKeyPrefix+token).Err(); err != nil {
			return err
		}
	}
	return s.client.Del(ctx, userKey).Err()
}
