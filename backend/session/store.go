// Package session keeps login sessions in Redis with a TTL. The key is
// the signed token handed to the client, so logout and expiry both
// revoke the token server-side no matter how long the JWT itself lives.
package session

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

type Store struct {
	client *redis.Client
	ttl    time.Duration
}

func NewStore(addr, password string, ttl time.Duration) *Store {
	return &Store{
		client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
		}),
		ttl: ttl,
	}
}

func sessionKey(token string) string {
	return "session:" + token
}

// Create writes a token -> userID mapping with TTL.
func (s *Store) Create(ctx context.Context, token string, userID uint) error {
	return s.client.Set(ctx, sessionKey(token), fmt.Sprint(userID), s.ttl).Err()
}

// Get resolves a token to its user id. The bool is false when the
// session does not exist or has expired.
func (s *Store) Get(ctx context.Context, token string) (uint, bool, error) {
	val, err := s.client.Get(ctx, sessionKey(token)).Result()
	if err == redis.Nil {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	userID, err := strconv.ParseUint(val, 10, 64)
	if err != nil {
		return 0, false, err
	}
	return uint(userID), true, nil
}

// Delete removes a session. Deleting a missing session is not an error.
func (s *Store) Delete(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, sessionKey(token)).Err(); err != nil && err != redis.Nil {
		return err
	}
	return nil
}
