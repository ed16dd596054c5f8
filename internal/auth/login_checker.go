package auth

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
)

const (
	// DefaultTTL matches the id token lifetime the provider issues.
	DefaultTTL       = time.Hour
	sessionKeyPrefix = "dadhichi-session||"
)

// LoginChecker validates session tokens stored on sign-in.
type LoginChecker struct {
	redisClient *redis.Client
}

func NewLoginChecker(redisClient *redis.Client) *LoginChecker {
	return &LoginChecker{
		redisClient: redisClient,
	}
}

// UserID returns the provider local id the token was issued for, or an empty string
// if the session does not exist or expired.
func (c *LoginChecker) UserID(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", nil
	}

	cmd := c.redisClient.Get(ctx, sessionKeyPrefix+token)
	if err := cmd.Err(); errors.Is(err, redis.Nil) {
		return "", nil
	} else if err != nil {
		return "", err
	}

	return cmd.Val(), nil
}

func (c *LoginChecker) IsLogged(ctx context.Context, token string) (bool, error) {
	userID, err := c.UserID(ctx, token)
	if err != nil {
		return false, err
	}
	return userID != "", nil
}

// SessionStore keeps provider tokens in redis for their lifetime.
type SessionStore struct {
	redisClient *redis.Client
}

func NewSessionStore(redisClient *redis.Client) *SessionStore {
	return &SessionStore{
		redisClient: redisClient,
	}
}

func (s *SessionStore) Save(ctx context.Context, token, userID string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return s.redisClient.Set(ctx, sessionKeyPrefix+token, userID, ttl).Err()
}

// Delete removes the session, and reports whether it existed.
func (s *SessionStore) Delete(ctx context.Context, token string) (bool, error) {
	cmd := s.redisClient.Del(ctx, sessionKeyPrefix+token)
	if err := cmd.Err(); err != nil {
		return false, err
	}
	return cmd.Val() > 0, nil
}
