package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/pageza/linkbio/backend/internal/models"
)

const (
	sessionKeyPrefix     = "session:"
	userSessionKeyPrefix = "user_sessions:"
)

// RedisSessionStore keeps sessions in Redis. Each token maps to its user id
// with a TTL equal to the token lifetime; a per-user set indexes the tokens
// for bulk removal.
type RedisSessionStore struct {
	client redis.UniversalClient
	now    func() time.Time
}

func NewRedisSessionStore(client redis.UniversalClient) *RedisSessionStore {
	return &RedisSessionStore{client: client, now: time.Now}
}

func sessionKey(token string) string {
	return sessionKeyPrefix + token
}

func userSessionsKey(userID uuid.UUID) string {
	return userSessionKeyPrefix + userID.String()
}

// CreateSession stores the session until its expiry. Sessions that are
// already expired are not stored.
func (s *RedisSessionStore) CreateSession(ctx context.Context, session *models.Session) error {
	ttl := session.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return nil
	}

	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, sessionKey(session.Token), session.UserID.String(), ttl)
		pipe.SAdd(ctx, userSessionsKey(session.UserID), session.Token)
		pipe.ExpireAt(ctx, userSessionsKey(session.UserID), session.ExpiresAt)
		return nil
	})
	return err
}

// GetSessionUserID returns the owner of token, or models.ErrNotFound when the
// session is missing or expired.
func (s *RedisSessionStore) GetSessionUserID(ctx context.Context, token string) (uuid.UUID, error) {
	value, err := s.client.Get(ctx, sessionKey(token)).Result()
	if errors.Is(err, redis.Nil) {
		return uuid.Nil, models.ErrNotFound
	}
	if err != nil {
		return uuid.Nil, err
	}
	return uuid.Parse(value)
}

func (s *RedisSessionStore) DeleteSession(ctx context.Context, token string) error {
	userID, err := s.GetSessionUserID(ctx, token)
	if errors.Is(err, models.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, sessionKey(token))
		pipe.SRem(ctx, userSessionsKey(userID), token)
		return nil
	})
	return err
}

func (s *RedisSessionStore) DeleteUserSessions(ctx context.Context, userID uuid.UUID) error {
	tokens, err := s.client.SMembers(ctx, userSessionsKey(userID)).Result()
	if err != nil {
		return err
	}

	keys := make([]string, 0, len(tokens)+1)
	for _, token := range tokens {
		keys = append(keys, sessionKey(token))
	}
	keys = append(keys, userSessionsKey(userID))
	return s.client.Del(ctx, keys...).Err()
}
