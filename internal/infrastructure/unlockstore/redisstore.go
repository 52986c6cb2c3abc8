package unlockstore

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"tailorcv/internal/domain/entitlement"
	"tailorcv/internal/shared/biztime"
	"tailorcv/internal/shared/logger"
)

// RedisStore keeps purchase records in Redis with a TTL derived from the
// record expiry, so expired records disappear without a sweeper. Useful when
// the API runs more than one replica and webhook delivery may land on a
// different process than the confirmation call.
type RedisStore struct {
	client *redis.Client
	logger logger.Interface
}

func NewRedisStore(client *redis.Client, log logger.Interface) *RedisStore {
	return &RedisStore{client: client, logger: log}
}

func sessionKey(sessionID string) string {
	return fmt.Sprintf("unlock:session:%s", sessionID)
}

func emailKey(email string) string {
	return fmt.Sprintf("unlock:email:%s", email)
}

func (s *RedisStore) Save(ctx context.Context, record *entitlement.PurchaseRecord) error {
	ttl := time.Until(record.ExpiresAt)
	if ttl <= 0 {
		return nil
	}

	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal purchase record: %w", err)
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, sessionKey(record.SessionID), payload, ttl)
	if record.Email != "" {
		pipe.Set(ctx, emailKey(record.Email), record.SessionID, ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		s.logger.Errorw("failed to save purchase record to redis",
			"session_id", record.SessionID,
			"error", err,
		)
		return fmt.Errorf("failed to save purchase record: %w", err)
	}
	return nil
}

func (s *RedisStore) GetBySession(ctx context.Context, sessionID string) (*entitlement.PurchaseRecord, error) {
	payload, err := s.client.Get(ctx, sessionKey(sessionID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get purchase record: %w", err)
	}

	var record entitlement.PurchaseRecord
	if err := json.Unmarshal(payload, &record); err != nil {
		s.logger.Warnw("corrupt purchase record in redis, dropping",
			"session_id", sessionID,
			"error", err,
		)
		s.client.Del(ctx, sessionKey(sessionID))
		return nil, nil
	}
	if record.Expired(biztime.NowUTC()) {
		s.client.Del(ctx, sessionKey(sessionID))
		return nil, nil
	}
	return &record, nil
}

func (s *RedisStore) GetLatestByEmail(ctx context.Context, email string) (*entitlement.PurchaseRecord, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	sessionID, err := s.client.Get(ctx, emailKey(email)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve email mapping: %w", err)
	}

	record, err := s.GetBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if record == nil {
		s.client.Del(ctx, emailKey(email))
	}
	return record, nil
}
