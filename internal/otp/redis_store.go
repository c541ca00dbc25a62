package otp

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const codeKeyPrefix = "otp:code:"

// RedisStore keeps codes in Redis, one key per phone. Keys are
// retained for twice the code window so an expired-but-recent code
// can still be reported as expired rather than not found.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore wraps an initialized Redis client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Put(ctx context.Context, phone string, code StoredCode) error {
	payload, err := json.Marshal(code)
	if err != nil {
		return err
	}

	retain := 2 * time.Until(code.ExpiresAt)
	if retain <= 0 {
		retain = time.Minute
	}

	return s.client.Set(ctx, codeKeyPrefix+phone, payload, retain).Err()
}

func (s *RedisStore) Get(ctx context.Context, phone string) (StoredCode, error) {
	payload, err := s.client.Get(ctx, codeKeyPrefix+phone).Bytes()
	if errors.Is(err, redis.Nil) {
		return StoredCode{}, ErrCodeNotFound
	}
	if err != nil {
		return StoredCode{}, err
	}

	var code StoredCode
	if err := json.Unmarshal(payload, &code); err != nil {
		return StoredCode{}, err
	}
	return code, nil
}

// Consume removes the key and returns its last value atomically via GETDEL.
func (s *RedisStore) Consume(ctx context.Context, phone string) (StoredCode, bool, error) {
	payload, err := s.client.GetDel(ctx, codeKeyPrefix+phone).Bytes()
	if errors.Is(err, redis.Nil) {
		return StoredCode{}, false, nil
	}
	if err != nil {
		return StoredCode{}, false, err
	}

	var code StoredCode
	if err := json.Unmarshal(payload, &code); err != nil {
		return StoredCode{}, false, err
	}
	return code, true, nil
}

func (s *RedisStore) Delete(ctx context.Context, phone string) error {
	return s.client.Del(ctx, codeKeyPrefix+phone).Err()
}
