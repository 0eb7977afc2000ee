// Copyright (c) 2026 Forgeline. All rights reserved.
// Author: dev@forgeline.io

package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/forgeline/console/internal/platform/constants"
)

// RedisVault persists the session record in Redis.
//
// # Usage
//
// Chosen when several console instances must share one session (or when the
// local filesystem is ephemeral). The record is stored without a TTL: token
// invalidation is discovered lazily via 401, exactly like the file backend.
type RedisVault struct {
	client *redis.Client
	key    string
}

// NewRedisVault creates a [RedisVault] namespaced by sessionKey.
func NewRedisVault(client *redis.Client, sessionKey string) *RedisVault {
	return &RedisVault{
		client: client,
		key:    constants.RedisPrefixSession + sessionKey,
	}
}

/*
Load reads and decodes the persisted record.

Returns:
  - nil, nil when the key is absent (no session established yet).
  - error on connectivity failures or a corrupt record.
*/
func (vault *RedisVault) Load(ctx context.Context) (*Record, error) {
	raw, err := vault.client.Get(ctx, vault.key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("vault: redis get failed: %w", err)
	}

	record := &Record{}
	if err := json.Unmarshal([]byte(raw), record); err != nil {
		return nil, fmt.Errorf("vault: decode session record: %w", err)
	}

	return record, nil
}

// Save replaces the persisted record wholesale.
func (vault *RedisVault) Save(ctx context.Context, record *Record) error {
	raw, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("vault: encode session record: %w", err)
	}

	if err := vault.client.Set(ctx, vault.key, raw, 0).Err(); err != nil {
		return fmt.Errorf("vault: redis set failed: %w", err)
	}

	return nil
}

// Clear removes the persisted record.
func (vault *RedisVault) Clear(ctx context.Context) error {
	if err := vault.client.Del(ctx, vault.key).Err(); err != nil {
		return fmt.Errorf("vault: redis del failed: %w", err)
	}
	return nil
}

// Token reads the current bearer credential from the durable record.
func (vault *RedisVault) Token(ctx context.Context) (string, error) {
	record, err := vault.Load(ctx)
	if err != nil || record == nil {
		return "", err
	}
	return record.Token, nil
}
