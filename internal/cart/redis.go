// internal/cart/redis.go
package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// cartTTL bounds how long an abandoned cart survives.
const cartTTL = 7 * 24 * time.Hour

// RedisPersistence stores one cart snapshot under a named slot key.
type RedisPersistence struct {
	client *redis.Client
	slot   string
}

func NewRedisPersistence(client *redis.Client, slot string) *RedisPersistence {
	return &RedisPersistence{client: client, slot: slot}
}

func (r *RedisPersistence) Save(ctx context.Context, items map[uuid.UUID]LineItem) error {
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("marshal cart failed: %w", err)
	}

	if err := r.client.Set(ctx, r.slot, data, cartTTL).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (r *RedisPersistence) Load(ctx context.Context) (map[uuid.UUID]LineItem, error) {
	data, err := r.client.Get(ctx, r.slot).Bytes()
	if errors.Is(err, redis.Nil) {
		return map[uuid.UUID]LineItem{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var items map[uuid.UUID]LineItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("unmarshal cart failed: %w", err)
	}
	return items, nil
}

// SlotKey names the persisted slot for a storefront session. Two tabs sharing
// a session share the slot, last writer wins; that hazard is accepted.
func SlotKey(sessionID string) string {
	return fmt.Sprintf("cart:%s", sessionID)
}
