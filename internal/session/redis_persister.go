package session

import (
	"context"
	"fmt"

	"github.com/prohmpiriya/canteen-storefront/pkg/redis"
)

// RedisPersister keeps the session document in Redis under one key, for
// front ends without a durable local disk
type RedisPersister struct {
	client *redis.Client
	key    string
}

// NewRedisPersister creates a Redis persister. An empty key uses DefaultKey.
func NewRedisPersister(client *redis.Client, key string) *RedisPersister {
	if key == "" {
		key = DefaultKey
	}
	return &RedisPersister{client: client, key: key}
}

func (p *RedisPersister) Load(ctx context.Context) (State, error) {
	data, err := p.client.GetBytes(ctx, p.key)
	if redis.IsNil(err) {
		return State{}, nil
	}
	if err != nil {
		return State{}, fmt.Errorf("failed to load session from redis: %w", err)
	}
	return decodeDocument(data)
}

func (p *RedisPersister) Save(ctx context.Context, state State) error {
	data, err := encodeDocument(state)
	if err != nil {
		return err
	}
	if err := p.client.Set(ctx, p.key, data, 0); err != nil {
		return fmt.Errorf("failed to save session to redis: %w", err)
	}
	return nil
}
