package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/go-faster/errors"
	"github.com/redis/go-redis/v9"

	checkoutapp "github.com/dwikikusuma/storefront/internal/checkout/app"
)

const defaultNamespace = "storefront:handoff"

type HandoffStore struct {
	client    *redis.Client
	namespace string
}

func NewHandoffStore(client *redis.Client, namespace string) *HandoffStore {
	if namespace == "" {
		namespace = defaultNamespace
	}
	return &HandoffStore{client: client, namespace: namespace}
}

func (s *HandoffStore) Put(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if err := s.client.Set(ctx, s.GenerateKey(key), data, ttl).Err(); err != nil {
		return errors.Wrap(err, "redis set")
	}
	return nil
}

func (s *HandoffStore) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := s.client.Get(ctx, s.GenerateKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, checkoutapp.ErrNoHandoff
	}
	if err != nil {
		return nil, errors.Wrap(err, "redis get")
	}
	return b, nil
}

func (s *HandoffStore) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.GenerateKey(key)).Err()
}

func (s *HandoffStore) GenerateKey(key string) string {
	return fmt.Sprintf("%s:%s", s.namespace, key)
}
