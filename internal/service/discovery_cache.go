package service

import (
	"context"
	"encoding/json"
	"errors"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// DiscoveryCache guarda resultados de discovery ya calculados. Vive fuera del motor:
// la clave incluye la version del perfil del viewer, asi que un cambio de perfil
// invalida solo; los cambios de candidatos quedan acotados por el TTL.
type DiscoveryCache interface {
	Get(ctx context.Context, key string) (DiscoveryResult, bool, error)
	Set(ctx context.Context, key string, result DiscoveryResult, ttl time.Duration) error
}

type memoryEntry struct {
	result    DiscoveryResult
	expiresAt time.Time
}

type memoryDiscoveryCache struct {
	mu    sync.Mutex
	items map[string]memoryEntry
}

func NewMemoryDiscoveryCache() DiscoveryCache {
	return &memoryDiscoveryCache{
		items: make(map[string]memoryEntry),
	}
}

func (c *memoryDiscoveryCache) Get(_ context.Context, key string) (DiscoveryResult, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.items[key]
	if !ok {
		return DiscoveryResult{}, false, nil
	}
	if time.Now().UTC().After(entry.expiresAt) {
		delete(c.items, key)
		return DiscoveryResult{}, false, nil
	}
	return cloneResult(entry.result), true, nil
}

func (c *memoryDiscoveryCache) Set(_ context.Context, key string, result DiscoveryResult, ttl time.Duration) error {
	if strings.TrimSpace(key) == "" || ttl <= 0 {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = memoryEntry{result: cloneResult(result), expiresAt: time.Now().UTC().Add(ttl)}
	return nil
}

// cloneResult separa los slices del resultado de los de la entrada guardada.
func cloneResult(r DiscoveryResult) DiscoveryResult {
	r.Matches = slices.Clone(r.Matches)
	r.RelaxedFilterKeys = slices.Clone(r.RelaxedFilterKeys)
	return r
}

type redisKVClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

type redisDiscoveryCache struct {
	client redisKVClient
	prefix string
}

func NewRedisDiscoveryCache(client *redis.Client) DiscoveryCache {
	if client == nil {
		return nil
	}
	return &redisDiscoveryCache{
		client: client,
		prefix: "discovery:",
	}
}

func (c *redisDiscoveryCache) Get(ctx context.Context, key string) (DiscoveryResult, bool, error) {
	if strings.TrimSpace(key) == "" {
		return DiscoveryResult{}, false, nil
	}
	ctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()

	raw, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return DiscoveryResult{}, false, nil
	}
	if err != nil {
		return DiscoveryResult{}, false, err
	}
	var result DiscoveryResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return DiscoveryResult{}, false, err
	}
	return result, true, nil
}

func (c *redisDiscoveryCache) Set(ctx context.Context, key string, result DiscoveryResult, ttl time.Duration) error {
	if strings.TrimSpace(key) == "" || ttl <= 0 {
		return nil
	}
	payload, err := json.Marshal(result)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()
	return c.client.Set(ctx, c.prefix+key, payload, ttl).Err()
}
