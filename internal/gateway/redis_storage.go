package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/go-redis/redis/v8"
)

const defaultRedisPrefix = "streetpaws:gateway"

// RedisStorage comparte el cache entre varias instancias del gateway.
// Cada namespace es un hash; el set <prefix>:caches lista los namespaces.
type RedisStorage struct {
	rdb    *redis.Client
	prefix string
}

func NewRedisStorage(rdb *redis.Client, prefix string) *RedisStorage {
	if prefix == "" {
		prefix = defaultRedisPrefix
	}
	return &RedisStorage{rdb: rdb, prefix: prefix}
}

func (s *RedisStorage) namesKey() string { return s.prefix + ":caches" }

func (s *RedisStorage) hashKey(name string) string { return s.prefix + ":cache:" + name }

func (s *RedisStorage) Open(ctx context.Context, name string) (Cache, error) {
	if err := s.rdb.SAdd(ctx, s.namesKey(), name).Err(); err != nil {
		return nil, fmt.Errorf("redis open cache %q: %w", name, err)
	}
	return &redisCache{s: s, name: name}, nil
}

func (s *RedisStorage) Has(ctx context.Context, name string) (bool, error) {
	return s.rdb.SIsMember(ctx, s.namesKey(), name).Result()
}

func (s *RedisStorage) Keys(ctx context.Context) ([]string, error) {
	names, err := s.rdb.SMembers(ctx, s.namesKey()).Result()
	if err != nil {
		return nil, err
	}
	sort.Strings(names)
	return names, nil
}

func (s *RedisStorage) Delete(ctx context.Context, name string) (bool, error) {
	var removed *redis.IntCmd
	_, err := s.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		removed = p.SRem(ctx, s.namesKey(), name)
		p.Del(ctx, s.hashKey(name))
		return nil
	})
	if err != nil {
		return false, err
	}
	return removed.Val() > 0, nil
}

type redisCache struct {
	s    *RedisStorage
	name string
}

func (c *redisCache) Match(ctx context.Context, key string) (Entry, bool, error) {
	raw, err := c.s.rdb.HGet(ctx, c.s.hashKey(c.name), key).Bytes()
	if errors.Is(err, redis.Nil) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, err
	}

	var e Entry
	if err := json.Unmarshal(raw, &e); err != nil {
		return Entry{}, false, fmt.Errorf("decode cache entry: %w", err)
	}
	return e, true, nil
}

func (c *redisCache) Put(ctx context.Context, key string, e Entry) error {
	ok, err := c.s.Has(ctx, c.name)
	if err != nil || !ok {
		return err
	}
	raw, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return c.s.rdb.HSet(ctx, c.s.hashKey(c.name), key, raw).Err()
}

func (c *redisCache) Delete(ctx context.Context, key string) error {
	return c.s.rdb.HDel(ctx, c.s.hashKey(c.name), key).Err()
}
