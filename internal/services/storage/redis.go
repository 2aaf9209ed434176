package storage

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/phambaophuc/showcase/internal/config"
	"github.com/redis/go-redis/v9"
)

const usageKey = "__usage__"

// setItemScript replaces KEYS[1] and adjusts the usage counter in KEYS[2]
// atomically, refusing the write when it would exceed the quota in ARGV[2].
var setItemScript = redis.NewScript(`
local keyLen = tonumber(ARGV[3])
local old = 0
if redis.call('EXISTS', KEYS[1]) == 1 then
	old = redis.call('STRLEN', KEYS[1]) + keyLen
end
local new = string.len(ARGV[1]) + keyLen
local used = tonumber(redis.call('GET', KEYS[2]) or '0')
local quota = tonumber(ARGV[2])
if quota > 0 and used - old + new > quota then
	return redis.error_reply('QUOTA namespace is full')
end
redis.call('SET', KEYS[1], ARGV[1])
redis.call('INCRBY', KEYS[2], new - old)
return used - old + new
`)

var removeItemScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then
	return 0
end
local size = redis.call('STRLEN', KEYS[1]) + tonumber(ARGV[1])
redis.call('DEL', KEYS[1])
redis.call('DECRBY', KEYS[2], size)
return size
`)

type RedisNamespace struct {
	redisClient *redis.Client
	prefix      string
	quota       int64
}

func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     10,
		MinIdleConns: 2,
		DialTimeout:  3 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})
}

// NewRedisNamespace stores items under prefix+key. quota <= 0 leaves sizing
// to the server's maxmemory policy.
func NewRedisNamespace(client *redis.Client, prefix string, quota int64) *RedisNamespace {
	return &RedisNamespace{
		redisClient: client,
		prefix:      prefix,
		quota:       quota,
	}
}

func (r *RedisNamespace) SetItem(ctx context.Context, key, value string) error {
	err := setItemScript.Run(ctx, r.redisClient,
		[]string{r.prefix + key, r.prefix + usageKey},
		value, strconv.FormatInt(r.quota, 10), len(key),
	).Err()
	if err != nil {
		if isQuotaError(err) {
			return fmt.Errorf("%w: %v", ErrQuotaExceeded, err)
		}
		return fmt.Errorf("redis set error: %w", err)
	}
	return nil
}

func (r *RedisNamespace) GetItem(ctx context.Context, key string) (string, bool, error) {
	value, err := r.redisClient.Get(ctx, r.prefix+key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("redis get error: %w", err)
	}
	return value, true, nil
}

func (r *RedisNamespace) RemoveItem(ctx context.Context, key string) error {
	err := removeItemScript.Run(ctx, r.redisClient,
		[]string{r.prefix + key, r.prefix + usageKey},
		len(key),
	).Err()
	if err != nil {
		return fmt.Errorf("redis remove error: %w", err)
	}
	return nil
}

func (r *RedisNamespace) Ping(ctx context.Context) error {
	return r.redisClient.Ping(ctx).Err()
}

func (r *RedisNamespace) Close() error {
	return r.redisClient.Close()
}

// Used reports the bytes counted against the quota.
func (r *RedisNamespace) Used(ctx context.Context) (int64, error) {
	used, err := r.redisClient.Get(ctx, r.prefix+usageKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return used, err
}

func isQuotaError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "QUOTA") || strings.HasPrefix(msg, "OOM")
}
