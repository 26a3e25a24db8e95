package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// RedisKV keeps keys in a Redis database.
type RedisKV struct {
	client *redis.Client
	addr   string
	db     int
}

// NewRedisKV connects to addr/db and checks the connection.
func NewRedisKV(addr string, db int) (*RedisKV, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}

	return &RedisKV{client: client, addr: addr, db: db}, nil
}

// NewRedisKVFromClient wraps an existing client without pinging it.
func NewRedisKVFromClient(client *redis.Client) *RedisKV {
	opts := client.Options()
	return &RedisKV{client: client, addr: opts.Addr, db: opts.DB}
}

func (r *RedisKV) Get(ctx context.Context, key string) (string, error) {
	v, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	return v, err
}

// Set stores value with no expiry.
func (r *RedisKV) Set(ctx context.Context, key, value string) error {
	return r.client.Set(ctx, key, value, 0).Err()
}

func (r *RedisKV) Delete(ctx context.Context, key string) error {
	n, err := r.client.Del(ctx, key).Result()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *RedisKV) Close() error {
	return r.client.Close()
}

func (r *RedisKV) Describe() string {
	return fmt.Sprintf("redis://%s/%d", r.addr, r.db)
}
