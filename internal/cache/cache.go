// Package cache stores serialized read models (deals, places) in memory or
// Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

// Cache is implemented by MemoryCache and RedisCache.
type Cache interface {
	// Get returns ErrMiss when the key is absent or expired.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key. A zero ttl uses the configured default.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	Delete(ctx context.Context, key string) error

	Ping(ctx context.Context) error

	Close() error
}

// Config holds settings shared by every implementation.
type Config struct {
	DefaultTTL time.Duration
	Prefix     string
}

// DefaultConfig returns a five minute TTL under the "skybooker:" prefix.
func DefaultConfig() *Config {
	return &Config{
		DefaultTTL: 5 * time.Minute,
		Prefix:     "skybooker:",
	}
}

// ErrMiss is returned by Get when nothing is stored under the key.
var ErrMiss = errors.New("cache: miss")

// Error wraps a backend failure.
type Error struct {
	Op  string
	Key string
	Err error
}

func (e *Error) Error() string {
	if e.Key == "" {
		return "cache " + e.Op + " failed: " + e.Err.Error()
	}
	return "cache " + e.Op + " " + e.Key + " failed: " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// GetJSON decodes the value stored under key into dst.
func GetJSON(ctx context.Context, c Cache, key string, dst any) error {
	data, err := c.Get(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return &Error{Op: "decode", Key: key, Err: err}
	}
	return nil
}

// SetJSON encodes v and stores it under key.
func SetJSON(ctx context.Context, c Cache, key string, v any, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return &Error{Op: "encode", Key: key, Err: err}
	}
	return c.Set(ctx, key, data, ttl)
}
