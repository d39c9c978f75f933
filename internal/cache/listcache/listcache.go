// Package listcache caches rendered book list responses in redis. Keys
// carry a version number that every book write bumps, so stale entries
// are never read again and simply expire.
package listcache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	VersionKey = "books:list:ver"
	keyPrefix  = "books:list:v"
)

type Cache struct {
	rdb       *redis.Client
	ttl       time.Duration
	opTimeout time.Duration
	log       *zap.Logger
}

// New returns nil when rdb is nil; a nil *Cache is a valid, disabled cache.
func New(rdb *redis.Client, ttl, opTimeout time.Duration, log *zap.Logger) *Cache {
	if rdb == nil {
		return nil
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Cache{rdb: rdb, ttl: ttl, opTimeout: opTimeout, log: log}
}

// Lookup is the result of Get. Pass it back to Put to store a fresh body
// under the version that was current before the database was read.
type Lookup struct {
	Key  string
	Body []byte
	Hit  bool

	failed bool
}

func Key(version int64, canonical string) string {
	return fmt.Sprintf("%s%d:%s", keyPrefix, version, canonical)
}

func (c *Cache) Get(ctx context.Context, canonical string) Lookup {
	if c == nil {
		return Lookup{failed: true}
	}
	ctx, cancel := context.WithTimeout(ctx, c.opTimeout)
	defer cancel()

	ver, err := c.rdb.Get(ctx, VersionKey).Int64()
	if errors.Is(err, redis.Nil) {
		ver, err = 1, nil
	}
	if err != nil {
		c.warn("cache version read failed; bypassing cache", err)
		return Lookup{failed: true}
	}

	l := Lookup{Key: Key(ver, canonical)}
	body, err := c.rdb.Get(ctx, l.Key).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
	case err != nil:
		c.warn("cache get failed; bypassing cache", err)
		l.failed = true
	default:
		l.Body, l.Hit = body, true
	}
	return l
}

func (c *Cache) Put(ctx context.Context, l Lookup, body []byte) {
	if c == nil || l.failed || l.Key == "" {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, c.opTimeout)
	defer cancel()
	if err := c.rdb.Set(ctx, l.Key, body, c.ttl).Err(); err != nil {
		c.warn("cache set failed", err)
	}
}

// Bump invalidates every cached list. Call after a committed book write.
func (c *Cache) Bump(ctx context.Context) error {
	if c == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, c.opTimeout)
	defer cancel()
	// A missing counter reads as 1, so seed it before INCR or the first
	// bump would land back on version 1.
	_, err := c.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.SetNX(ctx, VersionKey, 1, 0)
		pipe.Incr(ctx, VersionKey)
		return nil
	})
	if err != nil {
		return fmt.Errorf("bump list cache version: %w", err)
	}
	return nil
}

func (c *Cache) warn(msg string, err error) {
	c.log.Warn(msg, zap.Error(err))
}
