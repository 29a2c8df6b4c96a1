package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
)

// Cache curto de disponibilidade + lock das varreduras. Tudo vira
// no-op quando o redis não está configurado. O core nunca depende
// do cache para correção: o booking sempre recheca no banco.
type Cache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewClient devolve nil quando a URL está vazia (cache desligado).
func NewClient(url string) *redis.Client {
	if url == "" {
		return nil
	}

	opt, err := redis.ParseURL(url)
	if err != nil {
		log.Printf("invalid REDIS_URL, cache disabled: %v", err)
		return nil
	}
	return redis.NewClient(opt)
}

func New(rdb *redis.Client, ttl time.Duration) *Cache {
	return &Cache{rdb: rdb, ttl: ttl}
}

func availabilityKey(staffID uint, date string) string {
	return fmt.Sprintf("availability:%d:%s", staffID, date)
}

func (c *Cache) GetAvailability(ctx context.Context, staffID uint, date string, dest any) bool {
	if c == nil || c.rdb == nil {
		return false
	}

	raw, err := c.rdb.Get(ctx, availabilityKey(staffID, date)).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(raw, dest) == nil
}

func (c *Cache) SetAvailability(ctx context.Context, staffID uint, date string, v any) {
	if c == nil || c.rdb == nil {
		return
	}

	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, availabilityKey(staffID, date), raw, c.ttl).Err(); err != nil {
		log.Printf("availability cache set failed: %v", err)
	}
}

// InvalidateAvailability: chamado em toda escrita na agenda do staff.
func (c *Cache) InvalidateAvailability(ctx context.Context, staffID uint, date string) {
	if c == nil || c.rdb == nil {
		return
	}
	if err := c.rdb.Del(ctx, availabilityKey(staffID, date)).Err(); err != nil {
		log.Printf("availability cache invalidate failed: %v", err)
	}
}

// TryLock: SET NX para manter varreduras single-flight. Sem redis,
// libera sempre (as varreduras são idempotentes de todo modo).
func (c *Cache) TryLock(ctx context.Context, name string, ttl time.Duration) bool {
	if c == nil || c.rdb == nil {
		return true
	}

	ok, err := c.rdb.SetNX(ctx, "lock:"+name, 1, ttl).Result()
	if err != nil {
		log.Printf("lock %s failed: %v", name, err)
		return true
	}
	return ok
}

func (c *Cache) Unlock(ctx context.Context, name string) {
	if c == nil || c.rdb == nil {
		return
	}
	c.rdb.Del(ctx, "lock:"+name)
}
