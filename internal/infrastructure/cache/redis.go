package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/bimakw/dexag-provider/internal/domain/entities"
)

// Cache defines the interface for caching operations
type Cache interface {
	GetVenues(ctx context.Context, key string) ([]string, error)
	SetVenues(ctx context.Context, key string, venues []string, ttl time.Duration) error
	GetRates(ctx context.Context, key string) ([]entities.RateQuote, error)
	SetRates(ctx context.Context, key string, rates []entities.RateQuote, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// RedisCache implements Cache using Redis
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache creates a new Redis cache client
func NewRedisCache(addr, password string, db int) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisCache{client: client}, nil
}

// Close closes the Redis connection
func (c *RedisCache) Close() error {
	return c.client.Close()
}

// GetVenues retrieves a cached venue allowlist
func (c *RedisCache) GetVenues(ctx context.Context, key string) ([]string, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // Cache miss
		}
		return nil, err
	}

	var venues []string
	if err := json.Unmarshal(data, &venues); err != nil {
		return nil, err
	}

	return venues, nil
}

// SetVenues caches the venue allowlist with TTL
func (c *RedisCache) SetVenues(ctx context.Context, key string, venues []string, ttl time.Duration) error {
	data, err := json.Marshal(venues)
	if err != nil {
		return err
	}

	return c.client.Set(ctx, key, data, ttl).Err()
}

// GetRates retrieves cached rate quotes for a pair
func (c *RedisCache) GetRates(ctx context.Context, key string) ([]entities.RateQuote, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // Cache miss
		}
		return nil, err
	}

	var rates []entities.RateQuote
	if err := json.Unmarshal(data, &rates); err != nil {
		return nil, err
	}

	return rates, nil
}

// SetRates caches rate quotes with TTL
func (c *RedisCache) SetRates(ctx context.Context, key string, rates []entities.RateQuote, ttl time.Duration) error {
	data, err := json.Marshal(rates)
	if err != nil {
		return err
	}

	return c.client.Set(ctx, key, data, ttl).Err()
}

// Delete removes a key from cache
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, key).Err()
}

// VenuesCacheKey generates the cache key for the venue allowlist
func VenuesCacheKey() string {
	return "dexag:venues"
}

// RatesCacheKey generates a cache key for a pair's rate quotes
func RatesCacheKey(fromToken, toToken, fromAmount string) string {
	return fmt.Sprintf("dexag:rates:%s:%s:%s", fromToken, toToken, fromAmount)
}

// InMemoryCache implements Cache using in-memory storage (for testing/development)
type InMemoryCache struct {
	mu     sync.Mutex
	venues map[string]*cachedVenues
	rates  map[string]*cachedRates
}

type cachedVenues struct {
	venues    []string
	expiresAt time.Time
}

type cachedRates struct {
	rates     []entities.RateQuote
	expiresAt time.Time
}

// NewInMemoryCache creates a new in-memory cache
func NewInMemoryCache() *InMemoryCache {
	return &InMemoryCache{
		venues: make(map[string]*cachedVenues),
		rates:  make(map[string]*cachedRates),
	}
}

func (c *InMemoryCache) GetVenues(ctx context.Context, key string) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if cached, ok := c.venues[key]; ok {
		if time.Now().Before(cached.expiresAt) {
			return cached.venues, nil
		}
		delete(c.venues, key)
	}
	return nil, nil
}

func (c *InMemoryCache) SetVenues(ctx context.Context, key string, venues []string, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.venues[key] = &cachedVenues{
		venues:    venues,
		expiresAt: time.Now().Add(ttl),
	}
	return nil
}

func (c *InMemoryCache) GetRates(ctx context.Context, key string) ([]entities.RateQuote, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if cached, ok := c.rates[key]; ok {
		if time.Now().Before(cached.expiresAt) {
			return cached.rates, nil
		}
		delete(c.rates, key)
	}
	return nil, nil
}

func (c *InMemoryCache) SetRates(ctx context.Context, key string, rates []entities.RateQuote, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rates[key] = &cachedRates{
		rates:     rates,
		expiresAt: time.Now().Add(ttl),
	}
	return nil
}

func (c *InMemoryCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.venues, key)
	delete(c.rates, key)
	return nil
}
