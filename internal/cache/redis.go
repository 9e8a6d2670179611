package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Domenick1991/flightpath/config"
	"github.com/Domenick1991/flightpath/internal/domain"
	"github.com/Domenick1991/flightpath/internal/geo"
	"github.com/redis/go-redis/v9"
)

type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(cfg config.RedisConfig, ttl time.Duration) *RedisCache {
	return NewRedisCacheWithClient(redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}), ttl)
}

func NewRedisCacheWithClient(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisCache) GetAirports(ctx context.Context) ([]domain.Airport, error) {
	var airports []domain.Airport
	ok, err := c.getJSON(ctx, airportsKey(), &airports)
	if err != nil || !ok {
		return nil, err
	}
	return airports, nil
}

func (c *RedisCache) SetAirports(ctx context.Context, airports []domain.Airport) error {
	return c.setJSON(ctx, airportsKey(), airports)
}

// GetPath returns the path planned for key, or nil on a miss.
func (c *RedisCache) GetPath(ctx context.Context, key string) (*domain.FlightPath, error) {
	var path domain.FlightPath
	ok, err := c.getJSON(ctx, key, &path)
	if err != nil || !ok {
		return nil, err
	}
	return &path, nil
}

// SetPath stores path under both its planner key and its ID.
func (c *RedisCache) SetPath(ctx context.Context, key string, path *domain.FlightPath) error {
	payload, err := json.Marshal(path)
	if err != nil {
		return err
	}

	pipe := c.client.TxPipeline()
	pipe.Set(ctx, key, payload, c.ttl)
	pipe.Set(ctx, pathIDKey(path.ID), payload, c.ttl)
	_, err = pipe.Exec(ctx)
	return err
}

func (c *RedisCache) GetPathByID(ctx context.Context, id string) (*domain.FlightPath, error) {
	return c.GetPath(ctx, pathIDKey(id))
}

func (c *RedisCache) getJSON(ctx context.Context, key string, v any) (bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("decode cache key %s: %w", key, err)
	}
	return true, nil
}

func (c *RedisCache) setJSON(ctx context.Context, key string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, payload, c.ttl).Err()
}

func airportsKey() string {
	return "cache:airports"
}

// PathKey identifies a planned path by its inputs.
func PathKey(source, destination geo.Coordinate, segments int, params geo.CurveParams) string {
	return fmt.Sprintf("cache:path:%s:%s:%d:%g:%g", source.Key(), destination.Key(), segments, params.Divisor, params.Scale)
}

func pathIDKey(id string) string {
	return "cache:path:id:" + id
}
