package cache

import (
	"context"
	"testing"
	"time"

	"github.com/Domenick1991/flightpath/internal/domain"
	"github.com/Domenick1991/flightpath/internal/geo"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	c := NewRedisCacheWithClient(client, time.Minute)
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestRedisCache_Airports(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	got, err := c.GetAirports(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)

	airports := []domain.Airport{
		{Code: "IDR", Name: "Indore", City: "Indore", Location: geo.Coordinate{Latitude: 22.636383, Longitude: 75.810692}},
		{Code: "DEL", Name: "Delhi", City: "New Delhi", Location: geo.Coordinate{Latitude: 28.556160, Longitude: 77.100281}},
	}
	require.NoError(t, c.SetAirports(ctx, airports))

	got, err = c.GetAirports(ctx)
	require.NoError(t, err)
	assert.Equal(t, airports, got)

	mr.FastForward(2 * time.Minute)
	got, err = c.GetAirports(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisCache_Path(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	src := geo.Coordinate{Latitude: 22.636383, Longitude: 75.810692}
	dst := geo.Coordinate{Latitude: 28.556160, Longitude: 77.100281}
	key := PathKey(src, dst, 2, geo.DefaultCurveParams)

	got, err := c.GetPath(ctx, key)
	require.NoError(t, err)
	assert.Nil(t, got)

	path := &domain.FlightPath{
		ID:          "path-1",
		Source:      src,
		Destination: dst,
		Control:     geo.ControlPoint(src, dst),
		Segments:    2,
		DistanceKm:  geo.HaversineDistance(src, dst),
		Points:      []geo.Coordinate{src, {Latitude: 26.9, Longitude: 76.4}, dst},
		CreatedAt:   time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC),
	}
	require.NoError(t, c.SetPath(ctx, key, path))

	got, err = c.GetPath(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, path, got)

	byID, err := c.GetPathByID(ctx, "path-1")
	require.NoError(t, err)
	assert.Equal(t, path, byID)
}

func TestRedisCache_CorruptEntry(t *testing.T) {
	c, mr := newTestCache(t)
	require.NoError(t, mr.Set(airportsKey(), "{not json"))

	_, err := c.GetAirports(context.Background())
	assert.Error(t, err)
}

func TestPathKey(t *testing.T) {
	src := geo.Coordinate{Latitude: 1, Longitude: 2}
	dst := geo.Coordinate{Latitude: 3, Longitude: 4}

	assert.Equal(t, "cache:path:1.000000,2.000000:3.000000,4.000000:100:5:0.02", PathKey(src, dst, 100, geo.DefaultCurveParams))
	assert.NotEqual(t, PathKey(src, dst, 100, geo.DefaultCurveParams), PathKey(dst, src, 100, geo.DefaultCurveParams))
}
