package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/BruksfildServices01/barber-booking/internal/domain/booking"
)

const dayViewPrefix = "barber:dayview:"

// DayViewRedisCache shares availability grids between replicas so one
// replica's invalidation is seen by all of them.
type DayViewRedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewDayViewRedisCache(client *redis.Client, ttl time.Duration) *DayViewRedisCache {
	return &DayViewRedisCache{client: client, ttl: ttl}
}

func (c *DayViewRedisCache) Get(ctx context.Context, date string) (*booking.DayView, bool, error) {
	data, err := c.client.Get(ctx, dayViewPrefix+date).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var view booking.DayView
	if err := json.Unmarshal(data, &view); err != nil {
		return nil, false, err
	}
	return &view, true, nil
}

func (c *DayViewRedisCache) Set(ctx context.Context, view *booking.DayView) error {
	b, err := json.Marshal(view)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, dayViewPrefix+view.Date, b, c.ttl).Err()
}

func (c *DayViewRedisCache) Invalidate(ctx context.Context, date string) error {
	return c.client.Del(ctx, dayViewPrefix+date).Err()
}

// NewRedisClient pings addr before handing the client out.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}
