package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/rendau/smsgw/adapters/cache"
	"github.com/rendau/smsgw/adapters/logger"
)

var _ cache.Cache = (*St)(nil)

type St struct {
	lg     logger.WarnAndError
	prefix string

	r *redis.Client
}

func New(lg logger.WarnAndError, url, psw string, db int, prefix string) *St {
	return &St{
		lg:     lg,
		prefix: prefix,

		r: redis.NewClient(&redis.Options{
			Addr:     url,
			Password: psw,
			DB:       db,
		}),
	}
}

func (c *St) Ping(ctx context.Context) error {
	return c.r.Ping(ctx).Err()
}

func (c *St) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := c.r.Get(ctx, c.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		c.lg.Errorw("Redis: fail to 'get'", err, "key", key)
		return nil, false, err
	}

	return data, true, nil
}

func (c *St) GetJsonObj(ctx context.Context, key string, dst any) (bool, error) {
	dataRaw, ok, err := c.Get(ctx, key)
	if err != nil || !ok {
		return ok, err
	}

	err = json.Unmarshal(dataRaw, dst)
	if err != nil {
		return false, err
	}

	return true, nil
}

func (c *St) Set(ctx context.Context, key string, value []byte, expiration time.Duration) error {
	err := c.r.Set(ctx, c.prefix+key, value, expiration).Err()
	if err != nil {
		c.lg.Errorw("Redis: fail to 'set'", err, "key", key)
	}

	return err
}

func (c *St) SetJsonObj(ctx context.Context, key string, value any, expiration time.Duration) error {
	dataRaw, err := json.Marshal(value)
	if err != nil {
		return err
	}

	return c.Set(ctx, key, dataRaw, expiration)
}

func (c *St) Del(ctx context.Context, key string) error {
	err := c.r.Del(ctx, c.prefix+key).Err()
	if err != nil {
		c.lg.Errorw("Redis: fail to 'del'", err, "key", key)
	}

	return err
}

func (c *St) Close() error {
	return c.r.Close()
}
