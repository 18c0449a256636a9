package repository

import (
	"context"
	"encoding/json"
	"errors"
	"techStore/models"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type CartRepository interface {
	SetCart(ctx context.Context, cartSessionId string, cart models.Cart) (err error)
	GetCart(ctx context.Context, cartSessionId string) (res models.Cart, err error)
	DeleteCart(ctx context.Context, cartSessionId string) (err error)
}

type CartRepo struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewCartRepository(ctx context.Context, redis_conn *redis.Client, ttl time.Duration) (CartRepository, error) {
	if redis_conn == nil {
		return nil, errors.New("conn must be non-nil")
	}
	err := redis_conn.Ping(ctx).Err()
	if err != nil {
		return nil, err
	}
	return &CartRepo{
		rdb: redis_conn,
		ttl: ttl,
	}, nil
}

func cartKey(cartSessionId string) string {
	return "cart:" + cartSessionId
}

func (c *CartRepo) SetCart(ctx context.Context, cartSessionId string, cart models.Cart) (err error) {
	jsonData, err := json.Marshal(cart)
	if err != nil {
		zap.L().Error("SetCart: marshal failed", zap.Error(err))
		err = models.ErrServerError
		return
	}
	err = c.rdb.Set(ctx, cartKey(cartSessionId), jsonData, c.ttl).Err()
	if err != nil {
		zap.L().Error("SetCart: redis set failed", zap.Error(err))
		err = models.ErrServerError
	}
	return
}

func (c *CartRepo) GetCart(ctx context.Context, cartSessionId string) (res models.Cart, err error) {
	res = models.Cart{}
	val, e := c.rdb.Get(ctx, cartKey(cartSessionId)).Result()
	if e != nil {
		if e == redis.Nil {
			return
		}
		zap.L().Error("GetCart: redis get failed", zap.Error(e))
		err = models.ErrServerError
		return
	}
	err = json.Unmarshal([]byte(val), &res)
	if err != nil {
		zap.L().Error("GetCart: unmarshal failed", zap.Error(err))
		err = models.ErrServerError
	}
	return
}

func (c *CartRepo) DeleteCart(ctx context.Context, cartSessionId string) (err error) {
	err = c.rdb.Del(ctx, cartKey(cartSessionId)).Err()
	if err != nil {
		zap.L().Error("DeleteCart", zap.Error(err))
		err = models.ErrServerError
	}
	return
}
