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

// ReceiptRepository holds one receipt per session: the last completed purchase.
// Storing a receipt replaces the previous one.
type ReceiptRepository interface {
	SetReceipt(ctx context.Context, cartSessionId string, receipt models.Receipt) (err error)
	GetReceipt(ctx context.Context, cartSessionId string) (receipt models.Receipt, exists bool, err error)
}

type ReceiptRepo struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewReceiptRepository(ctx context.Context, redis_conn *redis.Client, ttl time.Duration) (ReceiptRepository, error) {
	if redis_conn == nil {
		return nil, errors.New("conn must be non-nil")
	}
	err := redis_conn.Ping(ctx).Err()
	if err != nil {
		return nil, err
	}
	return &ReceiptRepo{
		rdb: redis_conn,
		ttl: ttl,
	}, nil
}

func receiptKey(cartSessionId string) string {
	return "receipt:" + cartSessionId
}

func (r *ReceiptRepo) SetReceipt(ctx context.Context, cartSessionId string, receipt models.Receipt) (err error) {
	jsonData, err := json.Marshal(receipt)
	if err != nil {
		zap.L().Error("SetReceipt: marshal failed", zap.Error(err))
		err = models.ErrServerError
		return
	}
	err = r.rdb.Set(ctx, receiptKey(cartSessionId), jsonData, r.ttl).Err()
	if err != nil {
		zap.L().Error("SetReceipt: redis set failed", zap.Error(err))
		err = models.ErrServerError
	}
	return
}

func (r *ReceiptRepo) GetReceipt(ctx context.Context, cartSessionId string) (receipt models.Receipt, exists bool, err error) {
	val, e := r.rdb.Get(ctx, receiptKey(cartSessionId)).Result()
	if e != nil {
		if e == redis.Nil {
			return
		}
		zap.L().Error("GetReceipt: redis get failed", zap.Error(e))
		err = models.ErrServerError
		return
	}
	err = json.Unmarshal([]byte(val), &receipt)
	if err != nil {
		zap.L().Error("GetReceipt: unmarshal failed", zap.Error(err))
		err = models.ErrServerError
		return
	}
	exists = true
	return
}
