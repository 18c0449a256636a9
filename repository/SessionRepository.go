package repository

import (
	"context"
	"errors"
	"techStore/models"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type SessionRepository interface {
	CreateSession(ctx context.Context) (sessionId string, err error)
	CheckSession(ctx context.Context, sessionId string) (bool, error)
	RefreshSession(ctx context.Context, sessionId string) (err error)
}

type SessionRepo struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewSessionRepository(ctx context.Context, redis_conn *redis.Client, ttl time.Duration) (SessionRepository, error) {
	if redis_conn == nil {
		return nil, errors.New("conn must be non-nil")
	}
	err := redis_conn.Ping(ctx).Err()
	if err != nil {
		return nil, err
	}
	return &SessionRepo{
		rdb: redis_conn,
		ttl: ttl,
	}, nil
}

func sessionKey(sessionId string) string {
	return "session:" + sessionId
}

func (s *SessionRepo) CreateSession(ctx context.Context) (sessionId string, err error) {
	sessionId = uuid.NewString()
	pipe := s.rdb.TxPipeline()
	pipe.HSet(ctx, sessionKey(sessionId), "createdAt", time.Now().UTC().Format(time.RFC3339))
	pipe.Expire(ctx, sessionKey(sessionId), s.ttl)
	_, err = pipe.Exec(ctx)
	if err != nil {
		zap.L().Error("CreateSession", zap.Error(err))
		sessionId = ""
		err = models.ErrServerError
	}
	return
}

func (s *SessionRepo) CheckSession(ctx context.Context, sessionId string) (bool, error) {
	exists, err := s.rdb.Exists(ctx, sessionKey(sessionId)).Result()
	if err != nil {
		zap.L().Error("CheckSession", zap.Error(err))
		err = models.ErrServerError
		return false, err
	}
	if exists > 0 {
		return true, nil
	}
	return false, nil
}

// RefreshSession extends the session and everything keyed by it.
func (s *SessionRepo) RefreshSession(ctx context.Context, sessionId string) (err error) {
	pipe := s.rdb.TxPipeline()
	pipe.Expire(ctx, sessionKey(sessionId), s.ttl)
	pipe.Expire(ctx, cartKey(sessionId), s.ttl)
	pipe.Expire(ctx, receiptKey(sessionId), s.ttl)
	_, err = pipe.Exec(ctx)
	if err != nil {
		zap.L().Error("RefreshSession", zap.Error(err))
		err = models.ErrServerError
	}
	return
}
