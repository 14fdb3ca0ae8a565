package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gomodule/redigo/redis"
	"github.com/weekgrid/calendar-backend/internal/model"
	"go.uber.org/zap"
)

const sessionPrefix = "session:"

// SessionsRepository keeps refresh sessions in redis, one key per token,
// expiring after ttl.
type SessionsRepository struct {
	pool   *redis.Pool
	logger *zap.SugaredLogger
	ttl    time.Duration
}

func NewSessionsRepository(pool *redis.Pool, logger *zap.SugaredLogger, ttl time.Duration) *SessionsRepository {
	return &SessionsRepository{
		pool:   pool,
		logger: logger,
		ttl:    ttl,
	}
}

func (r *SessionsRepository) Add(ctx context.Context, session string, id int64) error {
	conn, err := r.pool.GetContext(ctx)
	if err != nil {
		return fmt.Errorf("get connection: %w", err)
	}
	defer r.close(conn)

	reply, err := redis.String(conn.Do("SET", sessionPrefix+session, id, "NX", "EX", int(r.ttl.Seconds())))
	if err != nil {
		if errors.Is(err, redis.ErrNil) {
			return model.ErrAlreadyExists
		}
		return fmt.Errorf("set session: %w", err)
	}
	if reply != "OK" {
		return model.ErrAlreadyExists
	}

	return nil
}

func (r *SessionsRepository) Get(ctx context.Context, session string) (int64, error) {
	conn, err := r.pool.GetContext(ctx)
	if err != nil {
		return 0, fmt.Errorf("get connection: %w", err)
	}
	defer r.close(conn)

	id, err := redis.Int64(conn.Do("GET", sessionPrefix+session))
	if err != nil {
		if errors.Is(err, redis.ErrNil) {
			return 0, model.ErrNoRecord
		}
		return 0, fmt.Errorf("get session: %w", err)
	}

	return id, nil
}

// Refresh rotates a session token, keeping the user bound to the new one.
func (r *SessionsRepository) Refresh(ctx context.Context, old, new string) error {
	id, err := r.Get(ctx, old)
	if err != nil {
		return err
	}

	if err := r.Add(ctx, new, id); err != nil {
		return err
	}

	return r.Delete(ctx, old)
}

func (r *SessionsRepository) Delete(ctx context.Context, session string) error {
	conn, err := r.pool.GetContext(ctx)
	if err != nil {
		return fmt.Errorf("get connection: %w", err)
	}
	defer r.close(conn)

	deleted, err := redis.Int(conn.Do("DEL", sessionPrefix+session))
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if deleted == 0 {
		return model.ErrNoRecord
	}

	return nil
}

func (r *SessionsRepository) close(conn redis.Conn) {
	if err := conn.Close(); err != nil {
		r.logger.Errorw("Failed closing redis connection", "err", err)
	}
}
