package tokenstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"scan-dashboard/internal/common/errors"
	"scan-dashboard/internal/common/logger"
	"scan-dashboard/internal/models"
)

// RedisStore keeps each session field under its own versioned key:
//
//	<prefix>:v1:access_token
//	<prefix>:v1:refresh_token
//	<prefix>:v1:expires_at   (RFC 3339, optional)
//	<prefix>:v1:user         (JSON)
//
// All keys are written and removed in one MULTI/EXEC transaction.
type RedisStore struct {
	rdb    redis.Cmdable
	prefix string
	log    logger.Logger
}

func NewRedisStore(rdb redis.Cmdable, prefix string, log logger.Logger) *RedisStore {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &RedisStore{
		rdb:    rdb,
		prefix: fmt.Sprintf("%s:v%d:", prefix, SchemaVersion),
		log:    log.WithFields(map[string]interface{}{"store": "redis"}),
	}
}

func (r *RedisStore) key(name string) string { return r.prefix + name }

func (r *RedisStore) keys() []string {
	return []string{
		r.key("access_token"),
		r.key("refresh_token"),
		r.key("expires_at"),
		r.key("user"),
	}
}

func (r *RedisStore) Get(ctx context.Context) (*models.Session, error) {
	vals, err := r.rdb.MGet(ctx, r.keys()...).Result()
	if err != nil {
		return nil, errors.NewSessionStoreError("read", err)
	}

	str := func(i int) string {
		if i >= len(vals) {
			return ""
		}
		s, _ := vals[i].(string)
		return s
	}
	access, refresh, expires, rawUser := str(0), str(1), str(2), str(3)

	if access == "" && rawUser == "" {
		return nil, notFound()
	}

	session := models.Session{Tokens: models.AuthTokens{AccessToken: access, RefreshToken: refresh}}
	bad := json.Unmarshal([]byte(rawUser), &session.User) != nil
	if expires != "" {
		t, perr := time.Parse(time.RFC3339, expires)
		bad = bad || perr != nil
		session.Tokens.ExpiresAt = t
	}

	if bad || !session.Complete() {
		r.log.Warn("Discarding partial session", map[string]interface{}{
			"has_access_token": access != "",
			"has_user":         rawUser != "",
		})
		if err := r.Clear(ctx); err != nil {
			return nil, err
		}
		return nil, notFound()
	}
	return &session, nil
}

func (r *RedisStore) Set(ctx context.Context, session models.Session) error {
	if err := checkComplete(session); err != nil {
		return err
	}
	user, err := json.Marshal(session.User)
	if err != nil {
		return errors.NewSessionStoreError("encode", err)
	}

	_, err = r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, r.key("access_token"), session.Tokens.AccessToken, 0)
		pipe.Set(ctx, r.key("refresh_token"), session.Tokens.RefreshToken, 0)
		if session.Tokens.ExpiresAt.IsZero() {
			pipe.Del(ctx, r.key("expires_at"))
		} else {
			pipe.Set(ctx, r.key("expires_at"), session.Tokens.ExpiresAt.UTC().Format(time.RFC3339), 0)
		}
		pipe.Set(ctx, r.key("user"), string(user), 0)
		return nil
	})
	if err != nil {
		return errors.NewSessionStoreError("write", err)
	}
	return nil
}

func (r *RedisStore) Clear(ctx context.Context) error {
	_, err := r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, r.keys()...)
		return nil
	})
	if err != nil {
		return errors.NewSessionStoreError("clear", err)
	}
	return nil
}
