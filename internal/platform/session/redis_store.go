// Package session keeps login sessions in Redis hashes.
package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"enterprise_backend/internal/feature/auth/domain/entity"
	"enterprise_backend/internal/feature/auth/usecase"
)

// DefaultPrefix is the key prefix used when none is given.
const DefaultPrefix = "session"

// hash fields
const (
	fieldUserID    = "user_id"
	fieldUserAgent = "user_agent"
	fieldIP        = "ip"
	fieldRemember  = "remember"
	fieldCreatedAt = "created_at"
	fieldExpiresAt = "expires_at"
	fieldRevokedAt = "revoked_at"
)

// RedisStore stores each session as a hash that expires with the session,
// so Redis drops stale logins on its own.
type RedisStore struct {
	client *redis.Client
	prefix string
}

var _ usecase.SessionStore = (*RedisStore)(nil)

// NewRedisStore はRedisセッションストアを生成します。prefixが空の場合はDefaultPrefixを使用します。
func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &RedisStore{client: client, prefix: prefix}
}

func (r *RedisStore) key(id string) string {
	return r.prefix + ":" + id
}

// Save writes the hash and its expiry in one MULTI block.
func (r *RedisStore) Save(ctx context.Context, s *entity.Session) error {
	if !s.ExpiresAt.After(time.Now()) {
		return fmt.Errorf("session %s already expired", s.ID)
	}
	key := r.key(s.ID)
	_, err := r.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.HSet(ctx, key, map[string]any{
			fieldUserID:    s.UserID,
			fieldUserAgent: s.UserAgent,
			fieldIP:        s.IPAddress,
			fieldRemember:  s.Remember,
			fieldCreatedAt: s.CreatedAt.Unix(),
			fieldExpiresAt: s.ExpiresAt.Unix(),
		})
		p.ExpireAt(ctx, key, s.ExpiresAt)
		return nil
	})
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (r *RedisStore) Get(ctx context.Context, id string) (*entity.Session, error) {
	fields, err := r.client.HGetAll(ctx, r.key(id)).Result()
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, usecase.ErrSessionNotFound
	}
	return decode(id, fields)
}

// Revoke sets revoked_at only if the hash still exists and was not revoked
// before. HSETNX leaves the TTL untouched.
func (r *RedisStore) Revoke(ctx context.Context, id string, at time.Time) error {
	key := r.key(id)
	n, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		return err
	}
	if n == 0 {
		return usecase.ErrSessionNotFound
	}
	return r.client.HSetNX(ctx, key, fieldRevokedAt, at.Unix()).Err()
}

// Purge is a no-op: expired hashes are removed by their TTL.
func (r *RedisStore) Purge(ctx context.Context, before time.Time) (int64, error) {
	return 0, nil
}

func decode(id string, f map[string]string) (*entity.Session, error) {
	uid, err := strconv.ParseUint(f[fieldUserID], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("decode session %s: user_id: %w", id, err)
	}
	created, err := unixField(f, fieldCreatedAt)
	if err != nil {
		return nil, fmt.Errorf("decode session %s: %w", id, err)
	}
	expires, err := unixField(f, fieldExpiresAt)
	if err != nil {
		return nil, fmt.Errorf("decode session %s: %w", id, err)
	}
	s := &entity.Session{
		ID:        id,
		UserID:    uint(uid),
		UserAgent: f[fieldUserAgent],
		IPAddress: f[fieldIP],
		Remember:  f[fieldRemember] == "1",
		CreatedAt: created,
		ExpiresAt: expires,
	}
	if _, ok := f[fieldRevokedAt]; ok {
		revoked, err := unixField(f, fieldRevokedAt)
		if err != nil {
			return nil, fmt.Errorf("decode session %s: %w", id, err)
		}
		s.RevokedAt = &revoked
	}
	return s, nil
}

func unixField(f map[string]string, name string) (time.Time, error) {
	sec, err := strconv.ParseInt(f[name], 10, 64)
	if err != nil {
		return time.Time{}, errors.New(name + ": not a unix timestamp")
	}
	return time.Unix(sec, 0), nil
}
