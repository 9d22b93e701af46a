// Package di provides dependency injection factories for creating application components.
package di

import (
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	authadapters "enterprise_backend/internal/feature/auth/adapters"
	"enterprise_backend/internal/feature/auth/usecase"
	"enterprise_backend/internal/platform/session"
)

// NewSessionStore はRedisが設定されていればRedisストアを、なければSQLのsessionsテーブルを返します。
func NewSessionStore(rdb *redis.Client, db *gorm.DB) usecase.SessionStore {
	if rdb == nil {
		return authadapters.NewSessionStore(db)
	}
	return session.NewRedisStore(rdb, session.DefaultPrefix)
}
