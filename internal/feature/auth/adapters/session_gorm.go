package adapters

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"enterprise_backend/internal/feature/auth/domain/entity"
	"enterprise_backend/internal/feature/auth/usecase"
)

// sessionStore keeps sessions in the SQL sessions table. Used when Redis is not configured.
type sessionStore struct {
	db *gorm.DB
}

var _ usecase.SessionStore = (*sessionStore)(nil)

// NewSessionStore はSQLセッションストアを生成します。
func NewSessionStore(db *gorm.DB) *sessionStore {
	return &sessionStore{db: db}
}

func (r *sessionStore) Save(ctx context.Context, s *entity.Session) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *sessionStore) Get(ctx context.Context, id string) (*entity.Session, error) {
	var s entity.Session
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, usecase.ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Revoke は既に失効済みのセッションの失効時刻を上書きしません。
func (r *sessionStore) Revoke(ctx context.Context, id string, at time.Time) error {
	var n int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&entity.Session{}).Where("id = ?", id).Count(&n).Error; err != nil {
			return err
		}
		return tx.Model(&entity.Session{}).
			Where("id = ? AND revoked_at IS NULL", id).
			Update("revoked_at", at).Error
	})
	if err != nil {
		return err
	}
	if n == 0 {
		return usecase.ErrSessionNotFound
	}
	return nil
}

func (r *sessionStore) Purge(ctx context.Context, before time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Where("expires_at < ?", before).Delete(&entity.Session{})
	return res.RowsAffected, res.Error
}
