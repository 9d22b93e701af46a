package usecase

import (
	"context"
	"time"

	"enterprise_backend/internal/feature/auth/domain/entity"
)

// SessionStore keeps server-side login sessions.
// Redis and the SQL sessions table both satisfy it.
type SessionStore interface {
	Save(ctx context.Context, s *entity.Session) error

	// Get returns ErrSessionNotFound for unknown IDs.
	Get(ctx context.Context, id string) (*entity.Session, error)

	// Revoke stamps RevokedAt with at. Unknown IDs return ErrSessionNotFound.
	Revoke(ctx context.Context, id string, at time.Time) error

	// Purge drops sessions that expired before the given time and reports how many.
	Purge(ctx context.Context, before time.Time) (int64, error)
}
