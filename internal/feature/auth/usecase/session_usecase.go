package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"enterprise_backend/internal/feature/auth/domain/entity"
)

// ResolveSession verifies the session token, loads its session and user,
// and refreshes the user's last_seen.
func (u *authUsecase) ResolveSession(ctx context.Context, token string) (*entity.User, error) {
	sessionID, userID, err := u.tokens.Parse(token)
	if err != nil {
		return nil, ErrInvalidSessionToken
	}

	session, err := u.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.UserID != userID {
		return nil, ErrInvalidSessionToken
	}
	if session.IsRevoked() {
		return nil, ErrSessionRevoked
	}
	now := u.now()
	if session.ExpiredAt(now) {
		return nil, ErrSessionExpired
	}

	user, err := u.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := u.users.TouchLastSeen(ctx, user.ID, now); err != nil {
		slog.Warn("failed to update last_seen", "user_id", user.ID, "error", err)
	} else {
		user.LastSeen = now
	}
	return user, nil
}

// PurgeExpiredSessions deletes expired sessions from storage.
func (u *authUsecase) PurgeExpiredSessions(ctx context.Context) (int64, error) {
	n, err := u.sessions.Purge(ctx, u.now())
	if err != nil {
		return 0, fmt.Errorf("purge sessions: %w", err)
	}
	return n, nil
}
