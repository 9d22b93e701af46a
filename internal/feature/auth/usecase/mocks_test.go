package usecase_test

import (
	"context"
	"errors"
	"sync"
	"time"

	"enterprise_backend/internal/feature/auth/domain/entity"
	"enterprise_backend/internal/feature/auth/usecase"
)

// memUsers はUserRepositoryのインメモリ実装です。
type memUsers struct {
	mu       sync.Mutex
	byID     map[uint]*entity.User
	nextID   uint
	createFn func(u *entity.User) error
	touched  []uint
}

func newMemUsers(users ...*entity.User) *memUsers {
	m := &memUsers{byID: map[uint]*entity.User{}}
	for _, u := range users {
		m.nextID++
		u.ID = m.nextID
		m.byID[u.ID] = u
	}
	return m
}

func (m *memUsers) Create(ctx context.Context, u *entity.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createFn != nil {
		if err := m.createFn(u); err != nil {
			return err
		}
	}
	m.nextID++
	u.ID = m.nextID
	m.byID[u.ID] = u
	return nil
}

func (m *memUsers) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byID {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, usecase.ErrUserNotFound
}

func (m *memUsers) FindByID(ctx context.Context, id uint) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.byID[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, usecase.ErrUserNotFound
}

func (m *memUsers) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	_, err := m.FindByUsername(ctx, username)
	return err == nil, nil
}

func (m *memUsers) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byID {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (m *memUsers) UpdateProfile(ctx context.Context, id uint, username, aboutMe string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return usecase.ErrUserNotFound
	}
	u.Username = username
	u.AboutMe = aboutMe
	return nil
}

func (m *memUsers) TouchLastSeen(ctx context.Context, id uint, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.byID[id]; ok {
		u.LastSeen = at
	}
	m.touched = append(m.touched, id)
	return nil
}

// memSessions はSessionStoreのインメモリ実装です。
type memSessions struct {
	mu       sync.Mutex
	sessions map[string]*entity.Session
	saveFn   func(s *entity.Session) error
}

var _ usecase.SessionStore = (*memSessions)(nil)

func newMemSessions() *memSessions {
	return &memSessions{sessions: map[string]*entity.Session{}}
}

func (m *memSessions) Save(ctx context.Context, s *entity.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveFn != nil {
		if err := m.saveFn(s); err != nil {
			return err
		}
	}
	cp := *s
	m.sessions[s.ID] = &cp
	return nil
}

func (m *memSessions) Get(ctx context.Context, id string) (*entity.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, usecase.ErrSessionNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *memSessions) Revoke(ctx context.Context, id string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return usecase.ErrSessionNotFound
	}
	s.RevokedAt = &at
	return nil
}

func (m *memSessions) Purge(ctx context.Context, before time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, s := range m.sessions {
		if s.ExpiresAt.Before(before) {
			delete(m.sessions, id)
			n++
		}
	}
	return n, nil
}

// fakeSigner encodes "sid|uid" without a signature.
type fakeSigner struct {
	signErr error
}

func (f *fakeSigner) Sign(sessionID string, userID uint, expiresAt time.Time) (string, error) {
	if f.signErr != nil {
		return "", f.signErr
	}
	return sessionID + "|" + string(rune('0'+userID)), nil
}

func (f *fakeSigner) Parse(token string) (string, uint, error) {
	for i := len(token) - 1; i >= 0; i-- {
		if token[i] == '|' && i+1 < len(token) {
			return token[:i], uint(token[i+1] - '0'), nil
		}
	}
	return "", 0, errors.New("malformed token")
}
