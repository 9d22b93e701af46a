package usecase

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"enterprise_backend/internal/feature/auth/domain/entity"
	"enterprise_backend/internal/shared/apperror"
	"enterprise_backend/internal/shared/validation"
)

const (
	// sessionTTL は通常ログイン時のサーバー側セッション有効期間です。
	sessionTTL = 24 * time.Hour
	// rememberTTL は「ログイン状態を保持」時のセッション有効期間です。
	rememberTTL = 30 * 24 * time.Hour
	// sessionIDBytes はセッションIDの乱数バイト数です（16進64文字）。
	sessionIDBytes = 32
)

// dummyHash はユーザーが存在しない場合にもbcrypt比較を行うためのダミーハッシュです。
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// UserRepository はユーザーエンティティの永続化層を抽象化します。
// Goの慣例に従い、インターフェースはプロバイダー（adapters）ではなくコンシューマー（usecase）が定義します。
type UserRepository interface {
	validation.UserLookup

	// Create は新しいユーザーをストレージに永続化します。
	// ユーザー名またはメールアドレスが重複する場合、DuplicateValueのapperrorを返します。
	Create(ctx context.Context, user *entity.User) error

	// FindByUsername はユーザー名に一致するユーザーを取得します。
	// 存在しない場合、ErrUserNotFoundを返します。
	FindByUsername(ctx context.Context, username string) (*entity.User, error)

	// FindByID はIDに一致するユーザーを取得します。
	// 存在しない場合、ErrUserNotFoundを返します。
	FindByID(ctx context.Context, id uint) (*entity.User, error)

	// UpdateProfile はユーザー名と自己紹介を更新します。
	UpdateProfile(ctx context.Context, id uint, username, aboutMe string) error

	// TouchLastSeen は最終アクセス日時を更新します。
	TouchLastSeen(ctx context.Context, id uint, at time.Time) error
}

// TokenSigner はセッションCookieの署名と検証を定義します。
// Goの慣例に従い、インターフェースはプロバイダー（platform/jwt）ではなくコンシューマー（usecase）が定義します。
type TokenSigner interface {
	Sign(sessionID string, userID uint, expiresAt time.Time) (string, error)
	Parse(token string) (sessionID string, userID uint, err error)
}

// authUsecase は認証ビジネスロジックを実装します。
type authUsecase struct {
	users    UserRepository
	sessions SessionStore
	tokens   TokenSigner
	rules    *validation.UserRules
	now      func() time.Time
}

// NewAuthUsecase はauthUsecaseの新しいインスタンスを生成します。
func NewAuthUsecase(users UserRepository, sessions SessionStore, tokens TokenSigner) *authUsecase {
	return &authUsecase{
		users:    users,
		sessions: sessions,
		tokens:   tokens,
		rules:    validation.NewUserRules(users),
		now:      time.Now,
	}
}

// Register はユーザー名・メールアドレスの重複を検証し、ハッシュ化したパスワードで新規ユーザーを登録します。
func (u *authUsecase) Register(ctx context.Context, username, email, password string) (*entity.User, error) {
	if err := u.rules.ValidateUsername(ctx, username, ""); err != nil {
		return nil, err
	}
	if err := u.rules.ValidateEmail(ctx, email); err != nil {
		return nil, err
	}
	if err := validation.Required("password", password); err != nil {
		return nil, err
	}
	// bcryptは72バイトを超える入力を拒否する
	if len(password) > MaxPasswordBytes {
		return nil, apperror.New(apperror.KindLengthError, "password", MsgPasswordTooLong)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user := &entity.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hashed),
		LastSeen:     u.now(),
	}
	if err := u.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login はユーザーを認証し、新しいセッションと署名済みトークンを返します。
// タイミング攻撃を防止するため、ユーザーが存在しない場合でもbcrypt比較を実行します。
func (u *authUsecase) Login(ctx context.Context, username, password string, remember bool, client entity.ClientInfo) (*entity.IssuedSession, error) {
	user, err := u.users.FindByUsername(ctx, username)
	if err != nil && !errors.Is(err, ErrUserNotFound) {
		return nil, fmt.Errorf("find user: %w", err)
	}

	passwordHash := dummyHash
	if err == nil {
		passwordHash = user.PasswordHash
	}

	// タイミング攻撃防止のため、常にパスワードを検証
	compareErr := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(password))

	// ユーザー未検出またはパスワード不一致の場合、汎用エラーを返す
	if err != nil || compareErr != nil {
		return nil, ErrInvalidCredentials
	}

	sessionID, err := newSessionID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate session id: %w", err)
	}

	now := u.now()
	ttl := sessionTTL
	if remember {
		ttl = rememberTTL
	}
	session := &entity.Session{
		ID:        sessionID,
		UserID:    user.ID,
		UserAgent: client.UserAgent,
		IPAddress: client.IPAddress,
		Remember:  remember,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
	if err := u.sessions.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	token, err := u.tokens.Sign(session.ID, user.ID, session.ExpiresAt)
	if err != nil {
		return nil, fmt.Errorf("failed to sign session: %w", err)
	}

	if err := u.users.TouchLastSeen(ctx, user.ID, now); err != nil {
		slog.Warn("failed to update last_seen", "user_id", user.ID, "error", err)
	}
	user.LastSeen = now

	return &entity.IssuedSession{
		Token:     token,
		ExpiresAt: session.ExpiresAt,
		Remember:  remember,
		User:      user,
	}, nil
}

// Logout はトークンが指すセッションを失効させます。
// 無効なトークンや既に存在しないセッションはエラーにしません。
func (u *authUsecase) Logout(ctx context.Context, token string) error {
	sessionID, _, err := u.tokens.Parse(token)
	if err != nil {
		return nil
	}
	if err := u.sessions.Revoke(ctx, sessionID, u.now()); err != nil && !errors.Is(err, ErrSessionNotFound) {
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	return nil
}

// newSessionID は暗号論的乱数から64文字の16進文字列を生成します。
func newSessionID() (string, error) {
	b := make([]byte, sessionIDBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
