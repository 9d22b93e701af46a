// Package handler はauthフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"enterprise_backend/internal/feature/auth/domain/entity"
	"enterprise_backend/internal/feature/auth/transport/http/dto"
	"enterprise_backend/internal/platform/http/render"
	jwtmw "enterprise_backend/internal/platform/jwt"
	"enterprise_backend/internal/shared/validation"
)

const (
	// IndexPath はログイン後の既定の遷移先です。
	IndexPath = "/index"

	MsgRegistered = "Congratulations, you are now a registered user!"
)

// AuthUsecase は認証操作のユースケースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（usecase）ではなくコンシューマー（handler）が定義します。
type AuthUsecase interface {
	// Register は新規ユーザーを登録します。
	Register(ctx context.Context, username, email, password string) (*entity.User, error)
	// Login はユーザーを認証し、署名済みセッションを返します。
	Login(ctx context.Context, username, password string, remember bool, client entity.ClientInfo) (*entity.IssuedSession, error)
	// Logout はセッションを失効させます。
	Logout(ctx context.Context, token string) error
}

// FlashStore はリダイレクトをまたぐ一度きりのメッセージを扱います。
type FlashStore interface {
	Add(c *gin.Context, msg string)
	Pop(c *gin.Context) []string
}

// AuthHandler はログイン・ログアウト・登録のHTTPリクエストを処理します。
type AuthHandler struct {
	auth          AuthUsecase
	flashes       FlashStore
	secureCookies bool
}

// NewAuthHandler はAuthHandlerの新しいインスタンスを生成します。
func NewAuthHandler(auth AuthUsecase, flashes FlashStore, secureCookies bool) *AuthHandler {
	return &AuthHandler{auth: auth, flashes: flashes, secureCookies: secureCookies}
}

// LoginPage はログインフォームを表示します。ログイン済みの場合はindexへリダイレクトします。
func (h *AuthHandler) LoginPage(c *gin.Context) {
	if _, ok := jwtmw.CurrentUser(c); ok {
		render.Redirect(c, IndexPath)
		return
	}
	render.Page(c, http.StatusOK, h.loginView(c))
}

// Login はログインフォームの送信を処理します。
// - バインド失敗時は422でフォームを再表示
// - 認証失敗時は401で汎用メッセージを表示
// - 成功時はセッションCookieを発行し、nextまたはindexへリダイレクト
func (h *AuthHandler) Login(c *gin.Context) {
	if _, ok := jwtmw.CurrentUser(c); ok {
		render.Redirect(c, IndexPath)
		return
	}
	view := h.loginView(c)

	var form dto.LoginForm
	if err := c.ShouldBind(&form); err != nil {
		render.FormError(c, view, validation.FromBindingError(err))
		return
	}

	issued, err := h.auth.Login(c.Request.Context(), form.Username, form.Password, form.RememberMe, entity.ClientInfo{
		UserAgent: c.Request.UserAgent(),
		IPAddress: c.ClientIP(),
	})
	if err != nil {
		// ユーザー列挙攻撃を防止するため、ユーザー名の有無は区別しない
		slog.Warn("login failed", "username", form.Username, "remote_addr", c.ClientIP(), "error", err)
		render.FormError(c, view, err)
		return
	}

	jwtmw.SetSessionCookie(c, issued.Token, issued.ExpiresAt, issued.Remember, h.secureCookies)
	slog.Info("user login successful", "user_id", issued.User.ID, "remote_addr", c.ClientIP())

	target := IndexPath
	if next := c.Query("next"); isSafeNext(next) {
		target = next
	}
	render.Redirect(c, target)
}

// Logout はセッションを失効させ、Cookieを削除してindexへリダイレクトします。
func (h *AuthHandler) Logout(c *gin.Context) {
	if token, err := c.Cookie(jwtmw.CookieName); err == nil && token != "" {
		if err := h.auth.Logout(c.Request.Context(), token); err != nil {
			slog.Error("logout failed", "error", err)
		}
	}
	jwtmw.ClearSessionCookie(c, h.secureCookies)
	render.Redirect(c, IndexPath)
}

// RegisterPage は登録フォームを表示します。
func (h *AuthHandler) RegisterPage(c *gin.Context) {
	if _, ok := jwtmw.CurrentUser(c); ok {
		render.Redirect(c, IndexPath)
		return
	}
	render.Page(c, http.StatusOK, h.registerView(c))
}

// Register はユーザー登録フォームの送信を処理します。
func (h *AuthHandler) Register(c *gin.Context) {
	if _, ok := jwtmw.CurrentUser(c); ok {
		render.Redirect(c, IndexPath)
		return
	}
	view := h.registerView(c)

	var form dto.RegisterForm
	if err := c.ShouldBind(&form); err != nil {
		render.FormError(c, view, validation.FromBindingError(err))
		return
	}

	user, err := h.auth.Register(c.Request.Context(), form.Username, form.Email, form.Password)
	if err != nil {
		slog.Warn("registration rejected", "username", form.Username, "error", err)
		render.FormError(c, view, err)
		return
	}

	slog.Info("user registered", "user_id", user.ID)
	h.flashes.Add(c, MsgRegistered)
	render.Redirect(c, jwtmw.LoginPath)
}

func (h *AuthHandler) loginView(c *gin.Context) render.View {
	return render.View{
		Template: "login.html",
		Title:    "Sign In",
		Flashes:  h.flashes.Pop(c),
		Data:     gin.H{"next": c.Query("next")},
	}
}

func (h *AuthHandler) registerView(c *gin.Context) render.View {
	return render.View{Template: "register.html", Title: "Register", Flashes: h.flashes.Pop(c)}
}

// isSafeNext はnextパラメータが同一オリジンの相対パスであるかを判定します。
func isSafeNext(next string) bool {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.Contains(next, `\`) {
		return false
	}
	u, err := url.Parse(next)
	if err != nil {
		return false
	}
	return u.Scheme == "" && u.Host == ""
}
