// Package jwtmw carries the signed session cookie and the gin middleware
// that resolves it to the current user.
package jwtmw

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"

	"enterprise_backend/internal/feature/auth/domain/entity"
)

const (
	// CookieName is the name of the session cookie.
	CookieName = "session"

	// ContextUser is the gin context key holding the current *entity.User.
	ContextUser = "currentUser"

	// LoginPath is where anonymous users are sent.
	LoginPath = "/login"

	// MsgLoginRequired is flashed when an anonymous user hits a protected page.
	MsgLoginRequired = "Please log in to access this page."
)

// SessionResolver maps a session token to its user.
type SessionResolver interface {
	ResolveSession(ctx context.Context, token string) (*entity.User, error)
}

// Flasher queues a one-shot message for the next rendered page.
type Flasher interface {
	Add(c *gin.Context, msg string)
}

// LoadUser resolves the session cookie, if any, and stores the user in the
// context. Requests without a valid session continue anonymously.
func LoadUser(resolver SessionResolver, secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(CookieName)
		if err != nil || token == "" {
			c.Next()
			return
		}
		user, err := resolver.ResolveSession(c.Request.Context(), token)
		if err != nil {
			// 無効なセッションCookieは削除する
			ClearSessionCookie(c, secure)
			c.Next()
			return
		}
		c.Set(ContextUser, user)
		c.Next()
	}
}

// AuthRequired redirects anonymous users to the login page with a flash
// message and a ?next= pointer back to the requested path.
func AuthRequired(flashes Flasher) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := CurrentUser(c); ok {
			c.Next()
			return
		}
		if flashes != nil {
			flashes.Add(c, MsgLoginRequired)
		}
		target := LoginPath + "?next=" + url.QueryEscape(c.Request.URL.RequestURI())
		c.Redirect(http.StatusFound, target)
		c.Abort()
	}
}

// CurrentUser returns the authenticated user, if any.
func CurrentUser(c *gin.Context) (*entity.User, bool) {
	v, ok := c.Get(ContextUser)
	if !ok {
		return nil, false
	}
	u, ok := v.(*entity.User)
	return u, ok && u != nil
}

// SetSessionCookie writes the session token. A remembered session gets a
// persistent cookie; otherwise the cookie lasts for the browser session.
func SetSessionCookie(c *gin.Context, token string, expiresAt time.Time, remember, secure bool) {
	maxAge := 0
	if remember {
		maxAge = int(time.Until(expiresAt).Seconds())
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, token, maxAge, "/", "", secure, true)
}

// ClearSessionCookie expires the session cookie.
func ClearSessionCookie(c *gin.Context, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, "", -1, "/", "", secure, true)
}
