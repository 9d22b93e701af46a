// Package flash stores one-shot user messages in a signed cookie.
package flash

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	// CookieName is the name of the flash cookie.
	CookieName = "flash"

	contextKey = "flash.pending"
	maxAge     = 5 * time.Minute
)

type flashClaims struct {
	Messages []string `json:"msgs"`
	jwt.RegisteredClaims
}

// Store queues messages across one redirect.
type Store struct {
	secret []byte
	secure bool
}

// NewStore creates a Store signing cookies with secret.
func NewStore(secret string, secure bool) *Store {
	return &Store{secret: []byte(secret), secure: secure}
}

// Add queues msg for the next page the client sees. Unread messages from the
// request cookie are carried over.
func (s *Store) Add(c *gin.Context, msg string) {
	queued := s.queued(c)
	pending := make([]string, 0, len(queued)+1)
	pending = append(append(pending, queued...), msg)
	c.Set(contextKey, pending)

	claims := flashClaims{
		Messages: pending,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(maxAge)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return
	}
	s.writeCookie(c, signed, int(maxAge.Seconds()))
}

// Pop returns and clears the queued messages: those carried by the request
// cookie followed by any added during this request.
func (s *Store) Pop(c *gin.Context) []string {
	out := s.queued(c)
	c.Set(contextKey, []string{})

	raw, err := c.Cookie(CookieName)
	if (err == nil && raw != "") || len(out) > 0 {
		s.writeCookie(c, "", -1)
	}
	if out == nil {
		out = []string{}
	}
	return out
}

// queued returns this request's view of the queue. Until the first Add or
// Pop it is whatever the request cookie carries.
func (s *Store) queued(c *gin.Context) []string {
	if v, ok := c.Get(contextKey); ok {
		msgs, _ := v.([]string)
		return msgs
	}
	raw, err := c.Cookie(CookieName)
	if err != nil || raw == "" {
		return nil
	}
	return s.parse(raw)
}

func (s *Store) parse(raw string) []string {
	var claims flashClaims
	token, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return nil
	}
	return claims.Messages
}

// writeCookie replaces any flash cookie already set on this response.
func (s *Store) writeCookie(c *gin.Context, value string, age int) {
	h := c.Writer.Header()
	var kept []string
	for _, v := range h.Values("Set-Cookie") {
		if !strings.HasPrefix(v, CookieName+"=") {
			kept = append(kept, v)
		}
	}
	h.Del("Set-Cookie")
	for _, v := range kept {
		h.Add("Set-Cookie", v)
	}
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   age,
		Secure:   s.secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
