package entity

import "time"

// Session is the server-side half of a login. The session cookie carries its
// ID inside a signed token; revoking or expiring the row ends the login.
type Session struct {
	ID        string     `gorm:"primaryKey;size:64" json:"id"`
	UserID    uint       `gorm:"index;not null" json:"user_id"`
	UserAgent string     `gorm:"size:512" json:"user_agent"`
	IPAddress string     `gorm:"size:45" json:"ip_address"`
	Remember  bool       `gorm:"not null;default:false" json:"remember"`
	CreatedAt time.Time  `gorm:"not null" json:"created_at"`
	ExpiresAt time.Time  `gorm:"index;not null" json:"expires_at"`
	RevokedAt *time.Time `gorm:"index" json:"revoked_at,omitempty"`
}

// TableName keeps the table name independent of the struct name.
func (Session) TableName() string {
	return "sessions"
}

// ExpiredAt reports whether the session has run out at now.
func (s *Session) ExpiredAt(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// IsRevoked reports whether the user logged out of this session.
func (s *Session) IsRevoked() bool {
	return s.RevokedAt != nil
}

// ActiveAt reports whether the session still authenticates requests at now.
func (s *Session) ActiveAt(now time.Time) bool {
	return !s.IsRevoked() && !s.ExpiredAt(now)
}

// ClientInfo describes the client opening a session.
type ClientInfo struct {
	UserAgent string
	IPAddress string
}

// IssuedSession is returned by a successful login.
type IssuedSession struct {
	Token     string    // signed cookie value
	ExpiresAt time.Time // server-side expiry
	Remember  bool      // persistent cookie requested
	User      *User
}
