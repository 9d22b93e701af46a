// Package entity defines the domain entities for the auth feature.
package entity

import "time"

// User represents a registered account that owns enterprises.
type User struct {
	// ID is the surrogate key.
	ID uint `gorm:"primaryKey" json:"id"`

	// Username is the login name, unique across all users.
	Username string `gorm:"uniqueIndex;size:64;not null" json:"username"`

	// Email must be unique across all users.
	Email string `gorm:"uniqueIndex;size:120;not null" json:"email"`

	// PasswordHash is the bcrypt hash. The plaintext password is never stored.
	PasswordHash string `gorm:"size:128;not null" json:"-"`

	// AboutMe is an optional free-text bio.
	AboutMe string `gorm:"size:140" json:"about_me"`

	// LastSeen is refreshed on every authenticated request.
	LastSeen time.Time `json:"last_seen"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"-"`
}
