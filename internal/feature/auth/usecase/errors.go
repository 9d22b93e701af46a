// Package usecase implements the business logic for the auth feature.
package usecase

import (
	"errors"

	"enterprise_backend/internal/shared/apperror"
)

// MaxPasswordBytes is the longest password bcrypt accepts.
const MaxPasswordBytes = 72

// MsgPasswordTooLong is shown when a password exceeds MaxPasswordBytes.
const MsgPasswordTooLong = "Password cannot be longer than 72 bytes."

// MsgInvalidCredentials is shown for both unknown users and wrong passwords.
const MsgInvalidCredentials = "Invalid username or password."

var (
	// ErrUserNotFound is returned when a user cannot be found by username or ID.
	ErrUserNotFound = errors.New("user not found")

	// ErrInvalidCredentials is returned by Login for any authentication failure.
	ErrInvalidCredentials = apperror.New(apperror.KindAuthError, "", MsgInvalidCredentials)

	// ErrSessionNotFound is returned when a session cannot be found by ID.
	ErrSessionNotFound = errors.New("session not found")

	// ErrSessionRevoked is returned when attempting to use a revoked session.
	ErrSessionRevoked = errors.New("session has been revoked")

	// ErrSessionExpired is returned when attempting to use an expired session.
	ErrSessionExpired = errors.New("session has expired")

	// ErrInvalidSessionToken is returned when a session cookie is invalid or malformed.
	ErrInvalidSessionToken = errors.New("invalid session token")
)
