package store

import (
	"errors"
	"time"
)

var (
	// ErrEmailExists is returned by CreateUser for a duplicate email.
	ErrEmailExists = errors.New("email already registered")
	// ErrUserNotFound is returned when no user matches the lookup.
	ErrUserNotFound = errors.New("user not found")
	// ErrJTIExists is returned by RecordToken when the jti is already
	// recorded. Random jti generation should never produce this, but a
	// collision must surface as an error, not a silent overwrite.
	ErrJTIExists = errors.New("token id already recorded")
	// ErrTokenNotFound is returned when no record matches the jti.
	ErrTokenNotFound = errors.New("refresh token record not found")
	// ErrTokenRevoked is returned by RotateToken when the record is
	// already revoked.
	ErrTokenRevoked = errors.New("refresh token record revoked")
	// ErrTokenExpired is returned by RotateToken when the persisted
	// expiry has passed, regardless of what the signed token claims.
	ErrTokenExpired = errors.New("refresh token record expired")
	// ErrRedisUnavailable wraps transport-level Redis failures.
	ErrRedisUnavailable = errors.New("redis unavailable")
)

// UserRecord is the persisted identity record. It is created at
// registration and read at login; this core never mutates it afterwards.
type UserRecord struct {
	ID           string
	Email        string
	PasswordHash string
	Active       bool
	CreatedAt    time.Time
}

// TokenRecord tracks one refresh token for revocation. At most one live
// record exists per jti; records die by revocation or by their expiry
// passing, never by deletion here.
type TokenRecord struct {
	JTI       string
	UserID    string
	ExpiresAt time.Time
	Revoked   bool
	CreatedAt time.Time
}

// Live reports whether the record can still authorize a rotation at the
// given instant.
func (r *TokenRecord) Live(now time.Time) bool {
	return !r.Revoked && r.ExpiresAt.After(now)
}
