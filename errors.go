package authcore

import (
	"errors"

	"github.com/MrEthical07/authcore/breaker"
)

// ErrServiceUnavailable is the circuit-rejection error kind. It is the
// same sentinel [breaker.ErrOpen] matches, re-exported so callers mapping
// the taxonomy only import this package.
var ErrServiceUnavailable = breaker.ErrOpen

var (
	// ErrConflict is returned for a duplicate email at registration or a
	// duplicate jti at issuance.
	ErrConflict = errors.New("resource already exists")
	// ErrInvalidCredentials is returned for bad logins. Unknown email and
	// wrong password produce this exact error with no distinguishing
	// detail; splitting them would enable account enumeration.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrEmailInvalid is returned when the registration email is not a
	// plausible address.
	ErrEmailInvalid = errors.New("invalid email")
	// ErrPasswordPolicy is returned when the registration password is
	// outside the 8..128 byte policy.
	ErrPasswordPolicy = errors.New("password policy violation")
	// ErrAccountDisabled is returned when credentials verify but the
	// account is inactive.
	ErrAccountDisabled = errors.New("account disabled")
	// ErrTokenInvalid is returned for malformed, forged, or wrong-type
	// tokens.
	ErrTokenInvalid = errors.New("invalid token")
	// ErrTokenExpired is returned for a well-formed token past its exp, or
	// a refresh token whose persisted expiry has passed.
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenRevoked is returned for a well-formed, unexpired refresh
	// token that is revoked or no longer tracked.
	ErrTokenRevoked = errors.New("token revoked")
	// ErrStoreUnavailable wraps unexpected persistence failures. It is the
	// generic internal failure kind: never swallowed, surfaced for the
	// outer layer to present.
	ErrStoreUnavailable = errors.New("storage unavailable")
	// ErrEngineNotReady is returned when an Engine method runs before
	// Build wired its dependencies.
	ErrEngineNotReady = errors.New("engine not initialized")
)
