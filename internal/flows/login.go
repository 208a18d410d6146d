package flows

import (
	"context"
	"errors"

	"github.com/MrEthical07/authcore/store"
)

// LoginFailureKind classifies authenticate flow failures for root-level
// mapping.
type LoginFailureKind int

const (
	LoginFailureNone LoginFailureKind = iota
	// LoginFailureInvalidCredentials covers BOTH unknown email and wrong
	// password. The two cases must stay indistinguishable to the caller —
	// splitting them would enable account enumeration.
	LoginFailureInvalidCredentials
	LoginFailureAccountDisabled
	LoginFailureStore
)

// AuthenticateResult carries either the verified user or failure metadata.
type AuthenticateResult struct {
	Failure LoginFailureKind
	Err     error
	User    *store.UserRecord
}

// LoginDeps captures authenticate flow dependencies.
type LoginDeps struct {
	GetUserByEmail func(ctx context.Context, email string) (*store.UserRecord, error)
	VerifyPassword func(password, encodedHash string) (bool, error)
	// DecoyHash is burned on the unknown-email path so both failure paths
	// cost one full verification.
	DecoyHash    string
	UserNotFound error
}

// RunAuthenticate verifies credentials against the stored hash.
func RunAuthenticate(ctx context.Context, email, password string, deps LoginDeps) AuthenticateResult {
	user, err := deps.GetUserByEmail(ctx, email)
	if err != nil {
		if deps.UserNotFound != nil && errors.Is(err, deps.UserNotFound) {
			_, _ = deps.VerifyPassword(password, deps.DecoyHash)
			return AuthenticateResult{
				Failure: LoginFailureInvalidCredentials,
				Err:     err,
			}
		}
		return AuthenticateResult{Failure: LoginFailureStore, Err: err}
	}

	ok, err := deps.VerifyPassword(password, user.PasswordHash)
	if err != nil || !ok {
		return AuthenticateResult{
			Failure: LoginFailureInvalidCredentials,
			Err:     err,
		}
	}

	if !user.Active {
		return AuthenticateResult{
			Failure: LoginFailureAccountDisabled,
			Err:     errors.New("account disabled"),
			User:    user,
		}
	}

	return AuthenticateResult{User: user}
}
