package flows

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/MrEthical07/authcore/store"
)

const (
	minPasswordBytes = 8
	maxPasswordBytes = 128
	maxEmailBytes    = 255
)

// RegisterFailureKind classifies register flow failures for root-level
// mapping.
type RegisterFailureKind int

const (
	RegisterFailureNone RegisterFailureKind = iota
	RegisterFailureEmailInvalid
	RegisterFailurePasswordPolicy
	RegisterFailureConflict
	RegisterFailureHash
	RegisterFailureStore
)

// RegisterResult carries either the created user or failure metadata.
type RegisterResult struct {
	Failure RegisterFailureKind
	Err     error
	User    *store.UserRecord
}

// RegisterDeps captures register flow dependencies.
type RegisterDeps struct {
	HashPassword  func(password string) (string, error)
	NewUserID     func() string
	CreateUser    func(ctx context.Context, user *store.UserRecord) error
	EmailConflict error
	Now           func() time.Time
}

// RunRegister validates input, hashes the password, and creates the user.
// No tokens are issued; registration and session creation stay separate.
func RunRegister(ctx context.Context, email, password string, deps RegisterDeps) RegisterResult {
	email = store.NormalizeEmail(email)
	if !plausibleEmail(email) {
		return RegisterResult{
			Failure: RegisterFailureEmailInvalid,
			Err:     errors.New("email is not plausible"),
		}
	}
	if len(password) < minPasswordBytes || len(password) > maxPasswordBytes {
		return RegisterResult{
			Failure: RegisterFailurePasswordPolicy,
			Err:     errors.New("password must be 8..128 bytes"),
		}
	}

	hash, err := deps.HashPassword(password)
	if err != nil {
		return RegisterResult{Failure: RegisterFailureHash, Err: err}
	}

	user := &store.UserRecord{
		ID:           deps.NewUserID(),
		Email:        email,
		PasswordHash: hash,
		Active:       true,
		CreatedAt:    deps.Now().UTC(),
	}
	if err := deps.CreateUser(ctx, user); err != nil {
		if deps.EmailConflict != nil && errors.Is(err, deps.EmailConflict) {
			return RegisterResult{Failure: RegisterFailureConflict, Err: err}
		}
		return RegisterResult{Failure: RegisterFailureStore, Err: err}
	}

	return RegisterResult{User: user}
}

// plausibleEmail is a cheap structural check; real address verification is
// an outer-layer concern.
func plausibleEmail(email string) bool {
	if email == "" || len(email) > maxEmailBytes {
		return false
	}
	at := strings.IndexByte(email, '@')
	return at > 0 && at < len(email)-1 && !strings.ContainsAny(email, " \t\r\n")
}
