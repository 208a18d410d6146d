package flows

import (
	"context"
	"errors"
	"time"
)

// RefreshFailureKind classifies refresh flow failures for root-level
// mapping.
type RefreshFailureKind int

const (
	RefreshFailureNone RefreshFailureKind = iota
	RefreshFailureDecode
	RefreshFailureNotFound
	RefreshFailureRevoked
	RefreshFailureExpired
	RefreshFailureConflict
	RefreshFailureRotate
	RefreshFailureEncode
)

// RefreshResult carries either the rotated token pair or failure metadata.
type RefreshResult struct {
	Failure      RefreshFailureKind
	Err          error
	UserID       string
	OldJTI       string
	JTI          string
	AccessToken  string
	RefreshToken string
}

// RefreshDeps captures refresh flow dependencies.
type RefreshDeps struct {
	// DecodeRefresh returns subject and jti of a token verified as
	// type=refresh; its errors are the codec's own and propagate as-is.
	DecodeRefresh func(tokenStr string) (subject, jti string, err error)
	NewJTI        func() string
	// RotateToken revokes oldJTI and records newJTI as one atomic unit;
	// the old session is dead before the new pair can ever be observed.
	RotateToken   func(ctx context.Context, oldJTI, newJTI, userID string, expiresAt time.Time) error
	EncodeAccess  func(subject, jti string) (string, error)
	EncodeRefresh func(subject, jti string) (string, error)
	TokenNotFound error
	TokenRevoked  error
	TokenExpired  error
	JTIConflict   error
	RefreshTTL    time.Duration
	Now           func() time.Time
}

// RunRefresh rotates one session's token pair. An interruption after the
// rotation write loses the session (the user re-logs-in); it never leaves
// two simultaneously valid refresh tokens.
func RunRefresh(ctx context.Context, refreshToken string, deps RefreshDeps) RefreshResult {
	subject, oldJTI, err := deps.DecodeRefresh(refreshToken)
	if err != nil {
		return RefreshResult{Failure: RefreshFailureDecode, Err: err}
	}

	newJTI := deps.NewJTI()
	rotateErr := deps.RotateToken(ctx, oldJTI, newJTI, subject, deps.Now().Add(deps.RefreshTTL))
	if rotateErr != nil {
		failure := RefreshFailureRotate
		switch {
		case deps.TokenNotFound != nil && errors.Is(rotateErr, deps.TokenNotFound):
			failure = RefreshFailureNotFound
		case deps.TokenRevoked != nil && errors.Is(rotateErr, deps.TokenRevoked):
			failure = RefreshFailureRevoked
		case deps.TokenExpired != nil && errors.Is(rotateErr, deps.TokenExpired):
			failure = RefreshFailureExpired
		case deps.JTIConflict != nil && errors.Is(rotateErr, deps.JTIConflict):
			failure = RefreshFailureConflict
		}
		return RefreshResult{
			Failure: failure,
			Err:     rotateErr,
			UserID:  subject,
			OldJTI:  oldJTI,
		}
	}

	access, err := deps.EncodeAccess(subject, newJTI)
	if err != nil {
		return RefreshResult{
			Failure: RefreshFailureEncode,
			Err:     err,
			UserID:  subject,
			OldJTI:  oldJTI,
			JTI:     newJTI,
		}
	}
	refresh, err := deps.EncodeRefresh(subject, newJTI)
	if err != nil {
		return RefreshResult{
			Failure: RefreshFailureEncode,
			Err:     err,
			UserID:  subject,
			OldJTI:  oldJTI,
			JTI:     newJTI,
		}
	}

	return RefreshResult{
		UserID:       subject,
		OldJTI:       oldJTI,
		JTI:          newJTI,
		AccessToken:  access,
		RefreshToken: refresh,
	}
}
