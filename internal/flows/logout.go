package flows

import "context"

// LogoutFailureKind classifies logout flow failures.
type LogoutFailureKind int

const (
	LogoutFailureNone LogoutFailureKind = iota
	LogoutFailureDecode
	LogoutFailureStore
)

// LogoutResult reports the revoked jti or failure metadata.
type LogoutResult struct {
	Failure LogoutFailureKind
	Err     error
	UserID  string
	JTI     string
}

// LogoutDeps captures logout flow dependencies.
type LogoutDeps struct {
	DecodeRefresh func(tokenStr string) (subject, jti string, err error)
	RevokeToken   func(ctx context.Context, jti string) error
}

// RunLogout revokes the presented session. A malformed token is the one
// reportable failure; an unknown or already-revoked jti is a success,
// because a retried logout must stay a no-op.
func RunLogout(ctx context.Context, refreshToken string, deps LogoutDeps) LogoutResult {
	subject, jti, err := deps.DecodeRefresh(refreshToken)
	if err != nil {
		return LogoutResult{Failure: LogoutFailureDecode, Err: err}
	}

	if err := deps.RevokeToken(ctx, jti); err != nil {
		return LogoutResult{
			Failure: LogoutFailureStore,
			Err:     err,
			UserID:  subject,
			JTI:     jti,
		}
	}

	return LogoutResult{UserID: subject, JTI: jti}
}
