package authcore

import (
	"context"

	"github.com/MrEthical07/authcore/internal/flows"
)

// Register creates a new account from an email and a plaintext password.
// The email is normalized (trimmed, lowercased) before use; the password
// is argon2id-hashed and the plaintext is never stored or logged. No
// tokens are issued; call [Engine.IssueTokenPair] or [Engine.Login] to
// start a session.
//
// Returns [ErrEmailInvalid], [ErrPasswordPolicy], [ErrConflict] for a
// duplicate email, or [ErrStoreUnavailable].
func (e *Engine) Register(ctx context.Context, email, password string) (*User, error) {
	if !e.ready() {
		return nil, ErrEngineNotReady
	}

	res := e.flows.Register(ctx, email, password)
	if res.Failure != flows.RegisterFailureNone {
		err := e.mapRegisterFailure(res)
		e.emitAudit(ctx, auditEventRegister, "", "", false, err, nil)
		return nil, err
	}

	e.metricInc(MetricRegisterSuccess)
	e.emitAudit(ctx, auditEventRegister, res.User.ID, "", true, nil, nil)
	return userFromRecord(res.User), nil
}

func (e *Engine) mapRegisterFailure(res flows.RegisterResult) error {
	switch res.Failure {
	case flows.RegisterFailureEmailInvalid:
		return ErrEmailInvalid
	case flows.RegisterFailurePasswordPolicy:
		return ErrPasswordPolicy
	case flows.RegisterFailureConflict:
		e.metricInc(MetricRegisterConflict)
		return ErrConflict
	default:
		e.metricInc(MetricStoreUnavailable)
		return storeFailure(res.Err)
	}
}
