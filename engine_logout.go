package authcore

import (
	"context"
	"errors"

	"github.com/MrEthical07/authcore/internal/flows"
	"github.com/MrEthical07/authcore/token"
)

// Logout revokes the session named by the refresh token's jti. The
// operation is idempotent: revoking an already-revoked or unknown jti
// succeeds, so a retried logout is a no-op. The one reportable failure
// is a token that does not verify at all.
func (e *Engine) Logout(ctx context.Context, refreshToken string) error {
	if !e.ready() {
		return ErrEngineNotReady
	}

	res := e.flows.Logout(ctx, refreshToken)
	switch res.Failure {
	case flows.LogoutFailureNone:
		e.metricInc(MetricLogout)
		e.emitAudit(ctx, auditEventLogout, res.UserID, res.JTI, true, nil, nil)
		return nil
	case flows.LogoutFailureDecode:
		e.metricInc(MetricLogoutInvalidToken)
		err := ErrTokenInvalid
		if errors.Is(res.Err, token.ErrExpired) {
			err = ErrTokenExpired
		}
		e.emitAudit(ctx, auditEventLogout, "", "", false, err, nil)
		return err
	default:
		e.metricInc(MetricStoreUnavailable)
		err := storeFailure(res.Err)
		e.emitAudit(ctx, auditEventLogout, res.UserID, res.JTI, false, err, nil)
		return err
	}
}
