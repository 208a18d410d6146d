package authcore

import (
	"context"
	"errors"

	"github.com/MrEthical07/authcore/internal/flows"
	"github.com/MrEthical07/authcore/token"
)

// Refresh rotates a session: it verifies the presented refresh token,
// atomically revokes its jti and records a new one, and returns a fresh
// pair under the new jti. The old refresh token is dead before the new
// pair can be observed, so a replayed old token always fails with
// [ErrTokenRevoked].
//
// A refresh token whose record is missing from the store is treated as
// revoked, not invalid: the signature still verified, the session is
// simply no longer tracked.
func (e *Engine) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	if !e.ready() {
		return nil, ErrEngineNotReady
	}

	res := e.flows.Refresh(ctx, refreshToken)
	if res.Failure != flows.RefreshFailureNone {
		err := e.mapRefreshFailure(res)
		e.emitAudit(ctx, auditEventRefresh, res.UserID, res.OldJTI, false, err, nil)
		return nil, err
	}

	e.metricInc(MetricRefreshSuccess)
	e.emitAudit(ctx, auditEventRefresh, res.UserID, res.JTI, true, nil, map[string]string{
		"rotated_from": res.OldJTI,
	})
	return &TokenPair{
		AccessToken:  res.AccessToken,
		RefreshToken: res.RefreshToken,
	}, nil
}

func (e *Engine) mapRefreshFailure(res flows.RefreshResult) error {
	switch res.Failure {
	case flows.RefreshFailureDecode:
		e.metricInc(MetricRefreshFailure)
		if errors.Is(res.Err, token.ErrExpired) {
			return ErrTokenExpired
		}
		return ErrTokenInvalid
	case flows.RefreshFailureNotFound, flows.RefreshFailureRevoked:
		e.metricInc(MetricRefreshRevoked)
		return ErrTokenRevoked
	case flows.RefreshFailureExpired:
		e.metricInc(MetricRefreshExpired)
		return ErrTokenExpired
	case flows.RefreshFailureConflict:
		e.metricInc(MetricRefreshFailure)
		return ErrConflict
	case flows.RefreshFailureEncode:
		e.metricInc(MetricRefreshFailure)
		return res.Err
	default:
		e.metricInc(MetricStoreUnavailable)
		return storeFailure(res.Err)
	}
}
