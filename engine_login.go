package authcore

import (
	"context"

	"github.com/MrEthical07/authcore/internal/flows"
)

// Authenticate verifies an email/password pair and returns the account.
// Unknown email and wrong password both return [ErrInvalidCredentials]
// with no distinguishing detail, and both cost one full hash
// verification. A disabled account with correct credentials returns
// [ErrAccountDisabled].
func (e *Engine) Authenticate(ctx context.Context, email, password string) (*User, error) {
	if !e.ready() {
		return nil, ErrEngineNotReady
	}

	res := e.flows.Authenticate(ctx, email, password)
	if res.Failure != flows.LoginFailureNone {
		err := e.mapLoginFailure(res)
		userID := ""
		if res.User != nil {
			userID = res.User.ID
		}
		e.emitAudit(ctx, auditEventLogin, userID, "", false, err, nil)
		return nil, err
	}

	e.metricInc(MetricLoginSuccess)
	e.emitAudit(ctx, auditEventLogin, res.User.ID, "", true, nil, nil)
	return userFromRecord(res.User), nil
}

// IssueTokenPair mints a fresh access/refresh pair for an authenticated
// user. Both halves carry the same newly generated jti; the refresh half
// is recorded in the store so it can later be revoked or rotated.
func (e *Engine) IssueTokenPair(ctx context.Context, userID string) (*TokenPair, error) {
	if !e.ready() {
		return nil, ErrEngineNotReady
	}

	res := e.flows.IssuePair(ctx, userID)
	if res.Failure != flows.IssueFailureNone {
		err := e.mapIssueFailure(res)
		e.emitAudit(ctx, auditEventPairIssued, userID, res.JTI, false, err, nil)
		return nil, err
	}

	e.metricInc(MetricPairIssued)
	e.emitAudit(ctx, auditEventPairIssued, userID, res.JTI, true, nil, nil)
	return &TokenPair{
		AccessToken:  res.AccessToken,
		RefreshToken: res.RefreshToken,
	}, nil
}

// Login is the composite flow: authenticate then issue a token pair.
func (e *Engine) Login(ctx context.Context, email, password string) (*User, *TokenPair, error) {
	user, err := e.Authenticate(ctx, email, password)
	if err != nil {
		return nil, nil, err
	}
	pair, err := e.IssueTokenPair(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

func (e *Engine) mapLoginFailure(res flows.AuthenticateResult) error {
	switch res.Failure {
	case flows.LoginFailureInvalidCredentials:
		e.metricInc(MetricLoginFailure)
		return ErrInvalidCredentials
	case flows.LoginFailureAccountDisabled:
		e.metricInc(MetricLoginFailure)
		return ErrAccountDisabled
	default:
		e.metricInc(MetricStoreUnavailable)
		return storeFailure(res.Err)
	}
}

func (e *Engine) mapIssueFailure(res flows.IssueResult) error {
	switch res.Failure {
	case flows.IssueFailureConflict:
		return ErrConflict
	case flows.IssueFailureEncode:
		return res.Err
	default:
		e.metricInc(MetricStoreUnavailable)
		return storeFailure(res.Err)
	}
}
