package internaldefs

import (
	authcore "github.com/MrEthical07/authcore"
)

// CounterDef binds a core counter ID to its stable exported name.
type CounterDef struct {
	ID   authcore.MetricID
	Name string
	Help string
}

// CounterDefs lists every exported counter. Order is the exposition
// order; names never change once released.
var CounterDefs = []CounterDef{
	{ID: authcore.MetricRegisterSuccess, Name: "authcore_register_success_total", Help: "Successful account registrations."},
	{ID: authcore.MetricRegisterConflict, Name: "authcore_register_conflict_total", Help: "Registrations rejected for a duplicate email."},
	{ID: authcore.MetricLoginSuccess, Name: "authcore_login_success_total", Help: "Successful credential verifications."},
	{ID: authcore.MetricLoginFailure, Name: "authcore_login_failure_total", Help: "Failed credential verifications."},
	{ID: authcore.MetricPairIssued, Name: "authcore_pair_issued_total", Help: "Issued access/refresh token pairs."},
	{ID: authcore.MetricRefreshSuccess, Name: "authcore_refresh_success_total", Help: "Successful refresh rotations."},
	{ID: authcore.MetricRefreshFailure, Name: "authcore_refresh_failure_total", Help: "Refresh attempts rejected for an invalid token."},
	{ID: authcore.MetricRefreshRevoked, Name: "authcore_refresh_revoked_total", Help: "Refresh attempts against a revoked or untracked session."},
	{ID: authcore.MetricRefreshExpired, Name: "authcore_refresh_expired_total", Help: "Refresh attempts against an expired session."},
	{ID: authcore.MetricLogout, Name: "authcore_logout_total", Help: "Logout operations."},
	{ID: authcore.MetricLogoutInvalidToken, Name: "authcore_logout_invalid_token_total", Help: "Logout attempts with a token that did not verify."},
	{ID: authcore.MetricStoreUnavailable, Name: "authcore_store_unavailable_total", Help: "Operations that failed against the backing store."},
}
