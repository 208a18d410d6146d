package authcore

import (
	"context"
	"time"
)

// Audit event types emitted by the engine. The event carries user and
// jti identifiers plus coarse outcome metadata only; credentials, hashes
// and signed tokens never enter the audit pipeline.
const (
	auditEventRegister           = "auth.register"
	auditEventLogin              = "auth.login"
	auditEventPairIssued         = "auth.pair_issued"
	auditEventRefresh            = "auth.refresh"
	auditEventLogout             = "auth.logout"
	auditEventBreakerStateChange = "breaker.state_change"
)

func (e *Engine) emitAudit(ctx context.Context, eventType, userID, jti string, success bool, failure error, metadata map[string]string) {
	event := AuditEvent{
		Timestamp: time.Now().UTC(),
		EventType: eventType,
		UserID:    userID,
		JTI:       jti,
		Success:   success,
		Metadata:  metadata,
	}
	if failure != nil {
		event.Error = failure.Error()
	}
	e.audit.Emit(ctx, event)
}
