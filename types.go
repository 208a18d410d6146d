package authcore

import (
	"io"
	"time"

	internalaudit "github.com/MrEthical07/authcore/internal/audit"
	"github.com/MrEthical07/authcore/store"
)

// User is the public identity record returned by [Engine.Register] and
// [Engine.Authenticate]. The password hash never leaves the store layer.
type User struct {
	ID        string
	Email     string
	Active    bool
	CreatedAt time.Time
}

func userFromRecord(rec *store.UserRecord) *User {
	if rec == nil {
		return nil
	}
	return &User{
		ID:        rec.ID,
		Email:     rec.Email,
		Active:    rec.Active,
		CreatedAt: rec.CreatedAt,
	}
}

// TokenPair is one session's credentials. Both halves carry the same jti;
// only the refresh half is persisted for revocation tracking.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// AuditEvent is a structured audit record emitted by the engine.
type AuditEvent = internalaudit.Event

// AuditSink receives [AuditEvent] values from the engine's audit
// dispatcher.
type AuditSink = internalaudit.Sink

// NoOpSink is an [AuditSink] that silently discards all events.
type NoOpSink = internalaudit.NoOpSink

// ChannelSink is a buffered channel-based [AuditSink].
type ChannelSink = internalaudit.ChannelSink

// JSONWriterSink is an [AuditSink] that writes JSON-encoded events to an
// [io.Writer].
type JSONWriterSink = internalaudit.JSONWriterSink

// NewChannelSink creates a [ChannelSink] with the given buffer capacity.
func NewChannelSink(buffer int) *ChannelSink {
	return internalaudit.NewChannelSink(buffer)
}

// NewJSONWriterSink creates a [JSONWriterSink] that writes to w.
func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return internalaudit.NewJSONWriterSink(w)
}
