package authcore

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	internalaudit "github.com/MrEthical07/authcore/internal/audit"
	"github.com/MrEthical07/authcore/internal/flows"
	internalmetrics "github.com/MrEthical07/authcore/internal/metrics"
	"github.com/MrEthical07/authcore/password"
	"github.com/MrEthical07/authcore/store"
	"github.com/MrEthical07/authcore/token"
)

// Builder assembles an [Engine]. Zero value is not usable; start from
// [New] and finish with [Builder.Build].
type Builder struct {
	config    Config
	hasConfig bool
	redis     redis.UniversalClient
	auditSink AuditSink
}

// New starts a builder with default configuration.
func New() *Builder {
	return &Builder{config: defaultConfig()}
}

// WithConfig replaces the entire configuration. Unset fields fall back
// to defaults at Build.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cfg
	b.hasConfig = true
	return b
}

// WithSecretKey sets the JWT signing secret without replacing the rest
// of the configuration.
func (b *Builder) WithSecretKey(key []byte) *Builder {
	b.config.JWT.SecretKey = key
	return b
}

// WithRedis sets the backing Redis client. Required.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redis = client
	return b
}

// WithAuditSink sets the destination for audit events. Defaults to a
// [NoOpSink].
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// Build validates the configuration and wires the engine. The returned
// engine owns an audit dispatcher; call [Engine.Close] when done.
func (b *Builder) Build() (*Engine, error) {
	cfg := b.config
	if b.hasConfig {
		cfg = mergeDefaults(cfg)
	}
	if b.redis == nil {
		return nil, errors.New("redis client is required")
	}
	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	tokens, err := token.NewManager(cfg.tokenConfig())
	if err != nil {
		return nil, fmt.Errorf("token manager: %w", err)
	}
	hasher, err := password.NewHasher(cfg.passwordConfig())
	if err != nil {
		return nil, fmt.Errorf("password hasher: %w", err)
	}
	st := store.NewRedis(b.redis, cfg.Store.RedisPrefix)

	sink := b.auditSink
	if sink == nil {
		sink = internalaudit.NoOpSink{}
	}
	dispatcher := internalaudit.NewDispatcher(internalaudit.Config{
		Enabled:    cfg.Audit.Enabled,
		BufferSize: cfg.Audit.BufferSize,
		DropIfFull: cfg.Audit.DropIfFull,
	}, sink)

	e := &Engine{
		config:       cfg,
		store:        st,
		tokens:       tokens,
		passwordHash: hasher,
		audit:        dispatcher,
		metrics:      internalmetrics.New(internalmetrics.Config{Enabled: cfg.Metrics.Enabled}),
	}
	e.flows = flows.New(buildDeps(e))
	return e, nil
}

// mergeDefaults backfills zero-valued tuning fields so a caller-supplied
// Config only needs to set what it cares about. The secret key is never
// defaulted.
func mergeDefaults(cfg Config) Config {
	def := defaultConfig()
	if cfg.JWT.AccessTTL == 0 {
		cfg.JWT.AccessTTL = def.JWT.AccessTTL
	}
	if cfg.JWT.RefreshTTL == 0 {
		cfg.JWT.RefreshTTL = def.JWT.RefreshTTL
	}
	if cfg.Password == (PasswordConfig{}) {
		cfg.Password = def.Password
	}
	if cfg.Store.RedisPrefix == "" {
		cfg.Store.RedisPrefix = def.Store.RedisPrefix
	}
	if cfg.Breaker == (BreakerConfig{}) {
		cfg.Breaker = def.Breaker
	}
	if cfg.Audit.BufferSize == 0 {
		cfg.Audit.BufferSize = def.Audit.BufferSize
	}
	return cfg
}

// buildDeps wires the flow dependency sets from the engine's components.
// Flows see closures and sentinel errors only, never the components
// themselves.
func buildDeps(e *Engine) flows.Deps {
	decodeRefresh := func(tokenStr string) (string, string, error) {
		claims, err := e.tokens.Parse(tokenStr, token.KindRefresh)
		if err != nil {
			return "", "", err
		}
		return claims.Subject, claims.JTI(), nil
	}

	return flows.Deps{
		Register: flows.RegisterDeps{
			HashPassword:  e.passwordHash.Hash,
			NewUserID:     uuid.NewString,
			CreateUser:    e.store.CreateUser,
			EmailConflict: store.ErrEmailExists,
			Now:           timeNow,
		},
		Login: flows.LoginDeps{
			GetUserByEmail: e.store.GetUserByEmail,
			VerifyPassword: e.passwordHash.Verify,
			DecoyHash:      e.passwordHash.Decoy(),
			UserNotFound:   store.ErrUserNotFound,
		},
		Issue: flows.IssueDeps{
			NewJTI:        uuid.NewString,
			EncodeAccess:  e.tokens.CreateAccess,
			EncodeRefresh: e.tokens.CreateRefresh,
			RecordToken:   e.store.RecordToken,
			JTIConflict:   store.ErrJTIExists,
			RefreshTTL:    e.config.JWT.RefreshTTL,
			Now:           timeNow,
		},
		Refresh: flows.RefreshDeps{
			DecodeRefresh: decodeRefresh,
			NewJTI:        uuid.NewString,
			RotateToken:   e.store.RotateToken,
			EncodeAccess:  e.tokens.CreateAccess,
			EncodeRefresh: e.tokens.CreateRefresh,
			TokenNotFound: store.ErrTokenNotFound,
			TokenRevoked:  store.ErrTokenRevoked,
			TokenExpired:  store.ErrTokenExpired,
			JTIConflict:   store.ErrJTIExists,
			RefreshTTL:    e.config.JWT.RefreshTTL,
			Now:           timeNow,
		},
		Logout: flows.LogoutDeps{
			DecodeRefresh: decodeRefresh,
			RevokeToken:   e.store.RevokeToken,
		},
	}
}
