package authcore

import (
	"errors"
	"time"

	"github.com/MrEthical07/authcore/breaker"
	"github.com/MrEthical07/authcore/password"
	"github.com/MrEthical07/authcore/token"
)

// Config is the top-level engine configuration. Configure before Build;
// treat as immutable afterwards.
type Config struct {
	JWT      JWTConfig
	Password PasswordConfig
	Store    StoreConfig
	Breaker  BreakerConfig
	Audit    AuditConfig
	Metrics  MetricsConfig
}

/*
====================================
JWT CONFIG
====================================
*/

// JWTConfig holds signing material and token lifetimes. SecretKey is
// never exposed through any logging or error-reporting path.
type JWTConfig struct {
	SecretKey  []byte
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	// Leeway is the bounded clock-skew tolerance (0..2m) applied at token
	// verification. The persisted record expiry is checked without leeway.
	Leeway time.Duration
	Issuer string
}

/*
====================================
PASSWORD CONFIG
====================================
*/

// PasswordConfig holds argon2id cost parameters.
type PasswordConfig struct {
	Memory      uint32 // in KB
	Time        uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

/*
====================================
STORE CONFIG
====================================
*/

// StoreConfig controls the Redis key layout.
type StoreConfig struct {
	RedisPrefix string
}

/*
====================================
BREAKER CONFIG
====================================
*/

// BreakerConfig is the default tuning handed to [Engine.NewBreaker].
type BreakerConfig struct {
	FailureThreshold int
	RecoveryTimeout  time.Duration
	HalfOpenMaxCalls int
}

/*
====================================
AUDIT / METRICS CONFIG
====================================
*/

// AuditConfig controls the async audit dispatcher.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

// MetricsConfig controls in-process counters.
type MetricsConfig struct {
	Enabled bool
}

func defaultConfig() Config {
	return Config{
		JWT: JWTConfig{
			AccessTTL:  15 * time.Minute,
			RefreshTTL: 7 * 24 * time.Hour,
		},
		Password: PasswordConfig{
			Memory:      64 * 1024,
			Time:        3,
			Parallelism: 2,
			SaltLength:  16,
			KeyLength:   32,
		},
		Store: StoreConfig{
			RedisPrefix: "ac",
		},
		Breaker: BreakerConfig{
			FailureThreshold: 5,
			RecoveryTimeout:  30 * time.Second,
			HalfOpenMaxCalls: 1,
		},
		Audit: AuditConfig{
			Enabled:    true,
			BufferSize: 256,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

func validateConfig(cfg Config) error {
	if len(cfg.JWT.SecretKey) == 0 {
		return errors.New("JWT secret key is required")
	}
	if cfg.JWT.AccessTTL <= 0 || cfg.JWT.RefreshTTL <= 0 {
		return errors.New("token TTLs must be positive")
	}
	if cfg.Breaker.FailureThreshold < 1 {
		return errors.New("breaker failure threshold must be >= 1")
	}
	if cfg.Breaker.RecoveryTimeout <= 0 {
		return errors.New("breaker recovery timeout must be positive")
	}
	if cfg.Breaker.HalfOpenMaxCalls < 1 {
		return errors.New("breaker half-open max calls must be >= 1")
	}
	return nil
}

func (c Config) tokenConfig() token.Config {
	return token.Config{
		SecretKey:  c.JWT.SecretKey,
		AccessTTL:  c.JWT.AccessTTL,
		RefreshTTL: c.JWT.RefreshTTL,
		Leeway:     c.JWT.Leeway,
		Issuer:     c.JWT.Issuer,
	}
}

func (c Config) passwordConfig() password.Config {
	return password.Config{
		Memory:      c.Password.Memory,
		Time:        c.Password.Time,
		Parallelism: c.Password.Parallelism,
		SaltLength:  c.Password.SaltLength,
		KeyLength:   c.Password.KeyLength,
	}
}

func (c Config) breakerConfig() breaker.Config {
	return breaker.Config{
		FailureThreshold: c.Breaker.FailureThreshold,
		RecoveryTimeout:  c.Breaker.RecoveryTimeout,
		HalfOpenMaxCalls: c.Breaker.HalfOpenMaxCalls,
	}
}
