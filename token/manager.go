package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalid covers forged, malformed, claim-incomplete, and wrong-type
// tokens.
var ErrInvalid = errors.New("invalid token")

// ErrExpired is returned only when the signature verified, the type claim
// matched, and exp is in the past.
var ErrExpired = errors.New("token expired")

// Kind discriminates the two halves of a token pair.
type Kind string

const (
	// KindAccess marks short-lived API credentials.
	KindAccess Kind = "access"
	// KindRefresh marks the persisted, revocable rotation credential.
	KindRefresh Kind = "refresh"
)

const minSecretBytes = 32

// maxLeeway bounds the clock-skew tolerance; skew handling must stay a
// documented small window, not an open-ended knob.
const maxLeeway = 2 * time.Minute

// Config holds signing material and token lifetimes.
type Config struct {
	// SecretKey is the HS256 signing key. It must never be written to any
	// log or error path; this package only holds it in memory.
	SecretKey  []byte
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	// Leeway is the bounded clock-skew tolerance applied at verification,
	// 0..2m.
	Leeway time.Duration
	Issuer string
}

// Claims is the decoded payload of either token half. An access token and
// the refresh token issued with it share one jti (RegisteredClaims.ID).
type Claims struct {
	TokenType string `json:"type"`
	jwt.RegisteredClaims
}

// Kind returns the type claim as a [Kind].
func (c *Claims) Kind() Kind {
	return Kind(c.TokenType)
}

// JTI returns the token pair identifier.
func (c *Claims) JTI() string {
	return c.ID
}

// Manager signs and verifies token pairs with a single pinned algorithm.
type Manager struct {
	config Config
	now    func() time.Time
}

// NewManager validates the configuration and returns a ready codec.
func NewManager(cfg Config) (*Manager, error) {
	if len(cfg.SecretKey) < minSecretBytes {
		return nil, errors.New("signing key must be at least 32 bytes")
	}
	if cfg.AccessTTL <= 0 || cfg.RefreshTTL <= 0 {
		return nil, errors.New("invalid TTL configuration")
	}
	if cfg.RefreshTTL < cfg.AccessTTL {
		return nil, errors.New("refresh TTL must not be shorter than access TTL")
	}
	if cfg.Leeway < 0 || cfg.Leeway > maxLeeway {
		return nil, errors.New("invalid leeway configuration")
	}

	return &Manager{config: cfg, now: time.Now}, nil
}

// CreateAccess signs an access token for subject carrying the given jti.
func (m *Manager) CreateAccess(subject, jti string) (string, error) {
	return m.create(subject, jti, KindAccess, m.config.AccessTTL)
}

// CreateRefresh signs a refresh token for subject carrying the given jti.
func (m *Manager) CreateRefresh(subject, jti string) (string, error) {
	return m.create(subject, jti, KindRefresh, m.config.RefreshTTL)
}

func (m *Manager) create(subject, jti string, kind Kind, ttl time.Duration) (string, error) {
	if subject == "" || jti == "" {
		return "", errors.New("subject and jti are required")
	}

	now := m.now()
	claims := Claims{
		TokenType: string(kind),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ID:        jti,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	if m.config.Issuer != "" {
		claims.Issuer = m.config.Issuer
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.config.SecretKey)
}

// Parse verifies signature, algorithm, type, and lifetime of tokenStr.
// Failures collapse into [ErrInvalid] except the one case where everything
// checked out but exp has passed, which is [ErrExpired].
func (m *Manager) Parse(tokenStr string, expected Kind) (*Claims, error) {
	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.now),
	}
	if m.config.Leeway > 0 {
		options = append(options, jwt.WithLeeway(m.config.Leeway))
	}
	if m.config.Issuer != "" {
		options = append(options, jwt.WithIssuer(m.config.Issuer))
	}

	parser := jwt.NewParser(options...)
	parsed, err := parser.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected signing algorithm")
		}
		return m.config.SecretKey, nil
	})
	if err != nil {
		// Expiry is only reportable as such when the signature held and
		// the token is of the expected kind.
		if errors.Is(err, jwt.ErrTokenExpired) && !errors.Is(err, jwt.ErrTokenSignatureInvalid) {
			if claims, ok := claimsOf(parsed); ok && claims.Kind() == expected && claims.complete() {
				return nil, ErrExpired
			}
		}
		return nil, ErrInvalid
	}

	claims, ok := claimsOf(parsed)
	if !ok || !parsed.Valid {
		return nil, ErrInvalid
	}
	if !claims.complete() || claims.Kind() != expected {
		return nil, ErrInvalid
	}

	return claims, nil
}

// complete reports whether every claim this system requires is present.
func (c *Claims) complete() bool {
	return c.Subject != "" && c.ID != "" && c.TokenType != "" && c.ExpiresAt != nil
}

func claimsOf(t *jwt.Token) (*Claims, bool) {
	if t == nil {
		return nil, false
	}
	claims, ok := t.Claims.(*Claims)
	return claims, ok && claims != nil
}
