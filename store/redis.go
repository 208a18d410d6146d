package store

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	rotateStatusNotFound int64 = 0
	rotateStatusExpired  int64 = 1
	rotateStatusRevoked  int64 = 2
	rotateStatusRotated  int64 = 3
	rotateStatusConflict int64 = 4
)

const createUserScript = `
if redis.call("EXISTS", KEYS[1]) == 1 then
  return 0
end
redis.call("SET", KEYS[1], ARGV[1])
redis.call("HSET", KEYS[2],
  "id", ARGV[1],
  "email", ARGV[2],
  "password_hash", ARGV[3],
  "active", ARGV[4],
  "created_at", ARGV[5])
return 1
`

var createUserLua = redis.NewScript(createUserScript)

const recordTokenScript = `
if redis.call("EXISTS", KEYS[1]) == 1 then
  return 0
end
redis.call("HSET", KEYS[1],
  "jti", ARGV[1],
  "user_id", ARGV[2],
  "expires_at", ARGV[3],
  "revoked", "0",
  "created_at", ARGV[4])
return 1
`

var recordTokenLua = redis.NewScript(recordTokenScript)

const revokeTokenScript = `
if redis.call("EXISTS", KEYS[1]) == 1 then
  redis.call("HSET", KEYS[1], "revoked", "1")
  return 1
end
return 0
`

var revokeTokenLua = redis.NewScript(revokeTokenScript)

// rotateTokenScript revokes the old record and inserts the new one as a
// single server-side step. The old jti is dead before the new one exists,
// so an interruption can orphan a session but never duplicate one.
const rotateTokenScript = `
local old = redis.call("HMGET", KEYS[1], "user_id", "expires_at", "revoked")
if not old[1] then
  return 0
end
if old[1] ~= ARGV[1] then
  return 0
end
if old[3] == "1" then
  return 2
end
if tonumber(old[2]) <= tonumber(ARGV[4]) then
  return 1
end
if redis.call("EXISTS", KEYS[2]) == 1 then
  return 4
end
redis.call("HSET", KEYS[1], "revoked", "1")
redis.call("HSET", KEYS[2],
  "jti", ARGV[2],
  "user_id", ARGV[1],
  "expires_at", ARGV[3],
  "revoked", "0",
  "created_at", ARGV[4])
return 3
`

var rotateTokenLua = redis.NewScript(rotateTokenScript)

// RedisStore implements user and refresh-token persistence over Redis.
type RedisStore struct {
	redis  redis.UniversalClient
	prefix string
	now    func() time.Time
}

// NewRedis creates a [RedisStore] with the given key prefix.
func NewRedis(client redis.UniversalClient, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "ac"
	}
	return &RedisStore{
		redis:  client,
		prefix: prefix,
		now:    time.Now,
	}
}

func (s *RedisStore) userKey(id string) string {
	return s.prefix + ":user:" + id
}

func (s *RedisStore) emailKey(email string) string {
	return s.prefix + ":user:email:" + NormalizeEmail(email)
}

func (s *RedisStore) tokenKey(jti string) string {
	return s.prefix + ":rt:" + jti
}

// NormalizeEmail lowercases and trims an email for case-insensitive
// comparison.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// CreateUser inserts a new user. Fails with [ErrEmailExists] when the
// email is already mapped, atomically with the insert.
func (s *RedisStore) CreateUser(ctx context.Context, user *UserRecord) error {
	created, err := createUserLua.Run(ctx, s.redis,
		[]string{s.emailKey(user.Email), s.userKey(user.ID)},
		user.ID,
		NormalizeEmail(user.Email),
		user.PasswordHash,
		boolField(user.Active),
		strconv.FormatInt(user.CreatedAt.Unix(), 10),
	).Int64()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	if created == 0 {
		return ErrEmailExists
	}
	return nil
}

// GetUserByEmail resolves the email index and loads the user record.
func (s *RedisStore) GetUserByEmail(ctx context.Context, email string) (*UserRecord, error) {
	id, err := s.redis.Get(ctx, s.emailKey(email)).Result()
	if err == redis.Nil {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return s.GetUserByID(ctx, id)
}

// GetUserByID loads one user record.
func (s *RedisStore) GetUserByID(ctx context.Context, id string) (*UserRecord, error) {
	fields, err := s.redis.HGetAll(ctx, s.userKey(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	if len(fields) == 0 {
		return nil, ErrUserNotFound
	}
	return userFromFields(fields)
}

// RecordToken inserts a fresh refresh-token record with revoked=false.
func (s *RedisStore) RecordToken(ctx context.Context, rec *TokenRecord) error {
	created, err := recordTokenLua.Run(ctx, s.redis,
		[]string{s.tokenKey(rec.JTI)},
		rec.JTI,
		rec.UserID,
		strconv.FormatInt(rec.ExpiresAt.Unix(), 10),
		strconv.FormatInt(rec.CreatedAt.Unix(), 10),
	).Int64()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	if created == 0 {
		return ErrJTIExists
	}
	return nil
}

// LookupToken loads one refresh-token record by jti.
func (s *RedisStore) LookupToken(ctx context.Context, jti string) (*TokenRecord, error) {
	fields, err := s.redis.HGetAll(ctx, s.tokenKey(jti)).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	if len(fields) == 0 {
		return nil, ErrTokenNotFound
	}
	return tokenFromFields(fields)
}

// RevokeToken marks the record revoked. Idempotent: revoking an unknown or
// already-revoked jti succeeds, because a retried logout must not error.
func (s *RedisStore) RevokeToken(ctx context.Context, jti string) error {
	if err := revokeTokenLua.Run(ctx, s.redis, []string{s.tokenKey(jti)}).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

// RotateToken revokes the oldJTI record and inserts a fresh record under
// newJTI in one atomic server-side step. userID must match the stored
// owner; a mismatch reports [ErrTokenNotFound].
func (s *RedisStore) RotateToken(ctx context.Context, oldJTI, newJTI, userID string, expiresAt time.Time) error {
	now := s.now()
	status, err := rotateTokenLua.Run(ctx, s.redis,
		[]string{s.tokenKey(oldJTI), s.tokenKey(newJTI)},
		userID,
		newJTI,
		strconv.FormatInt(expiresAt.Unix(), 10),
		strconv.FormatInt(now.Unix(), 10),
	).Int64()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	switch status {
	case rotateStatusRotated:
		return nil
	case rotateStatusNotFound:
		return ErrTokenNotFound
	case rotateStatusRevoked:
		return ErrTokenRevoked
	case rotateStatusExpired:
		return ErrTokenExpired
	case rotateStatusConflict:
		return ErrJTIExists
	default:
		return fmt.Errorf("%w: unexpected rotate status %d", ErrRedisUnavailable, status)
	}
}

// Ping reports storage reachability and round-trip latency.
func (s *RedisStore) Ping(ctx context.Context) (time.Duration, error) {
	start := s.now()
	if err := s.redis.Ping(ctx).Err(); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return time.Since(start), nil
}

func boolField(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

func userFromFields(fields map[string]string) (*UserRecord, error) {
	createdAt, err := strconv.ParseInt(fields["created_at"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: corrupt user record", ErrRedisUnavailable)
	}
	return &UserRecord{
		ID:           fields["id"],
		Email:        fields["email"],
		PasswordHash: fields["password_hash"],
		Active:       fields["active"] == "1",
		CreatedAt:    time.Unix(createdAt, 0).UTC(),
	}, nil
}

func tokenFromFields(fields map[string]string) (*TokenRecord, error) {
	expiresAt, err := strconv.ParseInt(fields["expires_at"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: corrupt token record", ErrRedisUnavailable)
	}
	createdAt, err := strconv.ParseInt(fields["created_at"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: corrupt token record", ErrRedisUnavailable)
	}
	return &TokenRecord{
		JTI:       fields["jti"],
		UserID:    fields["user_id"],
		ExpiresAt: time.Unix(expiresAt, 0).UTC(),
		Revoked:   fields["revoked"] == "1",
		CreatedAt: time.Unix(createdAt, 0).UTC(),
	}, nil
}
