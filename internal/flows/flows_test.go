package flows

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/MrEthical07/authcore/store"
)

var (
	errNotFound = errors.New("not found")
	errConflict = errors.New("conflict")
	errRevoked  = errors.New("revoked")
	errExpired  = errors.New("expired")
)

func registerDeps(createErr error) RegisterDeps {
	return RegisterDeps{
		HashPassword:  func(p string) (string, error) { return "hash(" + p + ")", nil },
		NewUserID:     func() string { return "u-1" },
		CreateUser:    func(context.Context, *store.UserRecord) error { return createErr },
		EmailConflict: errConflict,
		Now:           time.Now,
	}
}

func TestRunRegisterNormalizesEmail(t *testing.T) {
	var created *store.UserRecord
	deps := registerDeps(nil)
	deps.CreateUser = func(_ context.Context, u *store.UserRecord) error {
		created = u
		return nil
	}

	res := RunRegister(context.Background(), "  User@X.COM ", "Secret123!", deps)
	if res.Failure != RegisterFailureNone {
		t.Fatalf("unexpected failure %d: %v", res.Failure, res.Err)
	}
	if created == nil || created.Email != "user@x.com" {
		t.Fatalf("expected normalized email, got %+v", created)
	}
	if created.PasswordHash != "hash(Secret123!)" || !created.Active {
		t.Fatalf("unexpected record: %+v", created)
	}
}

func TestRunRegisterPolicy(t *testing.T) {
	deps := registerDeps(nil)

	for _, email := range []string{"", "no-at-sign", "@x.com", "u@", "u @x.com"} {
		res := RunRegister(context.Background(), email, "Secret123!", deps)
		if res.Failure != RegisterFailureEmailInvalid {
			t.Fatalf("email %q: expected invalid, got %d", email, res.Failure)
		}
	}

	long := make([]byte, 129)
	for i := range long {
		long[i] = 'a'
	}
	for _, password := range []string{"", "short", string(long)} {
		res := RunRegister(context.Background(), "u@x.com", password, deps)
		if res.Failure != RegisterFailurePasswordPolicy {
			t.Fatalf("password %q: expected policy failure, got %d", password, res.Failure)
		}
	}
}

func TestRunRegisterConflict(t *testing.T) {
	res := RunRegister(context.Background(), "u@x.com", "Secret123!", registerDeps(errConflict))
	if res.Failure != RegisterFailureConflict {
		t.Fatalf("expected conflict, got %d (%v)", res.Failure, res.Err)
	}
}

func TestRunAuthenticateDecoyOnUnknownEmail(t *testing.T) {
	verified := []string{}
	deps := LoginDeps{
		GetUserByEmail: func(context.Context, string) (*store.UserRecord, error) {
			return nil, errNotFound
		},
		VerifyPassword: func(_, hash string) (bool, error) {
			verified = append(verified, hash)
			return false, nil
		},
		DecoyHash:    "decoy",
		UserNotFound: errNotFound,
	}

	res := RunAuthenticate(context.Background(), "ghost@x.com", "pw", deps)
	if res.Failure != LoginFailureInvalidCredentials {
		t.Fatalf("expected invalid credentials, got %d", res.Failure)
	}
	if len(verified) != 1 || verified[0] != "decoy" {
		t.Fatalf("expected one decoy verification, got %v", verified)
	}
}

func TestRunAuthenticateWrongPasswordSameKind(t *testing.T) {
	user := &store.UserRecord{ID: "u-1", Email: "u@x.com", PasswordHash: "stored", Active: true}
	deps := LoginDeps{
		GetUserByEmail: func(context.Context, string) (*store.UserRecord, error) { return user, nil },
		VerifyPassword: func(p, _ string) (bool, error) { return p == "right", nil },
		DecoyHash:      "decoy",
		UserNotFound:   errNotFound,
	}

	bad := RunAuthenticate(context.Background(), "u@x.com", "wrong", deps)
	if bad.Failure != LoginFailureInvalidCredentials {
		t.Fatalf("expected invalid credentials, got %d", bad.Failure)
	}

	good := RunAuthenticate(context.Background(), "u@x.com", "right", deps)
	if good.Failure != LoginFailureNone || good.User != user {
		t.Fatalf("expected success, got %d (%v)", good.Failure, good.Err)
	}
}

func TestRunAuthenticateDisabledAccount(t *testing.T) {
	user := &store.UserRecord{ID: "u-1", PasswordHash: "stored", Active: false}
	deps := LoginDeps{
		GetUserByEmail: func(context.Context, string) (*store.UserRecord, error) { return user, nil },
		VerifyPassword: func(string, string) (bool, error) { return true, nil },
		UserNotFound:   errNotFound,
	}

	res := RunAuthenticate(context.Background(), "u@x.com", "pw", deps)
	if res.Failure != LoginFailureAccountDisabled {
		t.Fatalf("expected disabled, got %d", res.Failure)
	}
}

func issueDeps(recordErr error) IssueDeps {
	return IssueDeps{
		NewJTI:        func() string { return "jti-new" },
		EncodeAccess:  func(sub, jti string) (string, error) { return "at:" + sub + ":" + jti, nil },
		EncodeRefresh: func(sub, jti string) (string, error) { return "rt:" + sub + ":" + jti, nil },
		RecordToken:   func(context.Context, *store.TokenRecord) error { return recordErr },
		JTIConflict:   errConflict,
		RefreshTTL:    time.Hour,
		Now:           time.Now,
	}
}

func TestRunIssuePairSharedJTI(t *testing.T) {
	var rec *store.TokenRecord
	deps := issueDeps(nil)
	deps.RecordToken = func(_ context.Context, r *store.TokenRecord) error {
		rec = r
		return nil
	}

	res := RunIssuePair(context.Background(), "u-1", deps)
	if res.Failure != IssueFailureNone {
		t.Fatalf("unexpected failure %d: %v", res.Failure, res.Err)
	}
	if res.AccessToken != "at:u-1:jti-new" || res.RefreshToken != "rt:u-1:jti-new" {
		t.Fatalf("pair halves disagree: %+v", res)
	}
	if rec == nil || rec.JTI != "jti-new" || rec.UserID != "u-1" || rec.Revoked {
		t.Fatalf("unexpected record: %+v", rec)
	}
}

func TestRunIssuePairConflict(t *testing.T) {
	res := RunIssuePair(context.Background(), "u-1", issueDeps(errConflict))
	if res.Failure != IssueFailureConflict {
		t.Fatalf("expected conflict, got %d", res.Failure)
	}
}

func refreshDeps(rotateErr error) RefreshDeps {
	return RefreshDeps{
		DecodeRefresh: func(string) (string, string, error) { return "u-1", "jti-old", nil },
		NewJTI:        func() string { return "jti-new" },
		RotateToken: func(context.Context, string, string, string, time.Time) error {
			return rotateErr
		},
		EncodeAccess:  func(sub, jti string) (string, error) { return "at:" + jti, nil },
		EncodeRefresh: func(sub, jti string) (string, error) { return "rt:" + jti, nil },
		TokenNotFound: errNotFound,
		TokenRevoked:  errRevoked,
		TokenExpired:  errExpired,
		JTIConflict:   errConflict,
		RefreshTTL:    time.Hour,
		Now:           time.Now,
	}
}

func TestRunRefreshRotates(t *testing.T) {
	res := RunRefresh(context.Background(), "token", refreshDeps(nil))
	if res.Failure != RefreshFailureNone {
		t.Fatalf("unexpected failure %d: %v", res.Failure, res.Err)
	}
	if res.OldJTI != "jti-old" || res.JTI != "jti-new" {
		t.Fatalf("unexpected jti transition: %+v", res)
	}
	if res.AccessToken != "at:jti-new" || res.RefreshToken != "rt:jti-new" {
		t.Fatalf("tokens must carry the new jti: %+v", res)
	}
}

func TestRunRefreshClassifiesRotateFailures(t *testing.T) {
	deps := refreshDeps(nil)
	cases := []struct {
		err  error
		want RefreshFailureKind
	}{
		{errNotFound, RefreshFailureNotFound},
		{errRevoked, RefreshFailureRevoked},
		{deps.TokenExpired, RefreshFailureExpired},
		{errConflict, RefreshFailureConflict},
		{errors.New("redis down"), RefreshFailureRotate},
	}
	for _, tc := range cases {
		res := RunRefresh(context.Background(), "token", refreshDeps(tc.err))
		if res.Failure != tc.want {
			t.Fatalf("%v: expected %d, got %d", tc.err, tc.want, res.Failure)
		}
	}
}

func TestRunRefreshDecodeFailureSkipsRotation(t *testing.T) {
	rotated := false
	deps := refreshDeps(nil)
	deps.DecodeRefresh = func(string) (string, string, error) { return "", "", errors.New("bad token") }
	deps.RotateToken = func(context.Context, string, string, string, time.Time) error {
		rotated = true
		return nil
	}

	res := RunRefresh(context.Background(), "token", deps)
	if res.Failure != RefreshFailureDecode {
		t.Fatalf("expected decode failure, got %d", res.Failure)
	}
	if rotated {
		t.Fatalf("rotation must not run for undecodable tokens")
	}
}

func TestRunLogout(t *testing.T) {
	revoked := []string{}
	deps := LogoutDeps{
		DecodeRefresh: func(string) (string, string, error) { return "u-1", "jti-1", nil },
		RevokeToken: func(_ context.Context, jti string) error {
			revoked = append(revoked, jti)
			return nil
		},
	}

	res := RunLogout(context.Background(), "token", deps)
	if res.Failure != LogoutFailureNone || res.JTI != "jti-1" {
		t.Fatalf("unexpected result: %+v", res)
	}
	if len(revoked) != 1 || revoked[0] != "jti-1" {
		t.Fatalf("expected one revocation, got %v", revoked)
	}

	deps.DecodeRefresh = func(string) (string, string, error) { return "", "", errors.New("malformed") }
	res = RunLogout(context.Background(), "token", deps)
	if res.Failure != LogoutFailureDecode {
		t.Fatalf("expected decode failure, got %+v", res)
	}
}
