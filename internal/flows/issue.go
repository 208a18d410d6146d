package flows

import (
	"context"
	"errors"
	"time"

	"github.com/MrEthical07/authcore/store"
)

// IssueFailureKind classifies token-pair issuance failures.
type IssueFailureKind int

const (
	IssueFailureNone IssueFailureKind = iota
	IssueFailureEncode
	IssueFailureConflict
	IssueFailureStore
)

// IssueResult carries the issued pair. Both halves share one jti, so a
// later revocation lookup by jti covers the pair even though only the
// refresh half is persisted.
type IssueResult struct {
	Failure      IssueFailureKind
	Err          error
	JTI          string
	AccessToken  string
	RefreshToken string
}

// IssueDeps captures issuance flow dependencies.
type IssueDeps struct {
	NewJTI        func() string
	EncodeAccess  func(subject, jti string) (string, error)
	EncodeRefresh func(subject, jti string) (string, error)
	RecordToken   func(ctx context.Context, rec *store.TokenRecord) error
	JTIConflict   error
	RefreshTTL    time.Duration
	Now           func() time.Time
}

// RunIssuePair mints a fresh jti, encodes both token halves with it, and
// persists the refresh record. This is the single injection point that
// creates new trackable sessions.
func RunIssuePair(ctx context.Context, userID string, deps IssueDeps) IssueResult {
	jti := deps.NewJTI()

	access, err := deps.EncodeAccess(userID, jti)
	if err != nil {
		return IssueResult{Failure: IssueFailureEncode, Err: err, JTI: jti}
	}
	refresh, err := deps.EncodeRefresh(userID, jti)
	if err != nil {
		return IssueResult{Failure: IssueFailureEncode, Err: err, JTI: jti}
	}

	now := deps.Now()
	err = deps.RecordToken(ctx, &store.TokenRecord{
		JTI:       jti,
		UserID:    userID,
		ExpiresAt: now.Add(deps.RefreshTTL),
		CreatedAt: now,
	})
	if err != nil {
		if deps.JTIConflict != nil && errors.Is(err, deps.JTIConflict) {
			return IssueResult{Failure: IssueFailureConflict, Err: err, JTI: jti}
		}
		return IssueResult{Failure: IssueFailureStore, Err: err, JTI: jti}
	}

	return IssueResult{
		JTI:          jti,
		AccessToken:  access,
		RefreshToken: refresh,
	}
}
