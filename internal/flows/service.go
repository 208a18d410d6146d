package flows

import "context"

// Service is the centralized flow runner built once by the root engine.
type Service struct {
	deps Deps
}

// New returns a flow service with immutable dependency wiring.
func New(deps Deps) Service {
	return Service{deps: deps}
}

// Initialized reports whether the service has been wired with flow deps.
func (s Service) Initialized() bool {
	return s.deps.Refresh.DecodeRefresh != nil
}

func (s Service) Register(ctx context.Context, email, password string) RegisterResult {
	return RunRegister(ctx, email, password, s.deps.Register)
}

func (s Service) Authenticate(ctx context.Context, email, password string) AuthenticateResult {
	return RunAuthenticate(ctx, email, password, s.deps.Login)
}

func (s Service) IssuePair(ctx context.Context, userID string) IssueResult {
	return RunIssuePair(ctx, userID, s.deps.Issue)
}

func (s Service) Refresh(ctx context.Context, refreshToken string) RefreshResult {
	return RunRefresh(ctx, refreshToken, s.deps.Refresh)
}

func (s Service) Logout(ctx context.Context, refreshToken string) LogoutResult {
	return RunLogout(ctx, refreshToken, s.deps.Logout)
}
