package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/NeuralTrust/FollowerManager/pkg/app/sample"
	appSettings "github.com/NeuralTrust/FollowerManager/pkg/app/settings"
	"github.com/NeuralTrust/FollowerManager/pkg/config"
	"github.com/NeuralTrust/FollowerManager/pkg/domain"
	"github.com/NeuralTrust/FollowerManager/pkg/domain/platform"
	"github.com/NeuralTrust/FollowerManager/pkg/domain/user"
	"github.com/NeuralTrust/FollowerManager/pkg/infra/auth/jwt"
	"github.com/NeuralTrust/FollowerManager/pkg/infra/auth/oauth"
	"github.com/NeuralTrust/FollowerManager/pkg/infra/cache"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const mockAccessToken = "mock-access-token"

var (
	ErrInvalidState = errors.New("invalid or expired oauth state")
	ErrMissingCode  = errors.New("authorization code is required")
	ErrLiveOnly     = errors.New("oauth callback is only available in live mode")
)

type Config struct {
	Mode     string
	Twitter  config.TwitterConfig
	StateTTL time.Duration
}

type LoginRequest struct {
	Username string `json:"username"`
	Platform string `json:"platform"`
}

func (r LoginRequest) Validate() error {
	if r.Platform != "" && r.Platform != user.PlatformTwitter {
		return domain.NewValidationError("unsupported platform %q", r.Platform)
	}
	return nil
}

// LoginResult carries either an authorization URL to redirect the browser
// to, or, in mock mode, a ready session.
type LoginResult struct {
	AuthURL string `json:"authUrl"`
	State   string `json:"state,omitempty"`
	*Session
}

type Session struct {
	User      *user.User `json:"user"`
	Token     string     `json:"token"`
	ExpiresAt time.Time  `json:"expiresAt"`
}

//go:generate mockery --name=Service --dir=. --output=./mocks --filename=auth_service_mock.go --case=underscore --with-expecter
type Service interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResult, error)
	Callback(ctx context.Context, code, state string) (*Session, error)
	Refresh(ctx context.Context, claims *jwt.Claims) (*Session, error)
	Logout(ctx context.Context, claims *jwt.Claims) error
	Profile(ctx context.Context, userID uuid.UUID) (*user.User, error)
}

type service struct {
	logger      *logrus.Logger
	cfg         Config
	cache       cache.Client
	tokenClient oauth.TokenClient
	platform    platform.Client
	users       user.Repository
	settings    appSettings.Service
	jwt         jwt.Manager
	now         func() time.Time
}

func NewService(
	logger *logrus.Logger,
	cfg Config,
	cacheClient cache.Client,
	tokenClient oauth.TokenClient,
	platformClient platform.Client,
	users user.Repository,
	settingsService appSettings.Service,
	jwtManager jwt.Manager,
) Service {
	if cfg.StateTTL <= 0 {
		cfg.StateTTL = 10 * time.Minute
	}
	return &service{
		logger:      logger,
		cfg:         cfg,
		cache:       cacheClient,
		tokenClient: tokenClient,
		platform:    platformClient,
		users:       users,
		settings:    settingsService,
		jwt:         jwtManager,
		now:         time.Now,
	}
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if s.cfg.Mode == config.ModeMock {
		return s.mockLogin(ctx)
	}

	state, err := oauth.NewState()
	if err != nil {
		return nil, fmt.Errorf("failed to generate state: %w", err)
	}
	pkce, err := oauth.NewPKCE()
	if err != nil {
		return nil, fmt.Errorf("failed to generate code verifier: %w", err)
	}
	if err := s.cache.SaveOAuthState(ctx, state, pkce.Verifier, s.cfg.StateTTL); err != nil {
		return nil, fmt.Errorf("failed to store oauth state: %w", err)
	}
	authURL, err := oauth.BuildAuthorizeURL(oauth.AuthorizeRequest{
		AuthorizeURL:  s.cfg.Twitter.AuthorizeURL,
		ClientID:      s.cfg.Twitter.ClientID,
		RedirectURI:   s.cfg.Twitter.RedirectURI,
		Scopes:        s.cfg.Twitter.Scopes,
		State:         state,
		CodeChallenge: pkce.Challenge,
	})
	if err != nil {
		return nil, err
	}
	s.logger.WithField("username", req.Username).Debug("oauth login started")
	return &LoginResult{AuthURL: authURL, State: state}, nil
}

func (s *service) mockLogin(ctx context.Context) (*LoginResult, error) {
	u := sample.User()
	now := s.now().UTC()
	u.AccessToken = mockAccessToken
	u.LastLoginAt = &now
	if err := s.users.Upsert(ctx, u); err != nil {
		return nil, fmt.Errorf("failed to store user: %w", err)
	}
	session, err := s.openSession(ctx, u)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Session: session}, nil
}

func (s *service) Callback(ctx context.Context, code, state string) (*Session, error) {
	if s.cfg.Mode != config.ModeLive {
		return nil, ErrLiveOnly
	}
	if strings.TrimSpace(code) == "" {
		return nil, ErrMissingCode
	}
	verifier, err := s.cache.ConsumeOAuthState(ctx, state)
	if err != nil {
		if errors.Is(err, cache.ErrCacheMiss) {
			return nil, ErrInvalidState
		}
		return nil, fmt.Errorf("failed to load oauth state: %w", err)
	}

	token, err := s.tokenClient.GetToken(ctx, oauth.TokenRequestDTO{
		TokenURL:     s.cfg.Twitter.TokenURL,
		GrantType:    oauth.GrantTypeAuthorizationCode,
		ClientID:     s.cfg.Twitter.ClientID,
		ClientSecret: s.cfg.Twitter.ClientSecret,
		UseBasicAuth: s.cfg.Twitter.ClientSecret != "",
		Code:         code,
		RedirectURI:  s.cfg.Twitter.RedirectURI,
		CodeVerifier: verifier,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to exchange authorization code: %w", err)
	}

	acc, err := s.platform.Me(ctx, token.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch profile: %w", err)
	}

	now := s.now().UTC()
	u := &user.User{
		Username:     acc.Username,
		PlatformID:   acc.ID,
		Platform:     user.PlatformTwitter,
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		Profile: user.Profile{
			DisplayName:    acc.DisplayName,
			AvatarURL:      acc.AvatarURL,
			Bio:            acc.Bio,
			FollowerCount:  acc.FollowerCount,
			FollowingCount: acc.FollowingCount,
			IsVerified:     acc.IsVerified,
		},
		LastLoginAt: &now,
	}
	if !token.ExpiresAt.IsZero() {
		exp := token.ExpiresAt
		u.TokenExpiresAt = &exp
	}
	if err := s.users.Upsert(ctx, u); err != nil {
		return nil, fmt.Errorf("failed to store user: %w", err)
	}
	return s.openSession(ctx, u)
}

func (s *service) openSession(ctx context.Context, u *user.User) (*Session, error) {
	if err := s.settings.EnsureDefaults(ctx, u.ID); err != nil {
		s.logger.WithError(err).WithField("user_id", u.ID).Warn("failed to create default settings")
	}
	return s.issue(u)
}

func (s *service) issue(u *user.User) (*Session, error) {
	token, claims, err := s.jwt.CreateToken(u)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}
	return &Session{User: u, Token: token, ExpiresAt: claims.ExpiresAt.Time}, nil
}

func (s *service) Refresh(ctx context.Context, claims *jwt.Claims) (*Session, error) {
	id, err := claims.UserUUID()
	if err != nil {
		return nil, err
	}
	u, err := s.users.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	session, err := s.issue(u)
	if err != nil {
		return nil, err
	}
	// The old token stops working once a new one is handed out.
	if err := s.revoke(ctx, claims); err != nil {
		s.logger.WithError(err).WithField("user_id", id).Warn("failed to revoke refreshed token")
	}
	return session, nil
}

func (s *service) Logout(ctx context.Context, claims *jwt.Claims) error {
	return s.revoke(ctx, claims)
}

func (s *service) revoke(ctx context.Context, claims *jwt.Claims) error {
	if claims.ID == "" || claims.ExpiresAt == nil {
		return nil
	}
	return s.cache.RevokeToken(ctx, claims.ID, claims.ExpiresAt.Sub(s.now()))
}

func (s *service) Profile(ctx context.Context, userID uuid.UUID) (*user.User, error) {
	return s.users.Get(ctx, userID)
}
