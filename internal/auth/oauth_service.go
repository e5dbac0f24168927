// File: internal/auth/oauth_service.go
package auth

import (
	"crypto/subtle"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"startupteam_backend/internal/common"
	"startupteam_backend/internal/config"
	"startupteam_backend/internal/shared"
	"startupteam_backend/internal/user"
)

// OAuthService drives the provider redirect and callback flow.
type OAuthService interface {
	ProviderNames() []string
	LoginURL(c *gin.Context, provider string) (string, error)
	HandleCallback(c *gin.Context, provider, code, state string) (*OAuthResult, error)
}

// OAuthResult is the outcome of a successful provider callback.
type OAuthResult struct {
	User    *user.User
	Tokens  *shared.TokenPair
	Created bool
}

type oauthService struct {
	cfg          *config.Config
	providers    Providers
	linker       *Linker
	tokenService shared.TokenService
	logger       *zap.Logger
}

// NewOAuthService creates a new OAuth service.
func NewOAuthService(
	cfg *config.Config,
	providers Providers,
	linker *Linker,
	tokenService shared.TokenService,
	logger *zap.Logger,
) OAuthService {
	return &oauthService{
		cfg:          cfg,
		providers:    providers,
		linker:       linker,
		tokenService: tokenService,
		logger:       logger.Named("OAuthService"),
	}
}

func (s *oauthService) ProviderNames() []string {
	return s.providers.Names()
}

// LoginURL stores a fresh state in a cookie and returns the provider consent URL.
func (s *oauthService) LoginURL(c *gin.Context, name string) (string, error) {
	provider, ok := s.providers.Lookup(name)
	if !ok {
		return "", common.ErrNotFound.WithDetails("Sign-in provider is not available.")
	}
	state, err := generateAndSetOAuthState(c, s.cfg)
	if err != nil {
		s.logger.Error("Failed to generate OAuth state", zap.String("provider", name), zap.Error(err))
		return "", common.ErrInternalServer.WithDetails("Could not initiate sign-in.")
	}
	return provider.AuthCodeURL(state), nil
}

// HandleCallback verifies state, exchanges the code and links the identity.
func (s *oauthService) HandleCallback(c *gin.Context, name, code, state string) (*OAuthResult, error) {
	provider, ok := s.providers.Lookup(name)
	if !ok {
		return nil, common.ErrNotFound.WithDetails("Sign-in provider is not available.")
	}

	storedState, err := getOAuthCookie(c, s.cfg, s.cfg.OAuthStateCookieName)
	if err != nil {
		s.logger.Warn("Missing OAuth state cookie", zap.String("provider", name), zap.Error(err))
		return nil, common.ErrBadRequest.WithDetails("Invalid session or state mismatch.")
	}
	if subtle.ConstantTimeCompare([]byte(state), []byte(storedState)) != 1 {
		s.logger.Warn("OAuth state mismatch", zap.String("provider", name))
		return nil, common.ErrBadRequest.WithDetails("OAuth state mismatch.")
	}

	ident, err := provider.ExchangeAssertion(c.Request.Context(), code)
	if err != nil {
		s.logger.Error("Provider exchange failed", zap.String("provider", name), zap.Error(err))
		return nil, common.ErrAuthProvider.WithDetails("Could not verify your " + name + " account.")
	}

	u, created, err := s.linker.Link(c.Request.Context(), *ident)
	if err != nil {
		return nil, err
	}

	tokens, err := s.tokenService.IssueTokenPair(u.ID)
	if err != nil {
		return nil, err
	}
	return &OAuthResult{User: u, Tokens: tokens, Created: created}, nil
}
