// File: internal/auth/handler.go
package auth

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"startupteam_backend/internal/common"
	"startupteam_backend/internal/shared"
	"startupteam_backend/internal/user"
)

// Handler struct holds dependencies for auth handlers.
type Handler struct {
	userService  user.Service
	tokenService shared.TokenService
	blocklist    TokenBlocklistService
	oauthService OAuthService
	logger       *zap.Logger
}

// NewHandler creates a new auth handler.
func NewHandler(
	userService user.Service,
	tokenService shared.TokenService,
	blocklist TokenBlocklistService,
	oauthService OAuthService,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		userService:  userService,
		tokenService: tokenService,
		blocklist:    blocklist,
		oauthService: oauthService,
		logger:       logger,
	}
}

// RegisterRoutes sets up the routes for authentication operations. rateLimitMW
// guards the credential endpoints.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, rateLimitMW gin.HandlerFunc) {
	authGroup := router.Group("/auth")
	{
		authGroup.POST("/login", rateLimitMW, h.login)
		authGroup.POST("/refresh", h.refreshToken)
		authGroup.POST("/logout", h.logout)
		authGroup.POST("/verify-email", rateLimitMW, h.verifyEmail)
		authGroup.POST("/resend-verification", rateLimitMW, h.resendVerification)
		authGroup.POST("/forgot-password", rateLimitMW, h.forgotPassword)
		authGroup.POST("/reset-password", rateLimitMW, h.resetPassword)
		authGroup.GET("/providers", h.providers)
		authGroup.GET("/:provider/login", h.providerLogin)
		authGroup.GET("/:provider/callback", h.providerCallback)
	}
}

func (h *Handler) login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Debug("Login: invalid request body", zap.Error(err))
		common.RespondWithError(c, common.BindError(err))
		return
	}

	loggedInUser, err := h.userService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}

	tokens, err := h.tokenService.IssueTokenPair(loggedInUser.ID)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}

	common.RespondOK(c, "Login successful.", gin.H{
		"user":  user.ToUserResponse(loggedInUser),
		"token": tokens,
	})
}

// refreshToken mints a new access token. The refresh token itself is returned
// unchanged and stays valid until it expires or is logged out.
func (h *Handler) refreshToken(c *gin.Context) {
	var req RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondWithError(c, common.BindError(err))
		return
	}

	claims, err := h.tokenService.VerifyRefreshToken(req.RefreshToken)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}

	revoked, err := h.blocklist.IsBlocklisted(c.Request.Context(), claims.ID)
	if err != nil {
		h.logger.Error("Blocklist lookup failed", zap.Error(err))
		common.RespondWithError(c, common.ErrInternalServer)
		return
	}
	if revoked {
		common.RespondWithError(c, common.ErrInvalidToken)
		return
	}

	u, err := h.userService.GetUserByID(c.Request.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			h.logger.Warn("User not found for valid refresh token", zap.String("userID", claims.UserID.String()))
			common.RespondWithError(c, common.ErrInvalidToken)
			return
		}
		common.RespondWithError(c, err)
		return
	}

	accessToken, accessExpiresAt, err := h.tokenService.IssueAccessToken(u.ID)
	if err != nil {
		common.RespondWithError(c, common.ErrInternalServer.WithDetails("Could not generate new access token."))
		return
	}

	common.RespondOK(c, "Token refreshed successfully.", &shared.TokenPair{
		AccessToken:           accessToken,
		RefreshToken:          req.RefreshToken,
		AccessTokenExpiresAt:  accessExpiresAt,
		RefreshTokenExpiresAt: claims.ExpiresAt.Time,
		TokenType:             "Bearer",
	})
}

// logout revokes the presented refresh token. Invalid tokens are accepted
// silently since there is nothing left to revoke.
func (h *Handler) logout(c *gin.Context) {
	var req RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondWithError(c, common.BindError(err))
		return
	}

	claims, err := h.tokenService.VerifyRefreshToken(req.RefreshToken)
	if err == nil {
		expiresAt := time.Now()
		if claims.ExpiresAt != nil {
			expiresAt = claims.ExpiresAt.Time
		}
		if err := h.blocklist.AddToBlocklist(c.Request.Context(), claims.ID, expiresAt); err != nil {
			h.logger.Error("Failed to revoke refresh token", zap.String("userID", claims.UserID.String()), zap.Error(err))
			common.RespondWithError(c, common.ErrInternalServer)
			return
		}
		h.logger.Info("User logged out", zap.String("userID", claims.UserID.String()))
	}
	common.RespondOK(c, "Logged out.", nil)
}

func (h *Handler) verifyEmail(c *gin.Context) {
	var req VerifyEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondWithError(c, common.BindError(err))
		return
	}
	u, err := h.userService.VerifyEmail(c.Request.Context(), req.Email, req.Code)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Email verified.", user.ToUserResponse(u))
}

func (h *Handler) resendVerification(c *gin.Context) {
	var req EmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondWithError(c, common.BindError(err))
		return
	}
	if err := h.userService.ResendVerification(c.Request.Context(), req.Email); err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "If the account exists and is unverified, a new code has been sent.", nil)
}

func (h *Handler) forgotPassword(c *gin.Context) {
	var req EmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondWithError(c, common.BindError(err))
		return
	}
	if err := h.userService.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "If the account exists, password reset instructions have been sent.", nil)
}

func (h *Handler) resetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondWithError(c, common.BindError(err))
		return
	}
	if err := h.userService.ResetPassword(c.Request.Context(), req.Token, req.Password); err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Password has been reset. You can now log in.", nil)
}

func (h *Handler) providers(c *gin.Context) {
	common.RespondOK(c, "Available sign-in providers.", gin.H{"providers": h.oauthService.ProviderNames()})
}

func (h *Handler) providerLogin(c *gin.Context) {
	authURL, err := h.oauthService.LoginURL(c, c.Param("provider"))
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	c.Redirect(http.StatusTemporaryRedirect, authURL)
}

func (h *Handler) providerCallback(c *gin.Context) {
	provider := c.Param("provider")
	if errorParam := c.Query("error"); errorParam != "" {
		h.logger.Warn("OAuth callback error",
			zap.String("provider", provider),
			zap.String("error", errorParam),
			zap.String("description", c.Query("error_description")))
		common.RespondWithError(c, common.ErrUnauthorized.WithDetails("Sign-in was cancelled or denied."))
		return
	}

	code := c.Query("code")
	state := c.Query("state")
	if code == "" || state == "" {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Missing authorization code or state."))
		return
	}

	result, err := h.oauthService.HandleCallback(c, provider, code, state)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}

	message := "Signed in successfully."
	if result.Created {
		message = "Account created successfully."
	}
	common.RespondOK(c, message, gin.H{
		"user":       user.ToUserResponse(result.User),
		"token":      result.Tokens,
		"newAccount": result.Created,
	})
}
