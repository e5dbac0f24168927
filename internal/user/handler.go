// File: internal/user/handler.go
package user

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"startupteam_backend/internal/common"
	"startupteam_backend/internal/shared"
)

// Handler struct holds dependencies for account handlers.
type Handler struct {
	service      Service
	tokenService shared.TokenService
	logger       *zap.Logger
}

// NewHandler creates a new user handler.
func NewHandler(service Service, tokenService shared.TokenService, logger *zap.Logger) *Handler {
	return &Handler{service: service, tokenService: tokenService, logger: logger}
}

// RegisterRoutes sets up registration and current-account routes.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, authMW gin.HandlerFunc, rateLimitMW gin.HandlerFunc) {
	router.POST("/auth/register", rateLimitMW, h.register)
	router.GET("/auth/me", authMW, h.getMe)
	router.PUT("/users/me", authMW, h.updateMe)
}

func (h *Handler) register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Debug("Register: invalid request body", zap.Error(err))
		common.RespondWithError(c, common.BindError(err))
		return
	}

	u, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}

	tokens, err := h.tokenService.IssueTokenPair(u.ID)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}

	common.RespondCreated(c, "Registration successful. A verification code has been sent.", gin.H{
		"user":  ToUserResponse(u),
		"token": tokens,
	})
}

func (h *Handler) getMe(c *gin.Context) {
	u, err := h.service.GetUserByID(c.Request.Context(), common.GetUserIDFromContext(c))
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Current user retrieved.", ToUserResponse(u))
}

func (h *Handler) updateMe(c *gin.Context) {
	var req UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondWithError(c, common.BindError(err))
		return
	}
	u, err := h.service.UpdateAccount(c.Request.Context(), common.GetUserIDFromContext(c), req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Account updated.", ToUserResponse(u))
}
