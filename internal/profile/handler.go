// File: internal/profile/handler.go
package profile

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"startupteam_backend/internal/common"
)

// Handler serves the founder and member profile endpoints.
type Handler struct {
	service Service
	logger  *zap.Logger
}

// NewHandler creates a new profile handler.
func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes mounts /founder/profile and /member/profile.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, authMW, founderMW, memberMW gin.HandlerFunc) {
	founder := router.Group("/founder", authMW, founderMW)
	{
		founder.GET("/profile", h.getFounderProfile)
		founder.PUT("/profile", h.updateFounderProfile)
	}
	member := router.Group("/member", authMW, memberMW)
	{
		member.GET("/profile", h.getMemberProfile)
		member.PUT("/profile", h.updateMemberProfile)
	}
}

func (h *Handler) getFounderProfile(c *gin.Context) {
	p, err := h.service.GetFounderProfile(c.Request.Context(), common.GetUserIDFromContext(c))
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Founder profile retrieved.", p)
}

func (h *Handler) updateFounderProfile(c *gin.Context) {
	var req UpdateFounderProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondWithError(c, common.BindError(err))
		return
	}
	p, err := h.service.UpdateFounderProfile(c.Request.Context(), common.GetUserIDFromContext(c), req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Founder profile updated.", p)
}

func (h *Handler) getMemberProfile(c *gin.Context) {
	p, err := h.service.GetMemberProfile(c.Request.Context(), common.GetUserIDFromContext(c))
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Member profile retrieved.", p)
}

func (h *Handler) updateMemberProfile(c *gin.Context) {
	var req UpdateMemberProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondWithError(c, common.BindError(err))
		return
	}
	p, err := h.service.UpdateMemberProfile(c.Request.Context(), common.GetUserIDFromContext(c), req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Member profile updated.", p)
}
