// File: internal/dashboard/handler.go
package dashboard

import (
	"github.com/gin-gonic/gin"

	"startupteam_backend/internal/common"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterFounderRoutes(founder *gin.RouterGroup) {
	founder.GET("/dashboard", h.founder)
}

func (h *Handler) RegisterMemberRoutes(member *gin.RouterGroup) {
	member.GET("/dashboard", h.member)
}

func (h *Handler) founder(c *gin.Context) {
	d, err := h.service.Founder(c.Request.Context(), common.GetUserIDFromContext(c))
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Dashboard retrieved.", d)
}

func (h *Handler) member(c *gin.Context) {
	d, err := h.service.Member(c.Request.Context(), common.GetUserIDFromContext(c))
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Dashboard retrieved.", d)
}
