// File: internal/role/handler.go
package role

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"startupteam_backend/internal/common"
)

// Handler serves the founder role endpoints.
type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes mounts the founder role routes on a founder-only group.
func (h *Handler) RegisterRoutes(founder *gin.RouterGroup) {
	founder.GET("/roles", h.listRoles)
	founder.POST("/roles", h.createRole)
	founder.PUT("/roles/:id", h.updateRole)
	founder.DELETE("/roles/:id", h.deleteRole)
}

func (h *Handler) listRoles(c *gin.Context) {
	var q ListRolesQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		common.RespondWithError(c, common.BindError(err))
		return
	}
	roles, err := h.service.ListFounderRoles(c.Request.Context(), common.GetUserIDFromContext(c), Status(q.Status))
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Roles retrieved.", roles)
}

func (h *Handler) createRole(c *gin.Context) {
	var req CreateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondWithError(c, common.BindError(err))
		return
	}
	r, err := h.service.CreateRole(c.Request.Context(), common.GetUserIDFromContext(c), req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondCreated(c, "Role created.", r)
}

func (h *Handler) updateRole(c *gin.Context) {
	roleID, err := common.GetParamUUID(c, "id")
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	var req UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondWithError(c, common.BindError(err))
		return
	}
	r, err := h.service.UpdateRole(c.Request.Context(), common.GetUserIDFromContext(c), roleID, req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Role updated.", r)
}

func (h *Handler) deleteRole(c *gin.Context) {
	roleID, err := common.GetParamUUID(c, "id")
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	if err := h.service.DeleteRole(c.Request.Context(), common.GetUserIDFromContext(c), roleID); err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Role and its applications deleted.", nil)
}
