// File: internal/startup/handler.go
package startup

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"startupteam_backend/internal/common"
)

// Handler serves the founder startup endpoints and the member explore endpoints.
type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterFounderRoutes mounts /startup on a founder-only group.
func (h *Handler) RegisterFounderRoutes(founder *gin.RouterGroup) {
	founder.POST("/startup", h.createStartup)
	founder.GET("/startup", h.getMyStartup)
	founder.PUT("/startup", h.updateStartup)
}

// RegisterMemberRoutes mounts explore and saved-startup routes on a member-only group.
func (h *Handler) RegisterMemberRoutes(member *gin.RouterGroup) {
	member.GET("/startups", h.explore)
	member.GET("/startups/:id", h.getDetails)
	member.GET("/saved", h.listSaved)
	member.POST("/saved/:startupId", h.save)
	member.DELETE("/saved/:startupId", h.unsave)
}

func (h *Handler) createStartup(c *gin.Context) {
	var req CreateStartupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondWithError(c, common.BindError(err))
		return
	}
	st, err := h.service.CreateStartup(c.Request.Context(), common.GetUserIDFromContext(c), req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondCreated(c, "Startup created.", st)
}

func (h *Handler) getMyStartup(c *gin.Context) {
	st, err := h.service.GetFounderStartup(c.Request.Context(), common.GetUserIDFromContext(c))
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Startup retrieved.", st)
}

func (h *Handler) updateStartup(c *gin.Context) {
	var req UpdateStartupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondWithError(c, common.BindError(err))
		return
	}
	st, err := h.service.UpdateStartup(c.Request.Context(), common.GetUserIDFromContext(c), req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Startup updated.", st)
}

func (h *Handler) explore(c *gin.Context) {
	var q ExploreQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		common.RespondWithError(c, common.BindError(err))
		return
	}
	page := common.GetPaginationParams(c)
	startups, pagination, err := h.service.Explore(c.Request.Context(), q, page)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondPaginated(c, "Startups retrieved.", startups, pagination)
}

func (h *Handler) getDetails(c *gin.Context) {
	id, err := common.GetParamUUID(c, "id")
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	details, err := h.service.GetDetails(c.Request.Context(), common.GetUserIDFromContext(c), id)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Startup retrieved.", details)
}

func (h *Handler) listSaved(c *gin.Context) {
	page := common.GetPaginationParams(c)
	startups, pagination, err := h.service.ListSaved(c.Request.Context(), common.GetUserIDFromContext(c), page)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondPaginated(c, "Saved startups retrieved.", startups, pagination)
}

func (h *Handler) save(c *gin.Context) {
	id, err := common.GetParamUUID(c, "startupId")
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	if err := h.service.SaveStartup(c.Request.Context(), common.GetUserIDFromContext(c), id); err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Startup saved.", nil)
}

func (h *Handler) unsave(c *gin.Context) {
	id, err := common.GetParamUUID(c, "startupId")
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	if err := h.service.UnsaveStartup(c.Request.Context(), common.GetUserIDFromContext(c), id); err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Startup removed from saved.", nil)
}
