// File: internal/application/handler.go
package application

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"startupteam_backend/internal/common"
)

// Handler serves the member and founder application endpoints.
type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterMemberRoutes mounts apply, list and cancel on a member-only group.
func (h *Handler) RegisterMemberRoutes(member *gin.RouterGroup) {
	member.POST("/roles/:id/apply", h.apply)
	member.GET("/applications", h.listMine)
	member.DELETE("/applications/:id", h.cancel)
}

// RegisterFounderRoutes mounts listing and decisions on a founder-only group.
func (h *Handler) RegisterFounderRoutes(founder *gin.RouterGroup) {
	founder.GET("/applications", h.listForFounder)
	founder.PUT("/applications/:id/interview", h.decision(h.service.MoveToInterview, "Application moved to interview."))
	founder.PUT("/applications/:id/accept", h.decision(h.service.Accept, "Application accepted."))
	founder.PUT("/applications/:id/reject", h.decision(h.service.Reject, "Application rejected."))
}

func (h *Handler) apply(c *gin.Context) {
	roleID, err := common.GetParamUUID(c, "id")
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	var req ApplyRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			common.RespondWithError(c, common.BindError(err))
			return
		}
	}
	app, err := h.service.Apply(c.Request.Context(), common.GetUserIDFromContext(c), roleID, req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondCreated(c, "Application submitted.", app)
}

func (h *Handler) listMine(c *gin.Context) {
	var q ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		common.RespondWithError(c, common.BindError(err))
		return
	}
	views, pagination, err := h.service.ListForMember(c.Request.Context(), common.GetUserIDFromContext(c), q, common.GetPaginationParams(c))
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondPaginated(c, "Applications retrieved.", views, pagination)
}

func (h *Handler) cancel(c *gin.Context) {
	id, err := common.GetParamUUID(c, "id")
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	if err := h.service.Cancel(c.Request.Context(), common.GetUserIDFromContext(c), id); err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Application cancelled.", nil)
}

func (h *Handler) listForFounder(c *gin.Context) {
	var q ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		common.RespondWithError(c, common.BindError(err))
		return
	}
	views, pagination, err := h.service.ListForFounder(c.Request.Context(), common.GetUserIDFromContext(c), q, common.GetPaginationParams(c))
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondPaginated(c, "Applications retrieved.", views, pagination)
}

type decisionFunc func(ctx context.Context, founderID, applicationID uuid.UUID, notes string) (*Application, error)

func (h *Handler) decision(decide decisionFunc, message string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := common.GetParamUUID(c, "id")
		if err != nil {
			common.RespondWithError(c, err)
			return
		}
		var req DecisionRequest
		if c.Request.ContentLength != 0 {
			if err := c.ShouldBindJSON(&req); err != nil {
				common.RespondWithError(c, common.BindError(err))
				return
			}
		}
		app, err := decide(c.Request.Context(), common.GetUserIDFromContext(c), id, req.Notes)
		if err != nil {
			common.RespondWithError(c, err)
			return
		}
		common.RespondOK(c, message, app)
	}
}
