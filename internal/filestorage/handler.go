// File: internal/filestorage/handler.go
package filestorage

import (
	"fmt"
	"io"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"startupteam_backend/internal/common"
)

const formField = "image"

// Handler serves the image upload endpoints.
type Handler struct {
	service  *UploadService
	maxBytes int64
	logger   *zap.Logger
}

func NewHandler(service *UploadService, maxBytes int64, logger *zap.Logger) *Handler {
	return &Handler{service: service, maxBytes: maxBytes, logger: logger}
}

// RegisterRoutes mounts /upload. founderOnly guards the startup logo route.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, authMW, founderOnly gin.HandlerFunc) {
	upload := router.Group("/upload", authMW)
	upload.POST("/avatar", h.uploadAvatar)
	upload.POST("/startup-logo", founderOnly, h.uploadStartupLogo)
}

func (h *Handler) readImage(c *gin.Context) ([]byte, error) {
	fh, err := c.FormFile(formField)
	if err != nil {
		return nil, common.ErrBadRequest.WithDetails(fmt.Sprintf("Multipart field %q is required.", formField))
	}
	if fh.Size > h.maxBytes {
		return nil, h.tooLarge()
	}
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open uploaded file: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, h.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read uploaded file: %w", err)
	}
	if int64(len(data)) > h.maxBytes {
		return nil, h.tooLarge()
	}
	return data, nil
}

func (h *Handler) tooLarge() error {
	return common.ErrBadRequest.WithDetails(fmt.Sprintf("Image must be at most %d MB.", h.maxBytes>>20))
}

func (h *Handler) uploadAvatar(c *gin.Context) {
	data, err := h.readImage(c)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	url, err := h.service.UploadAvatar(c.Request.Context(), common.GetUserIDFromContext(c), data)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Avatar uploaded.", gin.H{"url": url})
}

func (h *Handler) uploadStartupLogo(c *gin.Context) {
	data, err := h.readImage(c)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	url, err := h.service.UploadStartupLogo(c.Request.Context(), common.GetUserIDFromContext(c), data)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Startup logo uploaded.", gin.H{"url": url})
}
