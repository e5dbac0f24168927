// File: internal/middleware/auth.go
package middleware

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"startupteam_backend/internal/common"
	"startupteam_backend/internal/domain"
	"startupteam_backend/internal/shared"
	"startupteam_backend/internal/user"
)

// UserLookup loads the account behind a verified access token. Access tokens
// carry only the user id, so the role is read from the store on every request.
type UserLookup interface {
	GetUserByID(ctx context.Context, id uuid.UUID) (*user.User, error)
}

// AuthMiddleware creates a Gin middleware for JWT authentication.
func AuthMiddleware(tokenService shared.TokenService, users UserLookup, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := common.GetTokenFromContext(c)
		if tokenString == "" {
			logger.Debug("Authorization header missing or malformed")
			common.RespondWithError(c, common.ErrUnauthorized.WithDetails("Authorization header must be 'Bearer <token>'."))
			return
		}

		claims, err := tokenService.VerifyAccessToken(tokenString)
		if err != nil {
			common.RespondWithError(c, err)
			return
		}

		u, err := users.GetUserByID(c.Request.Context(), claims.UserID)
		if err != nil {
			if errors.Is(err, common.ErrNotFound) {
				logger.Warn("Token references unknown user", zap.String("userID", claims.UserID.String()))
				common.RespondWithError(c, common.ErrInvalidToken)
				return
			}
			common.RespondWithError(c, err)
			return
		}

		c.Set(common.UserIDKey, u.ID)
		c.Set(common.UserRoleKey, string(u.Role))
		c.Next()
	}
}

// RoleAuthMiddleware creates a middleware to check if the authenticated user has one of the required roles.
func RoleAuthMiddleware(allowedRoles ...domain.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRole := common.GetUserRoleFromContext(c)
		if userRole == "" {
			common.RespondWithError(c, common.ErrForbidden.WithDetails("User role not found in context."))
			return
		}

		for _, role := range allowedRoles {
			if userRole == string(role) {
				c.Next()
				return
			}
		}
		common.RespondWithError(c, common.ErrForbidden.WithDetails("This resource is only available to "+roleList(allowedRoles)+" accounts."))
	}
}

func roleList(roles []domain.UserRole) string {
	out := ""
	for i, r := range roles {
		if i > 0 {
			out += " or "
		}
		out += string(r)
	}
	return out
}
