package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"startupteam_backend/internal/common"
	"startupteam_backend/internal/domain"
	"startupteam_backend/internal/shared"
	"startupteam_backend/internal/user"
)

type stubTokens struct {
	shared.TokenService
	claims *shared.Claims
}

func (s stubTokens) VerifyAccessToken(token string) (*shared.Claims, error) {
	if token != "good-token" {
		return nil, common.ErrInvalidToken
	}
	return s.claims, nil
}

type stubUsers map[uuid.UUID]*user.User

func (s stubUsers) GetUserByID(_ context.Context, id uuid.UUID) (*user.User, error) {
	if u, ok := s[id]; ok {
		return u, nil
	}
	return nil, common.ErrNotFound
}

func newAuthRouter(claims *shared.Claims, users stubUsers, roles ...domain.UserRole) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(ErrorHandler(zap.NewNop()))
	r.GET("/private",
		AuthMiddleware(stubTokens{claims: claims}, users, zap.NewNop()),
		RoleAuthMiddleware(roles...),
		func(c *gin.Context) {
			c.String(http.StatusOK, common.GetUserIDFromContext(c).String()+"|"+common.GetUserRoleFromContext(c))
		})
	return r
}

func doGet(r *gin.Engine, path, auth string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	founder := &user.User{Role: domain.RoleFounder}
	founder.ID = uuid.New()
	users := stubUsers{founder.ID: founder}
	claims := &shared.Claims{UserID: founder.ID}

	t.Run("missing header", func(t *testing.T) {
		w := doGet(newAuthRouter(claims, users, domain.RoleFounder), "/private", "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("invalid token", func(t *testing.T) {
		w := doGet(newAuthRouter(claims, users, domain.RoleFounder), "/private", "Bearer bad-token")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "INVALID_TOKEN")
	})

	t.Run("unknown user", func(t *testing.T) {
		w := doGet(newAuthRouter(&shared.Claims{UserID: uuid.New()}, users, domain.RoleFounder), "/private", "Bearer good-token")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("role allowed", func(t *testing.T) {
		w := doGet(newAuthRouter(claims, users, domain.RoleFounder), "/private", "bearer good-token")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, founder.ID.String()+"|founder", w.Body.String())
	})

	t.Run("role denied", func(t *testing.T) {
		w := doGet(newAuthRouter(claims, users, domain.RoleMember), "/private", "Bearer good-token")
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestErrorHandler_UnknownRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(ErrorHandler(zap.NewNop()))

	w := doGet(r, "/nope", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "NOT_FOUND")
}

func TestZapLogger_SetsRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(ZapLogger(zap.NewNop()))
	r.GET("/ping", func(c *gin.Context) {
		_, hasLogger := c.Get(common.LoggerKey)
		assert.True(t, hasLogger)
		c.String(http.StatusOK, c.GetString(common.RequestIDKey))
	})

	w := doGet(r, "/ping", "")
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
	assert.Equal(t, w.Header().Get(RequestIDHeader), w.Body.String())
}

func TestRateLimiter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/login", NewRateLimiter(4).Handler(), func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = "203.0.113.7:1234"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}
	assert.Equal(t, http.StatusOK, codes[0])
	assert.Equal(t, http.StatusTooManyRequests, codes[2])
}

func TestRateLimiter_DisabledPassesThrough(t *testing.T) {
	limiter := NewRateLimiter(0)
	assert.Nil(t, limiter)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/x", limiter.Handler(), func(c *gin.Context) { c.Status(http.StatusOK) })
	assert.Equal(t, http.StatusOK, doGet(r, "/x", "").Code)
}
