package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bloodbank/backend/internal/domain/identity"
	"github.com/bloodbank/backend/internal/infrastructure/auth"
	"github.com/bloodbank/backend/internal/infrastructure/config"
	"github.com/bloodbank/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newJWTService(t *testing.T) *auth.JWTService {
	t.Helper()
	return auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-32-bytes-long-string",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 24 * time.Hour,
		Issuer:                 "bloodbank-test",
	})
}

func issueTokens(t *testing.T, svc *auth.JWTService, role identity.Role) (*auth.TokenPair, uuid.UUID) {
	t.Helper()
	userID := uuid.New()
	pair, err := svc.GenerateTokenPair(auth.GenerateTokenInput{
		UserID: userID,
		Email:  "staff@example.com",
		Role:   string(role),
	})
	require.NoError(t, err)
	return pair, userID
}

func protectedRouter(svc *auth.JWTService, extra ...gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	chain := append([]gin.HandlerFunc{JWTAuth(svc)}, extra...)
	chain = append(chain, func(c *gin.Context) {
		userID, _ := GetJWTUserID(c)
		role, _ := GetJWTRole(c)
		c.JSON(http.StatusOK, gin.H{"user_id": userID.String(), "role": string(role)})
	})
	router.GET("/protected", chain...)
	return router
}

func TestJWTAuth(t *testing.T) {
	svc := newJWTService(t)

	t.Run("accepts a valid access token", func(t *testing.T) {
		pair, userID := issueTokens(t, svc, identity.RoleStaff)
		router := protectedRouter(svc)

		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		var body map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, userID.String(), body["user_id"])
		assert.Equal(t, "STAFF", body["role"])
	})

	t.Run("rejects a missing header", func(t *testing.T) {
		router := protectedRouter(svc)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", "/protected", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("rejects a malformed header", func(t *testing.T) {
		router := protectedRouter(svc)

		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/protected", nil)
		req.Header.Set("Authorization", "Token abc")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("rejects a refresh token on an access endpoint", func(t *testing.T) {
		pair, _ := issueTokens(t, svc, identity.RoleStaff)
		router := protectedRouter(svc)

		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+pair.RefreshToken)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("rejects an expired token with a dedicated code", func(t *testing.T) {
		expiredSvc := auth.NewJWTService(config.JWTConfig{
			Secret:                 "test-secret-32-bytes-long-string",
			AccessTokenExpiration:  -time.Minute,
			RefreshTokenExpiration: 24 * time.Hour,
			Issuer:                 "bloodbank-test",
		})
		pair, _ := issueTokens(t, expiredSvc, identity.RoleStaff)
		router := protectedRouter(expiredSvc)

		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, dto.ErrCodeTokenExpired, resp.Error.Code)
	})
}

func TestRequireRoles(t *testing.T) {
	svc := newJWTService(t)

	t.Run("allows a listed role", func(t *testing.T) {
		pair, _ := issueTokens(t, svc, identity.RoleAdmin)
		router := protectedRouter(svc, RequireRoles(identity.RoleAdmin, identity.RoleStaff))

		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("denies an unlisted role", func(t *testing.T) {
		pair, _ := issueTokens(t, svc, identity.RoleDonor)
		router := protectedRouter(svc, RequireRoles(identity.RoleAdmin))

		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, dto.ErrCodeForbidden, resp.Error.Code)
	})

	t.Run("requires authentication to run at all", func(t *testing.T) {
		router := gin.New()
		router.GET("/protected", RequireRoles(identity.RoleAdmin), func(c *gin.Context) {
			c.Status(http.StatusOK)
		})

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", "/protected", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
