package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/pcmclub/pcm-backend/internal/member"
	"github.com/pcmclub/pcm-backend/internal/middleware"
	"github.com/pcmclub/pcm-backend/pkg/token"
)

const testSecret = "test-secret"

func setupAuthTest(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&member.Member{}))

	r := gin.New()
	r.GET("/me", middleware.AuthMiddleware(testSecret, db), func(c *gin.Context) {
		id, err := middleware.GetMemberIDFromContext(c)
		require.NoError(t, err)
		c.JSON(http.StatusOK, gin.H{"member_id": id})
	})
	r.GET("/admin", middleware.AuthMiddleware(testSecret, db), middleware.RequireAdmin(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r, db
}

func seedAuthMember(t *testing.T, db *gorm.DB, role string, active bool) *member.Member {
	t.Helper()
	m := &member.Member{
		FullName: "Auth Member",
		Email:    role + "@test.local",
		Role:     role,
		IsActive: active,
	}
	require.NoError(t, db.Create(m).Error)
	return m
}

func doRequest(r *gin.Engine, path, bearer string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddlewareAcceptsValidToken(t *testing.T) {
	r, db := setupAuthTest(t)
	m := seedAuthMember(t, db, member.RoleMember, true)

	signed, err := token.GenerateJWT(m.ID, m.Role, testSecret, 60)
	require.NoError(t, err)

	w := doRequest(r, "/me", signed)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthMiddlewareRejectsMissingHeader(t *testing.T) {
	r, _ := setupAuthTest(t)
	w := doRequest(r, "/me", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddlewareRejectsGarbageToken(t *testing.T) {
	r, _ := setupAuthTest(t)
	w := doRequest(r, "/me", "not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddlewareRejectsInactiveMember(t *testing.T) {
	r, db := setupAuthTest(t)
	m := seedAuthMember(t, db, member.RoleMember, false)

	signed, err := token.GenerateJWT(m.ID, m.Role, testSecret, 60)
	require.NoError(t, err)

	w := doRequest(r, "/me", signed)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAdmin(t *testing.T) {
	r, db := setupAuthTest(t)
	admin := seedAuthMember(t, db, member.RoleAdmin, true)
	regular := seedAuthMember(t, db, member.RoleMember, true)

	adminToken, err := token.GenerateJWT(admin.ID, admin.Role, testSecret, 60)
	require.NoError(t, err)
	memberToken, err := token.GenerateJWT(regular.ID, regular.Role, testSecret, 60)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, doRequest(r, "/admin", adminToken).Code)
	assert.Equal(t, http.StatusForbidden, doRequest(r, "/admin", memberToken).Code)
}
