package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"carshine/internal/app/store/util"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func protectedRouter(jwt *util.JWTManager, adminOnly bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	m := NewAuthMiddleware(jwt)
	group := router.Group("/secure")
	group.Use(m.Authenticate())
	if adminOnly {
		group.Use(m.RequireAdmin())
	}
	group.GET("", func(c *gin.Context) {
		userID, _ := currentUser(c)
		c.JSON(http.StatusOK, gin.H{"user_id": userID.String()})
	})

	return router
}

func TestAuthenticate_MissingHeader(t *testing.T) {
	jwt := util.NewJWTManager("test-secret", time.Hour)
	router := protectedRouter(jwt, false)

	req, _ := http.NewRequest(http.MethodGet, "/secure", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthenticate_MalformedHeader(t *testing.T) {
	jwt := util.NewJWTManager("test-secret", time.Hour)
	router := protectedRouter(jwt, false)

	req, _ := http.NewRequest(http.MethodGet, "/secure", nil)
	req.Header.Set("Authorization", "Token abc123")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthenticate_ValidToken(t *testing.T) {
	jwt := util.NewJWTManager("test-secret", time.Hour)
	router := protectedRouter(jwt, false)

	token, err := jwt.GenerateAccessToken(uuid.New(), "user@example.com", false)
	assert.NoError(t, err)

	req, _ := http.NewRequest(http.MethodGet, "/secure", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthenticate_ExpiredToken(t *testing.T) {
	expired := util.NewJWTManager("test-secret", -time.Minute)
	router := protectedRouter(util.NewJWTManager("test-secret", time.Hour), false)

	token, err := expired.GenerateAccessToken(uuid.New(), "user@example.com", false)
	assert.NoError(t, err)

	req, _ := http.NewRequest(http.MethodGet, "/secure", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAdmin_NonAdminForbidden(t *testing.T) {
	jwt := util.NewJWTManager("test-secret", time.Hour)
	router := protectedRouter(jwt, true)

	token, err := jwt.GenerateAccessToken(uuid.New(), "user@example.com", false)
	assert.NoError(t, err)

	req, _ := http.NewRequest(http.MethodGet, "/secure", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireAdmin_AdminAllowed(t *testing.T) {
	jwt := util.NewJWTManager("test-secret", time.Hour)
	router := protectedRouter(jwt, true)

	token, err := jwt.GenerateAccessToken(uuid.New(), "admin@example.com", true)
	assert.NoError(t, err)

	req, _ := http.NewRequest(http.MethodGet, "/secure", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
