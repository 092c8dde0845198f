package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"boardmatch/backend/pkg/jwt"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func newAuthRouter(secret string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/protected", AuthMiddleware(secret), func(c *gin.Context) {
		userID, _ := UserID(c)
		c.JSON(http.StatusOK, gin.H{"user_id": userID})
	})
	router.GET("/optional", OptionalAuthMiddleware(secret), func(c *gin.Context) {
		userID, _ := UserID(c)
		c.JSON(http.StatusOK, gin.H{"user_id": userID})
	})
	return router
}

func get(router *gin.Engine, path, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestAuthMiddlewareValidToken(t *testing.T) {
	router := newAuthRouter(testSecret)

	token, err := jwt.GenerateToken(42, testSecret)
	require.NoError(t, err)

	rec := get(router, "/protected", "Bearer "+token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"user_id":42}`, rec.Body.String())
}

func TestAuthMiddlewareMissingToken(t *testing.T) {
	router := newAuthRouter(testSecret)

	rec := get(router, "/protected", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddlewareRejectsBadTokens(t *testing.T) {
	router := newAuthRouter(testSecret)

	wrongSecret, err := jwt.GenerateToken(42, "other-secret")
	require.NoError(t, err)

	for _, header := range []string{
		"Bearer not-a-token",
		"Bearer " + wrongSecret,
		"Basic dXNlcjpwYXNz",
	} {
		rec := get(router, "/protected", header)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "header %q", header)
	}
}

func TestOptionalAuthMiddleware(t *testing.T) {
	router := newAuthRouter(testSecret)

	// No token: request still succeeds, anonymously.
	rec := get(router, "/optional", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"user_id":0}`, rec.Body.String())

	token, err := jwt.GenerateToken(7, testSecret)
	require.NoError(t, err)
	rec = get(router, "/optional", "Bearer "+token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"user_id":7}`, rec.Body.String())
}
