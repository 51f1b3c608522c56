package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	config "github.com/mdiallo/cotisation-manager-go/config"
)

func testRouter(cfg *config.Config) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", AuthMiddleware(cfg), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetString("user_id")})
	})
	return r
}

func makeToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func TestAuthMiddlewareMissingHeader(t *testing.T) {
	r := testRouter(&config.Config{JWTSecret: "secret"})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddlewareValidToken(t *testing.T) {
	cfg := &config.Config{JWTSecret: "secret"}
	token := makeToken(t, "secret", jwt.MapClaims{
		"user_id": "64f000000000000000000001",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	testRouter(cfg).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "64f000000000000000000001")
}

func TestAuthMiddlewareWrongSecret(t *testing.T) {
	cfg := &config.Config{JWTSecret: "secret"}
	token := makeToken(t, "other", jwt.MapClaims{
		"user_id": "64f000000000000000000001",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	testRouter(cfg).ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddlewareExpiredToken(t *testing.T) {
	cfg := &config.Config{JWTSecret: "secret"}
	token := makeToken(t, "secret", jwt.MapClaims{
		"user_id": "64f000000000000000000001",
		"exp":     time.Now().Add(-time.Hour).Unix(),
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	testRouter(cfg).ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddlewareMissingUserClaim(t *testing.T) {
	cfg := &config.Config{JWTSecret: "secret"}
	token := makeToken(t, "secret", jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	testRouter(cfg).ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
