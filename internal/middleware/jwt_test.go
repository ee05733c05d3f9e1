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
)

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func newAuthRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/secure", AuthRequired(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetString("user_id")})
	})
	r.GET("/admin", AuthRequired(), RequireAdmin, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func doRequest(r *gin.Engine, path, token string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	r.ServeHTTP(w, req)
	return w
}

// La clé vient de la configuration chargée au démarrage (SetJWTSecret),
// pas d'une lecture d'environnement figée à l'init du paquet.
func TestAuthRequiredConfiguredSecret(t *testing.T) {
	SetJWTSecret("cle-de-test")
	t.Cleanup(func() { SetJWTSecret("") })

	r := newAuthRouter()

	token := signToken(t, "cle-de-test", jwt.MapClaims{
		"user_id": "u1",
		"email":   "ana@example.com",
		"role":    "customer",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})

	w := doRequest(r, "/secure", token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "u1")
}

func TestAuthRequiredRejections(t *testing.T) {
	SetJWTSecret("cle-de-test")
	t.Cleanup(func() { SetJWTSecret("") })

	r := newAuthRouter()

	t.Run("token manquant", func(t *testing.T) {
		w := doRequest(r, "/secure", "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("mauvaise clé de signature", func(t *testing.T) {
		token := signToken(t, "autre-cle", jwt.MapClaims{
			"user_id": "u1",
			"exp":     time.Now().Add(time.Hour).Unix(),
		})
		w := doRequest(r, "/secure", token)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("token expiré", func(t *testing.T) {
		token := signToken(t, "cle-de-test", jwt.MapClaims{
			"user_id": "u1",
			"exp":     time.Now().Add(-time.Hour).Unix(),
		})
		w := doRequest(r, "/secure", token)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestRequireAdmin(t *testing.T) {
	SetJWTSecret("cle-de-test")
	t.Cleanup(func() { SetJWTSecret("") })

	r := newAuthRouter()

	t.Run("rôle admin accepté", func(t *testing.T) {
		token := signToken(t, "cle-de-test", jwt.MapClaims{
			"user_id": "u1",
			"role":    "admin",
			"exp":     time.Now().Add(time.Hour).Unix(),
		})
		w := doRequest(r, "/admin", token)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("rôle client refusé", func(t *testing.T) {
		token := signToken(t, "cle-de-test", jwt.MapClaims{
			"user_id": "u2",
			"role":    "customer",
			"exp":     time.Now().Add(time.Hour).Unix(),
		})
		w := doRequest(r, "/admin", token)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}
