package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secreto = "secreto-de-pruebas"

func init() { gin.SetMode(gin.TestMode) }

func firmar(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secreto))
	require.NoError(t, err)
	return tok
}

func claimsValidos(rol string) jwt.MapClaims {
	return jwt.MapClaims{
		"user_id":  uuid.NewString(),
		"username": "maria",
		"rol":      rol,
		"exp":      time.Now().Add(time.Hour).Unix(),
	}
}

func protegido(roles ...string) *gin.Engine {
	r := gin.New()
	r.GET("/x", JWTAuth(secreto), RequireRole(roles...), func(c *gin.Context) {
		c.String(http.StatusOK, UsuarioID(c).String())
	})
	return r
}

func get(r http.Handler, token string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	r.ServeHTTP(w, req)
	return w
}

// ── Auth ─────────────────────────────────────────────────────────────────────

func TestJWTAuth(t *testing.T) {
	r := protegido("cajero", "administrador")

	claims := claimsValidos("cajero")
	w := get(r, firmar(t, claims))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, claims["user_id"], w.Body.String())

	vencido := claimsValidos("cajero")
	vencido["exp"] = time.Now().Add(-time.Minute).Unix()
	refresh := claimsValidos("cajero")
	refresh["tipo"] = "refresh"
	sinUUID := claimsValidos("cajero")
	sinUUID["user_id"] = "42"
	otraFirma, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claimsValidos("cajero")).SignedString([]byte("otro"))
	require.NoError(t, err)

	rechazados := map[string]string{
		"sin token":    "",
		"vencido":      firmar(t, vencido),
		"refresh":      firmar(t, refresh),
		"user_id":      firmar(t, sinUUID),
		"otra firma":   otraFirma,
		"no es un jwt": "abc.def.ghi",
	}
	for name, tok := range rechazados {
		t.Run(name, func(t *testing.T) {
			w := get(r, tok)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Contains(t, w.Body.String(), "detail")
		})
	}
}

func TestRequireRole(t *testing.T) {
	r := protegido("administrador")
	assert.Equal(t, http.StatusForbidden, get(r, firmar(t, claimsValidos("cajero"))).Code)
	assert.Equal(t, http.StatusOK, get(r, firmar(t, claimsValidos("administrador"))).Code)
}

// ── Request ID ───────────────────────────────────────────────────────────────

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/x", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(RequestIDKey)) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(RequestIDHeader, "caja-1-000123")
	r.ServeHTTP(w, req)
	assert.Equal(t, "caja-1-000123", w.Body.String())
	assert.Equal(t, "caja-1-000123", w.Header().Get(RequestIDHeader))

	for _, entrante := range []string{"", strings.Repeat("x", 65)} {
		w = httptest.NewRecorder()
		req = httptest.NewRequest(http.MethodGet, "/x", nil)
		req.Header.Set(RequestIDHeader, entrante)
		r.ServeHTTP(w, req)
		_, err := uuid.Parse(w.Body.String())
		assert.NoError(t, err, "a fresh id is minted")
	}
}

// ── CORS ─────────────────────────────────────────────────────────────────────

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(CORS("http://caja.local, http://admin.local"))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	pedir := func(method, origin string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(method, "/x", nil)
		req.Header.Set("Origin", origin)
		r.ServeHTTP(w, req)
		return w
	}

	w := pedir(http.MethodGet, "http://admin.local")
	assert.Equal(t, "http://admin.local", w.Header().Get("Access-Control-Allow-Origin"))

	w = pedir(http.MethodGet, "http://evil.example")
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))

	w = pedir(http.MethodOptions, "http://caja.local")
	assert.Equal(t, http.StatusNoContent, w.Code)

	abierto := gin.New()
	abierto.Use(CORS("*"))
	abierto.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })
	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "http://cualquiera")
	abierto.ServeHTTP(w, req)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

// ── Rate limiter ─────────────────────────────────────────────────────────────

func TestRateLimiter_Ventana(t *testing.T) {
	ahora := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(2, time.Minute, "Demasiadas solicitudes")
	rl.now = func() time.Time { return ahora }

	r := gin.New()
	r.GET("/x", rl.Middleware(), func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, get(r, "").Code)
	assert.Equal(t, http.StatusOK, get(r, "").Code)
	w := get(r, "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.Contains(t, w.Body.String(), "Demasiadas solicitudes")

	ok, _ := rl.permitir("10.0.0.9")
	assert.True(t, ok, "limits are per IP")

	ahora = ahora.Add(time.Minute + time.Second)
	assert.Equal(t, http.StatusOK, get(r, "").Code, "a new window starts")
}

func TestRateLimiter_Purge(t *testing.T) {
	ahora := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(5, time.Minute, "")
	rl.now = func() time.Time { return ahora }

	rl.permitir("10.0.0.1")
	ahora = ahora.Add(30 * time.Second)
	rl.permitir("10.0.0.2")
	ahora = ahora.Add(45 * time.Second)

	assert.Equal(t, 1, rl.Purge())
	assert.Equal(t, 0, rl.Purge())
}

// ── Errors ───────────────────────────────────────────────────────────────────

func TestErrorHandler(t *testing.T) {
	r := gin.New()
	r.Use(ErrorHandler(), Recovery())
	r.GET("/error", func(c *gin.Context) { _ = c.Error(errors.New("pq: connection reset")) })
	r.GET("/escrito", func(c *gin.Context) {
		_ = c.Error(errors.New("ya respondido"))
		c.JSON(http.StatusConflict, gin.H{"detail": "conflicto"})
	})
	r.GET("/panic", func(c *gin.Context) { panic("boom") })

	pedir := func(path string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		return w
	}

	w := pedir("/error")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "pq:")

	w = pedir("/escrito")
	assert.Equal(t, http.StatusConflict, w.Code)

	w = pedir("/panic")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Error interno del servidor")
}
