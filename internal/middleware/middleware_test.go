package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret"

func sign(t *testing.T, claims jwt.MapClaims, secret string) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func engine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID())
	api := r.Group("/api", AuthMiddleware(testSecret))
	api.GET("/me", func(c *gin.Context) {
		id, _ := UserID(c)
		c.JSON(http.StatusOK, gin.H{"id": id, "role": c.GetString(ContextUserRole)})
	})
	api.GET("/admin", RequireRoles("administrador"), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func TestAuthMiddleware(t *testing.T) {
	r := engine()
	exp := time.Now().Add(time.Hour).Unix()
	valid := sign(t, jwt.MapClaims{"sub": 3, "role": "recepcion", "email": "r@x.com", "exp": exp}, testSecret)
	admin := sign(t, jwt.MapClaims{"sub": 1, "role": "administrador", "exp": exp}, testSecret)

	cases := []struct {
		name, path, header string
		status             int
	}{
		{"no header", "/api/me", "", http.StatusUnauthorized},
		{"not bearer", "/api/me", "Basic abc", http.StatusUnauthorized},
		{"wrong secret", "/api/me", "Bearer " + sign(t, jwt.MapClaims{"sub": 3, "role": "recepcion", "exp": exp}, "other"), http.StatusUnauthorized},
		{"expired", "/api/me", "Bearer " + sign(t, jwt.MapClaims{"sub": 3, "role": "recepcion", "exp": time.Now().Add(-time.Hour).Unix()}, testSecret), http.StatusUnauthorized},
		{"no role", "/api/me", "Bearer " + sign(t, jwt.MapClaims{"sub": 3, "exp": exp}, testSecret), http.StatusUnauthorized},
		{"valid", "/api/me", "Bearer " + valid, http.StatusOK},
		{"role forbidden", "/api/admin", "Bearer " + valid, http.StatusForbidden},
		{"role allowed", "/api/admin", "Bearer " + admin, http.StatusNoContent},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.path, nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != tc.status {
				t.Fatalf("status = %d, want %d (%s)", w.Code, tc.status, w.Body.String())
			}
		})
	}
}

func TestRequestID(t *testing.T) {
	r := engine()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/me", nil))
	if w.Header().Get(HeaderRequestID) == "" {
		t.Fatal("request id not generated")
	}

	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.Header.Set(HeaderRequestID, "abc-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if got := w.Header().Get(HeaderRequestID); got != "abc-123" {
		t.Fatalf("request id = %q", got)
	}
}
