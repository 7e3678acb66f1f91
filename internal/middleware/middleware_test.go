package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "middleware-test-secret"

func signToken(t *testing.T, method jwt.SigningMethod, key interface{}, uid string, roles []string) string {
	t.Helper()
	claims := JWTClaims{
		UserID: uid,
		Roles:  roles,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	s, err := jwt.NewWithClaims(method, claims).SignedString(key)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return s
}

func newRouter(guard ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers := append([]gin.HandlerFunc{JWTAuth(testSecret)}, guard...)
	handlers = append(handlers, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetString("user_id"), "actor_role": c.GetString("actor_role")})
	})
	r.GET("/x", handlers...)
	return r
}

func get(r *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuth(t *testing.T) {
	r := newRouter()

	if w := get(r, "/x", ""); w.Code != http.StatusUnauthorized {
		t.Fatalf("missing token: expected 401, got %d", w.Code)
	}
	if w := get(r, "/x", "not-a-jwt"); w.Code != http.StatusUnauthorized {
		t.Fatalf("garbage token: expected 401, got %d", w.Code)
	}

	wrongKey := signToken(t, jwt.SigningMethodHS256, []byte("other-secret"), "u1", nil)
	if w := get(r, "/x", wrongKey); w.Code != http.StatusUnauthorized {
		t.Fatalf("wrong key: expected 401, got %d", w.Code)
	}

	good := signToken(t, jwt.SigningMethodHS256, []byte(testSecret), "u1", []string{RoleBuyer})
	if w := get(r, "/x", good); w.Code != http.StatusOK {
		t.Fatalf("valid token: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if w := get(r, "/x?token="+good, ""); w.Code != http.StatusOK {
		t.Fatalf("query token: expected 200, got %d", w.Code)
	}
}

func TestRequireRole(t *testing.T) {
	r := newRouter(RequireRole(RoleBuyer, RoleSupplier))

	supplier := signToken(t, jwt.SigningMethodHS256, []byte(testSecret), "s1", []string{RoleSupplier})
	w := get(r, "/x", supplier)
	if w.Code != http.StatusOK {
		t.Fatalf("supplier: expected 200, got %d", w.Code)
	}
	if body := w.Body.String(); body != `{"actor_role":"supplier","user_id":"s1"}` {
		t.Fatalf("unexpected body: %s", body)
	}

	admin := signToken(t, jwt.SigningMethodHS256, []byte(testSecret), "a1", []string{RoleAdmin})
	if w := get(r, "/x", admin); w.Code != http.StatusOK {
		t.Fatalf("admin: expected 200, got %d", w.Code)
	}

	nobody := signToken(t, jwt.SigningMethodHS256, []byte(testSecret), "n1", []string{"viewer"})
	if w := get(r, "/x", nobody); w.Code != http.StatusForbidden {
		t.Fatalf("viewer: expected 403, got %d", w.Code)
	}
}
