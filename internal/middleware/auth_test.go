package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/tenzaitech/tenzai-ordering-web-sub000/internal/auth"
)

func protectedRouter(roles ...string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	group := r.Group("/secure", AuthMiddleware())
	if len(roles) > 0 {
		group.Use(RequireRole(roles...))
	}
	group.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"userID": c.GetString("userID"),
			"role":   c.GetString("userRole"),
		})
	})
	return r
}

func doRequest(r *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/secure/ping", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddlewareAcceptsValidToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, err := auth.GenerateToken("user-1", "aoi@tenzai.test", auth.RoleStaff)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	w := doRequest(protectedRouter(), "Bearer "+token)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
}

func TestAuthMiddlewareRejectsBadRequests(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	r := protectedRouter()

	cases := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Basic abc123"},
		{"garbage token", "Bearer not.a.token"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if w := doRequest(r, tc.header); w.Code != http.StatusUnauthorized {
				t.Fatalf("status = %d", w.Code)
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	r := protectedRouter(auth.RoleAdmin)

	staffToken, err := auth.GenerateToken("user-1", "staff@tenzai.test", auth.RoleStaff)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	adminToken, err := auth.GenerateToken("user-2", "admin@tenzai.test", auth.RoleAdmin)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	if w := doRequest(r, "Bearer "+staffToken); w.Code != http.StatusForbidden {
		t.Fatalf("staff on admin route: status = %d", w.Code)
	}
	if w := doRequest(r, "Bearer "+adminToken); w.Code != http.StatusOK {
		t.Fatalf("admin on admin route: status = %d", w.Code)
	}
}
