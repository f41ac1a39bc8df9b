package middleware

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/Priyanshusingh0818/GORUS/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubVerifier map[string]*utils.Claims

func (s stubVerifier) Verify(token string) (*utils.Claims, error) {
	if c, ok := s[token]; ok {
		return c, nil
	}
	return nil, errors.New("bad token")
}

func newAuthRouter() *gin.Engine {
	v := stubVerifier{
		"user":  {UserID: 1, Email: "a@x.com"},
		"admin": {UserID: 2, Email: "boss@x.com", IsAdmin: true},
	}
	r := gin.New()
	r.GET("/me", RequireAuth(v), func(c *gin.Context) {
		claims, _ := Claims(c)
		c.JSON(http.StatusOK, gin.H{"id": claims.UserID, "userID": c.GetUint("userID")})
	})
	r.GET("/admin", RequireAuth(v), RequireAdmin(), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func TestRequireAuth(t *testing.T) {
	r := newAuthRouter()
	tests := []struct {
		name   string
		path   string
		header string
		status int
		body   string
	}{
		{"missing header", "/me", "", http.StatusUnauthorized, `{"error":"Missing token","message":"Missing token"}`},
		{"not bearer", "/me", "Basic abc", http.StatusUnauthorized, `{"error":"Missing token","message":"Missing token"}`},
		{"empty bearer", "/me", "Bearer ", http.StatusUnauthorized, `{"error":"Missing token","message":"Missing token"}`},
		{"bad token", "/me", "Bearer nope", http.StatusUnauthorized, `{"error":"Invalid or expired token","message":"Invalid or expired token"}`},
		{"user ok", "/me", "Bearer user", http.StatusOK, `{"id":1,"userID":1}`},
		{"user on admin route", "/admin", "Bearer user", http.StatusForbidden, `{"error":"Admin access required","message":"Admin access required"}`},
		{"admin ok", "/admin", "Bearer admin", http.StatusNoContent, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.status, w.Code)
			if tt.body != "" {
				assert.JSONEq(t, tt.body, w.Body.String())
			}
		})
	}
}

func TestRequireAdminWithoutAuth(t *testing.T) {
	r := gin.New()
	r.GET("/x", RequireAdmin(), func(c *gin.Context) { c.Status(http.StatusOK) })
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRateLimiter(t *testing.T) {
	newEngine := func(window time.Duration, max int) *gin.Engine {
		r := gin.New()
		r.Use(NewRateLimiter(window, max).Middleware())
		r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })
		return r
	}
	hit := func(r *gin.Engine, ip string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = ip + ":1234"
		r.ServeHTTP(w, req)
		return w
	}

	t.Run("budget per client", func(t *testing.T) {
		r := newEngine(time.Minute, 3)
		for i, want := range []string{"2", "1", "0"} {
			w := hit(r, "10.0.0.1")
			require.Equal(t, http.StatusOK, w.Code, "request %d", i)
			assert.Equal(t, "3", w.Header().Get("X-RateLimit-Limit"))
			assert.Equal(t, want, w.Header().Get("X-RateLimit-Remaining"))
		}
		w := hit(r, "10.0.0.1")
		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		retry, err := strconv.Atoi(w.Header().Get("Retry-After"))
		require.NoError(t, err)
		assert.True(t, retry >= 1 && retry <= 60, "retry after %d", retry)
		assert.JSONEq(t, `{"error":"Too many requests, please try again later.","message":"Too many requests, please try again later."}`, w.Body.String())

		// Other clients have their own budget.
		assert.Equal(t, http.StatusOK, hit(r, "10.0.0.2").Code)
	})

	t.Run("new window resets the count", func(t *testing.T) {
		r := newEngine(200*time.Millisecond, 1)
		require.Equal(t, http.StatusOK, hit(r, "10.0.0.3").Code)
		require.Equal(t, http.StatusTooManyRequests, hit(r, "10.0.0.3").Code)

		time.Sleep(300 * time.Millisecond)
		w := hit(r, "10.0.0.3")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
	})
}

func TestLoggerAndSecurityHeaders(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, nil))

	r := gin.New()
	r.Use(Logger(log), SecurityHeaders())
	r.GET("/boom", func(c *gin.Context) { c.Status(http.StatusTeapot) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Contains(t, buf.String(), "path=/boom")
	assert.Contains(t, buf.String(), "status=418")
	assert.Contains(t, buf.String(), "level=WARN")
}
