package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/detailing-scheduler/internal/config"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(CORSMiddleware())
	r.GET("/api/appointments", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/api/appointments", nil)
	req.Header.Set("Origin", "https://example.com")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/appointments", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func newAuthRouter(secret string) *gin.Engine {
	r := gin.New()
	r.GET("/admin", AdminAuth(secret), func(c *gin.Context) {
		c.String(http.StatusOK, Actor(c))
	})
	return r
}

func TestAdminAuth(t *testing.T) {
	r := newAuthRouter("s3cret")

	token, exp, err := IssueAdminToken("s3cret", time.Hour, time.Now())
	require.NoError(t, err)
	assert.True(t, exp.After(time.Now()))

	cases := []struct {
		name   string
		header string
		status int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", http.StatusUnauthorized},
		{"garbage", "Bearer abc.def.ghi", http.StatusUnauthorized},
		{"valid", "Bearer " + token, http.StatusOK},
	}

	for _, tc := range cases {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		r.ServeHTTP(w, req)
		assert.Equal(t, tc.status, w.Code, tc.name)
	}
}

func TestAdminAuth_ExpiredOrForeignToken(t *testing.T) {
	r := newAuthRouter("s3cret")

	expired, _, err := IssueAdminToken("s3cret", time.Minute, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	foreign, _, err := IssueAdminToken("other", time.Hour, time.Now())
	require.NoError(t, err)

	for _, token := range []string{expired, foreign} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "invalid_token")
	}
}

func TestRateLimiter(t *testing.T) {
	l := NewRateLimiter(config.RateLimitConfig{RPS: 0.001, Burst: 2})

	r := gin.New()
	r.POST("/login", l.Middleware(), func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		r.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{200, 200, 429}, codes)

	// another client has its own bucket
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRateLimiter_SweepsIdleClients(t *testing.T) {
	l := NewRateLimiter(config.RateLimitConfig{RPS: 1, Burst: 1})
	clock := time.Date(2024, 10, 14, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return clock }
	l.lastSweep.Store(clock.UnixNano())

	r := gin.New()
	r.POST("/bookings", l.Middleware(), func(c *gin.Context) { c.Status(http.StatusCreated) })

	hit := func(addr string) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/bookings", nil)
		req.RemoteAddr = addr
		r.ServeHTTP(w, req)
	}
	clients := func() []string {
		var keys []string
		l.limiters.Range(func(k, _ any) bool {
			keys = append(keys, k.(string))
			return true
		})
		return keys
	}

	hit("10.0.0.1:1234")
	hit("10.0.0.2:1234")
	require.Len(t, clients(), 2)

	clock = clock.Add(limiterIdleTTL - time.Minute)
	hit("10.0.0.2:1234")

	clock = clock.Add(2 * time.Minute)
	hit("10.0.0.3:1234")

	assert.ElementsMatch(t, []string{"10.0.0.2", "10.0.0.3"}, clients())
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer

	r := gin.New()
	r.Use(RequestLogger(zerolog.New(&buf), nil))
	r.GET("/api/appointments/:id", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/appointments/abc", nil))

	assert.Contains(t, buf.String(), `"route":"/api/appointments/:id"`)
	assert.Contains(t, buf.String(), `"status":404`)
	assert.Contains(t, buf.String(), `"level":"warn"`)
}
