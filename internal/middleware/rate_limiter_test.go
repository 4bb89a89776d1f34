package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wiruacademy/clubsite/internal/testutil"
)

func newTestLimiter(t *testing.T, maxRequests int) (*RateLimiter, *testutil.TestRedis) {
	t.Helper()

	tr := testutil.SetupTestRedis(t)
	opt, err := redis.ParseURL(tr.URL)
	require.NoError(t, err)

	limiter := NewRateLimiter(redis.NewClient(opt), RateLimiterConfig{
		MaxRequests: maxRequests,
		Window:      time.Minute,
	})
	return limiter, tr
}

func TestCheckLimit(t *testing.T) {
	limiter, tr := newTestLimiter(t, 3)
	defer tr.Teardown(t)

	for i := 0; i < 3; i++ {
		allowed, _, err := limiter.CheckLimit("10.0.0.1")
		require.NoError(t, err)
		assert.True(t, allowed, "request %d should be allowed", i+1)
	}

	allowed, retryAfter, err := limiter.CheckLimit("10.0.0.1")
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.Greater(t, retryAfter, time.Duration(0))

	// A different client has its own counter.
	allowed, _, err = limiter.CheckLimit("10.0.0.2")
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestCheckLimitWindowExpiry(t *testing.T) {
	limiter, tr := newTestLimiter(t, 1)
	defer tr.Teardown(t)

	allowed, _, err := limiter.CheckLimit("10.0.0.1")
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, _, err = limiter.CheckLimit("10.0.0.1")
	require.NoError(t, err)
	assert.False(t, allowed)

	// After the window passes the counter resets.
	tr.Server.FastForward(2 * time.Minute)

	allowed, _, err = limiter.CheckLimit("10.0.0.1")
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestRateLimiterMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	limiter, tr := newTestLimiter(t, 2)
	defer tr.Teardown(t)

	router := gin.New()
	router.POST("/login", limiter.Middleware(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
}

func TestRateLimiterFailsOpen(t *testing.T) {
	gin.SetMode(gin.TestMode)
	limiter, tr := newTestLimiter(t, 1)
	// Kill Redis: requests must still pass.
	tr.Teardown(t)

	router := gin.New()
	router.POST("/login", limiter.Middleware(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	}
}
