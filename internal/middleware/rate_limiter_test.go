package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRateLimiter(t *testing.T, maxRequests int, window time.Duration) (*RateLimiter, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	rl := NewRateLimiter(client, RateLimiterConfig{
		MaxRequests: maxRequests,
		Window:      window,
		BlockTime:   5 * time.Minute,
	})

	return rl, mr
}

func rateLimitedRouter(rl *RateLimiter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(rl.Middleware())
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	return router
}

func doRequest(router *gin.Engine, ip string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.RemoteAddr = ip + ":12345"
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRateLimiter_UnderLimit(t *testing.T) {
	rl, _ := setupTestRateLimiter(t, 5, 1*time.Minute)
	router := rateLimitedRouter(rl)

	for i := 0; i < 5; i++ {
		w := doRequest(router, "192.168.1.1")
		assert.Equal(t, http.StatusOK, w.Code, "Request %d should succeed", i+1)
	}
}

func TestRateLimiter_OverLimit(t *testing.T) {
	rl, _ := setupTestRateLimiter(t, 5, 1*time.Minute)
	router := rateLimitedRouter(rl)

	for i := 0; i < 5; i++ {
		w := doRequest(router, "192.168.1.1")
		require.Equal(t, http.StatusOK, w.Code)
	}

	w := doRequest(router, "192.168.1.1")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
}

func TestRateLimiter_PerIPQuota(t *testing.T) {
	rl, _ := setupTestRateLimiter(t, 3, 1*time.Minute)
	router := rateLimitedRouter(rl)

	for i := 0; i < 3; i++ {
		require.Equal(t, http.StatusOK, doRequest(router, "192.168.1.1").Code)
	}

	// A second IP has its own quota
	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, doRequest(router, "192.168.1.2").Code)
	}

	assert.Equal(t, http.StatusTooManyRequests, doRequest(router, "192.168.1.1").Code)
}

func TestRateLimiter_WindowExpiry(t *testing.T) {
	rl, mr := setupTestRateLimiter(t, 2, 1*time.Second)

	ip := "192.168.1.100"

	for i := 0; i < 2; i++ {
		allowed, _, err := rl.CheckLimit(ip)
		require.NoError(t, err)
		assert.True(t, allowed)
	}

	allowed, retryAfter, err := rl.CheckLimit(ip)
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.Greater(t, retryAfter, time.Duration(0))

	mr.FastForward(2 * time.Second)

	allowed, _, err = rl.CheckLimit(ip)
	require.NoError(t, err)
	assert.True(t, allowed, "Quota resets after the window expires")
}

func TestRateLimiter_BanAndUnban(t *testing.T) {
	rl, _ := setupTestRateLimiter(t, 100, 1*time.Minute)
	router := rateLimitedRouter(rl)

	ip := "192.168.1.100"

	require.NoError(t, rl.BanIP(ip))

	banned, err := rl.IsIPBanned(ip)
	require.NoError(t, err)
	assert.True(t, banned)

	w := doRequest(router, ip)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "banned")

	require.NoError(t, rl.UnbanIP(ip))

	banned, err = rl.IsIPBanned(ip)
	require.NoError(t, err)
	assert.False(t, banned)

	assert.Equal(t, http.StatusOK, doRequest(router, ip).Code)
}

func TestRateLimiter_FailsOpen(t *testing.T) {
	rl, mr := setupTestRateLimiter(t, 5, 1*time.Minute)
	router := rateLimitedRouter(rl)

	// A Redis outage must not take down the API
	mr.Close()

	w := doRequest(router, "192.168.1.1")
	assert.Equal(t, http.StatusOK, w.Code)
}
