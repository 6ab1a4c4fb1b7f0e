// internal/middleware/rate_limit_test.go
package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"
)

func limiterRouter(rl *RateLimiter, userID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	if userID != "" {
		r.Use(func(c *gin.Context) {
			c.Set("user_id", userID)
			c.Next()
		})
	}
	r.Use(rl.Middleware())
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func limitedGet(r *gin.Engine, remoteAddr string) int {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.RemoteAddr = remoteAddr
	r.ServeHTTP(w, req)
	return w.Code
}

// Behind auth the bucket follows the user, so the same operator is limited
// even when requests arrive from different addresses.
func TestAuthenticatedRequestsShareUserBucket(t *testing.T) {
	rl := NewRateLimiter(rate.Every(time.Hour), 1)
	r := limiterRouter(rl, "operator-1")

	assert.Equal(t, http.StatusOK, limitedGet(r, "10.0.0.1:4000"))
	assert.Equal(t, http.StatusTooManyRequests, limitedGet(r, "10.0.0.2:4000"))
}

func TestAnonymousRequestsKeyByClientIP(t *testing.T) {
	rl := NewRateLimiter(rate.Every(time.Hour), 1)
	r := limiterRouter(rl, "")

	assert.Equal(t, http.StatusOK, limitedGet(r, "10.0.0.1:4000"))
	assert.Equal(t, http.StatusOK, limitedGet(r, "10.0.0.2:4000"))
	assert.Equal(t, http.StatusTooManyRequests, limitedGet(r, "10.0.0.1:4001"))
}
