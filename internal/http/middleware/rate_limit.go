package middleware

import (
	"context"
	"crypto/sha256"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/PAUBookIt/book-it-backend/internal/http/response"
)

// RateLimitConfig defines rate limiting parameters
type RateLimitConfig struct {
	Requests int                            // Max requests per window
	Window   time.Duration                  // Time window duration
	KeyFunc  func(r *http.Request) []string // Function to generate rate limit keys
}

// RateLimiter throttles requests with Redis counters; one counter per
// key per window, expired by Redis itself.
type RateLimiter struct {
	client *redis.Client
	config RateLimitConfig
}

func NewRateLimiter(client *redis.Client, config RateLimitConfig) *RateLimiter {
	if config.KeyFunc == nil {
		config.KeyFunc = ClientIPKeyFunc
	}
	return &RateLimiter{
		client: client,
		config: config,
	}
}

// Middleware returns the rate limiting middleware
func (rl *RateLimiter) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, key := range rl.config.KeyFunc(r) {
				if !rl.allow(r.Context(), key) {
					response.RateLimit(w, "Too many requests. Try again later.")
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

func (rl *RateLimiter) allow(ctx context.Context, key string) bool {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	// Hash the key for privacy
	hasher := sha256.New()
	hasher.Write([]byte(key))
	redisKey := fmt.Sprintf("ratelimit:%x", hasher.Sum(nil))

	count, err := rl.client.Incr(ctx, redisKey).Result()
	if err != nil {
		// On Redis error, allow the request (fail open)
		return true
	}
	if count == 1 {
		rl.client.Expire(ctx, redisKey, rl.config.Window)
	}

	return count <= int64(rl.config.Requests)
}

// ClientIPKeyFunc rate-limits by the real client IP.
func ClientIPKeyFunc(r *http.Request) []string {
	ip := getClientIP(r)
	if ip == "" {
		return nil
	}
	return []string{"ip:" + ip}
}

// getClientIP extracts the real client IP from the request
func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if idx := strings.Index(xff, ","); idx != -1 {
			return strings.TrimSpace(xff[:idx])
		}
		return strings.TrimSpace(xff)
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}
