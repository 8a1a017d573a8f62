package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	"tourist-hub-api/internal/config"
	"tourist-hub-api/internal/logger"
)

// LoginRateLimiter throttles credential-guessing against the login endpoint
// with a per-client token bucket keyed by remote IP. Buckets refill completely
// once a window has elapsed.
type LoginRateLimiter struct {
	logger      *logger.Logger
	maxAttempts int
	window      time.Duration

	mu      sync.Mutex
	buckets map[string]*loginBucket
}

type loginBucket struct {
	tokens     int
	lastRefill time.Time
}

// NewLoginRateLimiter creates a login rate limiter from the auth configuration
func NewLoginRateLimiter(log *logger.Logger, cfg *config.Config) *LoginRateLimiter {
	return &LoginRateLimiter{
		logger:      log,
		maxAttempts: cfg.Auth.LoginRateLimit,
		window:      time.Duration(cfg.Auth.LoginRateWindow) * time.Second,
		buckets:     make(map[string]*loginBucket),
	}
}

// allow consumes one token for the client, reporting whether the attempt may
// proceed. Stale buckets are dropped opportunistically to bound the map.
func (rl *LoginRateLimiter) allow(clientIP string, now time.Time) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	for ip, b := range rl.buckets {
		if now.Sub(b.lastRefill) > 2*rl.window {
			delete(rl.buckets, ip)
		}
	}

	b, ok := rl.buckets[clientIP]
	if !ok || now.Sub(b.lastRefill) >= rl.window {
		b = &loginBucket{tokens: rl.maxAttempts, lastRefill: now}
		rl.buckets[clientIP] = b
	}

	if b.tokens <= 0 {
		return false
	}
	b.tokens--
	return true
}

// Limit wraps a handler with the login attempt budget
func (rl *LoginRateLimiter) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if rl.maxAttempts <= 0 {
			next.ServeHTTP(w, r)
			return
		}

		clientIP := clientAddr(r)
		if !rl.allow(clientIP, time.Now()) {
			rl.logger.WithField("client_ip", clientIP).
				WithField("path", r.URL.Path).
				Warn("Login rate limit exceeded")
			w.Header().Set("Retry-After", rl.window.String())
			http.Error(w, "Too many login attempts", http.StatusTooManyRequests)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// clientAddr strips the port from the request's remote address
func clientAddr(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
