package auth

import (
	"net"
	"net/http"
	"sync"
	"time"
)

// RateLimitPolicy caps how many requests one client may make to a route
// within a sliding window.
type RateLimitPolicy struct {
	Window time.Duration
	Limit  int
}

// RateLimiter tracks request timestamps per client and route in memory.
// Swap the policy at construction to tune a route; a nil limiter or a
// zero limit disables limiting.
type RateLimiter struct {
	policy RateLimitPolicy

	mu      sync.Mutex
	history map[string][]time.Time
	now     func() time.Time
}

func NewRateLimiter(policy RateLimitPolicy) *RateLimiter {
	return &RateLimiter{
		policy:  policy,
		history: make(map[string][]time.Time),
		now:     time.Now,
	}
}

// Allow records one request for key and reports whether it fits the window.
// Timestamps older than the window are dropped as a side effect, so memory
// stays bounded by active clients times the limit.
func (l *RateLimiter) Allow(key string) bool {
	if l == nil || l.policy.Limit <= 0 {
		return true
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cutoff := now.Add(-l.policy.Window)

	kept := l.history[key][:0]
	for _, t := range l.history[key] {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}

	if len(kept) >= l.policy.Limit {
		l.history[key] = kept
		return false
	}
	l.history[key] = append(kept, now)
	return true
}

// Middleware applies the limiter to one route, keying clients by IP.
func (l *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !l.Allow(clientIP(r) + " " + r.URL.Path) {
			http.Error(w, "Too many requests, retry later", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return fwd
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
