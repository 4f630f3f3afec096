package middleware

import (
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"
)

// ipLimiter is a sliding-window rate limiter keyed by client IP.
type ipLimiter struct {
	mu      sync.Mutex
	seen    map[string][]time.Time
	limit   int
	window  time.Duration
	swept   time.Time
	sweepAt time.Duration
}

func newIPLimiter(limit int, window time.Duration) *ipLimiter {
	return &ipLimiter{
		seen:    make(map[string][]time.Time),
		limit:   limit,
		window:  window,
		swept:   time.Now(),
		sweepAt: window * 2,
	}
}

func (l *ipLimiter) allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	cutoff := now.Add(-l.window)

	hits := l.seen[ip][:0]
	for _, t := range l.seen[ip] {
		if t.After(cutoff) {
			hits = append(hits, t)
		}
	}

	if len(hits) >= l.limit {
		l.seen[ip] = hits
		return false
	}

	l.seen[ip] = append(hits, now)

	// Piggyback a sweep of idle IPs on request traffic so the map
	// doesn't grow without bound. No background goroutine needed.
	if now.Sub(l.swept) > l.sweepAt {
		for ip, hits := range l.seen {
			if len(hits) == 0 || !hits[len(hits)-1].After(cutoff) {
				delete(l.seen, ip)
			}
		}
		l.swept = now
	}

	return true
}

// RateLimitAuth limits the credential-facing auth endpoints to 5 requests per
// IP per 15 minutes. Signup, login and resend-verification all either send
// email or probe credentials, so they get the tight budget.
func RateLimitAuth() func(http.HandlerFunc) http.HandlerFunc {
	limiter := newIPLimiter(5, 15*time.Minute)

	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)
			if !limiter.allow(ip) {
				slog.Warn("rate limit exceeded", "ip", ip, "path", r.URL.Path)
				http.Error(w, "Too many requests. Please try again later.", http.StatusTooManyRequests)
				return
			}
			next(w, r)
		}
	}
}

// clientIP prefers proxy headers over RemoteAddr so limits apply to the real
// client when the service sits behind a load balancer.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return strings.TrimSpace(strings.SplitN(xff, ",", 2)[0])
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}

	ip := r.RemoteAddr
	if idx := strings.LastIndex(ip, ":"); idx != -1 {
		ip = ip[:idx]
	}
	return ip
}
