package api

import (
	"encoding/json"
	"math"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// ipLimiterEntry holds a rate limiter and last-seen timestamp for eviction.
type ipLimiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// IPRateLimiter tracks a token bucket per client IP. It guards the admin
// login endpoint against PIN brute force from the LAN; idle IPs are evicted
// so the map stays small on a long-running kiosk host.
type IPRateLimiter struct {
	mu        sync.Mutex
	limiters  map[string]*ipLimiterEntry
	rate      rate.Limit
	burst     int
	idleAfter time.Duration

	// retryAfter is the Retry-After value in seconds, derived from the
	// refill rate once at construction.
	retryAfter string
}

// NewIPRateLimiter creates a limiter allowing r events per second with the
// given burst per IP. For "5 per minute" pass rate.Every(12*time.Second)
// with burst 5. Entries idle for longer than idleAfter are evicted.
func NewIPRateLimiter(r rate.Limit, burst int, idleAfter time.Duration) *IPRateLimiter {
	rl := &IPRateLimiter{
		limiters:   make(map[string]*ipLimiterEntry),
		rate:       r,
		burst:      burst,
		idleAfter:  idleAfter,
		retryAfter: strconv.Itoa(int(math.Ceil(1 / float64(r)))),
	}
	go rl.evictIdle()
	return rl
}

func (rl *IPRateLimiter) getLimiter(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	entry, exists := rl.limiters[ip]
	if !exists {
		limiter := rate.NewLimiter(rl.rate, rl.burst)
		rl.limiters[ip] = &ipLimiterEntry{limiter: limiter, lastSeen: time.Now()}
		return limiter
	}
	entry.lastSeen = time.Now()
	return entry.limiter
}

func (rl *IPRateLimiter) evictIdle() {
	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		rl.mu.Lock()
		for ip, entry := range rl.limiters {
			if time.Since(entry.lastSeen) > rl.idleAfter {
				delete(rl.limiters, ip)
			}
		}
		rl.mu.Unlock()
	}
}

// ClientIP extracts the client IP, honoring reverse-proxy headers.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if idx := strings.Index(xff, ","); idx != -1 {
			return strings.TrimSpace(xff[:idx])
		}
		return strings.TrimSpace(xff)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	addr := r.RemoteAddr
	if idx := strings.LastIndex(addr, ":"); idx != -1 {
		return addr[:idx]
	}
	return addr
}

// RateLimitHandler wraps an http.Handler with per-IP rate limiting and
// answers 429 with a Retry-After hint when the bucket is empty.
func RateLimitHandler(rl *IPRateLimiter, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.getLimiter(ClientIP(r)).Allow() {
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("Retry-After", rl.retryAfter)
			w.WriteHeader(http.StatusTooManyRequests)
			json.NewEncoder(w).Encode(map[string]string{"error": "too many login attempts, slow down"})
			return
		}
		next.ServeHTTP(w, r)
	})
}
