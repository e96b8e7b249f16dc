package middleware

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

type windowEntry struct {
	requests []time.Time
	mu       sync.Mutex
}

// RateLimiter is a sliding-window limiter keyed by client IP.
type RateLimiter struct {
	limit  int
	window time.Duration
	store  sync.Map
	now    func() time.Time
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{limit: limit, window: window, now: time.Now}
}

func (rl *RateLimiter) allow(ip string) (bool, time.Duration) {
	now := rl.now()
	cutoff := now.Add(-rl.window)

	v, _ := rl.store.LoadOrStore(ip, &windowEntry{})
	entry := v.(*windowEntry)

	entry.mu.Lock()
	defer entry.mu.Unlock()

	filtered := entry.requests[:0]
	for _, t := range entry.requests {
		if t.After(cutoff) {
			filtered = append(filtered, t)
		}
	}
	entry.requests = filtered

	if len(entry.requests) >= rl.limit {
		return false, entry.requests[0].Add(rl.window).Sub(now)
	}

	entry.requests = append(entry.requests, now)
	return true, 0
}

// Sweep forgets clients with no requests inside the window.
func (rl *RateLimiter) Sweep() {
	cutoff := rl.now().Add(-rl.window)
	rl.store.Range(func(key, v interface{}) bool {
		entry := v.(*windowEntry)
		entry.mu.Lock()
		idle := len(entry.requests) == 0 || !entry.requests[len(entry.requests)-1].After(cutoff)
		entry.mu.Unlock()
		if idle {
			rl.store.Delete(key)
		}
		return true
	})
}

func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ok, retry := rl.allow(ClientIP(r))
		if !ok {
			w.Header().Set("Retry-After", strconv.Itoa(int(retry.Seconds())+1))
			writeError(w, http.StatusTooManyRequests, "too many requests")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ClientIP prefers the first X-Forwarded-For hop, then the connection address.
func ClientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		return strings.TrimSpace(first)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
