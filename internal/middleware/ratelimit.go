package middleware

import (
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"
)

// SubmitRateLimiter limits how many order and payment submissions a client
// can make within a sliding window
type SubmitRateLimiter struct {
	attempts    map[string][]time.Time
	mutex       sync.Mutex
	maxAttempts int
	window      time.Duration
	stop        chan struct{}
	stopOnce    sync.Once
}

// NewSubmitRateLimiter creates a limiter and starts its cleanup loop; call Stop to end it
func NewSubmitRateLimiter(maxAttempts int, window time.Duration) *SubmitRateLimiter {
	rl := &SubmitRateLimiter{
		attempts:    make(map[string][]time.Time),
		maxAttempts: maxAttempts,
		window:      window,
		stop:        make(chan struct{}),
	}

	go rl.cleanup()

	return rl
}

// Allow records an attempt for key and reports whether it is within the limit
func (rl *SubmitRateLimiter) Allow(key string) bool {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	now := time.Now()
	valid := rl.recent(key, now)
	if len(valid) >= rl.maxAttempts {
		rl.attempts[key] = valid
		return false
	}

	rl.attempts[key] = append(valid, now)
	return true
}

// RetryAfter returns the time until key may submit again
func (rl *SubmitRateLimiter) RetryAfter(key string) time.Duration {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	now := time.Now()
	valid := rl.recent(key, now)
	if len(valid) < rl.maxAttempts {
		return 0
	}
	return valid[0].Add(rl.window).Sub(now)
}

// recent returns the attempts of key inside the window; callers hold the mutex
func (rl *SubmitRateLimiter) recent(key string, now time.Time) []time.Time {
	cutoff := now.Add(-rl.window)

	var valid []time.Time
	for _, attempt := range rl.attempts[key] {
		if attempt.After(cutoff) {
			valid = append(valid, attempt)
		}
	}
	return valid
}

// Stop ends the cleanup loop
func (rl *SubmitRateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stop) })
}

// cleanup removes old entries periodically
func (rl *SubmitRateLimiter) cleanup() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stop:
			return
		case <-ticker.C:
		}

		rl.mutex.Lock()
		now := time.Now()
		for key := range rl.attempts {
			if valid := rl.recent(key, now); len(valid) == 0 {
				delete(rl.attempts, key)
			} else {
				rl.attempts[key] = valid
			}
		}
		rl.mutex.Unlock()
	}
}

// SubmitRateLimit applies the limiter to POST requests, keyed by client IP
func SubmitRateLimit(rateLimiter *SubmitRateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				next.ServeHTTP(w, r)
				return
			}

			key := clientKey(r)
			if !rateLimiter.Allow(key) {
				retryAfter := rateLimiter.RetryAfter(key)
				w.Header().Set("Retry-After", strconv.Itoa(int(retryAfter.Seconds())+1))
				WriteError(w, http.StatusTooManyRequests, "Trop de tentatives, veuillez réessayer plus tard")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientKey identifies the client by the host part of RemoteAddr, which
// chi's RealIP middleware has already resolved. Ports and raw forwarding
// headers change per connection and are ignored.
func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
