package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// limiterIdleTTL is how long a client's bucket survives without requests.
const limiterIdleTTL = 10 * time.Minute

type ipLimiter struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// IPRateLimiter limits requests per client IP using a token bucket per IP.
// Buckets idle for limiterIdleTTL are swept on the request path.
type IPRateLimiter struct {
	ips       map[string]*ipLimiter
	mu        sync.Mutex
	limit     rate.Limit
	burst     int
	lastSweep time.Time
	now       func() time.Time
}

// NewIPRateLimiter creates a per-IP rate limiter. limit is events per second (e.g. rate.Every(time.Minute) for 1/min);
// for N per minute use rate.Limit(float64(N)/60.0). burst is max tokens per bucket.
func NewIPRateLimiter(limit rate.Limit, burst int) *IPRateLimiter {
	return &IPRateLimiter{
		ips:   make(map[string]*ipLimiter),
		limit: limit,
		burst: burst,
		now:   time.Now,
	}
}

func (l *IPRateLimiter) getLimiter(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) >= limiterIdleTTL {
		for k, v := range l.ips {
			if now.Sub(v.lastSeen) >= limiterIdleTTL {
				delete(l.ips, k)
			}
		}
		l.lastSweep = now
	}

	entry, ok := l.ips[ip]
	if !ok {
		entry = &ipLimiter{lim: rate.NewLimiter(l.limit, l.burst)}
		l.ips[ip] = entry
	}
	entry.lastSeen = now
	return entry.lim
}

// size returns the number of tracked clients.
func (l *IPRateLimiter) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.ips)
}

// clientIP returns the host part of RemoteAddr. Forwarded headers are only
// honoured when chi's RealIP middleware has rewritten RemoteAddr upstream
// (TRUST_PROXY).
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// Middleware returns a chi-compatible middleware that returns 429 when the client IP exceeds the rate.
func (l *IPRateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lim := l.getLimiter(clientIP(r))
		if !lim.Allow() {
			w.Header().Set("Retry-After", "60")
			writeError(w, "Too many requests", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// AuthRateLimiter returns a limiter for signup and login: perMinute requests per
// minute per IP (10 when perMinute <= 0), burst half of that.
func AuthRateLimiter(perMinute int) *IPRateLimiter {
	if perMinute <= 0 {
		perMinute = 10
	}
	burst := perMinute / 2
	if burst < 1 {
		burst = 1
	}
	return NewIPRateLimiter(rate.Limit(float64(perMinute)/60.0), burst)
}
