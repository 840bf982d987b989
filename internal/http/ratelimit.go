package httpx

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultLoginRate  = rate.Limit(1)
	defaultLoginBurst = 5
	limiterIdleTTL    = 10 * time.Minute
)

// LoginLimiter throttles login attempts with one token bucket per client.
// Clients are keyed by peer address unless the peer is a trusted proxy.
// Idle buckets are pruned lazily on access.
type LoginLimiter struct {
	perSecond rate.Limit
	burst     int
	now       func() time.Time
	proxies   TrustedProxies

	mu        sync.Mutex
	buckets   map[string]*loginBucket
	lastPrune time.Time
}

type loginBucket struct {
	lim  *rate.Limiter
	seen time.Time
}

// NewLoginLimiter builds a limiter; non-positive values fall back to 1/s with a burst of 5.
func NewLoginLimiter(perSecond float64, burst int) *LoginLimiter {
	l := &LoginLimiter{
		perSecond: rate.Limit(perSecond),
		burst:     burst,
		now:       time.Now,
		buckets:   make(map[string]*loginBucket),
	}
	if perSecond <= 0 {
		l.perSecond = defaultLoginRate
	}
	if burst <= 0 {
		l.burst = defaultLoginBurst
	}
	return l
}

// TrustProxies lets the listed peers name the client through X-Forwarded-For
// or X-Real-IP.
func (l *LoginLimiter) TrustProxies(proxies TrustedProxies) *LoginLimiter {
	l.proxies = proxies
	return l
}

// Allow reports whether key may make another attempt now.
func (l *LoginLimiter) Allow(key string) bool {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.lastPrune) > limiterIdleTTL {
		for k, b := range l.buckets {
			if now.Sub(b.seen) > limiterIdleTTL {
				delete(l.buckets, k)
			}
		}
		l.lastPrune = now
	}

	b, ok := l.buckets[key]
	if !ok {
		b = &loginBucket{lim: rate.NewLimiter(l.perSecond, l.burst)}
		l.buckets[key] = b
	}
	b.seen = now
	return b.lim.AllowN(now, 1)
}

func (l *LoginLimiter) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

// Middleware rejects over-limit clients with 429 and a Retry-After hint.
// A nil limiter passes everything through.
func (l *LoginLimiter) Middleware(onLimited func()) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if l == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !l.Allow(l.proxies.ClientKey(r)) {
				if onLimited != nil {
					onLimited()
				}
				retry := time.Duration(float64(time.Second) / float64(l.perSecond))
				w.Header().Set("Retry-After", strconv.Itoa(max(1, int(retry.Seconds()))))
				WriteError(w, ErrorParams{Code: http.StatusTooManyRequests, Message: MsgTooManyLogins})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
