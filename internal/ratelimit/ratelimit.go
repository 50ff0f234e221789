package ratelimit

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/procomfort/procomfort-quote/internal/httpmw"
)

// visitor tracks a single IP's bucket and last activity.
type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
	// logged marks that the first-denial callback already fired;
	// resets when the entry is evicted
	logged bool
}

// IPLimiter holds per-IP token buckets with background eviction.
type IPLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor

	perSecond rate.Limit
	burst     int
	ttl       time.Duration

	// maxVisitors bounds the tracked-IP map; new IPs are rejected while
	// the map is full. 0 disables the cap. Eviction frees slots.
	maxVisitors int
	// atCapacity marks that OnCapacity already fired; resets when
	// eviction brings the map back under the cap
	atCapacity bool

	// pathPrefix scopes the middleware; requests outside it bypass the
	// limiter entirely
	pathPrefix string

	// OnFirstDenied fires once per visitor lifetime, for logging
	OnFirstDenied func(ip string)
	// OnDenied fires on every denied request, for counters
	OnDenied func(ip string)
	// OnCapacity fires once each time the visitor map fills up
	OnCapacity func()
}

type Option func(*IPLimiter)

// WithRate sets the refill rate and bucket capacity. WithRate(10, 50)
// allows a burst of 50, refilling 10 tokens per second.
func WithRate(perSecond float64, burst int) Option {
	return func(l *IPLimiter) {
		l.perSecond = rate.Limit(perSecond)
		l.burst = burst
	}
}

// WithTTL controls how long an idle IP stays tracked before eviction.
func WithTTL(d time.Duration) Option {
	return func(l *IPLimiter) { l.ttl = d }
}

// WithPathPrefix limits enforcement to paths under the given prefix.
func WithPathPrefix(prefix string) Option {
	return func(l *IPLimiter) { l.pathPrefix = prefix }
}

func WithOnFirstDenied(fn func(ip string)) Option {
	return func(l *IPLimiter) { l.OnFirstDenied = fn }
}

func WithOnDenied(fn func(ip string)) Option {
	return func(l *IPLimiter) { l.OnDenied = fn }
}

// WithMaxVisitors caps how many IPs are tracked at once; 0 means no cap.
func WithMaxVisitors(n int) Option {
	return func(l *IPLimiter) { l.maxVisitors = n }
}

func WithOnCapacity(fn func()) Option {
	return func(l *IPLimiter) { l.OnCapacity = fn }
}

// New creates an IPLimiter and starts the cleanup goroutine, which stops
// when ctx is cancelled.
func New(ctx context.Context, opts ...Option) *IPLimiter {
	l := &IPLimiter{
		visitors:    make(map[string]*visitor),
		perSecond:   10,
		burst:       30,
		ttl:         5 * time.Minute,
		pathPrefix:  "/api/",
		maxVisitors: 100000,
	}
	for _, o := range opts {
		o(l)
	}
	go l.cleanup(ctx)
	return l
}

// allow reports whether ip is within its budget, creating the bucket on
// first sight.
func (l *IPLimiter) allow(ip string) bool {
	l.mu.Lock()
	v, exists := l.visitors[ip]
	if !exists {
		if l.maxVisitors > 0 && len(l.visitors) >= l.maxVisitors {
			fireCapacity := !l.atCapacity
			l.atCapacity = true
			l.mu.Unlock()
			if fireCapacity && l.OnCapacity != nil {
				l.OnCapacity()
			}
			if l.OnDenied != nil {
				l.OnDenied(ip)
			}
			return false
		}
		v = &visitor{limiter: rate.NewLimiter(l.perSecond, l.burst)}
		l.visitors[ip] = v
	}
	v.lastSeen = time.Now()
	allowed := v.limiter.Allow()

	if !allowed && !v.logged {
		v.logged = true
		// release before calling hooks; they may do slow work
		l.mu.Unlock()
		if l.OnFirstDenied != nil {
			l.OnFirstDenied(ip)
		}
		if l.OnDenied != nil {
			l.OnDenied(ip)
		}
		return false
	}
	l.mu.Unlock()

	if !allowed && l.OnDenied != nil {
		l.OnDenied(ip)
	}
	return allowed
}

// cleanup evicts idle visitors every ttl/2.
func (l *IPLimiter) cleanup(ctx context.Context) {
	ticker := time.NewTicker(l.ttl / 2)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			l.mu.Lock()
			for ip, v := range l.visitors {
				if now.Sub(v.lastSeen) > l.ttl {
					delete(l.visitors, ip)
				}
			}
			if l.maxVisitors == 0 || len(l.visitors) < l.maxVisitors {
				l.atCapacity = false
			}
			l.mu.Unlock()
		}
	}
}

// Middleware enforces the limit on requests under the configured path
// prefix, rejecting over-budget callers with 429 before any parsing or
// dispatch work happens. Page and asset requests pass through untouched.
func (l *IPLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if l.pathPrefix != "" && !strings.HasPrefix(r.URL.Path, l.pathPrefix) {
			next.ServeHTTP(w, r)
			return
		}

		ip := httpmw.ClientIPFromContext(r.Context())
		if !l.allow(ip) {
			// intentionally no detail about limits or refill timing
			w.Header().Set("Retry-After", "30")
			httpmw.WriteError(w, http.StatusTooManyRequests, httpmw.ErrorBody{
				Error:   "Too Many Requests",
				Message: "Rate limit exceeded. Try again later.",
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}
