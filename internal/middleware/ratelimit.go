package middleware

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/BruksfildServices01/detailing-scheduler/internal/config"
	"github.com/BruksfildServices01/detailing-scheduler/internal/httperr"
)

const (
	limiterIdleTTL    = 10 * time.Minute
	limiterSweepEvery = time.Minute
)

type clientLimiter struct {
	lim      *rate.Limiter
	lastSeen atomic.Int64
}

// RateLimiter keeps one token bucket per client IP. Buckets idle for
// longer than limiterIdleTTL are swept on the request path.
type RateLimiter struct {
	limiters  sync.Map
	rps       rate.Limit
	burst     int
	lastSweep atomic.Int64

	now func() time.Time
}

func NewRateLimiter(cfg config.RateLimitConfig) *RateLimiter {
	burst := cfg.Burst
	if burst <= 0 {
		burst = 5
	}
	l := &RateLimiter{rps: rate.Limit(cfg.RPS), burst: burst, now: time.Now}
	l.lastSweep.Store(l.now().UnixNano())
	return l
}

func (l *RateLimiter) getLimiter(key string, now time.Time) *rate.Limiter {
	if v, ok := l.limiters.Load(key); ok {
		if cl, ok := v.(*clientLimiter); ok {
			cl.lastSeen.Store(now.UnixNano())
			return cl.lim
		}
	}

	cl := &clientLimiter{lim: rate.NewLimiter(l.rps, l.burst)}
	cl.lastSeen.Store(now.UnixNano())
	actual, loaded := l.limiters.LoadOrStore(key, cl)
	if loaded {
		if actualCl, ok := actual.(*clientLimiter); ok {
			actualCl.lastSeen.Store(now.UnixNano())
			return actualCl.lim
		}
	}
	return cl.lim
}

// sweep drops idle buckets, at most once per limiterSweepEvery.
func (l *RateLimiter) sweep(now time.Time) {
	last := l.lastSweep.Load()
	if now.UnixNano()-last < int64(limiterSweepEvery) {
		return
	}
	if !l.lastSweep.CompareAndSwap(last, now.UnixNano()) {
		return
	}

	cutoff := now.Add(-limiterIdleTTL).UnixNano()
	l.limiters.Range(func(key, v any) bool {
		if cl, ok := v.(*clientLimiter); ok && cl.lastSeen.Load() < cutoff {
			l.limiters.Delete(key)
		}
		return true
	})
}

func (l *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if l.rps <= 0 {
			c.Next()
			return
		}

		now := l.now()
		l.sweep(now)

		if !l.getLimiter(c.ClientIP(), now).Allow() {
			httperr.TooManyRequests(c, "rate_limited", "Muitas tentativas. Aguarde alguns segundos.")
			c.Abort()
			return
		}
		c.Next()
	}
}
