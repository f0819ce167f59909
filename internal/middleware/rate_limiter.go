package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"facturas/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// window counts requests from one IP within a fixed window.
type window struct {
	count int
	end   time.Time
}

// RateLimiter is a per-IP fixed-window limiter. The zero value is not
// usable; build it with NewRateLimiter.
type RateLimiter struct {
	name   string
	limit  int
	window time.Duration
	msg    string
	now    func() time.Time

	mu      sync.Mutex
	entries map[string]*window
}

func NewRateLimiter(name string, limit int, per time.Duration, msg string) *RateLimiter {
	return &RateLimiter{
		name:    name,
		limit:   limit,
		window:  per,
		msg:     msg,
		now:     time.Now,
		entries: make(map[string]*window),
	}
}

// LoginRateLimiter limits login and registration attempts to 20 per minute per IP.
func LoginRateLimiter() *RateLimiter {
	return NewRateLimiter("auth", 20, time.Minute, "Demasiados intentos. Intente en 1 minuto.")
}

// APIRateLimiter is the general limiter applied to every route.
func APIRateLimiter(limit int, per time.Duration) *RateLimiter {
	return NewRateLimiter("api", limit, per, "Demasiadas solicitudes. Intente nuevamente en un momento.")
}

// allow records one hit for ip and reports whether it is within the limit,
// plus the end of the current window.
func (l *RateLimiter) allow(ip string) (bool, time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	e, ok := l.entries[ip]
	if !ok || now.After(e.end) {
		e = &window{end: now.Add(l.window)}
		l.entries[ip] = e
	}
	e.count++
	return e.count <= l.limit, e.end
}

// Handler returns the gin middleware.
func (l *RateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, end := l.allow(c.ClientIP())
		if !ok {
			c.Header("Retry-After", end.UTC().Format(http.TimeFormat))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New(l.msg))
			return
		}
		c.Next()
	}
}

// purge drops expired windows and returns how many were removed.
func (l *RateLimiter) purge() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	purged := 0
	for ip, e := range l.entries {
		if now.After(e.end) {
			delete(l.entries, ip)
			purged++
		}
	}
	return purged
}

// StartPurge removes expired entries every interval until ctx is done, so
// IPs that never return do not accumulate.
func (l *RateLimiter) StartPurge(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := l.purge(); n > 0 {
					log.Debug().Str("limiter", l.name).Int("purged", n).Msg("rate limiter purged")
				}
			}
		}
	}()
}
