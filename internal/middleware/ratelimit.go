package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type visitors struct {
	mu     sync.Mutex
	byIP   map[string]*visitor
	every  rate.Limit
	burst  int
	window time.Duration
}

func (v *visitors) get(ip string, now time.Time) *rate.Limiter {
	v.mu.Lock()
	defer v.mu.Unlock()
	vis, ok := v.byIP[ip]
	if !ok {
		vis = &visitor{limiter: rate.NewLimiter(v.every, v.burst)}
		v.byIP[ip] = vis
	}
	vis.lastSeen = now
	return vis.limiter
}

func (v *visitors) sweep(now time.Time) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for ip, vis := range v.byIP {
		if now.Sub(vis.lastSeen) > 2*v.window {
			delete(v.byIP, ip)
		}
	}
}

// RateLimit limits requests per IP: a burst of maxRequests, refilled over
// window. Idle visitors are forgotten after two windows.
func RateLimit(maxRequests int, window time.Duration) gin.HandlerFunc {
	v := &visitors{
		byIP:   make(map[string]*visitor),
		every:  rate.Every(window / time.Duration(maxRequests)),
		burst:  maxRequests,
		window: window,
	}
	var last time.Time
	var lastMu sync.Mutex

	return func(c *gin.Context) {
		now := time.Now()

		lastMu.Lock()
		if now.Sub(last) > window {
			last = now
			lastMu.Unlock()
			v.sweep(now)
		} else {
			lastMu.Unlock()
		}

		if !v.get(c.ClientIP(), now).AllowN(now, 1) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests. Please try again later."})
			return
		}
		c.Next()
	}
}
