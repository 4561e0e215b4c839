package rate_limiter

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	cleanupInterval = time.Minute
	visitorIdleTTL  = 5 * time.Minute
)

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Limiter keeps one token bucket per client key, usually the remote IP.
type Limiter struct {
	mu       sync.Mutex
	visitors map[string]*clientLimiter
	rps      rate.Limit
	burst    int
	now      func() time.Time
}

func New(rps float64, burst int) *Limiter {
	return &Limiter{
		visitors: make(map[string]*clientLimiter),
		rps:      rate.Limit(rps),
		burst:    burst,
		now:      time.Now,
	}
}

func (l *Limiter) GetVisitor(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	v, exists := l.visitors[key]
	if !exists {
		limiter := rate.NewLimiter(l.rps, l.burst)
		l.visitors[key] = &clientLimiter{limiter, l.now()}
		return limiter
	}

	v.lastSeen = l.now()
	return v.limiter
}

func (l *Limiter) Allow(key string) bool {
	return l.GetVisitor(key).Allow()
}

// StartVisitorCleanupLoop evicts idle visitors every minute until ctx is done.
func (l *Limiter) StartVisitorCleanupLoop(ctx context.Context) {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.cleanup(visitorIdleTTL)
		}
	}
}

func (l *Limiter) cleanup(idle time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for key, v := range l.visitors {
		if l.now().Sub(v.lastSeen) > idle {
			delete(l.visitors, key)
		}
	}
}

func (l *Limiter) CleanupAllVisitors() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.visitors = make(map[string]*clientLimiter)
}

func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.visitors)
}
