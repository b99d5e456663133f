package ratelimit

import (
	"context"
	"sort"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	cleanupInterval = 5 * time.Minute
	maxIdle         = 10 * time.Minute
	maxLimiters     = 10000
)

type entry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// UserLimiter token bucket per user key
type UserLimiter struct {
	mu       sync.Mutex
	limiters map[string]*entry
	perSec   rate.Limit
	burst    int
	maxKeys  int
	now      func() time.Time
}

// Option tunes a UserLimiter
type Option func(*UserLimiter)

// WithMaxKeys caps the number of tracked keys
func WithMaxKeys(n int) Option {
	return func(l *UserLimiter) {
		if n > 0 {
			l.maxKeys = n
		}
	}
}

// NewUserLimiter perSecond <= 0 disables limiting
func NewUserLimiter(perSecond float64, burst int, opts ...Option) *UserLimiter {
	if burst <= 0 {
		burst = 1
	}
	l := &UserLimiter{
		limiters: make(map[string]*entry),
		perSec:   rate.Limit(perSecond),
		burst:    burst,
		maxKeys:  maxLimiters,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Allow reports whether key may send another message now
func (l *UserLimiter) Allow(key string) bool {
	if l == nil || l.perSec <= 0 {
		return true
	}
	now := l.now()

	l.mu.Lock()
	e, ok := l.limiters[key]
	if !ok {
		// the map stays bounded even when Run is never started
		if len(l.limiters) >= l.maxKeys {
			l.evictLocked(now, l.maxKeys-l.maxKeys/10-1)
		}
		e = &entry{limiter: rate.NewLimiter(l.perSec, l.burst)}
		l.limiters[key] = e
	}
	e.lastSeen = now
	l.mu.Unlock()

	return e.limiter.AllowN(now, 1)
}

// Run evicts idle limiters until ctx is done
func (l *UserLimiter) Run(ctx context.Context) {
	if l == nil {
		return
	}
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.cleanup()
		}
	}
}

func (l *UserLimiter) cleanup() int {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()
	return l.evictLocked(now, l.maxKeys)
}

// evictLocked drops idle keys, then the least recently seen until at most keep remain
func (l *UserLimiter) evictLocked(now time.Time, keep int) int {
	if keep < 0 {
		keep = 0
	}
	removed := 0
	for key, e := range l.limiters {
		if now.Sub(e.lastSeen) > maxIdle {
			delete(l.limiters, key)
			removed++
		}
	}

	if over := len(l.limiters) - keep; over > 0 {
		type keyTime struct {
			key  string
			seen time.Time
		}
		oldest := make([]keyTime, 0, len(l.limiters))
		for key, e := range l.limiters {
			oldest = append(oldest, keyTime{key, e.lastSeen})
		}
		sort.Slice(oldest, func(i, j int) bool { return oldest[i].seen.Before(oldest[j].seen) })
		for _, kt := range oldest[:over] {
			delete(l.limiters, kt.key)
			removed++
		}
	}
	return removed
}

// Len number of tracked keys
func (l *UserLimiter) Len() int {
	if l == nil {
		return 0
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.limiters)
}
