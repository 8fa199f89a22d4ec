package rate

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type Limiter interface {
	Allow(key string, perMinute int) bool
}

// MemoryLimiter keeps one token bucket per key. Buckets for idle keys are
// swept lazily when the map grows past sweepSize.
type MemoryLimiter struct {
	mu      sync.Mutex
	buckets map[string]*entry
}

type entry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

const sweepSize = 4096

func NewMemory() *MemoryLimiter {
	return &MemoryLimiter{buckets: make(map[string]*entry)}
}

func (m *MemoryLimiter) Allow(key string, perMinute int) bool {
	if perMinute <= 0 {
		return true
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	e, ok := m.buckets[key]
	if !ok {
		e = &entry{limiter: rate.NewLimiter(rate.Limit(float64(perMinute)/60.0), perMinute)}
		m.buckets[key] = e
	}
	e.lastSeen = now

	if len(m.buckets) > sweepSize {
		for k, v := range m.buckets {
			if now.Sub(v.lastSeen) > 10*time.Minute {
				delete(m.buckets, k)
			}
		}
	}
	return e.limiter.Allow()
}
