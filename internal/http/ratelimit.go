package http

import (
	"sync"
	"sync/atomic"
	"time"
)

// mutationLimiter throttles state-changing requests. Each client IP gets
// a fixed one-minute window; reads are never limited, so the budget only
// has to cover creates, updates, deletes, patches and imports.
type mutationLimiter struct {
	perMinute int

	mu      sync.Mutex
	buckets map[string]*ipBucket

	done     chan struct{}
	stopOnce sync.Once
}

// ipBucket counts mutations since the window opened.
type ipBucket struct {
	windowStart time.Time
	count       int
}

func newMutationLimiter(perMinute int, sweepEvery time.Duration) *mutationLimiter {
	ml := &mutationLimiter{
		perMinute: perMinute,
		buckets:   make(map[string]*ipBucket),
		done:      make(chan struct{}),
	}
	go ml.sweep(sweepEvery)
	return ml
}

// allow counts one mutation for the IP and reports whether it stays
// within the per-minute budget. A window older than a minute restarts.
func (ml *mutationLimiter) allow(clientIP string, metrics *securityMetrics) bool {
	ml.mu.Lock()
	defer ml.mu.Unlock()

	now := time.Now()
	bucket, ok := ml.buckets[clientIP]
	if !ok || now.Sub(bucket.windowStart) >= time.Minute {
		ml.buckets[clientIP] = &ipBucket{windowStart: now, count: 1}
		return true
	}

	bucket.count++
	if bucket.count > ml.perMinute {
		atomic.AddInt64(&metrics.rateLimitHits, 1)
		return false
	}
	return true
}

// sweep periodically forgets IPs whose window has been closed for more
// than two sweep intervals, bounding memory under churning clients.
func (ml *mutationLimiter) sweep(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ml.done:
			return
		case <-ticker.C:
			ml.dropIdleBuckets(2 * every)
		}
	}
}

func (ml *mutationLimiter) dropIdleBuckets(maxIdle time.Duration) {
	ml.mu.Lock()
	defer ml.mu.Unlock()

	cutoff := time.Now().Add(-maxIdle)
	for ip, bucket := range ml.buckets {
		if bucket.windowStart.Before(cutoff) {
			delete(ml.buckets, ip)
		}
	}
}

func (ml *mutationLimiter) stop() {
	ml.stopOnce.Do(func() {
		close(ml.done)
	})
}
