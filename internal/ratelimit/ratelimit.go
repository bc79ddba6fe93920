// Package ratelimit provides request pacing for the scrape path. Pacing is
// an explicit caller policy: the scraper runs unpaced unless a Limiter is
// injected.
package ratelimit

import (
	"context"
	"math/rand"
	"sync"
	"time"
)

type Limiter interface {
	Wait(ctx context.Context) error
}

// IntervalLimiter enforces a minimum delay between consecutive requests,
// jittered between min and max to avoid a detectable fixed cadence.
type IntervalLimiter struct {
	minDelay time.Duration
	maxDelay time.Duration

	mu         sync.Mutex
	lastAction time.Time
}

func NewIntervalLimiter(minDelay, maxDelay time.Duration) *IntervalLimiter {
	if maxDelay < minDelay {
		maxDelay = minDelay
	}
	return &IntervalLimiter{
		minDelay: minDelay,
		maxDelay: maxDelay,
	}
}

func (l *IntervalLimiter) Wait(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	elapsed := time.Since(l.lastAction)
	delay := l.delay()

	if elapsed < delay {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay - elapsed):
		}
	}

	l.lastAction = time.Now()
	return nil
}

func (l *IntervalLimiter) delay() time.Duration {
	if l.maxDelay == l.minDelay {
		return l.minDelay
	}
	jitter := time.Duration(rand.Int63n(int64(l.maxDelay - l.minDelay)))
	return l.minDelay + jitter
}
