package core

// limiter.go implements concurrency control for comparison runs.
//
// The limiter uses a semaphore pattern to restrict parallel comparisons
// to a configurable maximum. Each run holds two workbooks and a full
// diff in memory, so unbounded parallelism would exhaust the host. When
// all slots are occupied, new requests wait up to maxWait before
// failing with ErrTooManyComparisons.
//
// The limiter also supports graceful shutdown via WaitForDrain, which
// blocks until all active comparisons complete.

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrTooManyComparisons is returned when all comparison slots are
// occupied and the wait timeout expires. Clients should retry after a
// short delay.
var ErrTooManyComparisons = errors.New("too many concurrent comparisons, please try again later")

// DefaultMaxConcurrentComparisons is the default limit for parallel runs.
const DefaultMaxConcurrentComparisons = 4

// DefaultMaxWait is how long to wait for a slot before rejecting.
const DefaultMaxWait = 30 * time.Second

// ComparisonLimiter controls concurrent comparison runs using a
// semaphore pattern.
type ComparisonLimiter struct {
	semaphore chan struct{}
	maxWait   time.Duration

	mu     sync.RWMutex
	active int
}

// NewComparisonLimiter creates a limiter that allows at most
// maxConcurrent simultaneous runs. Requests that cannot acquire a slot
// within maxWait receive ErrTooManyComparisons.
func NewComparisonLimiter(maxConcurrent int, maxWait time.Duration) *ComparisonLimiter {
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrentComparisons
	}
	if maxWait <= 0 {
		maxWait = DefaultMaxWait
	}

	return &ComparisonLimiter{
		semaphore: make(chan struct{}, maxConcurrent),
		maxWait:   maxWait,
	}
}

// Acquire attempts to acquire a comparison slot.
// Returns nil on success, ErrTooManyComparisons if the timeout expires.
// The caller MUST call Release() when the run completes (use defer).
func (l *ComparisonLimiter) Acquire(ctx context.Context) error {
	waitCtx, cancel := context.WithTimeout(ctx, l.maxWait)
	defer cancel()

	select {
	case l.semaphore <- struct{}{}:
		l.mu.Lock()
		l.active++
		l.mu.Unlock()
		return nil

	case <-waitCtx.Done():
		// Distinguish caller cancellation from slot timeout
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return ErrTooManyComparisons

	case <-ctx.Done():
		return ctx.Err()
	}
}

// TryAcquire attempts to acquire a slot without blocking.
// Returns true if a slot was acquired, false otherwise.
func (l *ComparisonLimiter) TryAcquire() bool {
	select {
	case l.semaphore <- struct{}{}:
		l.mu.Lock()
		l.active++
		l.mu.Unlock()
		return true
	default:
		return false
	}
}

// Release releases a previously acquired slot.
// Must be called exactly once for each successful Acquire/TryAcquire.
func (l *ComparisonLimiter) Release() {
	l.mu.Lock()
	l.active--
	l.mu.Unlock()

	<-l.semaphore
}

// ActiveCount returns the number of currently running comparisons.
func (l *ComparisonLimiter) ActiveCount() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.active
}

// MaxConcurrent returns the maximum allowed concurrent runs.
func (l *ComparisonLimiter) MaxConcurrent() int {
	return cap(l.semaphore)
}

// Available returns the number of available slots.
func (l *ComparisonLimiter) Available() int {
	return cap(l.semaphore) - len(l.semaphore)
}

// WaitForDrain blocks until all active comparisons complete or the
// context is cancelled. Used for graceful shutdown.
func (l *ComparisonLimiter) WaitForDrain(ctx context.Context) error {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if l.ActiveCount() == 0 {
				return nil
			}
		}
	}
}

// LimiterStatus is a snapshot of the limiter's current state.
type LimiterStatus struct {
	Active        int `json:"active"`
	Available     int `json:"available"`
	MaxConcurrent int `json:"max_concurrent"`
}

// Status returns the current limiter state for monitoring/debugging.
func (l *ComparisonLimiter) Status() LimiterStatus {
	l.mu.RLock()
	active := l.active
	l.mu.RUnlock()

	return LimiterStatus{
		Active:        active,
		Available:     cap(l.semaphore) - len(l.semaphore),
		MaxConcurrent: cap(l.semaphore),
	}
}
