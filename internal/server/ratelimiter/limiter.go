// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package ratelimiter enforces WSGateway's per-user connection budget
// (spec §4.10 step 3, §5): a sliding window of 30 connection attempts per
// 60 seconds, tracked in memory per user ID.
package ratelimiter

import (
	"sync"
	"time"

	"github.com/inkwell-dev/sync-core/internal/apperr"
	"github.com/inkwell-dev/sync-core/internal/server/metrics"
)

// DefaultWindow and DefaultLimit are the spec-mandated WSGateway
// connection budget: 30 connections per 60 second sliding window.
const (
	DefaultWindow = 60 * time.Second
	DefaultLimit  = 30
)

// nowFunc is overridable in tests.
var nowFunc = time.Now

// Limiter enforces a per-key sliding-window connection budget.
type Limiter interface {
	// Allow records a connection attempt for key and reports whether it
	// falls within the budget. Returns [apperr.ErrRateLimited] when it
	// does not.
	Allow(key string) error
}

type slidingWindowLimiter struct {
	mu     sync.Mutex
	window time.Duration
	limit  int
	hits   map[string][]time.Time
}

// New constructs a [Limiter] allowing at most limit attempts per key
// within any rolling window-length interval.
func New(window time.Duration, limit int) Limiter {
	return &slidingWindowLimiter{
		window: window,
		limit:  limit,
		hits:   make(map[string][]time.Time),
	}
}

// NewDefault constructs a [Limiter] using the spec's 30-per-60s budget.
func NewDefault() Limiter {
	return New(DefaultWindow, DefaultLimit)
}

func (l *slidingWindowLimiter) Allow(key string) error {
	now := nowFunc()
	cutoff := now.Add(-l.window)

	l.mu.Lock()
	defer l.mu.Unlock()

	hits := l.hits[key]
	kept := hits[:0]
	for _, t := range hits {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}

	if len(kept) >= l.limit {
		l.hits[key] = kept
		metrics.RateLimiterRejectionsTotal.Inc()
		return apperr.ErrRateLimited
	}

	l.hits[key] = append(kept, now)
	return nil
}
