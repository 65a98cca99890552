package engine

import (
	"sync"
	"time"
)

// ManualTime is a TimeProvider advanced explicitly, for tests and headless runs
type ManualTime struct {
	mu  sync.RWMutex
	now time.Time
}

// NewManualTime creates a manual clock starting at start
func NewManualTime(start time.Time) *ManualTime {
	return &ManualTime{now: start}
}

// Now returns the current manual time
func (m *ManualTime) Now() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.now
}

// Advance moves the clock forward by d
func (m *ManualTime) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = m.now.Add(d)
}
