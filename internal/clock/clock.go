// Package clock abstracts time.Now so timestamps can be fixed in tests.
package clock

import (
	"sync"
	"time"
)

type Clock interface {
	Now() time.Time
}

type clock struct{}

func (c *clock) Now() time.Time {
	return time.Now()
}

// New returns the real clock.
func New() Clock {
	return &clock{}
}

// Mock is a settable clock for tests.
type Mock struct {
	mu          sync.RWMutex
	currentTime time.Time
}

func NewMock() *Mock {
	return &Mock{currentTime: time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *Mock) SetNow(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.currentTime = t
}

// Advance moves the mock forward by d.
func (c *Mock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.currentTime = c.currentTime.Add(d)
}

func (c *Mock) Now() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.currentTime
}
