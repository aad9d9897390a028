// Copyright 2026 The PFE Track Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock abstracts the wall clock so token-expiry decisions are
// testable. Production code injects Real(); tests inject a Fake and
// advance it past deadlines deterministically.
package clock

import (
	"sync"
	"time"
)

// Clock provides the current time. Code that compares against token
// expiries takes a Clock instead of calling time.Now directly.
type Clock interface {
	Now() time.Time
}

// Real returns a Clock backed by the standard time package.
func Real() Clock { return realClock{} }

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// Fake returns a deterministic Clock frozen at initial. Time moves
// only through Advance or Set. Safe for concurrent use.
func Fake(initial time.Time) *FakeClock {
	return &FakeClock{current: initial}
}

// FakeClock is a test clock. Its zero value is not usable; construct
// with Fake.
type FakeClock struct {
	mu      sync.Mutex
	current time.Time
}

// Now returns the current fake time.
func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Advance moves the fake time forward by d.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = c.current.Add(d)
}

// Set jumps the fake time to t.
func (c *FakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = t
}
