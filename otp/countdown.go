// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package otp

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Urgency thresholds for the expiry display
const (
	WarningThreshold  = 180 * time.Second
	CriticalThreshold = 60 * time.Second
)

type Urgency int

const (
	UrgencyNormal Urgency = iota
	UrgencyWarning
	UrgencyCritical
)

func (u Urgency) String() string {
	switch u {
	case UrgencyWarning:
		return "warning"
	case UrgencyCritical:
		return "critical"
	default:
		return "normal"
	}
}

// Scope owns countdowns. Close stops every timer it created, so nothing
// fires after the page that started them is gone.
type Scope struct {
	mu     sync.Mutex
	timers []*Countdown
	closed bool
	ctx    context.Context
	cancel context.CancelFunc
	now    func() time.Time
}

func NewScope() *Scope {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scope{ctx: ctx, cancel: cancel, now: time.Now}
}

// Context is cancelled by Close
func (s *Scope) Context() context.Context {
	return s.ctx
}

// Countdown starts a countdown of d bound to the scope. On a closed scope
// the countdown is created stopped.
func (s *Scope) Countdown(d time.Duration) *Countdown {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := &Countdown{
		deadline: s.now().Add(d),
		done:     make(chan struct{}),
		now:      s.now,
	}
	if s.closed {
		c.stopped = true
		return c
	}
	c.timer = time.AfterFunc(d, c.fire)
	s.timers = append(s.timers, c)
	return c
}

// Close stops all countdowns. Safe to call more than once.
func (s *Scope) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	for _, c := range s.timers {
		c.Stop()
	}
	s.timers = nil
	s.cancel()
}

// Release stops c and stops tracking it
func (s *Scope) Release(c *Countdown) {
	c.Stop()
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, t := range s.timers {
		if t == c {
			s.timers = append(s.timers[:i], s.timers[i+1:]...)
			return
		}
	}
}

// Active is the number of countdowns the scope still tracks
func (s *Scope) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

func (s *Scope) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Countdown tracks a deadline
type Countdown struct {
	mu       sync.Mutex
	deadline time.Time
	timer    *time.Timer
	done     chan struct{}
	once     sync.Once
	stopped  bool
	now      func() time.Time
}

func (c *Countdown) fire() {
	c.once.Do(func() { close(c.done) })
}

// Done is closed when the deadline passes. A stopped countdown never closes it.
func (c *Countdown) Done() <-chan struct{} {
	return c.done
}

// Stop cancels the timer; Remaining and Expired keep working off the deadline
func (c *Countdown) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopped = true
	if c.timer != nil {
		c.timer.Stop()
	}
}

// Expire moves the deadline to now, e.g. when the server reports the code expired
func (c *Countdown) Expire() {
	c.mu.Lock()
	c.deadline = c.now()
	stopped := c.stopped
	if c.timer != nil {
		c.timer.Stop()
	}
	c.mu.Unlock()
	if !stopped {
		c.fire()
	}
}

func (c *Countdown) Deadline() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.deadline
}

func (c *Countdown) Remaining() time.Duration {
	d := c.Deadline().Sub(c.now())
	if d < 0 {
		return 0
	}
	return d
}

func (c *Countdown) Expired() bool {
	return c.Remaining() == 0
}

// Format renders the remaining time as m:ss
func (c *Countdown) Format() string {
	return FormatRemaining(c.Remaining())
}

func (c *Countdown) Urgency() Urgency {
	return UrgencyFor(c.Remaining())
}

// FormatRemaining renders d as m:ss, rounding partial seconds up
func FormatRemaining(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int((d + time.Second - 1) / time.Second)
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}

// UrgencyFor classifies time left on a code
func UrgencyFor(d time.Duration) Urgency {
	switch {
	case d <= CriticalThreshold:
		return UrgencyCritical
	case d <= WarningThreshold:
		return UrgencyWarning
	default:
		return UrgencyNormal
	}
}
