// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package otp

import (
	"testing"
	"time"
)

func TestFormatRemaining(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{10 * time.Minute, "10:00"},
		{9*time.Minute + 5*time.Second, "9:05"},
		{59*time.Second + 200*time.Millisecond, "1:00"},
		{time.Second, "0:01"},
		{0, "0:00"},
		{-time.Second, "0:00"},
	}
	for _, tt := range tests {
		if got := FormatRemaining(tt.d); got != tt.want {
			t.Errorf("FormatRemaining(%v): expected %q, got %q", tt.d, tt.want, got)
		}
	}
}

func TestUrgencyFor(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want Urgency
	}{
		{10 * time.Minute, UrgencyNormal},
		{181 * time.Second, UrgencyNormal},
		{180 * time.Second, UrgencyWarning},
		{61 * time.Second, UrgencyWarning},
		{60 * time.Second, UrgencyCritical},
		{0, UrgencyCritical},
	}
	for _, tt := range tests {
		if got := UrgencyFor(tt.d); got != tt.want {
			t.Errorf("UrgencyFor(%v): expected %s, got %s", tt.d, tt.want, got)
		}
	}
}

func TestCountdownFires(t *testing.T) {
	s := NewScope()
	defer s.Close()

	c := s.Countdown(20 * time.Millisecond)
	select {
	case <-c.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("Countdown did not fire")
	}
	if !c.Expired() {
		t.Error("Expected countdown to report expired")
	}
}

func TestCountdownRemaining(t *testing.T) {
	s := NewScope()
	defer s.Close()

	now := time.Date(2024, 11, 20, 9, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }
	c := s.Countdown(10 * time.Minute)

	now = now.Add(7*time.Minute + 30*time.Second)
	if c.Format() != "2:30" {
		t.Errorf("Expected 2:30, got %s", c.Format())
	}
	if c.Urgency() != UrgencyWarning {
		t.Errorf("Expected warning urgency, got %s", c.Urgency())
	}

	now = now.Add(5 * time.Minute)
	if !c.Expired() || c.Remaining() != 0 {
		t.Errorf("Expected expired countdown, remaining %v", c.Remaining())
	}
}

func TestScopeCloseStopsCountdowns(t *testing.T) {
	s := NewScope()
	a := s.Countdown(30 * time.Millisecond)
	b := s.Countdown(time.Hour)

	s.Close()
	s.Close()

	select {
	case <-a.Done():
		t.Error("Stopped countdown fired")
	case <-time.After(100 * time.Millisecond):
	}
	if !s.Closed() {
		t.Error("Expected scope to be closed")
	}
	if s.Context().Err() == nil {
		t.Error("Expected scope context to be cancelled")
	}
	if b.Expired() {
		t.Error("Stopping a countdown should not expire it")
	}

	late := s.Countdown(time.Millisecond)
	select {
	case <-late.Done():
		t.Error("Countdown on a closed scope fired")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestCountdownExpire(t *testing.T) {
	s := NewScope()
	defer s.Close()

	c := s.Countdown(time.Hour)
	c.Expire()
	select {
	case <-c.Done():
	default:
		t.Error("Expected Done to be closed after Expire")
	}
	if !c.Expired() {
		t.Error("Expected countdown to be expired")
	}
	c.Expire()
}

func TestScopeRelease(t *testing.T) {
	s := NewScope()
	defer s.Close()

	a := s.Countdown(30 * time.Millisecond)
	s.Countdown(time.Hour)
	if s.Active() != 2 {
		t.Fatalf("Expected 2 active countdowns, got %d", s.Active())
	}

	s.Release(a)
	if s.Active() != 1 {
		t.Errorf("Expected 1 active countdown after release, got %d", s.Active())
	}
	select {
	case <-a.Done():
		t.Error("Released countdown fired")
	case <-time.After(100 * time.Millisecond):
	}

	s.Release(a)
	if s.Active() != 1 {
		t.Errorf("Expected a second release to be a no-op, got %d active", s.Active())
	}
}
