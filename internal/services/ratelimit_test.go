package services

import (
	"testing"
	"time"
)

func TestIPRateLimiterWindow(t *testing.T) {
	now := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	l := NewIPRateLimiter(100, time.Minute)
	l.now = func() time.Time { return now }

	for i := 0; i < 100; i++ {
		if !l.Allow("198.51.100.7", 1) {
			t.Fatalf("request %d rejected below the limit", i+1)
		}
	}
	if l.Allow("198.51.100.7", 1) {
		t.Fatal("request 101 allowed over the limit")
	}
	if !l.Allow("198.51.100.8", 1) {
		t.Fatal("different IP rejected")
	}

	now = now.Add(61 * time.Second)
	if !l.Allow("198.51.100.7", 1) {
		t.Fatal("request rejected after the window reset")
	}
}

func TestIPRateLimiterWeight(t *testing.T) {
	now := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	l := NewIPRateLimiter(10, time.Minute)
	l.now = func() time.Time { return now }

	if !l.Allow("203.0.113.1", 6) {
		t.Fatal("batch of 6 rejected with empty window")
	}
	if l.Allow("203.0.113.1", 5) {
		t.Fatal("batch of 5 allowed with only 4 slots left")
	}
	if !l.Allow("203.0.113.1", 4) {
		t.Fatal("batch of 4 rejected with 4 slots left")
	}

	// Heavier than the whole limit: never allowed, even on a fresh window.
	now = now.Add(2 * time.Minute)
	if l.Allow("203.0.113.1", 11) {
		t.Fatal("batch above the whole limit allowed")
	}
}

func TestIPRateLimiterDisabled(t *testing.T) {
	l := NewIPRateLimiter(0, time.Minute)
	for i := 0; i < 1000; i++ {
		if !l.Allow("192.0.2.1", 1) {
			t.Fatal("disabled limiter rejected a request")
		}
	}
}

func TestIPRateLimiterSweep(t *testing.T) {
	now := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	l := NewIPRateLimiter(5, time.Minute)
	l.now = func() time.Time { return now }

	for i := 0; i < 50; i++ {
		l.Allow(time.Duration(i).String(), 1)
	}
	if l.Size() != 50 {
		t.Fatalf("tracked IPs = %d, want 50", l.Size())
	}

	now = now.Add(2 * time.Minute)
	l.Allow("fresh", 1)
	if l.Size() != 1 {
		t.Fatalf("tracked IPs after sweep = %d, want 1", l.Size())
	}
}
