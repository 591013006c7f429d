package service

import (
	"context"
	"sync"
	"testing"
	"time"
)

type fakeExiter struct {
	mu    sync.Mutex
	exits map[string]int
}

func newFakeExiter() *fakeExiter {
	return &fakeExiter{exits: make(map[string]int)}
}

func (f *fakeExiter) ExitRoom(_ context.Context, userID, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.exits[userID]++
	return nil
}

func (f *fakeExiter) count(userID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.exits[userID]
}

func TestIdleTimeoutEvictsOnce(t *testing.T) {
	exiter := newFakeExiter()
	p := NewPresenceCoordinator(exiter)
	p.SetTimeouts(20*time.Millisecond, time.Hour)

	p.HandleConnect("s1", "u1", "alice")
	time.Sleep(150 * time.Millisecond)

	if got := exiter.count("u1"); got != 1 {
		t.Fatalf("expected one eviction, got %d", got)
	}
}

func TestKeepAliveDefersIdleTimeout(t *testing.T) {
	exiter := newFakeExiter()
	p := NewPresenceCoordinator(exiter)
	p.SetTimeouts(120*time.Millisecond, time.Hour)

	p.HandleConnect("s1", "u1", "alice")
	for i := 0; i < 6; i++ {
		time.Sleep(40 * time.Millisecond)
		p.HandleKeepAlive("s1")
	}
	// 240ms of wall time has passed, well beyond the idle window, but the
	// keep-alives kept resetting it.
	if got := exiter.count("u1"); got != 0 {
		t.Fatalf("evicted despite keep-alives, %d exits", got)
	}

	time.Sleep(300 * time.Millisecond)
	if got := exiter.count("u1"); got != 1 {
		t.Fatalf("expected eviction after keep-alives stopped, got %d", got)
	}
}

func TestDisconnectGraceEvicts(t *testing.T) {
	exiter := newFakeExiter()
	p := NewPresenceCoordinator(exiter)
	p.SetTimeouts(time.Hour, 20*time.Millisecond)

	p.HandleConnect("s1", "u1", "alice")
	p.HandleDisconnect("s1")
	time.Sleep(150 * time.Millisecond)

	if got := exiter.count("u1"); got != 1 {
		t.Fatalf("expected one eviction after grace, got %d", got)
	}
}

func TestReconnectCancelsGrace(t *testing.T) {
	exiter := newFakeExiter()
	p := NewPresenceCoordinator(exiter)
	p.SetTimeouts(time.Hour, 100*time.Millisecond)

	p.HandleConnect("s1", "u1", "alice")
	p.HandleDisconnect("s1")
	p.HandleConnect("s2", "u1", "alice")
	time.Sleep(300 * time.Millisecond)

	if got := exiter.count("u1"); got != 0 {
		t.Fatalf("evicted despite reconnect, %d exits", got)
	}
}

func TestReleaseDropsAllTimers(t *testing.T) {
	exiter := newFakeExiter()
	p := NewPresenceCoordinator(exiter)
	p.SetTimeouts(40*time.Millisecond, 40*time.Millisecond)

	p.HandleConnect("s1", "u1", "alice")
	p.HandleConnect("s2", "u1", "alice")
	p.HandleDisconnect("s2")
	p.Release("u1")
	time.Sleep(200 * time.Millisecond)

	if got := exiter.count("u1"); got != 0 {
		t.Fatalf("released user still evicted %d times", got)
	}
}
