package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	// DefaultIdleTimeout is how long a connected socket may stay silent
	// before its user is evicted from the room.
	DefaultIdleTimeout = 90 * time.Minute
	// DefaultGraceTimeout is how long a disconnected user may stay away
	// before eviction. Reconnecting within the window cancels it.
	DefaultGraceTimeout = 2 * time.Minute
)

// RoomExiter is the slice of RoomService the presence timers need.
type RoomExiter interface {
	ExitRoom(ctx context.Context, userID, username string) error
}

// PresenceCoordinator tracks liveness per socket and per user. Each open
// socket carries an idle timer reset by keep-alives; a disconnect trades
// the idle timer for a per-user grace timer. Either timer firing evicts
// the user from their room.
type PresenceCoordinator struct {
	exiter RoomExiter
	idle   time.Duration
	grace  time.Duration

	mu          sync.Mutex
	idleTimers  map[string]*socketState // by socket id
	graceTimers map[string]*time.Timer  // by user id
}

type socketState struct {
	userID   string
	username string
	timer    *time.Timer
}

func NewPresenceCoordinator(exiter RoomExiter) *PresenceCoordinator {
	return &PresenceCoordinator{
		exiter:      exiter,
		idle:        DefaultIdleTimeout,
		grace:       DefaultGraceTimeout,
		idleTimers:  make(map[string]*socketState),
		graceTimers: make(map[string]*time.Timer),
	}
}

// SetTimeouts is test-only.
func (p *PresenceCoordinator) SetTimeouts(idle, grace time.Duration) {
	p.idle = idle
	p.grace = grace
}

// HandleConnect registers a live socket for the user. Any pending grace
// timer from an earlier disconnect is cancelled.
func (p *PresenceCoordinator) HandleConnect(socketID, userID, username string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if t, ok := p.graceTimers[userID]; ok {
		t.Stop()
		delete(p.graceTimers, userID)
		log.Debug().Str("userId", userID).Msg("reconnect cancelled grace timer")
	}

	if s, ok := p.idleTimers[socketID]; ok {
		s.timer.Stop()
	}
	s := &socketState{userID: userID, username: username}
	s.timer = time.AfterFunc(p.idle, func() { p.idleExpired(socketID) })
	p.idleTimers[socketID] = s
}

// HandleKeepAlive pushes the socket's idle deadline out again.
func (p *PresenceCoordinator) HandleKeepAlive(socketID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if s, ok := p.idleTimers[socketID]; ok {
		s.timer.Reset(p.idle)
	}
}

// HandleDisconnect stops the socket's idle timer and arms the user's
// grace timer.
func (p *PresenceCoordinator) HandleDisconnect(socketID string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	s, ok := p.idleTimers[socketID]
	if !ok {
		return
	}
	s.timer.Stop()
	delete(p.idleTimers, socketID)

	if t, ok := p.graceTimers[s.userID]; ok {
		t.Stop()
	}
	p.graceTimers[s.userID] = time.AfterFunc(p.grace, func() {
		p.graceExpired(s.userID, s.username)
	})
}

// Release drops every timer held for the user. Called on explicit exit so
// a stale timer never double-fires.
func (p *PresenceCoordinator) Release(userID string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if t, ok := p.graceTimers[userID]; ok {
		t.Stop()
		delete(p.graceTimers, userID)
	}
	for id, s := range p.idleTimers {
		if s.userID == userID {
			s.timer.Stop()
			delete(p.idleTimers, id)
		}
	}
}

func (p *PresenceCoordinator) idleExpired(socketID string) {
	p.mu.Lock()
	s, ok := p.idleTimers[socketID]
	if ok {
		delete(p.idleTimers, socketID)
	}
	p.mu.Unlock()
	if !ok {
		return
	}
	log.Info().Str("userId", s.userID).Msg("idle timeout, evicting user from room")
	p.evict(s.userID, s.username)
}

func (p *PresenceCoordinator) graceExpired(userID, username string) {
	p.mu.Lock()
	_, ok := p.graceTimers[userID]
	if ok {
		delete(p.graceTimers, userID)
	}
	p.mu.Unlock()
	if !ok {
		return
	}
	log.Info().Str("userId", userID).Msg("grace window elapsed, evicting user from room")
	p.evict(userID, username)
}

func (p *PresenceCoordinator) evict(userID, username string) {
	err := p.exiter.ExitRoom(context.Background(), userID, username)
	if err != nil && !errors.Is(err, ErrNotInRoom) {
		log.Warn().Err(err).Str("userId", userID).Msg("timer-driven room exit failed")
	}
}
