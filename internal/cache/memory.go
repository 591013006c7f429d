package cache

import (
	"context"
	"sync"

	"github.com/Amit91848/Leetwars/internal/model"
)

// memorySessionCache backs dev setups without a redis instance.
type memorySessionCache struct {
	mu       sync.RWMutex
	sessions map[string]model.RoomSession
}

func NewMemorySessionCache() SessionCache {
	return &memorySessionCache{sessions: make(map[string]model.RoomSession)}
}

func (c *memorySessionCache) Set(_ context.Context, userID string, session *model.RoomSession) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sessions[userID] = *session
	return nil
}

func (c *memorySessionCache) Get(_ context.Context, userID string) (*model.RoomSession, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	session, ok := c.sessions[userID]
	if !ok {
		return nil, nil
	}
	cp := session
	return &cp, nil
}

func (c *memorySessionCache) Delete(_ context.Context, userID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.sessions, userID)
	return nil
}
