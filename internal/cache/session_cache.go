package cache

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/redis/go-redis/v9"

	"github.com/Amit91848/Leetwars/internal/model"
)

// SessionCache stores each user's RoomSession read model. The cached copy
// is a convenience; the authoritative state lives in the store.
type SessionCache interface {
	Set(ctx context.Context, userID string, session *model.RoomSession) error
	// Get returns (nil, nil) when the user has no cached room session.
	Get(ctx context.Context, userID string) (*model.RoomSession, error)
	Delete(ctx context.Context, userID string) error
}

type sessionCache struct {
	client *redis.Client
}

func NewSessionCache(client *redis.Client) SessionCache {
	return &sessionCache{client: client}
}

func sessionKey(userID string) string {
	return "userRoomSession:" + userID
}

func (c *sessionCache) Set(ctx context.Context, userID string, session *model.RoomSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, sessionKey(userID), data, 0).Err()
}

func (c *sessionCache) Get(ctx context.Context, userID string) (*model.RoomSession, error) {
	data, err := c.client.Get(ctx, sessionKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var session model.RoomSession
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (c *sessionCache) Delete(ctx context.Context, userID string) error {
	return c.client.Del(ctx, sessionKey(userID)).Err()
}
