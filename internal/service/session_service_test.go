package service

import (
	"context"
	"errors"
	"testing"
)

func TestGetSessionWithoutRoom(t *testing.T) {
	env := newRoomEnv(t)
	createUser(t, env, "u1", "alice")
	svc := NewSessionService(env.store, env.sessions, NewRand(7))

	resp, err := svc.GetSession(context.Background(), "u1")
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if resp.Username != "alice" || resp.Room != nil {
		t.Fatalf("unexpected response %+v", resp)
	}
}

func TestGetSessionUnknownUser(t *testing.T) {
	env := newRoomEnv(t)
	svc := NewSessionService(env.store, env.sessions, NewRand(7))

	_, err := svc.GetSession(context.Background(), "ghost")
	if !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestGetSessionRebuildsAfterCacheLoss(t *testing.T) {
	env := newRoomEnv(t)
	ctx := context.Background()
	createUser(t, env, "u1", "alice")
	svc := NewSessionService(env.store, env.sessions, NewRand(7))

	created, err := env.rooms.CreateRoom(ctx, "u1", "alice", arraySettings())
	if err != nil {
		t.Fatalf("CreateRoom: %v", err)
	}

	// Simulate a cache flush; the room pointer in the store still stands.
	if err := env.sessions.Delete(ctx, "u1"); err != nil {
		t.Fatalf("flush cache: %v", err)
	}

	resp, err := svc.GetSession(ctx, "u1")
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if resp.Room == nil || resp.Room.RoomID != created.RoomID {
		t.Fatalf("room not rebuilt: %+v", resp.Room)
	}
	if len(resp.Room.Questions) != len(created.Questions) {
		t.Fatalf("rebuilt question set has %d questions, want %d", len(resp.Room.Questions), len(created.Questions))
	}
	if !resp.Room.JoinedAt.Equal(created.JoinedAt) {
		t.Fatalf("rebuilt joinedAt %v, want %v", resp.Room.JoinedAt, created.JoinedAt)
	}

	// The rebuild re-primes the cache for the next read.
	if cached, _ := env.sessions.Get(ctx, "u1"); cached == nil {
		t.Fatal("rebuild did not re-cache the session")
	}
}

func TestGetSessionServesCachedCopy(t *testing.T) {
	env := newRoomEnv(t)
	ctx := context.Background()
	createUser(t, env, "u1", "alice")
	svc := NewSessionService(env.store, env.sessions, NewRand(7))

	created, err := env.rooms.CreateRoom(ctx, "u1", "alice", arraySettings())
	if err != nil {
		t.Fatalf("CreateRoom: %v", err)
	}

	resp, err := svc.GetSession(ctx, "u1")
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if resp.Room == nil || resp.Room.UserColor != created.UserColor {
		t.Fatalf("cached color not served: %+v", resp.Room)
	}
}
