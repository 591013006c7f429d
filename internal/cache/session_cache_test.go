package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/Amit91848/Leetwars/internal/model"
)

func testSession() *model.RoomSession {
	return &model.RoomSession{
		RoomID: "room-1",
		Questions: []model.Question{
			{ID: 1, Title: "Two Sum", TitleSlug: "two-sum", Difficulty: model.DifficultyEasy},
		},
		UserColor: "text-teal-400",
		CreatedAt: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		JoinedAt:  time.Date(2024, 3, 1, 12, 5, 0, 0, time.UTC),
	}
}

func newRedisCache(t *testing.T) SessionCache {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewSessionCache(client)
}

func TestSessionCacheRoundTrip(t *testing.T) {
	for name, cache := range map[string]SessionCache{
		"redis":  newRedisCache(t),
		"memory": NewMemorySessionCache(),
	} {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			want := testSession()

			if err := cache.Set(ctx, "u1", want); err != nil {
				t.Fatalf("Set: %v", err)
			}
			got, err := cache.Get(ctx, "u1")
			if err != nil {
				t.Fatalf("Get: %v", err)
			}
			if got == nil || got.RoomID != want.RoomID || got.UserColor != want.UserColor {
				t.Fatalf("Get returned %+v", got)
			}
			if len(got.Questions) != 1 || got.Questions[0].TitleSlug != "two-sum" {
				t.Fatalf("questions lost in round trip: %+v", got.Questions)
			}
			if !got.JoinedAt.Equal(want.JoinedAt) {
				t.Fatalf("joinedAt = %v, want %v", got.JoinedAt, want.JoinedAt)
			}
		})
	}
}

func TestSessionCacheMissIsNil(t *testing.T) {
	for name, cache := range map[string]SessionCache{
		"redis":  newRedisCache(t),
		"memory": NewMemorySessionCache(),
	} {
		t.Run(name, func(t *testing.T) {
			got, err := cache.Get(context.Background(), "nobody")
			if err != nil {
				t.Fatalf("Get: %v", err)
			}
			if got != nil {
				t.Fatalf("expected nil on miss, got %+v", got)
			}
		})
	}
}

func TestSessionCacheDelete(t *testing.T) {
	for name, cache := range map[string]SessionCache{
		"redis":  newRedisCache(t),
		"memory": NewMemorySessionCache(),
	} {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			if err := cache.Set(ctx, "u1", testSession()); err != nil {
				t.Fatalf("Set: %v", err)
			}
			if err := cache.Delete(ctx, "u1"); err != nil {
				t.Fatalf("Delete: %v", err)
			}
			got, err := cache.Get(ctx, "u1")
			if err != nil || got != nil {
				t.Fatalf("entry survived delete: %+v, %v", got, err)
			}
			// Deleting an absent entry is not an error.
			if err := cache.Delete(ctx, "u1"); err != nil {
				t.Fatalf("second delete: %v", err)
			}
		})
	}
}

func TestSessionCacheKeyShape(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cache := NewSessionCache(client)

	if err := cache.Set(context.Background(), "u1", testSession()); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if !mr.Exists("userRoomSession:u1") {
		t.Fatalf("expected key userRoomSession:u1, have %v", mr.Keys())
	}
}
