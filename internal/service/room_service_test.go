package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/Amit91848/Leetwars/internal/cache"
	"github.com/Amit91848/Leetwars/internal/model"
	"github.com/Amit91848/Leetwars/internal/repository"
	"github.com/Amit91848/Leetwars/internal/repository/memory"
)

type captureBroadcaster struct {
	mu   sync.Mutex
	msgs []pendingMessage
}

func (b *captureBroadcaster) Publish(channel string, message model.Message) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.msgs = append(b.msgs, pendingMessage{channel: channel, message: message})
}

func (b *captureBroadcaster) byEvent(event model.ChatEvent) []pendingMessage {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []pendingMessage
	for _, m := range b.msgs {
		if m.message.ChatEvent == event {
			out = append(out, m)
		}
	}
	return out
}

type roomEnv struct {
	store    *memory.Store
	sessions cache.SessionCache
	rooms    *RoomService
	bcast    *captureBroadcaster
}

func newRoomEnv(t *testing.T) *roomEnv {
	t.Helper()
	store := memory.NewStore()
	seedCatalog(t, store)

	sessions := cache.NewMemorySessionCache()
	rooms := NewRoomService(store, sessions, NewRand(7))
	bcast := &captureBroadcaster{}
	rooms.SetBroadcaster(bcast)

	return &roomEnv{store: store, sessions: sessions, rooms: rooms, bcast: bcast}
}

func seedCatalog(t *testing.T, store *memory.Store) {
	t.Helper()
	var questions []model.Question
	add := func(difficulty model.Difficulty, n int) {
		for i := 0; i < n; i++ {
			questions = append(questions, model.Question{
				Title:      fmt.Sprintf("%s %d", difficulty, i),
				TitleSlug:  fmt.Sprintf("%s-%d", difficulty, i),
				Difficulty: difficulty,
				Tags:       []string{"array"},
			})
		}
	}
	add(model.DifficultyEasy, 3)
	add(model.DifficultyMedium, 4)
	add(model.DifficultyHard, 3)
	if err := store.Questions().CreateMany(context.Background(), questions); err != nil {
		t.Fatalf("seed catalog: %v", err)
	}
}

func createUser(t *testing.T, env *roomEnv, id, username string) {
	t.Helper()
	err := env.store.Users().Create(context.Background(), &model.User{
		ID:       id,
		Username: username,
		Provider: "guest",
	})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
}

func arraySettings() model.RoomSettings {
	return model.RoomSettings{
		QuestionFilter: model.QuestionFilter{Kind: model.FilterKindTopics, Selections: []string{"array"}},
		Difficulty:     model.DifficultyFlags{Easy: true, Medium: true, Hard: true},
	}
}

func TestCreateRoomAllocatesQuestionsAndSession(t *testing.T) {
	env := newRoomEnv(t)
	ctx := context.Background()
	createUser(t, env, "u1", "alice")

	session, err := env.rooms.CreateRoom(ctx, "u1", "alice", arraySettings())
	if err != nil {
		t.Fatalf("CreateRoom: %v", err)
	}
	if len(session.Questions) != 4 {
		t.Fatalf("expected 4 questions, got %d", len(session.Questions))
	}
	if session.UserColor == "" {
		t.Fatal("expected a user color")
	}

	user, err := env.store.Users().GetByID(ctx, "u1")
	if err != nil || user == nil {
		t.Fatalf("load user: %v", err)
	}
	if user.RoomID == nil || *user.RoomID != session.RoomID {
		t.Fatalf("room pointer not set, got %v", user.RoomID)
	}

	cached, err := env.sessions.Get(ctx, "u1")
	if err != nil || cached == nil {
		t.Fatalf("cached session missing: %v", err)
	}
	if cached.RoomID != session.RoomID {
		t.Fatalf("cached room %s, want %s", cached.RoomID, session.RoomID)
	}

	joins := env.bcast.byEvent(model.EventJoin)
	if len(joins) != 1 || joins[0].channel != session.RoomID {
		t.Fatalf("expected one join broadcast to the room, got %v", joins)
	}
}

func TestCreateRoomRejectsUnknownFilterKind(t *testing.T) {
	env := newRoomEnv(t)
	createUser(t, env, "u1", "alice")

	settings := arraySettings()
	settings.QuestionFilter.Kind = "companies"

	_, err := env.rooms.CreateRoom(context.Background(), "u1", "alice", settings)
	if !errors.Is(err, ErrInvalidFilter) {
		t.Fatalf("expected ErrInvalidFilter, got %v", err)
	}
}

func TestJoinUnknownRoom(t *testing.T) {
	env := newRoomEnv(t)
	createUser(t, env, "u1", "alice")

	_, err := env.rooms.JoinRoomByID(context.Background(), "u1", "alice", "nope")
	if !errors.Is(err, ErrRoomNotFound) {
		t.Fatalf("expected ErrRoomNotFound, got %v", err)
	}
}

func TestJoinServesRoomFixedQuestionSet(t *testing.T) {
	env := newRoomEnv(t)
	ctx := context.Background()
	createUser(t, env, "u1", "alice")
	createUser(t, env, "u2", "bob")

	created, err := env.rooms.CreateRoom(ctx, "u1", "alice", arraySettings())
	if err != nil {
		t.Fatalf("CreateRoom: %v", err)
	}

	joined, err := env.rooms.JoinRoomByID(ctx, "u2", "bob", created.RoomID)
	if err != nil {
		t.Fatalf("JoinRoomByID: %v", err)
	}
	if len(joined.Questions) != len(created.Questions) {
		t.Fatalf("question sets differ: %d vs %d", len(joined.Questions), len(created.Questions))
	}
	for i := range created.Questions {
		if joined.Questions[i].ID != created.Questions[i].ID {
			t.Fatalf("question %d differs: %d vs %d", i, joined.Questions[i].ID, created.Questions[i].ID)
		}
	}
}

func TestRejoinPreservesJoinBaseline(t *testing.T) {
	env := newRoomEnv(t)
	ctx := context.Background()
	createUser(t, env, "u1", "alice")
	createUser(t, env, "u2", "bob")

	t0 := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	env.rooms.SetClock(func() time.Time { return t0 })

	created, err := env.rooms.CreateRoom(ctx, "u1", "alice", arraySettings())
	if err != nil {
		t.Fatalf("CreateRoom: %v", err)
	}
	if _, err := env.rooms.JoinRoomByID(ctx, "u2", "bob", created.RoomID); err != nil {
		t.Fatalf("join u2: %v", err)
	}
	if err := env.rooms.ExitRoom(ctx, "u1", "alice"); err != nil {
		t.Fatalf("exit u1: %v", err)
	}

	env.rooms.SetClock(func() time.Time { return t0.Add(30 * time.Minute) })
	rejoined, err := env.rooms.JoinRoomByID(ctx, "u1", "alice", created.RoomID)
	if err != nil {
		t.Fatalf("rejoin u1: %v", err)
	}
	if !rejoined.JoinedAt.Equal(t0) {
		t.Fatalf("joinedAt moved on re-entry: %v", rejoined.JoinedAt)
	}
}

func TestExitRoomIdempotent(t *testing.T) {
	env := newRoomEnv(t)
	ctx := context.Background()
	createUser(t, env, "u1", "alice")

	session, err := env.rooms.CreateRoom(ctx, "u1", "alice", arraySettings())
	if err != nil {
		t.Fatalf("CreateRoom: %v", err)
	}

	if err := env.rooms.ExitRoom(ctx, "u1", "alice"); err != nil {
		t.Fatalf("first exit: %v", err)
	}
	if err := env.rooms.ExitRoom(ctx, "u1", "alice"); !errors.Is(err, ErrNotInRoom) {
		t.Fatalf("second exit: expected ErrNotInRoom, got %v", err)
	}

	leaves := env.bcast.byEvent(model.EventLeave)
	if len(leaves) != 1 {
		t.Fatalf("expected exactly one leave broadcast, got %d", len(leaves))
	}

	if cached, _ := env.sessions.Get(ctx, "u1"); cached != nil {
		t.Fatal("session cache entry survived exit")
	}

	room, err := env.store.Rooms().GetByID(ctx, session.RoomID)
	if err != nil {
		t.Fatalf("load room: %v", err)
	}
	if room != nil {
		t.Fatal("empty room not deleted")
	}
}

// staleRoomStore serves user reads as if the room pointer still referenced
// roomID, the view a transaction gets when a concurrent exit committed after
// its read.
type staleRoomStore struct {
	repository.Store
	roomID string
}

func (s *staleRoomStore) Users() repository.UserRepo {
	return &staleRoomUserRepo{UserRepo: s.Store.Users(), roomID: s.roomID}
}

func (s *staleRoomStore) RunInTx(ctx context.Context, fn func(ctx context.Context, tx repository.Store) error) error {
	return s.Store.RunInTx(ctx, func(ctx context.Context, tx repository.Store) error {
		return fn(ctx, &staleRoomStore{Store: tx, roomID: s.roomID})
	})
}

type staleRoomUserRepo struct {
	repository.UserRepo
	roomID string
}

func (r *staleRoomUserRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	user, err := r.UserRepo.GetByID(ctx, id)
	if user != nil && user.RoomID == nil {
		roomID := r.roomID
		user.RoomID = &roomID
	}
	return user, err
}

func TestConcurrentExitBroadcastsOnce(t *testing.T) {
	env := newRoomEnv(t)
	ctx := context.Background()
	createUser(t, env, "u1", "alice")
	createUser(t, env, "u2", "bob")

	session, err := env.rooms.CreateRoom(ctx, "u1", "alice", arraySettings())
	if err != nil {
		t.Fatalf("CreateRoom: %v", err)
	}
	if _, err := env.rooms.JoinRoomByID(ctx, "u2", "bob", session.RoomID); err != nil {
		t.Fatalf("join u2: %v", err)
	}

	if err := env.rooms.ExitRoom(ctx, "u2", "bob"); err != nil {
		t.Fatalf("first exit: %v", err)
	}

	// A second exit whose user read predates the first one's commit loses
	// the conditional pointer clear and must not announce the departure
	// again.
	stale := NewRoomService(&staleRoomStore{Store: env.store, roomID: session.RoomID}, env.sessions, NewRand(7))
	stale.SetBroadcaster(env.bcast)
	if err := stale.ExitRoom(ctx, "u2", "bob"); !errors.Is(err, ErrNotInRoom) {
		t.Fatalf("expected ErrNotInRoom, got %v", err)
	}

	leaves := env.bcast.byEvent(model.EventLeave)
	if len(leaves) != 1 {
		t.Fatalf("expected exactly one leave broadcast, got %d", len(leaves))
	}
}

func TestRoomSurvivesWhileMembersRemain(t *testing.T) {
	env := newRoomEnv(t)
	ctx := context.Background()
	createUser(t, env, "u1", "alice")
	createUser(t, env, "u2", "bob")

	session, err := env.rooms.CreateRoom(ctx, "u1", "alice", arraySettings())
	if err != nil {
		t.Fatalf("CreateRoom: %v", err)
	}
	if _, err := env.rooms.JoinRoomByID(ctx, "u2", "bob", session.RoomID); err != nil {
		t.Fatalf("join u2: %v", err)
	}
	if err := env.rooms.ExitRoom(ctx, "u1", "alice"); err != nil {
		t.Fatalf("exit u1: %v", err)
	}

	room, err := env.store.Rooms().GetByID(ctx, session.RoomID)
	if err != nil || room == nil {
		t.Fatalf("room deleted while bob still inside: %v", err)
	}
}

func TestJoinImplicitlyExitsPreviousRoom(t *testing.T) {
	env := newRoomEnv(t)
	ctx := context.Background()
	createUser(t, env, "u1", "alice")
	createUser(t, env, "u2", "bob")

	first, err := env.rooms.CreateRoom(ctx, "u1", "alice", arraySettings())
	if err != nil {
		t.Fatalf("create first: %v", err)
	}
	second, err := env.rooms.CreateRoom(ctx, "u2", "bob", arraySettings())
	if err != nil {
		t.Fatalf("create second: %v", err)
	}

	if _, err := env.rooms.JoinRoomByID(ctx, "u1", "alice", second.RoomID); err != nil {
		t.Fatalf("switch rooms: %v", err)
	}

	user, _ := env.store.Users().GetByID(ctx, "u1")
	if user.RoomID == nil || *user.RoomID != second.RoomID {
		t.Fatalf("pointer not moved: %v", user.RoomID)
	}

	room, _ := env.store.Rooms().GetByID(ctx, first.RoomID)
	if room != nil {
		t.Fatal("abandoned room not deleted")
	}

	leaves := env.bcast.byEvent(model.EventLeave)
	if len(leaves) != 1 || leaves[0].channel != first.RoomID {
		t.Fatalf("expected one leave broadcast on the old room, got %v", leaves)
	}
}

func TestGetPlayersRanksMembers(t *testing.T) {
	env := newRoomEnv(t)
	ctx := context.Background()
	createUser(t, env, "u1", "alice")
	createUser(t, env, "u2", "bob")

	session, err := env.rooms.CreateRoom(ctx, "u1", "alice", arraySettings())
	if err != nil {
		t.Fatalf("CreateRoom: %v", err)
	}
	if _, err := env.rooms.JoinRoomByID(ctx, "u2", "bob", session.RoomID); err != nil {
		t.Fatalf("join u2: %v", err)
	}

	// Bob solves the first question.
	err = env.store.Submissions().Upsert(ctx, &model.Submission{
		UserID:     "u2",
		QuestionID: session.Questions[0].ID,
		RoomID:     session.RoomID,
		Status:     model.StatusAccepted,
		UpdatedAt:  time.Now(),
	})
	if err != nil {
		t.Fatalf("upsert submission: %v", err)
	}

	players, err := env.rooms.GetPlayers(ctx, "u1")
	if err != nil {
		t.Fatalf("GetPlayers: %v", err)
	}
	if len(players) != 2 {
		t.Fatalf("expected 2 players, got %d", len(players))
	}
	if players[0].ID != "u2" {
		t.Fatalf("expected bob ranked first, got %s", players[0].ID)
	}
	for _, p := range players {
		if len(p.Submissions) != len(session.Questions) {
			t.Fatalf("player %s has %d slots, want %d", p.ID, len(p.Submissions), len(session.Questions))
		}
	}
	// Untouched questions surface as empty slots.
	if players[1].Submissions[0].Status != nil {
		t.Fatal("expected nil status on untouched slot")
	}
}
