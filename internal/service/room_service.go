package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	mathrand "math/rand"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Amit91848/Leetwars/internal/cache"
	"github.com/Amit91848/Leetwars/internal/model"
	"github.com/Amit91848/Leetwars/internal/repository"
)

// PresenceReleaser tears down a user's presence timers on room exit.
// Implemented by PresenceCoordinator; kept as an interface so the exit path
// stays testable without timers.
type PresenceReleaser interface {
	Release(userID string)
}

// RoomService owns room create/join/exit transactions and the player
// snapshot read.
type RoomService struct {
	store       repository.Store
	sessions    cache.SessionCache
	rng         *mathrand.Rand
	now         func() time.Time
	broadcaster Broadcaster
	presence    PresenceReleaser
}

func NewRoomService(store repository.Store, sessions cache.SessionCache, rng *mathrand.Rand) *RoomService {
	return &RoomService{
		store:    store,
		sessions: sessions,
		rng:      rng,
		now:      time.Now,
	}
}

// SetBroadcaster sets the broadcaster for chat fan-out.
func (s *RoomService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// SetPresence sets the presence coordinator released on exit.
func (s *RoomService) SetPresence(p PresenceReleaser) {
	s.presence = p
}

// SetClock is test-only.
func (s *RoomService) SetClock(now func() time.Time) {
	s.now = now
}

// pendingMessage defers broadcasts until the surrounding transaction has
// committed, so a rollback never leaks a phantom join/leave.
type pendingMessage struct {
	channel string
	message model.Message
}

func (s *RoomService) publishAll(pending []pendingMessage) {
	if s.broadcaster == nil {
		return
	}
	for _, p := range pending {
		s.broadcaster.Publish(p.channel, p.message)
	}
}

// CreateRoom allocates a question set for the filter, persists the room,
// attaches the creating user and returns their session view.
func (s *RoomService) CreateRoom(ctx context.Context, userID, username string, settings model.RoomSettings) (*model.RoomSession, error) {
	if settings.QuestionFilter.Kind != model.FilterKindTopics {
		return nil, fmt.Errorf("%w: %s", ErrInvalidFilter, settings.QuestionFilter.Kind)
	}

	var session *model.RoomSession
	err := s.store.RunInTx(ctx, func(ctx context.Context, tx repository.Store) error {
		filtered, err := tx.Questions().FilterByTags(ctx, settings.QuestionFilter.Selections)
		if err != nil {
			return fmt.Errorf("filter questions: %w", err)
		}

		var easy, medium, hard []model.Question
		for _, q := range filtered {
			switch q.Difficulty {
			case model.DifficultyEasy:
				easy = append(easy, q)
			case model.DifficultyMedium:
				medium = append(medium, q)
			case model.DifficultyHard:
				hard = append(hard, q)
			}
		}

		selected := AllocateQuestions(settings.Difficulty, easy, medium, hard, s.rng)

		roomID, err := generateRoomID()
		if err != nil {
			return fmt.Errorf("generate room id: %w", err)
		}

		room := &model.Room{
			ID:                       roomID,
			QuestionFilterKind:       settings.QuestionFilter.Kind,
			QuestionFilterSelections: settings.QuestionFilter.Selections,
			Duration:                 settings.Duration,
			CreatedAt:                s.now(),
		}
		if err := tx.Rooms().Create(ctx, room); err != nil {
			return fmt.Errorf("create room: %w", err)
		}

		questionIDs := make([]int64, 0, len(selected))
		for _, q := range selected {
			questionIDs = append(questionIDs, q.ID)
		}
		if err := tx.Rooms().AddQuestions(ctx, roomID, questionIDs); err != nil {
			return fmt.Errorf("attach questions: %w", err)
		}

		if err := tx.Users().SetRoom(ctx, userID, &roomID); err != nil {
			return fmt.Errorf("set room pointer: %w", err)
		}

		membership := &model.RoomUser{RoomID: roomID, UserID: userID, JoinedAt: s.now()}
		if err := tx.Memberships().Create(ctx, membership); err != nil {
			return fmt.Errorf("create membership: %w", err)
		}

		session = &model.RoomSession{
			RoomID:    roomID,
			Questions: selected,
			UserColor: randomUserColor(s.rng),
			Duration:  settings.Duration,
			CreatedAt: room.CreatedAt,
			JoinedAt:  membership.JoinedAt,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.sessions.Set(ctx, userID, session); err != nil {
		return nil, fmt.Errorf("cache room session: %w", err)
	}

	s.publishAll([]pendingMessage{{
		channel: session.RoomID,
		message: model.NewMessage(username, " joined the room!", model.EventJoin, session.UserColor),
	}})

	log.Info().Str("roomId", session.RoomID).Str("userId", userID).
		Int("questions", len(session.Questions)).Msg("room created")
	return session, nil
}

// JoinRoomByID attaches the user to an existing room. The question set is
// the one fixed at creation; re-entry keeps the original joinedAt baseline.
// If the user is currently in a different room, the previous room's full
// exit side effects run first inside the same transaction.
func (s *RoomService) JoinRoomByID(ctx context.Context, userID, username, roomID string) (*model.RoomSession, error) {
	var session *model.RoomSession
	var pending []pendingMessage
	err := s.store.RunInTx(ctx, func(ctx context.Context, tx repository.Store) error {
		room, err := tx.Rooms().GetByID(ctx, roomID)
		if err != nil {
			return fmt.Errorf("load room: %w", err)
		}
		if room == nil {
			return fmt.Errorf("%w: %s", ErrRoomNotFound, roomID)
		}

		user, err := tx.Users().GetByID(ctx, userID)
		if err != nil {
			return fmt.Errorf("load user: %w", err)
		}
		if user == nil {
			return ErrUnauthenticated
		}

		if user.RoomID != nil && *user.RoomID != roomID {
			left, err := s.exitInTx(ctx, tx, user, username)
			if err != nil && !errors.Is(err, ErrNotInRoom) {
				return err
			}
			pending = append(pending, left...)
		}

		questions, err := tx.Questions().ListByRoom(ctx, roomID)
		if err != nil {
			return fmt.Errorf("load room questions: %w", err)
		}

		if err := tx.Users().SetRoom(ctx, userID, &roomID); err != nil {
			return fmt.Errorf("set room pointer: %w", err)
		}

		membership, err := tx.Memberships().Get(ctx, roomID, userID)
		if err != nil {
			return fmt.Errorf("load membership: %w", err)
		}
		if membership == nil {
			membership = &model.RoomUser{RoomID: roomID, UserID: userID, JoinedAt: s.now()}
			if err := tx.Memberships().Create(ctx, membership); err != nil {
				return fmt.Errorf("create membership: %w", err)
			}
		}

		session = &model.RoomSession{
			RoomID:    roomID,
			Questions: questions,
			UserColor: randomUserColor(s.rng),
			Duration:  room.Duration,
			CreatedAt: room.CreatedAt,
			JoinedAt:  membership.JoinedAt,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.sessions.Set(ctx, userID, session); err != nil {
		return nil, fmt.Errorf("cache room session: %w", err)
	}

	pending = append(pending, pendingMessage{
		channel: roomID,
		message: model.NewMessage(username, " joined the room!", model.EventJoin, session.UserColor),
	})
	s.publishAll(pending)

	log.Info().Str("roomId", roomID).Str("userId", userID).Msg("user joined room")
	return session, nil
}

// ExitRoom clears the user's room pointer, deletes the room when it was the
// last member, and announces the departure. A second invocation for an
// already-exited user returns ErrNotInRoom and broadcasts nothing, which
// timer callbacks treat as benign.
func (s *RoomService) ExitRoom(ctx context.Context, userID, username string) error {
	var pending []pendingMessage
	err := s.store.RunInTx(ctx, func(ctx context.Context, tx repository.Store) error {
		user, err := tx.Users().GetByID(ctx, userID)
		if err != nil {
			return fmt.Errorf("load user: %w", err)
		}
		if user == nil || user.RoomID == nil {
			return ErrNotInRoom
		}
		pending, err = s.exitInTx(ctx, tx, user, username)
		return err
	})
	if err != nil {
		return err
	}

	if err := s.sessions.Delete(ctx, userID); err != nil {
		log.Warn().Err(err).Str("userId", userID).Msg("failed to drop cached room session")
	}
	if s.presence != nil {
		s.presence.Release(userID)
	}
	s.publishAll(pending)

	log.Info().Str("userId", userID).Msg("user exited room")
	return nil
}

// exitInTx performs the storage side of an exit against an open
// transaction and returns the broadcast to emit after commit. The pointer
// clear is conditional on the room read earlier in the transaction; when a
// concurrent exit got there first, that transaction owns the leave
// broadcast and this one returns ErrNotInRoom.
func (s *RoomService) exitInTx(ctx context.Context, tx repository.Store, user *model.User, username string) ([]pendingMessage, error) {
	roomID := *user.RoomID

	cleared, err := tx.Users().ClearRoom(ctx, user.ID, roomID)
	if err != nil {
		return nil, fmt.Errorf("clear room pointer: %w", err)
	}
	if !cleared {
		return nil, ErrNotInRoom
	}

	remaining, err := tx.Users().CountByRoom(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("count members: %w", err)
	}
	if remaining == 0 {
		if err := tx.Rooms().Delete(ctx, roomID); err != nil {
			return nil, fmt.Errorf("delete empty room: %w", err)
		}
		log.Info().Str("roomId", roomID).Msg("deleted empty room")
	}

	return []pendingMessage{{
		channel: roomID,
		message: model.NewMessage(username, " left the room!", model.EventLeave, randomUserColor(s.rng)),
	}}, nil
}

// GetPlayers returns the room's ranked scoreboard snapshot: one entry per
// membership row, one submission slot per room question (status absent
// when untouched).
func (s *RoomService) GetPlayers(ctx context.Context, userID string) ([]model.PlayerWithSubmissions, error) {
	roomID, err := s.currentRoomID(ctx, userID)
	if err != nil {
		return nil, err
	}

	questions, err := s.store.Questions().ListByRoom(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("load room questions: %w", err)
	}
	memberships, err := s.store.Memberships().ListByRoom(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("load memberships: %w", err)
	}
	submissions, err := s.store.Submissions().ListByRoom(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("load submissions: %w", err)
	}

	type subKey struct {
		userID     string
		questionID int64
	}
	byUserQuestion := make(map[subKey]model.Submission, len(submissions))
	for _, sub := range submissions {
		byUserQuestion[subKey{sub.UserID, sub.QuestionID}] = sub
	}

	players := make([]model.PlayerWithSubmissions, 0, len(memberships))
	for _, membership := range memberships {
		user, err := s.store.Users().GetByID(ctx, membership.UserID)
		if err != nil {
			return nil, fmt.Errorf("load member: %w", err)
		}
		if user == nil {
			continue
		}

		slots := make([]model.PlayerSubmission, 0, len(questions))
		for _, q := range questions {
			slot := model.PlayerSubmission{
				QuestionID: q.ID,
				Title:      q.Title,
				TitleSlug:  q.TitleSlug,
				Difficulty: q.Difficulty,
			}
			if sub, ok := byUserQuestion[subKey{user.ID, q.ID}]; ok {
				status := sub.Status
				updatedAt := sub.UpdatedAt
				slot.Status = &status
				slot.UpdatedAt = &updatedAt
				slot.URL = sub.URL
			}
			slots = append(slots, slot)
		}

		players = append(players, model.PlayerWithSubmissions{
			ID:          user.ID,
			Username:    user.Username,
			RoomID:      user.RoomID,
			JoinedAt:    membership.JoinedAt,
			Submissions: slots,
		})
	}

	return RankPlayers(SortSubmissionsByQuestionOrder(players, questions)), nil
}

// currentRoomID resolves the caller's room from the session cache, falling
// back to the store pointer.
func (s *RoomService) currentRoomID(ctx context.Context, userID string) (string, error) {
	session, err := s.sessions.Get(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("load room session: %w", err)
	}
	if session != nil {
		return session.RoomID, nil
	}
	user, err := s.store.Users().GetByID(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("load user: %w", err)
	}
	if user == nil || user.RoomID == nil {
		return "", ErrRoomNotFound
	}
	return *user.RoomID, nil
}

// roomIDAlphabet matches the id shape rooms have always had: 10 URL-safe
// characters.
const roomIDAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_"

const roomIDLength = 10

func generateRoomID() (string, error) {
	buf := make([]byte, roomIDLength)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	id := make([]byte, roomIDLength)
	for i := range id {
		id[i] = roomIDAlphabet[int(buf[i])%len(roomIDAlphabet)]
	}
	return string(id), nil
}
