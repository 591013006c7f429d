package service

import (
	"context"
	"fmt"
	mathrand "math/rand"

	"github.com/rs/zerolog/log"

	"github.com/Amit91848/Leetwars/internal/cache"
	"github.com/Amit91848/Leetwars/internal/model"
	"github.com/Amit91848/Leetwars/internal/repository"
)

// SessionService serves the bootstrap view clients load on page refresh:
// who the user is plus their active room, if any.
type SessionService struct {
	store    repository.Store
	sessions cache.SessionCache
	rng      *mathrand.Rand
}

func NewSessionService(store repository.Store, sessions cache.SessionCache, rng *mathrand.Rand) *SessionService {
	return &SessionService{store: store, sessions: sessions, rng: rng}
}

// GetSession returns the user's profile and room session. A cache miss
// while the user's room pointer is set rebuilds the session from storage
// and re-caches it, so a cache flush does not log players out of rooms.
func (s *SessionService) GetSession(ctx context.Context, userID string) (*model.SessionResponse, error) {
	user, err := s.store.Users().GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if user == nil {
		return nil, ErrUnauthenticated
	}

	resp := &model.SessionResponse{
		Username: user.Username,
		Provider: user.Provider,
		Picture:  user.Picture,
	}
	if user.RoomID == nil {
		return resp, nil
	}

	session, err := s.sessions.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load room session: %w", err)
	}
	if session == nil {
		session, err = s.rebuildSession(ctx, userID, *user.RoomID)
		if err != nil {
			return nil, err
		}
	}
	resp.Room = session
	return resp, nil
}

func (s *SessionService) rebuildSession(ctx context.Context, userID, roomID string) (*model.RoomSession, error) {
	room, err := s.store.Rooms().GetByID(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("load room: %w", err)
	}
	if room == nil {
		return nil, fmt.Errorf("%w: %s", ErrRoomNotFound, roomID)
	}

	questions, err := s.store.Questions().ListByRoom(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("load room questions: %w", err)
	}
	membership, err := s.store.Memberships().Get(ctx, roomID, userID)
	if err != nil {
		return nil, fmt.Errorf("load membership: %w", err)
	}
	if membership == nil {
		return nil, ErrNotInRoom
	}

	session := &model.RoomSession{
		RoomID:    roomID,
		Questions: questions,
		UserColor: randomUserColor(s.rng),
		Duration:  room.Duration,
		CreatedAt: room.CreatedAt,
		JoinedAt:  membership.JoinedAt,
	}
	if err := s.sessions.Set(ctx, userID, session); err != nil {
		return nil, fmt.Errorf("cache room session: %w", err)
	}
	log.Info().Str("roomId", roomID).Str("userId", userID).Msg("rebuilt room session from storage")
	return session, nil
}
