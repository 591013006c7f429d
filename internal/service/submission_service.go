package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Amit91848/Leetwars/internal/cache"
	"github.com/Amit91848/Leetwars/internal/model"
	"github.com/Amit91848/Leetwars/internal/repository"
)

// SubmissionService records submission outcomes and detects room
// completion.
type SubmissionService struct {
	store       repository.Store
	sessions    cache.SessionCache
	now         func() time.Time
	broadcaster Broadcaster
}

func NewSubmissionService(store repository.Store, sessions cache.SessionCache) *SubmissionService {
	return &SubmissionService{
		store:    store,
		sessions: sessions,
		now:      time.Now,
	}
}

// SetBroadcaster sets the broadcaster for completion announcements.
func (s *SubmissionService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// SetClock is test-only.
func (s *SubmissionService) SetClock(now func() time.Time) {
	s.now = now
}

// RecordSubmission upserts the (user, question, room) submission row.
// Status is monotonic: once Accepted, later writes are no-ops. When an
// accepted write completes the user's full question set, a completion
// message with the elapsed solve time is broadcast to the room.
func (s *SubmissionService) RecordSubmission(ctx context.Context, userID, username string, status model.SubmissionStatus, titleSlug, url string) error {
	session, err := s.sessions.Get(ctx, userID)
	if err != nil {
		return fmt.Errorf("load room session: %w", err)
	}
	if session == nil {
		return ErrRoomNotFound
	}
	roomID := session.RoomID

	question, err := s.store.Questions().GetBySlug(ctx, titleSlug)
	if err != nil {
		return fmt.Errorf("resolve question: %w", err)
	}
	if question == nil {
		return fmt.Errorf("%w: %s", ErrQuestionNotFound, titleSlug)
	}

	existing, err := s.store.Submissions().Get(ctx, userID, question.ID, roomID)
	if err != nil {
		return fmt.Errorf("load submission: %w", err)
	}
	if existing != nil && existing.Status == model.StatusAccepted {
		return nil
	}

	submission := &model.Submission{
		UserID:     userID,
		QuestionID: question.ID,
		RoomID:     roomID,
		Status:     status,
		URL:        url,
		UpdatedAt:  s.now(),
	}
	if err := s.store.Submissions().Upsert(ctx, submission); err != nil {
		return fmt.Errorf("upsert submission: %w", err)
	}

	if status != model.StatusAccepted {
		return nil
	}

	allAccepted, err := s.allQuestionsAccepted(ctx, userID, roomID)
	if err != nil {
		return err
	}

	joinedAt, err := s.joinBaseline(ctx, session, userID, roomID)
	if err != nil {
		return err
	}
	solveTime := FormatSolveTime(submission.UpdatedAt.UnixMilli() - joinedAt.UnixMilli())

	if allAccepted && solveTime != "" && s.broadcaster != nil {
		s.broadcaster.Publish(roomID, model.NewMessage(
			username,
			fmt.Sprintf("completed the room in %s!", solveTime),
			model.EventComplete,
			session.UserColor,
		))
		log.Info().Str("roomId", roomID).Str("userId", userID).
			Str("solveTime", solveTime).Msg("user completed the room")
	}
	return nil
}

// allQuestionsAccepted reports whether every question in the room's fixed
// set has an Accepted submission for the user.
func (s *SubmissionService) allQuestionsAccepted(ctx context.Context, userID, roomID string) (bool, error) {
	questions, err := s.store.Questions().ListByRoom(ctx, roomID)
	if err != nil {
		return false, fmt.Errorf("load room questions: %w", err)
	}
	submissions, err := s.store.Submissions().ListByUserAndRoom(ctx, userID, roomID)
	if err != nil {
		return false, fmt.Errorf("load submissions: %w", err)
	}

	accepted := make(map[int64]bool, len(submissions))
	for _, sub := range submissions {
		if sub.Status == model.StatusAccepted {
			accepted[sub.QuestionID] = true
		}
	}
	for _, q := range questions {
		if !accepted[q.ID] {
			return false, nil
		}
	}
	return len(questions) > 0, nil
}

// joinBaseline prefers the membership row; the cached session keeps the
// same value but the row survives cache loss.
func (s *SubmissionService) joinBaseline(ctx context.Context, session *model.RoomSession, userID, roomID string) (time.Time, error) {
	membership, err := s.store.Memberships().Get(ctx, roomID, userID)
	if err != nil {
		return time.Time{}, fmt.Errorf("load membership: %w", err)
	}
	if membership != nil {
		return membership.JoinedAt, nil
	}
	return session.JoinedAt, nil
}
