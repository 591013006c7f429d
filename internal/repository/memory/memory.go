// Package memory is a mutex-guarded repository.Store used by the service
// tests and by serve when no Postgres DSN is configured.
package memory

import (
	"context"
	"sync"

	"github.com/Amit91848/Leetwars/internal/model"
	"github.com/Amit91848/Leetwars/internal/repository"
)

type submissionKey struct {
	UserID     string
	QuestionID int64
	RoomID     string
}

type state struct {
	users         map[string]*model.User
	questions     map[int64]*model.Question
	questionSeq   int64
	rooms         map[string]*model.Room
	roomQuestions map[string][]model.RoomQuestion
	memberships   map[string]map[string]*model.RoomUser
	submissions   map[submissionKey]*model.Submission
}

func newState() *state {
	return &state{
		users:         make(map[string]*model.User),
		questions:     make(map[int64]*model.Question),
		rooms:         make(map[string]*model.Room),
		roomQuestions: make(map[string][]model.RoomQuestion),
		memberships:   make(map[string]map[string]*model.RoomUser),
		submissions:   make(map[submissionKey]*model.Submission),
	}
}

func (s *state) clone() *state {
	c := newState()
	c.questionSeq = s.questionSeq
	for id, u := range s.users {
		cp := *u
		c.users[id] = &cp
	}
	for id, q := range s.questions {
		cp := *q
		c.questions[id] = &cp
	}
	for id, r := range s.rooms {
		cp := *r
		c.rooms[id] = &cp
	}
	for id, rqs := range s.roomQuestions {
		c.roomQuestions[id] = append([]model.RoomQuestion(nil), rqs...)
	}
	for roomID, members := range s.memberships {
		cp := make(map[string]*model.RoomUser, len(members))
		for userID, m := range members {
			mc := *m
			cp[userID] = &mc
		}
		c.memberships[roomID] = cp
	}
	for key, sub := range s.submissions {
		cp := *sub
		c.submissions[key] = &cp
	}
	return c
}

// Store implements repository.Store over process memory. Transactions take
// a snapshot of the whole state and restore it when fn fails.
type Store struct {
	mu    *sync.Mutex
	state *state
	inTx  bool
}

func NewStore() *Store {
	return &Store{mu: &sync.Mutex{}, state: newState()}
}

func (s *Store) lock() func() {
	if s.inTx {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func (s *Store) Questions() repository.QuestionRepo     { return &questionRepo{s} }
func (s *Store) Rooms() repository.RoomRepo             { return &roomRepo{s} }
func (s *Store) Users() repository.UserRepo             { return &userRepo{s} }
func (s *Store) Memberships() repository.MembershipRepo { return &membershipRepo{s} }
func (s *Store) Submissions() repository.SubmissionRepo { return &submissionRepo{s} }

func (s *Store) RunInTx(ctx context.Context, fn func(ctx context.Context, tx repository.Store) error) error {
	if s.inTx {
		return fn(ctx, s)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	backup := s.state.clone()
	tx := &Store{mu: s.mu, state: s.state, inTx: true}
	if err := fn(ctx, tx); err != nil {
		s.state = backup
		return err
	}
	return nil
}
