package memory

import (
	"context"
	"sort"

	"github.com/Amit91848/Leetwars/internal/model"
)

type questionRepo struct{ s *Store }

func (r *questionRepo) FilterByTags(_ context.Context, selections []string) ([]model.Question, error) {
	defer r.s.lock()()
	wanted := make(map[string]struct{}, len(selections))
	for _, tag := range selections {
		wanted[tag] = struct{}{}
	}
	var out []model.Question
	for _, q := range r.s.state.questions {
		for _, tag := range q.Tags {
			if _, ok := wanted[tag]; ok {
				out = append(out, *q)
				break
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *questionRepo) GetBySlug(_ context.Context, slug string) (*model.Question, error) {
	defer r.s.lock()()
	for _, q := range r.s.state.questions {
		if q.TitleSlug == slug {
			cp := *q
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *questionRepo) ListByRoom(_ context.Context, roomID string) ([]model.Question, error) {
	defer r.s.lock()()
	var out []model.Question
	for _, rq := range r.s.state.roomQuestions[roomID] {
		if q, ok := r.s.state.questions[rq.QuestionID]; ok {
			out = append(out, *q)
		}
	}
	return out, nil
}

func (r *questionRepo) CreateMany(_ context.Context, questions []model.Question) error {
	defer r.s.lock()()
	for _, q := range questions {
		if q.ID == 0 {
			r.s.state.questionSeq++
			q.ID = r.s.state.questionSeq
		}
		cp := q
		r.s.state.questions[q.ID] = &cp
	}
	return nil
}

type roomRepo struct{ s *Store }

func (r *roomRepo) Create(_ context.Context, room *model.Room) error {
	defer r.s.lock()()
	cp := *room
	r.s.state.rooms[room.ID] = &cp
	return nil
}

func (r *roomRepo) GetByID(_ context.Context, id string) (*model.Room, error) {
	defer r.s.lock()()
	room, ok := r.s.state.rooms[id]
	if !ok {
		return nil, nil
	}
	cp := *room
	return &cp, nil
}

func (r *roomRepo) Delete(_ context.Context, id string) error {
	defer r.s.lock()()
	delete(r.s.state.rooms, id)
	delete(r.s.state.roomQuestions, id)
	delete(r.s.state.memberships, id)
	return nil
}

func (r *roomRepo) AddQuestions(_ context.Context, roomID string, questionIDs []int64) error {
	defer r.s.lock()()
	for i, id := range questionIDs {
		r.s.state.roomQuestions[roomID] = append(r.s.state.roomQuestions[roomID], model.RoomQuestion{
			RoomID:     roomID,
			QuestionID: id,
			Ordinal:    i,
		})
	}
	return nil
}

type userRepo struct{ s *Store }

func (r *userRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	defer r.s.lock()()
	user, ok := r.s.state.users[id]
	if !ok {
		return nil, nil
	}
	cp := *user
	return &cp, nil
}

func (r *userRepo) GetByUsername(_ context.Context, username string) (*model.User, error) {
	defer r.s.lock()()
	for _, user := range r.s.state.users {
		if user.Username == username {
			cp := *user
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *userRepo) Create(_ context.Context, user *model.User) error {
	defer r.s.lock()()
	cp := *user
	r.s.state.users[user.ID] = &cp
	return nil
}

func (r *userRepo) SetRoom(_ context.Context, userID string, roomID *string) error {
	defer r.s.lock()()
	if user, ok := r.s.state.users[userID]; ok {
		user.RoomID = roomID
	}
	return nil
}

func (r *userRepo) ClearRoom(_ context.Context, userID, roomID string) (bool, error) {
	defer r.s.lock()()
	user, ok := r.s.state.users[userID]
	if !ok || user.RoomID == nil || *user.RoomID != roomID {
		return false, nil
	}
	user.RoomID = nil
	return true, nil
}

func (r *userRepo) ListByRoom(_ context.Context, roomID string) ([]model.User, error) {
	defer r.s.lock()()
	var out []model.User
	for _, user := range r.s.state.users {
		if user.RoomID != nil && *user.RoomID == roomID {
			out = append(out, *user)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *userRepo) CountByRoom(_ context.Context, roomID string) (int, error) {
	defer r.s.lock()()
	count := 0
	for _, user := range r.s.state.users {
		if user.RoomID != nil && *user.RoomID == roomID {
			count++
		}
	}
	return count, nil
}

type membershipRepo struct{ s *Store }

func (r *membershipRepo) Get(_ context.Context, roomID, userID string) (*model.RoomUser, error) {
	defer r.s.lock()()
	if members, ok := r.s.state.memberships[roomID]; ok {
		if m, ok := members[userID]; ok {
			cp := *m
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *membershipRepo) Create(_ context.Context, membership *model.RoomUser) error {
	defer r.s.lock()()
	members, ok := r.s.state.memberships[membership.RoomID]
	if !ok {
		members = make(map[string]*model.RoomUser)
		r.s.state.memberships[membership.RoomID] = members
	}
	cp := *membership
	members[membership.UserID] = &cp
	return nil
}

func (r *membershipRepo) ListByRoom(_ context.Context, roomID string) ([]model.RoomUser, error) {
	defer r.s.lock()()
	var out []model.RoomUser
	for _, m := range r.s.state.memberships[roomID] {
		out = append(out, *m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

type submissionRepo struct{ s *Store }

func (r *submissionRepo) Get(_ context.Context, userID string, questionID int64, roomID string) (*model.Submission, error) {
	defer r.s.lock()()
	sub, ok := r.s.state.submissions[submissionKey{userID, questionID, roomID}]
	if !ok {
		return nil, nil
	}
	cp := *sub
	return &cp, nil
}

func (r *submissionRepo) Upsert(_ context.Context, submission *model.Submission) error {
	defer r.s.lock()()
	cp := *submission
	r.s.state.submissions[submissionKey{submission.UserID, submission.QuestionID, submission.RoomID}] = &cp
	return nil
}

func (r *submissionRepo) ListByRoom(_ context.Context, roomID string) ([]model.Submission, error) {
	defer r.s.lock()()
	var out []model.Submission
	for key, sub := range r.s.state.submissions {
		if key.RoomID == roomID {
			out = append(out, *sub)
		}
	}
	return out, nil
}

func (r *submissionRepo) ListByUserAndRoom(_ context.Context, userID, roomID string) ([]model.Submission, error) {
	defer r.s.lock()()
	var out []model.Submission
	for key, sub := range r.s.state.submissions {
		if key.RoomID == roomID && key.UserID == userID {
			out = append(out, *sub)
		}
	}
	return out, nil
}
