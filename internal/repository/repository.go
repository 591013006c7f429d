package repository

import (
	"context"

	"github.com/Amit91848/Leetwars/internal/model"
)

// Read/lookup methods return (nil, nil) when the row does not exist.

type QuestionRepo interface {
	// FilterByTags returns catalog questions whose tag set intersects
	// selections (hasSome semantics).
	FilterByTags(ctx context.Context, selections []string) ([]model.Question, error)
	GetBySlug(ctx context.Context, slug string) (*model.Question, error)
	// ListByRoom returns a room's fixed question set in allocation order.
	ListByRoom(ctx context.Context, roomID string) ([]model.Question, error)
	CreateMany(ctx context.Context, questions []model.Question) error
}

type RoomRepo interface {
	Create(ctx context.Context, room *model.Room) error
	GetByID(ctx context.Context, id string) (*model.Room, error)
	// Delete cascades the room's question associations.
	Delete(ctx context.Context, id string) error
	AddQuestions(ctx context.Context, roomID string, questionIDs []int64) error
}

type UserRepo interface {
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	Create(ctx context.Context, user *model.User) error
	// SetRoom updates the current-room pointer; nil clears it.
	SetRoom(ctx context.Context, userID string, roomID *string) error
	// ClearRoom nulls the pointer only while it still references roomID
	// and reports whether a row changed, so concurrent exits cannot both
	// observe the same departure.
	ClearRoom(ctx context.Context, userID, roomID string) (bool, error)
	ListByRoom(ctx context.Context, roomID string) ([]model.User, error)
	CountByRoom(ctx context.Context, roomID string) (int, error)
}

type MembershipRepo interface {
	Get(ctx context.Context, roomID, userID string) (*model.RoomUser, error)
	Create(ctx context.Context, membership *model.RoomUser) error
	ListByRoom(ctx context.Context, roomID string) ([]model.RoomUser, error)
}

type SubmissionRepo interface {
	Get(ctx context.Context, userID string, questionID int64, roomID string) (*model.Submission, error)
	Upsert(ctx context.Context, submission *model.Submission) error
	ListByRoom(ctx context.Context, roomID string) ([]model.Submission, error)
	ListByUserAndRoom(ctx context.Context, userID, roomID string) ([]model.Submission, error)
}

// Store bundles the repositories behind one transactional boundary. Room
// mutation sequences run inside RunInTx so concurrent readers never observe
// half-applied state.
type Store interface {
	Questions() QuestionRepo
	Rooms() RoomRepo
	Users() UserRepo
	Memberships() MembershipRepo
	Submissions() SubmissionRepo

	// RunInTx executes fn against a transaction-scoped Store and rolls the
	// whole unit back if fn returns an error.
	RunInTx(ctx context.Context, fn func(ctx context.Context, tx Store) error) error
}
