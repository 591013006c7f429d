package model

import (
	"time"

	"github.com/uptrace/bun"
)

// QuestionFilterKind selects how the question catalog is filtered at room
// creation. Topics is the only supported kind.
type QuestionFilterKind string

const FilterKindTopics QuestionFilterKind = "topics"

// QuestionFilter narrows the catalog before allocation.
type QuestionFilter struct {
	Kind       QuestionFilterKind `json:"kind"`
	Selections []string           `json:"selections"`
}

// RoomSettings is the client-supplied configuration for a new room.
type RoomSettings struct {
	QuestionFilter QuestionFilter  `json:"questionFilter"`
	Difficulty     DifficultyFlags `json:"difficulty"`
	// Duration is in minutes; nil means untimed.
	Duration *int `json:"duration"`
}

// Room is a shared session of users solving the same fixed question set.
// Born at creation, deleted when the last member exits.
type Room struct {
	bun.BaseModel `bun:"table:rooms,alias:r" json:"-"`

	ID                       string             `json:"id" bun:"id,pk"`
	QuestionFilterKind       QuestionFilterKind `json:"questionFilterKind" bun:"question_filter_kind,notnull"`
	QuestionFilterSelections []string           `json:"questionFilterSelections" bun:"question_filter_selections,array"`
	Duration                 *int               `json:"duration" bun:"duration"`
	CreatedAt                time.Time          `json:"createdAt" bun:"created_at,notnull,default:current_timestamp"`
}

// RoomQuestion associates a room with one question of its fixed set.
// Immutable after room creation.
type RoomQuestion struct {
	bun.BaseModel `bun:"table:room_questions,alias:rq" json:"-"`

	RoomID     string `bun:"room_id,pk"`
	QuestionID int64  `bun:"question_id,pk"`
	// Ordinal preserves allocation order; the leaderboard displays
	// submissions in this order.
	Ordinal int `bun:"ordinal,notnull"`
}

// RoomUser is the membership relation. JoinedAt is fixed at first join and
// never touched on re-entry to the same room.
type RoomUser struct {
	bun.BaseModel `bun:"table:room_users,alias:ru" json:"-"`

	RoomID   string    `bun:"room_id,pk"`
	UserID   string    `bun:"user_id,pk"`
	JoinedAt time.Time `bun:"joined_at,notnull,default:current_timestamp"`
}
