package model

import (
	"time"

	"github.com/uptrace/bun"
)

// SubmissionStatus is the outcome of a submission attempt. Accepted is
// terminal per (user, question, room).
type SubmissionStatus string

const (
	StatusAttempted SubmissionStatus = "Attempted"
	StatusAccepted  SubmissionStatus = "Accepted"
)

// Submission records the best-known outcome for one (user, question, room)
// triple. Born at first attempt, mutated in place, never deleted.
type Submission struct {
	bun.BaseModel `bun:"table:submissions,alias:s" json:"-"`

	UserID     string           `json:"userId" bun:"user_id,pk"`
	QuestionID int64            `json:"questionId" bun:"question_id,pk"`
	RoomID     string           `json:"roomId" bun:"room_id,pk"`
	Status     SubmissionStatus `json:"status" bun:"status,notnull"`
	URL        string           `json:"url" bun:"url"`
	UpdatedAt  time.Time        `json:"updatedAt" bun:"updated_at,notnull,default:current_timestamp"`
}
