package model

import "time"

// PlayerSubmission is one submission summary slot in a player snapshot.
// Status is nil when the player has not touched the question yet.
type PlayerSubmission struct {
	QuestionID int64             `json:"questionId"`
	Title      string            `json:"title"`
	TitleSlug  string            `json:"titleSlug"`
	Difficulty Difficulty        `json:"difficulty"`
	Status     *SubmissionStatus `json:"status"`
	UpdatedAt  *time.Time        `json:"updatedAt"`
	URL        string            `json:"url,omitempty"`
}

// PlayerWithSubmissions is the per-member leaderboard snapshot: identity,
// current-room pointer, join baseline and one slot per room question.
type PlayerWithSubmissions struct {
	ID          string             `json:"id"`
	Username    string             `json:"username"`
	RoomID      *string            `json:"roomId"`
	JoinedAt    time.Time          `json:"joinedAt"`
	Submissions []PlayerSubmission `json:"submissions"`
}
