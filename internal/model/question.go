package model

import "github.com/uptrace/bun"

// Difficulty is a LeetCode question difficulty bucket.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
)

// Question is read-only catalog data describing one question.
type Question struct {
	bun.BaseModel `bun:"table:questions,alias:q" json:"-"`

	ID         int64      `json:"id" bun:"id,pk,autoincrement"`
	Title      string     `json:"title" bun:"title,notnull"`
	TitleSlug  string     `json:"titleSlug" bun:"title_slug,notnull,unique"`
	Difficulty Difficulty `json:"difficulty" bun:"difficulty,notnull"`
	Tags       []string   `json:"tags" bun:"tags,array"`
}

// DifficultyFlags is the subset of difficulties a room creator opted into.
type DifficultyFlags struct {
	Easy   bool `json:"Easy"`
	Medium bool `json:"Medium"`
	Hard   bool `json:"Hard"`
}

// Any reports whether at least one difficulty is selected.
func (f DifficultyFlags) Any() bool {
	return f.Easy || f.Medium || f.Hard
}
