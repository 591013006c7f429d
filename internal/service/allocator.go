package service

import (
	"math/rand"

	"github.com/Amit91848/Leetwars/internal/model"
)

// roomQuestionTarget is how many questions a room aims for. Pools smaller
// than the quotas yield fewer questions; that is valid output, not an error.
const roomQuestionTarget = 4

type difficultyQuota struct {
	Easy   int
	Medium int
	Hard   int
}

// AllocateQuestions picks a balanced random selection from the
// per-difficulty candidate pools. rng is injectable so selection is
// reproducible in tests.
func AllocateQuestions(flags model.DifficultyFlags, easy, medium, hard []model.Question, rng *rand.Rand) []model.Question {
	quota := questionsPerDifficulty(flags, len(easy), len(medium), len(hard))

	selected := sampleQuestions(easy, quota.Easy, rng)
	selected = append(selected, sampleQuestions(medium, quota.Medium, rng)...)
	selected = append(selected, sampleQuestions(hard, quota.Hard, rng)...)
	return selected
}

// questionsPerDifficulty applies the fixed policy table, then shifts any
// pool's shortfall onto one other active pool with spare capacity. A
// deficit that no pool can absorb is dropped.
func questionsPerDifficulty(flags model.DifficultyFlags, easyCount, mediumCount, hardCount int) difficultyQuota {
	switch {
	case flags.Easy && flags.Medium && flags.Hard:
		quota := difficultyQuota{Easy: 1, Medium: 2, Hard: 1}

		if easyCount < quota.Easy {
			diff := quota.Easy - easyCount
			quota.Easy = easyCount
			if mediumCount >= quota.Medium+diff {
				quota.Medium += diff
			} else if hardCount >= quota.Hard+diff {
				quota.Hard += diff
			}
		}
		if mediumCount < quota.Medium {
			diff := quota.Medium - mediumCount
			quota.Medium = mediumCount
			if easyCount >= quota.Easy+diff {
				quota.Easy += diff
			} else if hardCount >= quota.Hard+diff {
				quota.Hard += diff
			}
		}
		if hardCount < quota.Hard {
			diff := quota.Hard - hardCount
			quota.Hard = hardCount
			if easyCount >= quota.Easy+diff {
				quota.Easy += diff
			} else if mediumCount >= quota.Medium+diff {
				quota.Medium += diff
			}
		}
		return quota

	case flags.Easy && flags.Medium:
		quota := difficultyQuota{Easy: 2, Medium: 2}

		if easyCount < quota.Easy {
			diff := quota.Easy - easyCount
			quota.Easy = easyCount
			if mediumCount >= quota.Medium+diff {
				quota.Medium += diff
			}
		}
		if mediumCount < quota.Medium {
			diff := quota.Medium - mediumCount
			quota.Medium = mediumCount
			if easyCount >= quota.Easy+diff {
				quota.Easy += diff
			}
		}
		return quota

	case flags.Easy && flags.Hard:
		quota := difficultyQuota{Easy: 2, Hard: 2}

		if easyCount < quota.Easy {
			diff := quota.Easy - easyCount
			quota.Easy = easyCount
			if hardCount >= quota.Hard+diff {
				quota.Hard += diff
			}
		}
		if hardCount < quota.Hard {
			diff := quota.Hard - hardCount
			quota.Hard = hardCount
			if easyCount >= quota.Easy+diff {
				quota.Easy += diff
			}
		}
		return quota

	case flags.Medium && flags.Hard:
		quota := difficultyQuota{Medium: 2, Hard: 2}

		if mediumCount < quota.Medium {
			diff := quota.Medium - mediumCount
			quota.Medium = mediumCount
			if hardCount >= quota.Hard+diff {
				quota.Hard += diff
			}
		}
		if hardCount < quota.Hard {
			diff := quota.Hard - hardCount
			quota.Hard = hardCount
			if mediumCount >= quota.Medium+diff {
				quota.Medium += diff
			}
		}
		return quota

	case flags.Easy:
		return difficultyQuota{Easy: roomQuestionTarget}
	case flags.Medium:
		return difficultyQuota{Medium: roomQuestionTarget}
	case flags.Hard:
		return difficultyQuota{Hard: roomQuestionTarget}
	}
	return difficultyQuota{}
}

// sampleQuestions draws a uniform random sample of size n without
// replacement.
func sampleQuestions(pool []model.Question, n int, rng *rand.Rand) []model.Question {
	if n > len(pool) {
		n = len(pool)
	}
	if n <= 0 {
		return nil
	}
	out := make([]model.Question, 0, n)
	for _, i := range rng.Perm(len(pool))[:n] {
		out = append(out, pool[i])
	}
	return out
}
