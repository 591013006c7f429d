package service

import (
	"sort"

	"github.com/Amit91848/Leetwars/internal/model"
)

// SortSubmissionsByQuestionOrder reorders each player's submission slots to
// match the room's fixed question order, dropping slots for questions not
// in that order. Display-only; the ranking itself is order-insensitive.
func SortSubmissionsByQuestionOrder(players []model.PlayerWithSubmissions, questions []model.Question) []model.PlayerWithSubmissions {
	out := make([]model.PlayerWithSubmissions, 0, len(players))
	for _, player := range players {
		sorted := make([]model.PlayerSubmission, 0, len(questions))
		for _, question := range questions {
			for _, submission := range player.Submissions {
				if submission.TitleSlug == question.TitleSlug {
					sorted = append(sorted, submission)
					break
				}
			}
		}
		player.Submissions = sorted
		out = append(out, player)
	}
	return out
}

// RankPlayers orders players by accepted count desc, then attempted-or-
// accepted count desc, then total solve time asc. The sort is stable, so
// players indistinguishable by all three criteria keep their input order.
func RankPlayers(players []model.PlayerWithSubmissions) []model.PlayerWithSubmissions {
	ranked := make([]model.PlayerWithSubmissions, len(players))
	copy(ranked, players)

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]

		aAccepted := acceptedCount(a)
		bAccepted := acceptedCount(b)
		if aAccepted != bAccepted {
			return aAccepted > bAccepted
		}

		aSubmitted := submittedCount(a)
		bSubmitted := submittedCount(b)
		if aSubmitted != bSubmitted {
			return aSubmitted > bSubmitted
		}

		return totalSolveMillis(a) < totalSolveMillis(b)
	})
	return ranked
}

func acceptedCount(player model.PlayerWithSubmissions) int {
	count := 0
	for _, s := range player.Submissions {
		if s.Status != nil && *s.Status == model.StatusAccepted && s.UpdatedAt != nil {
			count++
		}
	}
	return count
}

func submittedCount(player model.PlayerWithSubmissions) int {
	count := 0
	for _, s := range player.Submissions {
		if s.Status != nil {
			count++
		}
	}
	return count
}

// totalSolveMillis sums accepted solve times against the player's own join
// baseline. Players with no accepted submissions contribute 0.
func totalSolveMillis(player model.PlayerWithSubmissions) int64 {
	var total int64
	for _, s := range player.Submissions {
		if s.Status != nil && *s.Status == model.StatusAccepted && s.UpdatedAt != nil {
			total += s.UpdatedAt.UnixMilli() - player.JoinedAt.UnixMilli()
		}
	}
	return total
}
