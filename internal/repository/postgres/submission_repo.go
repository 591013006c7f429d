package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/uptrace/bun"

	"github.com/Amit91848/Leetwars/internal/model"
)

type submissionRepo struct {
	db bun.IDB
}

func (r *submissionRepo) Get(ctx context.Context, userID string, questionID int64, roomID string) (*model.Submission, error) {
	submission := new(model.Submission)
	err := r.db.NewSelect().
		Model(submission).
		Where("s.user_id = ? AND s.question_id = ? AND s.room_id = ?", userID, questionID, roomID).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return submission, nil
}

func (r *submissionRepo) Upsert(ctx context.Context, submission *model.Submission) error {
	_, err := r.db.NewInsert().
		Model(submission).
		On("CONFLICT (user_id, question_id, room_id) DO UPDATE").
		Set("status = EXCLUDED.status").
		Set("url = EXCLUDED.url").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	return err
}

func (r *submissionRepo) ListByRoom(ctx context.Context, roomID string) ([]model.Submission, error) {
	var submissions []model.Submission
	err := r.db.NewSelect().Model(&submissions).Where("s.room_id = ?", roomID).Scan(ctx)
	if err != nil {
		return nil, err
	}
	return submissions, nil
}

func (r *submissionRepo) ListByUserAndRoom(ctx context.Context, userID, roomID string) ([]model.Submission, error) {
	var submissions []model.Submission
	err := r.db.NewSelect().
		Model(&submissions).
		Where("s.user_id = ? AND s.room_id = ?", userID, roomID).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return submissions, nil
}
