package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"

	"github.com/Amit91848/Leetwars/internal/model"
)

type questionRepo struct {
	db bun.IDB
}

func (r *questionRepo) FilterByTags(ctx context.Context, selections []string) ([]model.Question, error) {
	var questions []model.Question
	err := r.db.NewSelect().
		Model(&questions).
		Where("q.tags && ?", pgdialect.Array(selections)).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return questions, nil
}

func (r *questionRepo) GetBySlug(ctx context.Context, slug string) (*model.Question, error) {
	question := new(model.Question)
	err := r.db.NewSelect().
		Model(question).
		Where("q.title_slug = ?", slug).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return question, nil
}

func (r *questionRepo) ListByRoom(ctx context.Context, roomID string) ([]model.Question, error) {
	var questions []model.Question
	err := r.db.NewSelect().
		Model(&questions).
		Join("INNER JOIN room_questions AS rq ON rq.question_id = q.id").
		Where("rq.room_id = ?", roomID).
		OrderExpr("rq.ordinal ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return questions, nil
}

func (r *questionRepo) CreateMany(ctx context.Context, questions []model.Question) error {
	if len(questions) == 0 {
		return nil
	}
	_, err := r.db.NewInsert().
		Model(&questions).
		On("CONFLICT (title_slug) DO NOTHING").
		Exec(ctx)
	return err
}
