package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/uptrace/bun"

	"github.com/Amit91848/Leetwars/internal/model"
)

type roomRepo struct {
	db bun.IDB
}

func (r *roomRepo) Create(ctx context.Context, room *model.Room) error {
	_, err := r.db.NewInsert().Model(room).Exec(ctx)
	return err
}

func (r *roomRepo) GetByID(ctx context.Context, id string) (*model.Room, error) {
	room := new(model.Room)
	err := r.db.NewSelect().Model(room).Where("r.id = ?", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return room, nil
}

func (r *roomRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.db.NewDelete().
		Model((*model.RoomQuestion)(nil)).
		Where("room_id = ?", id).
		Exec(ctx); err != nil {
		return err
	}
	if _, err := r.db.NewDelete().
		Model((*model.RoomUser)(nil)).
		Where("room_id = ?", id).
		Exec(ctx); err != nil {
		return err
	}
	_, err := r.db.NewDelete().Model((*model.Room)(nil)).Where("id = ?", id).Exec(ctx)
	return err
}

func (r *roomRepo) AddQuestions(ctx context.Context, roomID string, questionIDs []int64) error {
	if len(questionIDs) == 0 {
		return nil
	}
	rows := make([]model.RoomQuestion, 0, len(questionIDs))
	for i, id := range questionIDs {
		rows = append(rows, model.RoomQuestion{RoomID: roomID, QuestionID: id, Ordinal: i})
	}
	_, err := r.db.NewInsert().Model(&rows).Exec(ctx)
	return err
}
