package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/uptrace/bun"

	"github.com/Amit91848/Leetwars/internal/model"
)

type membershipRepo struct {
	db bun.IDB
}

func (r *membershipRepo) Get(ctx context.Context, roomID, userID string) (*model.RoomUser, error) {
	membership := new(model.RoomUser)
	err := r.db.NewSelect().
		Model(membership).
		Where("ru.room_id = ? AND ru.user_id = ?", roomID, userID).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return membership, nil
}

func (r *membershipRepo) Create(ctx context.Context, membership *model.RoomUser) error {
	_, err := r.db.NewInsert().Model(membership).Exec(ctx)
	return err
}

func (r *membershipRepo) ListByRoom(ctx context.Context, roomID string) ([]model.RoomUser, error) {
	var memberships []model.RoomUser
	err := r.db.NewSelect().Model(&memberships).Where("ru.room_id = ?", roomID).Scan(ctx)
	if err != nil {
		return nil, err
	}
	return memberships, nil
}
