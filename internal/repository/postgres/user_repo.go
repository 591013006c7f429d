package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/uptrace/bun"

	"github.com/Amit91848/Leetwars/internal/model"
)

type userRepo struct {
	db bun.IDB
}

func (r *userRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	user := new(model.User)
	err := r.db.NewSelect().Model(user).Where("u.id = ?", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *userRepo) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	user := new(model.User)
	err := r.db.NewSelect().Model(user).Where("u.username = ?", username).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *userRepo) Create(ctx context.Context, user *model.User) error {
	_, err := r.db.NewInsert().Model(user).Exec(ctx)
	return err
}

func (r *userRepo) SetRoom(ctx context.Context, userID string, roomID *string) error {
	_, err := r.db.NewUpdate().
		Model((*model.User)(nil)).
		Set("room_id = ?", roomID).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", userID).
		Exec(ctx)
	return err
}

func (r *userRepo) ClearRoom(ctx context.Context, userID, roomID string) (bool, error) {
	res, err := r.db.NewUpdate().
		Model((*model.User)(nil)).
		Set("room_id = NULL").
		Set("updated_at = ?", time.Now()).
		Where("id = ? AND room_id = ?", userID, roomID).
		Exec(ctx)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (r *userRepo) ListByRoom(ctx context.Context, roomID string) ([]model.User, error) {
	var users []model.User
	err := r.db.NewSelect().Model(&users).Where("u.room_id = ?", roomID).Scan(ctx)
	if err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepo) CountByRoom(ctx context.Context, roomID string) (int, error) {
	return r.db.NewSelect().
		Model((*model.User)(nil)).
		Where("room_id = ?", roomID).
		Count(ctx)
}
