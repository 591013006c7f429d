package postgres

import (
	"context"
	"database/sql"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	"github.com/Amit91848/Leetwars/internal/model"
	"github.com/Amit91848/Leetwars/internal/repository"
)

// NewDB opens a bun handle over the Postgres DSN.
func NewDB(dsn string) *bun.DB {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	return bun.NewDB(sqldb, pgdialect.New())
}

// Store is the Postgres-backed repository.Store. It wraps either the root
// *bun.DB or, inside RunInTx, a bun.Tx.
type Store struct {
	db bun.IDB
}

func NewStore(db *bun.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Questions() repository.QuestionRepo     { return &questionRepo{db: s.db} }
func (s *Store) Rooms() repository.RoomRepo             { return &roomRepo{db: s.db} }
func (s *Store) Users() repository.UserRepo             { return &userRepo{db: s.db} }
func (s *Store) Memberships() repository.MembershipRepo { return &membershipRepo{db: s.db} }
func (s *Store) Submissions() repository.SubmissionRepo { return &submissionRepo{db: s.db} }

func (s *Store) RunInTx(ctx context.Context, fn func(ctx context.Context, tx repository.Store) error) error {
	db, ok := s.db.(*bun.DB)
	if !ok {
		// Already transaction-scoped; reuse the surrounding transaction.
		return fn(ctx, s)
	}
	return db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		return fn(ctx, &Store{db: tx})
	})
}

// CreateSchema creates all tables if they do not exist yet. Used by the
// seed command and on startup.
func CreateSchema(ctx context.Context, db *bun.DB) error {
	models := []interface{}{
		(*model.User)(nil),
		(*model.Question)(nil),
		(*model.Room)(nil),
		(*model.RoomQuestion)(nil),
		(*model.RoomUser)(nil),
		(*model.Submission)(nil),
	}
	for _, m := range models {
		if _, err := db.NewCreateTable().Model(m).IfNotExists().Exec(ctx); err != nil {
			return err
		}
	}
	return nil
}
