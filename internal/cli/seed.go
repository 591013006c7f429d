package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/Amit91848/Leetwars/internal/config"
	applog "github.com/Amit91848/Leetwars/internal/log"
	"github.com/Amit91848/Leetwars/internal/model"
	"github.com/Amit91848/Leetwars/internal/repository/postgres"
)

// NewSeedCmd builds the CLI subcommand that loads a question catalog into
// the database.
func NewSeedCmd(configPath *string) *cobra.Command {
	var catalogPath string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load the question catalog into the database",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd.Context(), *configPath, catalogPath)
		},
	}
	cmd.Flags().StringVar(&catalogPath, "catalog", "config/questions.json", "path to the question catalog JSON")
	return cmd
}

func runSeed(ctx context.Context, configPath, catalogPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	applog.Init(cfg.Env)

	if cfg.Postgres.DSN == "" {
		return fmt.Errorf("seed requires a postgres dsn")
	}

	data, err := os.ReadFile(catalogPath)
	if err != nil {
		return fmt.Errorf("read catalog: %w", err)
	}
	var questions []model.Question
	if err := json.Unmarshal(data, &questions); err != nil {
		return fmt.Errorf("parse catalog: %w", err)
	}
	if len(questions) == 0 {
		return fmt.Errorf("catalog %s holds no questions", catalogPath)
	}

	db := postgres.NewDB(cfg.Postgres.DSN)
	if err := postgres.CreateSchema(ctx, db); err != nil {
		return err
	}
	store := postgres.NewStore(db)

	if err := store.Questions().CreateMany(ctx, questions); err != nil {
		return fmt.Errorf("insert questions: %w", err)
	}

	log.Info().Int("questions", len(questions)).Str("catalog", catalogPath).
		Msg("seeded question catalog")
	return nil
}
