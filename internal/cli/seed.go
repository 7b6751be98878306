package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/ZelenyMartin/quiz-server/internal/config"
	"github.com/ZelenyMartin/quiz-server/internal/infra/quizfile"
	"github.com/spf13/cobra"
)

// NewSeedCmd uploads a quiz definition YAML into the quizzes table so it can
// later be served by id.
func NewSeedCmd(configPath *string) *cobra.Command {
	var quizID string
	cmd := &cobra.Command{
		Use:   "seed <quiz.yaml>",
		Short: "Store a quiz definition in Postgres",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd.Context(), *configPath, args[0], quizID)
		},
	}
	cmd.Flags().StringVar(&quizID, "id", "quiz-1", "id to store the quiz under")
	return cmd
}

func runSeed(ctx context.Context, configPath, quizPath, quizID string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if cfg.Postgres.URL == "" {
		return fmt.Errorf("postgres url not configured")
	}

	quiz, err := quizfile.Load(quizPath)
	if err != nil {
		return err
	}
	data, err := json.Marshal(quiz)
	if err != nil {
		return err
	}

	if err := runMigrationsWithConfig(ctx, cfg); err != nil {
		return err
	}

	db := openBunDB(cfg.Postgres.URL)
	defer db.Close()

	if _, err := db.ExecContext(ctx,
		`INSERT INTO quizzes (id, data) VALUES (?, ?::jsonb) ON CONFLICT (id) DO UPDATE SET data=EXCLUDED.data`,
		quizID, string(data)); err != nil {
		return err
	}
	log.Printf("quiz %q stored as %s", quiz.Name, quizID)
	return nil
}
