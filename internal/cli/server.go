package cli

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ZelenyMartin/quiz-server/internal/app"
	"github.com/ZelenyMartin/quiz-server/internal/config"
	"github.com/ZelenyMartin/quiz-server/internal/console"
	"github.com/ZelenyMartin/quiz-server/internal/domain"
	"github.com/ZelenyMartin/quiz-server/internal/infra/memory"
	pgloader "github.com/ZelenyMartin/quiz-server/internal/infra/postgres"
	"github.com/ZelenyMartin/quiz-server/internal/infra/quizfile"
	redisinfra "github.com/ZelenyMartin/quiz-server/internal/infra/redis"
	"github.com/ZelenyMartin/quiz-server/internal/transport/ws"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

// NewStartCmd builds the CLI subcommand to run a quiz session.
func NewStartCmd(configPath, port, quizFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Serve one operator-paced quiz session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port, *quizFile)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag, quizFileFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}

	quiz, err := loadQuiz(ctx, cfg, quizFileFlag, redisClient)
	if err != nil {
		// A session must never start on a broken definition.
		return fmt.Errorf("quiz definition: %w", err)
	}

	sessionCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	session := app.NewSession(quiz, os.Stdout)
	go session.Run(sessionCtx)

	if redisClient != nil {
		presence := redisinfra.NewPresence(redisClient, config.TTLDuration(cfg.Redis.TTL, 10*time.Minute))
		presence.Mark(ctx, quiz.Name)
		defer presence.Clear(context.Background(), quiz.Name)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	ws.NewHandler(session).Register(mux)

	server := &http.Server{
		Addr:        ":" + finalPort,
		Handler:     mux,
		ReadTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("quiz %q waiting for players on :%s", quiz.Name, finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	go console.NewReader(session, os.Stdin, os.Stdout).Run()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
		cancel()
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	case <-session.Done():
		log.Println("quiz finished, shutting down server...")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	return server.Shutdown(shutdownCtx)
}

// loadQuiz resolves the quiz definition: a YAML file when one is configured,
// otherwise Postgres (optionally behind the Redis cache), otherwise the
// built-in demo quiz.
func loadQuiz(ctx context.Context, cfg config.Config, quizFileFlag string, redisClient *redis.Client) (domain.Quiz, error) {
	file := quizFileFlag
	if file == "" {
		file = cfg.Quiz.File
	}
	if file != "" {
		return quizfile.Load(file)
	}

	quizID := cfg.Quiz.ID
	if quizID == "" {
		quizID = "quiz-1"
	}
	quizTTL := config.TTLDuration(cfg.Quiz.TTL, 10*time.Minute)

	var loader memory.QuizLoader = memory.NewStaticQuizLoader(sampleQuizzes())
	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return domain.Quiz{}, err
		}
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return domain.Quiz{}, err
		}
		loader = pgloader.NewQuizLoader(pool)
	}

	var repo interface {
		GetQuiz(ctx context.Context, quizID string) (domain.Quiz, error)
	}
	if redisClient != nil {
		repo = redisinfra.NewQuizRepository(redisClient, loader, quizTTL)
	} else {
		repo = memory.NewQuizRepository(loader, quizTTL)
	}

	quiz, err := repo.GetQuiz(ctx, quizID)
	if err != nil {
		return domain.Quiz{}, err
	}
	return quiz, quizfile.Validate(quiz)
}

// sampleQuizzes provides a built-in demo quiz for running without any
// configuration.
func sampleQuizzes() map[string]domain.Quiz {
	return map[string]domain.Quiz{
		"quiz-1": {
			Name: "Demo quiz",
			Questions: []domain.Question{
				{
					Text: "What is 2 + 2?",
					Options: []domain.Option{
						{Answer: "3", Correct: false},
						{Answer: "4", Correct: true},
						{Answer: "5", Correct: false},
					},
				},
			},
		},
	}
}
