package cli

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"quizrank-service/internal/app"
	"quizrank-service/internal/config"
	"quizrank-service/internal/infra/memory"
	"quizrank-service/internal/infra/postgres"
	redisinfra "quizrank-service/internal/infra/redis"
	"quizrank-service/internal/lib/slogcolor"
	transport "quizrank-service/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	log := setupLogger(cfg.Env)

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var (
		accounts    app.AccountRepository
		quizStore   app.QuizStore
		submissions app.SubmissionStore
		loader      memory.QuizLoader
	)
	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()

		store := postgres.NewQuizStore(pool)
		accounts = postgres.NewAccountRepository(pool)
		quizStore = store
		submissions = postgres.NewSubmissionStore(pool)
		loader = store
		log.Info("using postgres store")
	} else {
		memStore := memory.NewStore()
		accounts = memStore
		quizStore = memStore
		submissions = memStore
		loader = memStore
		log.Warn("postgres not configured, using in-memory store")
	}

	quizTTL := config.TTLDuration(cfg.Quiz.TTL, 10*time.Minute)
	var (
		quizRepo    app.QuizRepository
		invalidator app.QuizInvalidator
	)
	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		cache := redisinfra.NewQuizCache(client, loader, quizTTL)
		quizRepo = cache
		invalidator = cache
		log.Info("quiz cache backed by redis", slog.String("addr", cfg.Redis.Addr))
	} else {
		cache := memory.NewQuizCache(loader, quizTTL)
		quizRepo = cache
		invalidator = cache
	}

	tokenTTL := config.TTLDuration(cfg.Auth.TokenTTL, 24*time.Hour)
	authService := app.NewAuthService(log, accounts, cfg.Auth.JWTSecret, tokenTTL)
	leaderboards := app.NewLeaderboardService(log, quizRepo, submissions)
	scores := app.NewScoreService(log, quizRepo, submissions, leaderboards)
	quizzes := app.NewQuizService(log, quizStore, quizRepo, invalidator)

	srv := transport.NewServer(log, authService, quizzes, scores, leaderboards)

	server := &http.Server{
		Addr:              ":" + finalPort,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 15 * time.Second,
	}

	go func() {
		log.Info("starting quizrank service", slog.String("port", finalPort))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("failed to start server", slog.Any("err", err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Info("shutting down server")
	case <-ctx.Done():
		log.Info("context canceled, shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func setupLogger(env string) *slog.Logger {
	if env == "prod" {
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}
	return slog.New(slogcolor.NewHandler(os.Stdout, slog.LevelDebug))
}
