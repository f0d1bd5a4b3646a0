package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/lib/pq"
	"github.com/uptrace/bun"

	"github.com/tasktrack-io/tasktrack/internal/auth"
	"github.com/tasktrack-io/tasktrack/internal/config"
	"github.com/tasktrack-io/tasktrack/internal/database"
	httpServer "github.com/tasktrack-io/tasktrack/internal/http"
	"github.com/tasktrack-io/tasktrack/internal/logging"
	"github.com/tasktrack-io/tasktrack/internal/task"
	"github.com/tasktrack-io/tasktrack/internal/user"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Application error: %v", err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := logging.NewLogger(cfg.Server.IsDevelopment())
	logger.Info("starting application",
		"env", cfg.Server.Env,
		"port", cfg.Server.Port,
		"token_provider", cfg.Auth.TokenProvider,
	)

	db, err := initDB(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	userRepo := user.NewPostgresRepository(db)
	taskRepo := task.NewPostgresRepository(db)

	tokenService, err := newTokenService(cfg.Auth)
	if err != nil {
		return fmt.Errorf("failed to initialize token service: %w", err)
	}

	authService := auth.NewService(
		userRepo,
		tokenService,
		auth.NewHasher(),
		logger,
		cfg.Auth.TokenDuration,
	)

	authHandler := auth.NewHandler(authService)
	authMiddleware := auth.NewMiddleware(tokenService)
	taskHandler := task.NewHandler(taskRepo)

	router := httpServer.NewRouter(cfg, authHandler, authMiddleware, taskHandler, logger)

	server := httpServer.NewServer(
		":"+cfg.Server.Port,
		router,
		cfg.Server.ReadTimeout,
		cfg.Server.WriteTimeout,
	)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- server.Start()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		log.Printf("Received signal: %v", sig)

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// newTokenService selects the token implementation from config
func newTokenService(cfg config.AuthConfig) (auth.TokenService, error) {
	switch cfg.TokenProvider {
	case config.TokenProviderJWT:
		return auth.NewJWTService(cfg.TokenKey)
	default:
		return auth.NewPasetoService(cfg.TokenKey)
	}
}

// initDB initializes the database connection and returns a Bun DB instance
func initDB(cfg config.DatabaseConfig) (*bun.DB, error) {
	sqlDB, err := sql.Open("postgres", cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	return database.NewBunDB(sqlDB), nil
}
