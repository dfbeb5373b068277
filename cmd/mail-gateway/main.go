// Package main Mail Gateway API
//
// @title           Mail Gateway API
// @version         1.0.0
// @description     HTTP-шлюз для отправки писем через SMTP с регистрацией пользователей и персональными API-токенами

// @host      localhost:3000
// @BasePath  /

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name apikey
// @description Статический ключ (AUTH_MODE=apikey) или персональный токен (AUTH_MODE=token).
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/magabrotheeeer/mail-gateway/internal/app/mailgateway"
	"github.com/magabrotheeeer/mail-gateway/internal/config"
	"github.com/magabrotheeeer/mail-gateway/internal/lib/sl"
	"github.com/magabrotheeeer/mail-gateway/internal/migrations"
	"github.com/magabrotheeeer/mail-gateway/internal/storage"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var envFile string

	root := &cobra.Command{
		Use:           "mail-gateway",
		Short:         "HTTP-шлюз для отправки писем через SMTP",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return loadEnvFile(envFile)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context())
		},
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "файл с переменными окружения (необязателен)")

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Запустить HTTP-сервер",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return serve(cmd.Context())
			},
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Применить миграции базы данных и выйти",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return migrate(cmd.Context())
			},
		},
	)
	return root
}

// loadEnvFile подгружает .env; отсутствие файла по умолчанию не ошибка.
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func serve(parent context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}
	logger := setupLogger(cfg.Env)
	logger.Info("starting mail-gateway", slog.String("env", cfg.Env), slog.String("auth_mode", cfg.Mode))
	logger.Debug("config loaded", slog.String("config", cfg.String()))

	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := mailgateway.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize app", sl.Err(err))
		return err
	}

	if err := app.Run(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("app stopped with error", sl.Err(err))
		return err
	}

	logger.Info("mail-gateway stopped gracefully")
	return nil
}

func migrate(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}
	logger := setupLogger(cfg.Env)
	if !cfg.HasStorage() {
		err := errors.New("DATABASE_URL is not set")
		logger.Error("nothing to migrate", sl.Err(err))
		return err
	}
	if ctx == nil {
		ctx = context.Background()
	}

	db, err := storage.New(ctx, cfg.StorageConnectionString, storage.PoolConfig{MaxOpenConns: 1})
	if err != nil {
		logger.Error("failed to connect to database", sl.Err(err))
		return err
	}
	defer db.Close()

	sqlDB, err := db.SQLDB()
	if err != nil {
		return err
	}
	if err := migrations.Run(sqlDB, cfg.MigrationsPath); err != nil {
		logger.Error("migrations failed", sl.Err(err))
		return err
	}
	logger.Info("migrations applied", slog.String("path", cfg.MigrationsPath))
	return nil
}

func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case envDev:
		log = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case envProd:
		log = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	default:
		log = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}
	return log
}
