// cmd/main.go
package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/lmittmann/tint"

	"go_vocab_quiz/internal/config"
	"go_vocab_quiz/internal/generator"
	"go_vocab_quiz/internal/handlers"
	"go_vocab_quiz/internal/repository"
	"go_vocab_quiz/internal/service"
)

func main() {
	//　設定ファイル読み込み用の一時的なロガー設定
	tempLogger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(tempLogger)
	log.Println("Log Config Loading...")

	configPath := "configs"
	if p := os.Getenv("APP_CONFIG_PATH"); p != "" {
		configPath = p
	}
	if err := config.LoadConfig(configPath); err != nil {
		slog.Error("Error loading configuration", slog.Any("error", err))
		os.Exit(1)
	}

	// === 設定に基づいて slog ロガーを初期化 ===
	logLevel := new(slog.LevelVar)
	switch strings.ToLower(config.Cfg.Log.Level) {
	case "debug":
		logLevel.Set(slog.LevelDebug)
	case "info":
		logLevel.Set(slog.LevelInfo)
	case "warn", "warning":
		logLevel.Set(slog.LevelWarn)
	case "error":
		logLevel.Set(slog.LevelError)
	default:
		logLevel.Set(slog.LevelInfo)
		slog.Warn("Unknown log level specified in config, defaulting to INFO", slog.String("level", config.Cfg.Log.Level))
	}

	var handler slog.Handler
	appEnv := os.Getenv("APP_ENV")
	if strings.ToLower(appEnv) == "dev" {
		handler = tint.NewHandler(os.Stderr, &tint.Options{
			Level:      logLevel,
			TimeFormat: time.RFC3339,
		})
		tempLogger.Info("Using TINT log handler", slog.String("APP_ENV", appEnv))
	} else {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
			Level:     logLevel,
			AddSource: true,
		})
		tempLogger.Info("Using JSON log handler", slog.String("APP_ENV", appEnv))
	}
	logger := slog.New(handler).With(slog.String("app", config.AppName), slog.String("version", config.AppVersion))
	log.Println("Log Config Loaded...")
	slog.SetDefault(logger)

	slog.Info("Application starting...")

	// 1. Database (GORM)
	db, err := repository.NewDB(config.Cfg.Database.Driver, config.Cfg.Database.URL, logger)
	if err != nil {
		slog.Error("Error initializing database", slog.Any("error", err))
		os.Exit(1)
	}
	sqlDB, err := db.DB()
	if err != nil {
		slog.Error("Error getting underlying sql.DB from GORM", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := sqlDB.Close(); err != nil {
			slog.Error("Error closing database connection", slog.Any("error", err))
		} else {
			slog.Info("Database connection closed.")
		}
	}()

	// 2. Sentence generator
	geminiClient := generator.NewGeminiClient(config.Cfg.Generator)
	if !geminiClient.Configured() {
		slog.Warn("GEMINI_API_KEY is not set: sentence quiz will return placeholders")
	}
	sentences := generator.NewGenerator(geminiClient, config.Cfg.Generator.Timeout)

	// 3. Dependency Injection
	identityRepo := repository.NewGormIdentityRepository()
	vocabRepo := repository.NewGormVocabularyRepository()
	progressRepo := repository.NewGormProgressRepository()

	progressService := service.NewProgressService(db, progressRepo, vocabRepo)
	svcs := handlers.Services{
		Identity:   service.NewIdentityService(db, identityRepo, vocabRepo, config.Cfg.Auth),
		Vocabulary: service.NewVocabularyService(db, vocabRepo, progressRepo),
		Quiz:       service.NewQuizService(db, vocabRepo, progressService, sentences, service.NewPicker(config.Cfg.Quiz.Seed), service.NewPromptSigner(config.Cfg.Auth.SecretKey, config.Cfg.Quiz.PromptTTL)),
		Progress:   progressService,
	}

	// 4. Router
	r := handlers.NewRouter(svcs, handlers.RouterOptions{
		Logger:            logger,
		Auth:              config.Cfg.Auth,
		CORS:              config.Cfg.CORS,
		MaxPromptAttempts: config.Cfg.Quiz.MaxPromptAttempts,
		RequestTimeout:    60 * time.Second,
		HealthCheck:       sqlDB.PingContext,
	})

	// 5. Start Server
	server := &http.Server{
		Addr:         config.Cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10*time.Second + time.Duration(config.Cfg.Quiz.MaxPromptAttempts)*config.Cfg.Generator.Timeout,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("Server listening", slog.String("port", config.Cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Could not listen on port", slog.String("port", config.Cfg.Server.Port), slog.Any("error", err))
			os.Exit(1)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", slog.Any("error", err))
	}

	log.Println("Server exiting")
}
