package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/victorwamb/IA-PF/internal/config"
	"github.com/victorwamb/IA-PF/internal/content"
	"github.com/victorwamb/IA-PF/internal/infrastructure"
	"github.com/victorwamb/IA-PF/internal/interfaces"
	"github.com/victorwamb/IA-PF/internal/interfaces/http"
	"github.com/victorwamb/IA-PF/internal/repository"
	"github.com/victorwamb/IA-PF/internal/usecases"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found, using process environment")
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger, closeLog := config.SetupLogger(cfg.LogFile, cfg.LogLevel)
	defer closeLog()
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped", "error", err)
		closeLog()
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.InsecureAdminKey() {
		logger.Error("CRITICAL SECURITY: using default admin API key, set ADMIN_API_KEY in production")
	}

	// Storage
	seed, err := content.StaticProjects()
	if err != nil {
		return err
	}
	var (
		store interfaces.ProjectStore
		usage interfaces.UsageRecorder
	)
	if cfg.DatabaseURL != "" {
		pgClient, err := infrastructure.NewPostgresClient(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer pgClient.Close()

		projectRepo := repository.NewProjectRepository(pgClient.Pool)
		if n, err := projectRepo.SeedIfEmpty(ctx, seed); err != nil {
			logger.Warn("failed to seed projects", "error", err)
		} else if n > 0 {
			logger.Info("seeded projects table", "count", n)
		}
		store = projectRepo
		usage = repository.NewUsageRepository(pgClient.Pool)
		logger.Info("using postgres storage")
	} else {
		fileRepo, err := repository.NewProjectFileRepository(cfg.ProjectsFile, seed)
		if err != nil {
			return err
		}
		store = fileRepo
		usage = repository.NewMemoryUsage()
		logger.Info("using file storage", "projects_file", cfg.ProjectsFile)
	}

	uploads, err := repository.NewUploadStore(cfg.UploadsDir)
	if err != nil {
		return err
	}

	// Completion model
	var completer interfaces.Completer
	if cfg.OpenAI.APIKey == "" {
		logger.Warn("OPENAI_API_KEY not set, chatbot will use fallback mode")
	} else if c, err := infrastructure.NewOpenAICompleter(cfg.OpenAI.APIKey, cfg.OpenAI.Model, cfg.OpenAI.BaseURL); err != nil {
		logger.Warn("OpenAI unavailable, chatbot will use fallback mode", "error", err)
	} else {
		completer = c
		logger.Info("OpenAI client initialized", "model", c.Model())
	}

	profile, err := content.LoadProfile(cfg.ProfileFile)
	if err != nil {
		return err
	}
	chatUsecase := usecases.NewChatUsecase(completer, profile, logger)

	// Resolution engine
	entries, err := content.LoadAnswers(cfg.AnswersFile)
	if err != nil {
		return err
	}
	answers, err := usecases.NewAnswerSet(entries)
	if err != nil {
		return err
	}
	catalog, err := usecases.DefaultCatalog()
	if err != nil {
		return err
	}
	engine := usecases.NewEngine(
		usecases.NewCompletionResponder(chatUsecase),
		answers,
		catalog,
		usecases.WithLogger(logger),
		usecases.WithDefaultLanguage(cfg.DefaultLanguage),
	)

	sessions := usecases.NewSessionManager(engine, usage, logger)
	go sessions.Run(ctx, time.Minute, cfg.SessionIdleTTL)

	auth := usecases.NewAuthUsecase(cfg.Admin.JWTSecret, cfg.Admin.APIKey)
	if err := auth.EnsureAdmin(cfg.Admin.Username, cfg.Admin.Password, cfg.Admin.PasswordHash); err != nil {
		logger.Warn("admin login disabled, only the API key is accepted", "error", err)
	}

	middleware := http.NewMiddleware(auth, cfg.AllowedOrigins, cfg.ChatRatePerSecond, cfg.ChatRateBurst)
	go func() {
		ticker := time.NewTicker(10 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				middleware.CleanupLimiters(30 * time.Minute)
			}
		}
	}()

	handler := http.NewHandler(chatUsecase, usecases.NewProjectUsecase(store, uploads), sessions, catalog, usage, auth, logger)

	// Telegram binding
	if cfg.TelegramBotToken != "" {
		limiter := infrastructure.NewMessageRateLimiter(1, 3)
		go limiter.Run(ctx, 5*time.Minute)

		bot, err := infrastructure.NewTelegramBot(cfg.TelegramBotToken, sessions, catalog, limiter, cfg.SiteURL, logger)
		if err != nil {
			logger.Warn("Telegram disabled", "error", err)
		} else {
			handler.TelegramStats = bot.Stats
			go bot.Run(ctx)
			logger.Info("Telegram bot connected", "bot", bot.Bot.Self.UserName)
		}
	}

	// Setup HTTP server
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()
	http.SetupRoutes(r, handler, middleware, uploads.Dir())

	srv := &nethttp.Server{
		Addr:              "0.0.0.0:" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("FAILED to start HTTP Server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
