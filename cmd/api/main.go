package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/noah-isme/certprep-api/internal/config"
	"github.com/noah-isme/certprep-api/internal/database"
	"github.com/noah-isme/certprep-api/internal/handler"
	"github.com/noah-isme/certprep-api/internal/middleware"
	"github.com/noah-isme/certprep-api/internal/models"
	"github.com/noah-isme/certprep-api/internal/repository"
	"github.com/noah-isme/certprep-api/internal/router"
	"github.com/noah-isme/certprep-api/internal/service"
	"github.com/noah-isme/certprep-api/pkg/paystack"
)

func main() {
	bootLogger := zerolog.New(os.Stderr).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		bootLogger.Fatal().Err(err).Msg("failed to load configuration")
	}

	logger := newLogger(cfg)
	ctx := context.Background()

	provider, err := buildProvider(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Str("provider", cfg.AIProvider).Msg("failed to configure ai provider")
	}
	if closer, ok := provider.(io.Closer); ok {
		defer closer.Close()
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.ConnectRedis(ctx, cfg.RedisURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer redisClient.Close()
	} else {
		logger.Warn().Msg("redis url not set, bank list cache disabled")
	}

	var natsConn *nats.Conn
	if cfg.NATSURL != "" {
		natsConn, err = nats.Connect(cfg.NATSURL, nats.Name(cfg.AppName))
		if err != nil {
			logger.Warn().Err(err).Msg("failed to connect to nats, generation events disabled")
		} else {
			defer natsConn.Drain()
		}
	}

	var billing *paystack.Client
	if cfg.PaystackSecretKey != "" {
		billing, err = paystack.New(paystack.Config{
			SecretKey: cfg.PaystackSecretKey,
			BaseURL:   cfg.PaystackBaseURL,
		}, logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to create paystack client")
		}
	} else {
		logger.Warn().Msg("paystack secret key not set, bank and billing routes disabled")
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	generationService := service.NewQuestionGenerationService(
		provider,
		service.NewNATSGenerationEvents(natsConn, cfg.EventSubjectBase, logger),
		validate,
		logger,
		service.QuestionGenerationConfig{
			Timeout:       cfg.GenerationTimeout,
			QuestionCount: cfg.GenerationQuestionCount,
			Strict:        cfg.StrictQuestions,
		},
	)

	deps := router.Dependencies{
		QuestionGenerationHandler: handler.NewQuestionGenerationHandler(generationService, logger),
		JWTMiddleware:             middleware.JWTProtected(cfg.JWTSecret),
	}

	if billing != nil {
		bankService := service.NewBankService(billing, redisClient, cfg.BankCacheTTL, validate, logger)
		deps.BankHandler = handler.NewBankHandler(bankService, logger)
	}

	if cfg.DatabaseURL != "" {
		db, err := database.ConnectPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to database")
		}
		if err := db.AutoMigrate(&models.Subscription{}); err != nil {
			logger.Fatal().Err(err).Msg("failed to migrate database")
		}

		var toggler service.SubscriptionToggler
		if billing != nil {
			toggler = billing
		}
		subscriptionService := service.NewSubscriptionService(repository.NewSubscriptionRepository(db), toggler, logger)
		deps.SubscriptionHandler = handler.NewSubscriptionHandler(subscriptionService, logger)
	} else {
		logger.Warn().Msg("database url not set, subscription routes disabled")
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.GenerationTimeout + 15*time.Second,
	})

	middleware.Register(app, middleware.Config{
		Logger:       &logger,
		AllowOrigins: cfg.CORSOrigins,
		AccessLog:    !cfg.IsProduction(),
	})
	router.Register(app, cfg, deps)

	go func() {
		logger.Info().Str("addr", cfg.HTTPAddress()).Str("ai_provider", provider.Name()).Msg("starting server")
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			logger.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	waitForShutdown(app, logger)
}

func newLogger(cfg config.Config) zerolog.Logger {
	zerolog.SetGlobalLevel(parseLogLevel(cfg.LogLevel))

	if cfg.IsProduction() {
		return zerolog.New(os.Stdout).With().Timestamp().Str("service", cfg.AppName).Logger()
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).With().Timestamp().Logger()
}

func parseLogLevel(level string) zerolog.Level {
	parsed, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || parsed == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return parsed
}

func waitForShutdown(app *fiber.App, logger zerolog.Logger) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}

	logger.Info().Msg("server stopped")
}
