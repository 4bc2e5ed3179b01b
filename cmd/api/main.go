// @title                       Social API
// @version                     1.0
// @description                 Posts, comments and likes with email-confirmed accounts and generated post images.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/rs/zerolog"

	"github.com/virtual-artifact/social-api/internal/api"
	"github.com/virtual-artifact/social-api/internal/api/handler"
	"github.com/virtual-artifact/social-api/internal/core/ports"
	"github.com/virtual-artifact/social-api/internal/core/service"
	"github.com/virtual-artifact/social-api/internal/infrastructure/cloud"
	mongodb "github.com/virtual-artifact/social-api/internal/infrastructure/db/mongo"
	redisdb "github.com/virtual-artifact/social-api/internal/infrastructure/db/redis"
	"github.com/virtual-artifact/social-api/internal/infrastructure/email"
	"github.com/virtual-artifact/social-api/internal/infrastructure/generator"
	"github.com/virtual-artifact/social-api/internal/infrastructure/queue"
	"github.com/virtual-artifact/social-api/internal/infrastructure/storage"
	"github.com/virtual-artifact/social-api/internal/pkg/config"
	"github.com/virtual-artifact/social-api/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg := config.Load()

	emailChars := 0
	if cfg.IsDevelopment() {
		emailChars = 2
	}
	log := logger.Init(logger.Options{
		Level:             cfg.LogLevel,
		Pretty:            cfg.IsDevelopment(),
		Service:           "social-api",
		EmailVisibleChars: emailChars,
	})

	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func run(cfg *config.Config, log zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Storage ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
		AppName:  "social-api",
	})
	if err != nil {
		return err
	}
	defer func() { _ = mongoClient.Disconnect(context.Background()) }()

	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		return err
	}

	rdb, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
	if err != nil {
		return err
	}
	defer rdb.Close()

	// --- Cloud ---
	var awsCfg aws.Config
	if cfg.EmailEnabled() || cfg.StorageEnabled() {
		awsCfg, err = cloud.LoadAWSConfig(ctx, cloud.Credentials{
			Region:          cfg.AWS.Region,
			AccessKeyID:     cfg.AWS.AccessKeyID,
			SecretAccessKey: cfg.AWS.SecretAccessKey,
		})
		if err != nil {
			return err
		}
	}

	var notifier ports.Notifier = email.NewLogNotifier(log)
	if cfg.EmailEnabled() {
		notifier = email.NewSESNotifier(awsCfg, cfg.AWS.EmailSender)
	} else {
		log.Warn().Msg("EMAIL_SENDER or AWS_REGION not set, emails are only logged")
	}

	var store ports.ObjectStore
	if cfg.StorageEnabled() {
		store = storage.NewS3Store(awsCfg, storage.Config{
			Endpoint:  cfg.Storage.Endpoint,
			Bucket:    cfg.Storage.Bucket,
			PublicURL: cfg.Storage.PublicURL,
		}, log)
	}

	// --- Background jobs ---
	dispatcher := queue.NewDispatcher(cfg.MaxConcurrentJobs, log)
	dispatcher.Start(ctx)

	// --- Services ---
	tokens, err := service.NewTokenAuthority(cfg.Auth.JWTSecret, service.TokenTTLs{
		Access:       cfg.Auth.AccessTokenTTL,
		Confirmation: cfg.Auth.ConfirmationTokenTTL,
	}, log)
	if err != nil {
		return err
	}

	posts := mongodb.NewPostRepository(db)
	mailer := service.NewNotificationService(notifier, log)
	pipeline := service.NewEnrichmentPipeline(
		generator.NewClient(cfg.Generator.URL, cfg.Generator.APIKey, log),
		posts,
		mailer,
		cfg.Generator.Timeout,
		log,
	)

	authService := service.NewAuthService(
		mongodb.NewUserRepository(db),
		tokens,
		dispatcher,
		mailer,
		redisdb.NewResendThrottle(rdb, cfg.Auth.ResendInterval),
		log,
	)
	postService := service.NewPostService(
		posts,
		mongodb.NewCommentRepository(db),
		mongodb.NewLikeRepository(db),
		dispatcher,
		pipeline,
		log,
	)

	// --- HTTP ---
	e := api.NewRouter(api.Deps{
		Auth:  authService,
		Posts: postService,
		Store: store,
		Checks: map[string]handler.DependencyCheck{
			"mongodb": mongodb.Ping(mongoClient),
			"redis":   redisdb.Ping(rdb),
		},
		Log: log,
	})

	serverErr := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			return err
		}
	case <-ctx.Done():
		log.Info().Msg("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	// In-flight emails and enrichment jobs get the rest of the budget.
	if err := dispatcher.Stop(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("background jobs did not finish before shutdown")
	}
	return nil
}
