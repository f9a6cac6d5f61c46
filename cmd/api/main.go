// @title           YaMDB API
// @version         1.0
// @description     Reviews of titles with confirmation-code sign-in and role-based access.
// @BasePath        /api/v1
// @securityDefinitions.apikey BearerAuth
// @in              header
// @name            Authorization
package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/yamdb/api-yamdb/internal/api"
	"github.com/yamdb/api-yamdb/internal/api/handler"
	"github.com/yamdb/api-yamdb/internal/core/confirm"
	"github.com/yamdb/api-yamdb/internal/core/ports"
	"github.com/yamdb/api-yamdb/internal/core/service"
	mongostore "github.com/yamdb/api-yamdb/internal/infrastructure/db/mongo"
	redisstore "github.com/yamdb/api-yamdb/internal/infrastructure/db/redis"
	"github.com/yamdb/api-yamdb/internal/infrastructure/mail"
	"github.com/yamdb/api-yamdb/internal/infrastructure/queue"
	"github.com/yamdb/api-yamdb/internal/pkg/config"
	"github.com/yamdb/api-yamdb/internal/pkg/token"
	"github.com/yamdb/api-yamdb/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		l := zerolog.New(os.Stderr)
		l.Fatal().Err(err).Msg("startup failed")
	}
}

func run() error {
	rootCtx, stop := context.WithCancel(context.Background())
	defer stop()

	cfg, err := config.Load(rootCtx)
	if err != nil {
		return err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "yamdb-api",
	})

	// --- Storage ---
	mongoClient, db, err := mongostore.Connect(rootCtx, mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := mongoClient.Disconnect(ctx); err != nil {
			log.Error().Err(err).Msg("mongo disconnect")
		}
	}()

	users := mongostore.NewUserRepository(db)
	taxa := mongostore.NewTaxonomyRepository(db)
	titles := mongostore.NewTitleRepository(db)
	reviews := mongostore.NewReviewRepository(db)
	comments := mongostore.NewCommentRepository(db)
	if err := mongostore.EnsureIndexes(rootCtx, users, taxa, titles, reviews, comments); err != nil {
		return err
	}

	throttle, err := redisstore.OpenMailThrottle(rootCtx, redisstore.Config{
		Addr:     cfg.Redis.Addr,
		DB:       cfg.Redis.DB,
		Cooldown: cfg.Mail.Cooldown,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := throttle.Close(); err != nil {
			log.Error().Err(err).Msg("redis close")
		}
	}()

	// --- Mail pipeline ---
	mailer, closer := newMailer(cfg, logger.Component("mail"))
	defer func() {
		if err := closer.Close(); err != nil {
			log.Error().Err(err).Msg("mailer close")
		}
	}()

	mailCtx, stopMail := context.WithCancel(rootCtx)
	dispatcher := queue.NewDispatcher(cfg.Mail.Workers, mailer, cfg.Mail.Backend, logger.Component("mail-queue"))
	dispatcher.Start(mailCtx)
	defer func() {
		stopMail()
		dispatcher.Wait()
	}()

	codeMailer := service.NewCodeMailer(dispatcher, throttle, cfg.Mail.From, logger.Component("auth"))

	// --- Core ---
	codes, err := confirm.NewGenerator(cfg.SecretKey, cfg.ConfirmationCodeTTL)
	if err != nil {
		return err
	}
	tokens := token.NewIssuer(cfg.SecretKey, cfg.TokenTTL)

	router := api.NewRouter(api.Deps{
		Auth:    service.NewAuthService(users, codes, tokens, codeMailer, logger.Component("auth")),
		Users:   service.NewUserService(users, logger.Component("users")),
		Catalog: service.NewCatalogService(taxa, titles, logger.Component("catalog")),
		Reviews: service.NewReviewService(titles, reviews, comments, logger.Component("reviews")),
		Tokens:  tokens,
		Actors:  users,
		HealthChecks: map[string]handler.HealthCheck{
			"mongodb": func(ctx context.Context) error { return mongoClient.Ping(ctx, readpref.Primary()) },
			"redis":   throttle.Ping,
		},
		Logger: logger.Component("http"),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Str("mail_backend", cfg.Mail.Backend).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		log.Info().Str("signal", sig.String()).Msg("shutting down")
	case err := <-serveErr:
		if err != nil {
			return err
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("http server shutdown")
	}

	log.Info().Msg("shutdown complete")
	return nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// newMailer picks the delivery backend. The returned closer releases its
// connections on shutdown.
func newMailer(cfg *config.Config, log zerolog.Logger) (ports.Mailer, io.Closer) {
	if cfg.Mail.Backend == "kafka" {
		m := mail.NewKafkaMailer(cfg.Kafka.Brokers, cfg.Kafka.MailTopic)
		return m, m
	}
	return mail.NewLogMailer(log), nopCloser{}
}
