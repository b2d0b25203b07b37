package app

import (
	"errors"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/qs-lzh/movie-list/config"
	"github.com/qs-lzh/movie-list/internal/cache"
	"github.com/qs-lzh/movie-list/internal/mail"
	"github.com/qs-lzh/movie-list/internal/mq"
	"github.com/qs-lzh/movie-list/internal/password"
	"github.com/qs-lzh/movie-list/internal/repository"
	"github.com/qs-lzh/movie-list/internal/service/domain"
	"github.com/qs-lzh/movie-list/internal/service/workflow"
	"github.com/qs-lzh/movie-list/internal/session"
	"github.com/qs-lzh/movie-list/internal/tmdb"
	"github.com/qs-lzh/movie-list/internal/token"
)

// App holds the long-lived dependencies shared by every handler. Cache and
// MQConn are optional: without redis sessions live in process memory and
// movie responses are not cached, without rabbitmq mails are sent inline.
type App struct {
	Config *config.Config

	DB     *gorm.DB
	Cache  *cache.RedisCache
	Logger *zap.Logger
	MQConn *amqp.Connection

	UserRepo      repository.UserRepo
	MovieRepo     repository.MovieRepo
	UserMovieRepo repository.UserMovieRepo

	Sessions *session.Manager

	AuthService  domain.AuthService
	MovieService domain.MovieService

	MailWorkflow *workflow.MailWorkflow

	mailChannel *amqp.Channel
}

func New(config *config.Config, db *gorm.DB, redisCache *cache.RedisCache, mqConn *amqp.Connection, logger *zap.Logger) (*App, error) {
	hasher, err := password.NewHasher(password.DefaultConfig())
	if err != nil {
		return nil, err
	}
	signer := token.NewSigner(config.SecretKey)

	userRepo := repository.NewUserRepoGorm(db)
	movieRepo := repository.NewMovieRepoGorm(db)
	userMovieRepo := repository.NewUserMovieRepoGorm(db)

	var store session.Store = session.NewMemoryStore()
	var movieAPI tmdb.MovieAPI = tmdb.NewClient(config.TMDBBaseURL, config.TMDBAPIKey)
	if redisCache != nil {
		store = session.NewRedisStore(redisCache)
		movieAPI = tmdb.NewCachedClient(movieAPI, redisCache, logger)
	}

	var delivery mail.Sender = mail.NewLogSender(logger)
	if config.MailConfigured() {
		delivery = mail.NewSMTPSender(config.MailServer, config.MailPort, config.MailUsername, config.MailPassword)
	}

	app := &App{
		Config:        config,
		DB:            db,
		Cache:         redisCache,
		Logger:        logger,
		MQConn:        mqConn,
		UserRepo:      userRepo,
		MovieRepo:     movieRepo,
		UserMovieRepo: userMovieRepo,
		Sessions:      session.NewManager(store, config.CookieSecure, logger),
		MovieService:  domain.NewMovieService(db, movieRepo, userMovieRepo, movieAPI),
	}

	mailer := delivery
	if mqConn != nil {
		ch, err := mq.NewChannel(mqConn)
		if err != nil {
			return nil, err
		}
		app.mailChannel = ch
		app.MailWorkflow = workflow.NewMailWorkflow(delivery, logger)
		mailer = mail.NewQueueSender(ch)
	}

	app.AuthService = domain.NewAuthService(db, userRepo, hasher, signer, mailer, config.BaseURL, logger)
	return app, nil
}

func (app *App) Init() error {
	// init database
	if err := repository.AutoMigrate(app.DB); err != nil {
		return err
	}

	// init rabbit mq
	if app.MQConn == nil {
		return nil
	}
	if err := mq.InitQueues(app.MQConn); err != nil {
		return err
	}
	return app.MailWorkflow.Start(app.MQConn)
}

func (app *App) Close() error {
	var errs []error
	if app.mailChannel != nil {
		errs = append(errs, app.mailChannel.Close())
	}
	if app.MQConn != nil {
		errs = append(errs, app.MQConn.Close())
	}
	if app.Cache != nil {
		errs = append(errs, app.Cache.Close())
	}
	sqlDB, err := app.DB.DB()
	if err != nil {
		errs = append(errs, err)
	} else {
		errs = append(errs, sqlDB.Close())
	}
	return errors.Join(errs...)
}
