package main

import (
	"context"
	"crypto/rand"
	"log"
	"net/http"

	"github.com/weekgrid/calendar-backend/internal/api"
	access_service "github.com/weekgrid/calendar-backend/internal/business/access"
	calendars_service "github.com/weekgrid/calendar-backend/internal/business/calendars"
	events_service "github.com/weekgrid/calendar-backend/internal/business/events"
	"github.com/weekgrid/calendar-backend/internal/config"
	"github.com/weekgrid/calendar-backend/internal/database"
	"github.com/weekgrid/calendar-backend/internal/database/calendar"
	"github.com/weekgrid/calendar-backend/internal/database/events"
	"github.com/weekgrid/calendar-backend/internal/database/user"
	"github.com/weekgrid/calendar-backend/internal/pkg/jwt"
	"github.com/weekgrid/calendar-backend/internal/pkg/oauth"
	"github.com/weekgrid/calendar-backend/internal/redis"
	"github.com/xlab/closer"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	ctx := context.Background()

	conf, err := config.Load()
	if err != nil {
		log.Fatalf("unable to load config: %v", err)
	}

	logger, err := initLogger(conf.Production)
	if err != nil {
		log.Fatalf("unable to initialize logger: %v", err)
	}

	jwts := jwt.NewManager(conf.Secret, conf.JwtTTL)
	tokenParser := oauth.NewParser(conf.ClientSecretPath, conf.RedirectURL, conf.ClientType)

	redisPool := redis.NewRedisPool(logger, conf.RedisURL)
	sessions := redis.NewSessionsRepository(redisPool, logger, conf.SessionTTL)

	db, err := database.NewPGX(ctx, conf.PostgresURL)
	if err != nil {
		log.Fatalf("unable to initialize db: %v", err)
	}

	usersRepository := user.NewRepository()
	calendarsRepository := calendar.NewRepository()
	eventsRepository := events.NewRepository()

	accessService := access_service.NewService(calendarsRepository, eventsRepository)
	calendarsService := calendars_service.NewService(db, calendarsRepository, usersRepository, accessService)
	eventsService := events_service.NewService(db, eventsRepository, usersRepository, accessService)

	api, err := api.NewApi(
		logger,
		rand.Reader,
		jwts,
		tokenParser,
		sessions,
		db,
		usersRepository,
		calendarsRepository,
		calendarsService,
		eventsService,
		conf.SessionTokenLength,
		conf.DefaultTimezone,
	)
	if err != nil {
		logger.Fatalw("error initiating api", "err", err)
	}

	errLogger, err := zap.NewStdLogAt(logger.Desugar(), zap.ErrorLevel)
	if err != nil {
		logger.Fatalw("error initiating server logger", "err", err)
	}

	server := &http.Server{
		Addr:     ":" + conf.Port,
		Handler:  api,
		ErrorLog: errLogger,
	}

	logger.Infow("Started server", "port", conf.Port)
	logger.Fatalw("server error", "err", server.ListenAndServe())
}

func initLogger(production bool) (*zap.SugaredLogger, error) {
	var logger *zap.Logger
	var err error

	if production {
		logger, err = zap.NewProduction()
	} else {
		conf := zap.NewDevelopmentConfig()
		conf.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		logger, err = conf.Build()
	}

	if err != nil {
		return nil, err
	}

	closer.Bind(func() {
		_ = logger.Sync()
	})

	return logger.Sugar(), nil
}
