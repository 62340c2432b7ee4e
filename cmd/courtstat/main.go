package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/courtside/courtstat/internal/api/rest"
	"github.com/courtside/courtstat/internal/api/websocket"
	"github.com/courtside/courtstat/internal/auth"
	"github.com/courtside/courtstat/internal/cache"
	"github.com/courtside/courtstat/internal/config"
	"github.com/courtside/courtstat/internal/nba"
	"github.com/courtside/courtstat/internal/publisher"
	"github.com/courtside/courtstat/internal/service"
	"github.com/courtside/courtstat/internal/store"
	"github.com/courtside/courtstat/internal/store/repository"
)

func main() {
	// .env is a local dev convenience; in real deployments the
	// environment is already populated.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		bootLogger := zerolog.New(os.Stderr)
		bootLogger.Fatal().Err(err).Msg("failed to load config")
	}

	logger := newLogger(cfg.LogLevel)
	logger.Info().Msg("starting courtstat")

	db, err := connectDatabase(cfg.DatabaseURL, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	if err := db.RunMigrations(); err != nil {
		logger.Fatal().Err(err).Msg("failed to run migrations")
	}
	logger.Info().Msg("migrations applied")

	// Redis backs the rankings cache and the event stream. The service
	// runs without either if redis is down.
	var rankingsCache service.RankingsCache
	redisCache, err := cache.NewRedis(cfg.RedisURL, logger)
	if err != nil {
		logger.Warn().Err(err).Msg("redis unavailable, rankings cache disabled")
	} else {
		rankingsCache = redisCache
		defer redisCache.Close()
	}

	hub := websocket.NewHub(logger)
	publishers := []service.Publisher{hub}

	stream, err := publisher.NewRedisStream(cfg.RedisURL, logger)
	if err != nil {
		logger.Warn().Err(err).Msg("redis unavailable, event stream disabled")
	} else {
		publishers = append(publishers, stream)
		defer stream.Close()
	}

	// Repositories
	teamRepo := repository.NewTeamRepository(db)
	playerRepo := repository.NewPlayerRepository(db)
	matchRepo := repository.NewMatchRepository(db)
	statsRepo := repository.NewStatsRepository(db)
	userRepo := repository.NewUserRepository(db)

	// Services
	clock := clockwork.NewRealClock()
	tokens := auth.NewManager(cfg.JWTSecret, cfg.JWTExpiry, clock)
	rankingsSvc := service.NewRankingsService(statsRepo, playerRepo, teamRepo, rankingsCache, cfg.RankingsCacheTTL, logger)

	deps := rest.Deps{
		Teams:    service.NewTeamService(teamRepo),
		Players:  service.NewPlayerService(playerRepo, teamRepo),
		Matches:  service.NewMatchService(matchRepo, teamRepo, playerRepo, statsRepo, clock, publishers...),
		Stats:    service.NewStatsService(statsRepo, matchRepo, playerRepo, clock, rankingsSvc, publishers...),
		Rankings: rankingsSvc,
		Reports:  service.NewReportService(statsRepo, playerRepo, teamRepo),
		Auth:     service.NewAuthService(userRepo, tokens),
		Syncer: nba.NewSyncer(
			nba.NewClient(cfg.NBAAPIBase, cfg.NBAAPIKey, logger),
			teamRepo, playerRepo, matchRepo, statsRepo, clock, logger,
		),
		Tokens: tokens,
		DB:     db,
	}

	restServer := rest.NewServer(rest.Config{
		Port:               cfg.RESTPort,
		AuthRequired:       cfg.AuthRequired,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	}, deps, logger)
	wsServer := websocket.NewServer(cfg.WSPort, hub, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go hub.Run(ctx)
	go func() {
		if err := restServer.Start(); err != nil {
			logger.Error().Err(err).Msg("rest server stopped")
			stop()
		}
	}()
	go func() {
		if err := wsServer.Start(); err != nil {
			logger.Error().Err(err).Msg("websocket server stopped")
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := restServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn().Err(err).Msg("rest server shutdown failed")
	}
	if err := wsServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn().Err(err).Msg("websocket server shutdown failed")
	}
	logger.Info().Msg("goodbye")
}

func newLogger(level string) zerolog.Logger {
	parsed, err := zerolog.ParseLevel(level)
	if err != nil {
		parsed = zerolog.InfoLevel
	}
	return zerolog.New(os.Stdout).Level(parsed).With().Timestamp().Logger()
}

// connectDatabase retries the initial connection so the service survives a
// database that comes up a little later than it does.
func connectDatabase(dsn string, logger zerolog.Logger) (*store.Database, error) {
	var db *store.Database
	var err error
	for attempt := 1; attempt <= 5; attempt++ {
		db, err = store.NewDatabase(dsn)
		if err == nil {
			return db, nil
		}
		logger.Warn().Err(err).Int("attempt", attempt).Msg("database connection failed, retrying")
		time.Sleep(time.Duration(attempt) * time.Second)
	}
	return nil, err
}
