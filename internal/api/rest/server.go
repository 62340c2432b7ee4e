package rest

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/rs/zerolog"

	"github.com/courtside/courtstat/internal/auth"
	"github.com/courtside/courtstat/internal/nba"
	"github.com/courtside/courtstat/internal/service"
	"github.com/courtside/courtstat/internal/store"
)

// Deps are the collaborators the REST server dispatches to.
type Deps struct {
	Teams    *service.TeamService
	Players  *service.PlayerService
	Matches  *service.MatchService
	Stats    *service.StatsService
	Rankings *service.RankingsService
	Reports  *service.ReportService
	Auth     *service.AuthService
	Syncer   *nba.Syncer
	Tokens   *auth.Manager
	DB       *store.Database
}

// Config is the REST server configuration.
type Config struct {
	Port               string
	AuthRequired       bool
	CORSAllowedOrigins []string
}

// Server is the REST API server.
type Server struct {
	server       *http.Server
	logger       zerolog.Logger
	authRequired bool

	teams    *service.TeamService
	players  *service.PlayerService
	matches  *service.MatchService
	stats    *service.StatsService
	rankings *service.RankingsService
	reports  *service.ReportService
	auth     *service.AuthService
	syncer   *nba.Syncer
	tokens   *auth.Manager
	db       *store.Database
}

// NewServer creates the REST server and wires its routes.
func NewServer(cfg Config, deps Deps, logger zerolog.Logger) *Server {
	s := &Server{
		logger:       logger,
		authRequired: cfg.AuthRequired,
		teams:        deps.Teams,
		players:      deps.Players,
		matches:      deps.Matches,
		stats:        deps.Stats,
		rankings:     deps.Rankings,
		reports:      deps.Reports,
		auth:         deps.Auth,
		syncer:       deps.Syncer,
		tokens:       deps.Tokens,
		db:           deps.DB,
	}

	router := mux.NewRouter()
	router.Use(recoveryMiddleware(logger))
	router.Use(loggingMiddleware(logger))
	s.setupRoutes(router)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}).Handler(router)

	s.server = &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      corsHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

func (s *Server) setupRoutes(router *mux.Router) {
	router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	api := router.PathPrefix("/api/v1").Subrouter()

	// Teams
	api.HandleFunc("/teams", s.handleListTeams).Methods(http.MethodGet)
	api.HandleFunc("/teams", s.requireAuth(s.handleCreateTeam)).Methods(http.MethodPost)
	api.HandleFunc("/teams/{teamID}", s.handleGetTeam).Methods(http.MethodGet)
	api.HandleFunc("/teams/{teamID}", s.requireAuth(s.handleUpdateTeam)).Methods(http.MethodPut)
	api.HandleFunc("/teams/{teamID}", s.requireAuth(s.handleDeleteTeam)).Methods(http.MethodDelete)

	// Players
	api.HandleFunc("/players", s.handleListPlayers).Methods(http.MethodGet)
	api.HandleFunc("/players", s.requireAuth(s.handleCreatePlayer)).Methods(http.MethodPost)
	api.HandleFunc("/players/{playerID}", s.handleGetPlayer).Methods(http.MethodGet)
	api.HandleFunc("/players/{playerID}", s.requireAuth(s.handleUpdatePlayer)).Methods(http.MethodPut)
	api.HandleFunc("/players/{playerID}", s.requireAuth(s.handleDeletePlayer)).Methods(http.MethodDelete)

	// Matches
	api.HandleFunc("/matches", s.handleListMatches).Methods(http.MethodGet)
	api.HandleFunc("/matches", s.requireAuth(s.handleCreateMatch)).Methods(http.MethodPost)
	api.HandleFunc("/matches/{matchID}", s.handleGetMatch).Methods(http.MethodGet)
	api.HandleFunc("/matches/{matchID}", s.requireAuth(s.handleUpdateMatch)).Methods(http.MethodPut)
	api.HandleFunc("/matches/{matchID}", s.requireAuth(s.handleDeleteMatch)).Methods(http.MethodDelete)
	api.HandleFunc("/matches/{matchID}/verify", s.handleVerifyMatch).Methods(http.MethodPost)
	api.HandleFunc("/matches/{matchID}/stats", s.handleMatchStats).Methods(http.MethodGet)
	api.HandleFunc("/matches/{matchID}/stats", s.requireAuth(s.handleRecordStats)).Methods(http.MethodPost)

	// Stat rows
	api.HandleFunc("/stats/{statID}", s.handleGetStat).Methods(http.MethodGet)
	api.HandleFunc("/stats/{statID}", s.requireAuth(s.handleUpdateStat)).Methods(http.MethodPut)
	api.HandleFunc("/stats/{statID}", s.requireAuth(s.handleDeleteStat)).Methods(http.MethodDelete)

	// Rankings and reports
	api.HandleFunc("/rankings", s.handleRankings).Methods(http.MethodGet)
	api.HandleFunc("/reports/players/{playerID}", s.handlePlayerReport).Methods(http.MethodGet)

	// NBA sync
	api.HandleFunc("/nba/sync", s.requireAuth(s.handleNBASync)).Methods(http.MethodPost)
	api.HandleFunc("/nba/teams", s.handleNBATeams).Methods(http.MethodGet)
	api.HandleFunc("/nba/games", s.handleNBAGames).Methods(http.MethodGet)
	api.HandleFunc("/nba/stats", s.handleNBAStats).Methods(http.MethodGet)

	// Auth
	api.HandleFunc("/auth/register", s.handleRegister).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", s.handleLogin).Methods(http.MethodPost)
}

// Start runs the server until it is shut down.
func (s *Server) Start() error {
	s.logger.Info().Str("addr", s.server.Addr).Msg("rest server listening")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("rest server failed: %w", err)
	}
	return nil
}

// Shutdown drains the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.db.HealthCheck(); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, envelope{Success: false, Error: "database unavailable"})
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}
