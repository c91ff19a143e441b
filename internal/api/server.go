// Package api exposes the league over HTTP: teams, the calendar and table from a
// store.Repository, one-off batch matches, season runs, championship odds and
// interactive live matches held in memory.
package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/utakatalp/league-engine/internal/league"
	"github.com/utakatalp/league-engine/internal/live"
	"github.com/utakatalp/league-engine/internal/metrics"
	"github.com/utakatalp/league-engine/internal/store"
)

// Options wires a Server. Repo is required; everything else has a default.
type Options struct {
	Repo      store.Repository
	Logger    *slog.Logger
	Metrics   *metrics.Recorder
	Simulator *league.Simulator
	Live      live.Config
	// Seed is the season seed and the default seed of matches posted without one.
	Seed       int64
	Workers    int
	OddsRuns   int
	SessionTTL time.Duration
	// AllowedOrigins for CORS; empty allows any origin.
	AllowedOrigins []string
}

// Server holds the handlers' dependencies.
type Server struct {
	repo      store.Repository
	logger    *slog.Logger
	metrics   *metrics.Recorder
	simulator *league.Simulator
	live      live.Config
	seed      int64
	workers   int
	oddsRuns  int
	origins   []string
	sessions  *sessions
}

// NewServer builds a Server from opts.
func NewServer(opts Options) *Server {
	sim := opts.Simulator
	if sim == nil {
		sim = league.NewSimulator(opts.Live.GoalFactors)
	}
	oddsRuns := opts.OddsRuns
	if oddsRuns <= 0 {
		oddsRuns = defaultOddsRuns
	}
	return &Server{
		repo:      opts.Repo,
		logger:    opts.Logger,
		metrics:   opts.Metrics,
		simulator: sim,
		live:      opts.Live,
		seed:      opts.Seed,
		workers:   opts.Workers,
		oddsRuns:  oddsRuns,
		origins:   opts.AllowedOrigins,
		sessions:  newSessions(opts.SessionTTL, opts.Metrics),
	}
}

const (
	defaultOddsRuns = 1000
	maxOddsRuns     = 20000
)

// Handler returns the routed, CORS-enabled handler.
func (s *Server) Handler() http.Handler {
	router := mux.NewRouter()
	router.Use(s.requestMiddleware)

	router.HandleFunc("/healthz", s.health).Methods("GET")
	router.Handle("/metrics", s.metrics.Handler()).Methods("GET")

	apiRouter := router.PathPrefix("/api/v1").Subrouter()

	// Teams and league
	apiRouter.HandleFunc("/teams", s.listTeams).Methods("GET")
	apiRouter.HandleFunc("/teams/{id:[0-9]+}", s.getTeam).Methods("GET")
	apiRouter.HandleFunc("/table", s.getTable).Methods("GET")
	apiRouter.HandleFunc("/fixtures", s.listFixtures).Methods("GET")
	apiRouter.HandleFunc("/fixtures", s.createFixtures).Methods("POST")
	apiRouter.HandleFunc("/season/play", s.playSeason).Methods("POST")
	apiRouter.HandleFunc("/season/reset", s.resetSeason).Methods("POST")
	apiRouter.HandleFunc("/odds", s.getOdds).Methods("GET")
	apiRouter.HandleFunc("/cup", s.playCup).Methods("POST")

	// Single matches
	apiRouter.HandleFunc("/matches/simulate", s.simulateMatch).Methods("POST")

	// Live matches
	apiRouter.HandleFunc("/live", s.openLive).Methods("POST")
	apiRouter.HandleFunc("/live/{id}", s.getLive).Methods("GET")
	apiRouter.HandleFunc("/live/{id}", s.closeLive).Methods("DELETE")
	apiRouter.HandleFunc("/live/{id}/tick", s.tickLive).Methods("POST")
	apiRouter.HandleFunc("/live/{id}/resolve", s.resolveLive).Methods("POST")
	apiRouter.HandleFunc("/live/{id}/events", s.liveEvents).Methods("GET")

	c := cors.New(cors.Options{
		AllowedOrigins: s.origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
	})
	return c.Handler(router)
}

// CloseSessions drops every live session, e.g. on shutdown.
func (s *Server) CloseSessions() int {
	return s.sessions.closeAll()
}
