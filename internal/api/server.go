package api

import (
	"context"
	_ "embed"
	"errors"
	"net"
	"net/http"
	"runtime"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"

	"github.com/sam-maryland/gridiron-dashboard/internal/achievements"
	"github.com/sam-maryland/gridiron-dashboard/internal/cache"
	"github.com/sam-maryland/gridiron-dashboard/internal/config"
	"github.com/sam-maryland/gridiron-dashboard/internal/dashboard"
	"github.com/sam-maryland/gridiron-dashboard/internal/league"
	"github.com/sam-maryland/gridiron-dashboard/internal/narrative"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

//go:embed static/index.html
var indexHTML []byte

// Dashboard is the service the HTTP API serves
type Dashboard interface {
	LeagueConfig() *config.LeagueConfig
	Results(ctx context.Context) (league.Results, error)
	Standings(ctx context.Context) (dashboard.Standings, error)
	Projections(ctx context.Context, simulations int) (dashboard.Projections, error)
	History(ctx context.Context) (league.History, error)
	Achievements(ctx context.Context) (achievements.Data, error)
	AchievementSummary(ctx context.Context, playerID string) (achievements.Summary, error)
	Narratives(ctx context.Context) (narrative.Archive, error)
	GenerateNarrative(ctx context.Context, week int, force bool) (narrative.Narrative, int, error)
	Refresh(ctx context.Context) (dashboard.RefreshReport, error)
	CacheStats() cache.Stats
	ClearCache(key string)
}

// Server is the dashboard's JSON API plus the embedded page
type Server struct {
	httpServer *http.Server
	router     *mux.Router
	svc        Dashboard
	validate   *validator.Validate
	logger     *logrus.Logger
	startedAt  time.Time
}

// NewServer creates a new API server bound to addr
func NewServer(addr string, svc Dashboard, logger *logrus.Logger) *Server {
	s := &Server{
		router:    mux.NewRouter(),
		svc:       svc,
		validate:  validator.New(),
		logger:    logger,
		startedAt: time.Now(),
	}
	s.routes()

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

func (s *Server) routes() {
	s.router.Use(requestID, s.accessLog)

	// Routes stay flat on one router so a wrong method yields 405 on every path.
	r := s.router
	r.HandleFunc("/api/health", s.handleHealth).Methods(http.MethodGet)

	r.HandleFunc("/api/data/config", s.handleConfig).Methods(http.MethodGet)
	r.HandleFunc("/api/data/results", s.handleResults).Methods(http.MethodGet)
	r.HandleFunc("/api/data/standings", s.handleStandings).Methods(http.MethodGet)
	r.HandleFunc("/api/data/projections", s.handleProjections).Methods(http.MethodGet)
	r.HandleFunc("/api/data/history", s.handleHistory).Methods(http.MethodGet)
	r.HandleFunc("/api/data/achievements", s.handleAchievements).Methods(http.MethodGet)
	r.HandleFunc("/api/data/narratives", s.handleNarratives).Methods(http.MethodGet)
	r.HandleFunc("/api/data/narratives", s.handleGenerateNarrative).Methods(http.MethodPost)

	r.HandleFunc("/api/cache/refresh", s.handleRefresh).Methods(http.MethodGet, http.MethodPost)
	r.HandleFunc("/api/cache/stats", s.handleCacheStats).Methods(http.MethodGet)
	r.HandleFunc("/api/cache/stats", s.handleCacheAction).Methods(http.MethodPost)

	s.router.HandleFunc("/", s.handleIndex).Methods(http.MethodGet)
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start begins serving HTTP requests in the background
func (s *Server) Start(_ context.Context) error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return err
	}
	s.logger.WithField("addr", ln.Addr().String()).Info("Dashboard API listening")
	go func() {
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.WithError(err).Error("Dashboard API stopped")
		}
	}()
	return nil
}

// Shutdown gracefully stops the server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.WithError(err).Error("Failed to encode response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, msg string, err error) {
	if err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"path":       r.URL.Path,
			"request_id": RequestIDFrom(r.Context()),
		}).Warn(msg)
	}
	s.writeJSON(w, status, map[string]string{"error": msg})
}

// GET /api/health
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"ok":       true,
		"uptime_s": time.Since(s.startedAt).Seconds(),
	})
}

// GET /api/data/config
func (s *Server) handleConfig(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, s.svc.LeagueConfig())
}

// GET /api/data/results
func (s *Server) handleResults(w http.ResponseWriter, r *http.Request) {
	results, err := s.svc.Results(r.Context())
	if err != nil {
		s.writeError(w, r, http.StatusInternalServerError, "Failed to load NFL data and no fallback available", err)
		return
	}
	s.writeJSON(w, http.StatusOK, results)
}

// GET /api/data/standings
func (s *Server) handleStandings(w http.ResponseWriter, r *http.Request) {
	standings, err := s.svc.Standings(r.Context())
	if err != nil {
		s.writeError(w, r, http.StatusInternalServerError, "Failed to calculate standings", err)
		return
	}
	s.writeJSON(w, http.StatusOK, standings)
}

// GET /api/data/projections?simulations=N
func (s *Server) handleProjections(w http.ResponseWriter, r *http.Request) {
	simulations := 0
	if raw := r.URL.Query().Get("simulations"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			s.writeError(w, r, http.StatusBadRequest, "simulations must be a non-negative integer", nil)
			return
		}
		simulations = n
	}
	projections, err := s.svc.Projections(r.Context(), simulations)
	if err != nil {
		s.writeError(w, r, http.StatusInternalServerError, "Failed to project season outcomes", err)
		return
	}
	s.writeJSON(w, http.StatusOK, projections)
}

// GET /api/data/history
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	history, err := s.svc.History(r.Context())
	if err != nil {
		s.writeError(w, r, http.StatusInternalServerError, "Failed to load history", err)
		return
	}
	s.writeJSON(w, http.StatusOK, history)
}

// GET /api/data/achievements[?player=id]
func (s *Server) handleAchievements(w http.ResponseWriter, r *http.Request) {
	if player := r.URL.Query().Get("player"); player != "" {
		if _, ok := s.svc.LeagueConfig().Players[player]; !ok {
			s.writeError(w, r, http.StatusNotFound, "Unknown player", nil)
			return
		}
		summary, err := s.svc.AchievementSummary(r.Context(), player)
		if err != nil {
			s.writeError(w, r, http.StatusInternalServerError, "Failed to calculate achievements", err)
			return
		}
		s.writeJSON(w, http.StatusOK, summary)
		return
	}

	data, err := s.svc.Achievements(r.Context())
	if err != nil {
		s.writeError(w, r, http.StatusInternalServerError, "Failed to calculate achievements", err)
		return
	}
	s.writeJSON(w, http.StatusOK, data)
}

// GET /api/data/narratives
func (s *Server) handleNarratives(w http.ResponseWriter, r *http.Request) {
	archive, err := s.svc.Narratives(r.Context())
	if err != nil {
		s.writeError(w, r, http.StatusInternalServerError, "Failed to load narratives", err)
		return
	}
	s.writeJSON(w, http.StatusOK, archive)
}

type generateNarrativeRequest struct {
	Week            int  `json:"week" validate:"gte=0,lte=22"`
	ForceRegenerate bool `json:"forceRegenerate"`
}

// POST /api/data/narratives
func (s *Server) handleGenerateNarrative(w http.ResponseWriter, r *http.Request) {
	var req generateNarrativeRequest
	if !s.decode(w, r, &req) {
		return
	}

	n, week, err := s.svc.GenerateNarrative(r.Context(), req.Week, req.ForceRegenerate)
	if err != nil {
		s.writeError(w, r, http.StatusInternalServerError, "Failed to generate narrative", err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"week":      week,
		"narrative": n,
		"message":   "Generated narrative for week " + strconv.Itoa(week),
	})
}

// GET|POST /api/cache/refresh
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	report, err := s.svc.Refresh(r.Context())
	if err != nil {
		s.writeError(w, r, http.StatusInternalServerError, "Cache refresh failed", err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"report":  report,
		"message": "Cache refreshed successfully",
	})
}

// GET /api/cache/stats
func (s *Server) handleCacheStats(w http.ResponseWriter, _ *http.Request) {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"cache":    s.svc.CacheStats(),
		"uptime_s": time.Since(s.startedAt).Seconds(),
		"memory": map[string]uint64{
			"alloc":      mem.Alloc,
			"sys":        mem.Sys,
			"heap_inuse": mem.HeapInuse,
		},
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

type cacheActionRequest struct {
	Action string `json:"action" validate:"required,oneof=clear"`
	Key    string `json:"key"`
}

// POST /api/cache/stats
func (s *Server) handleCacheAction(w http.ResponseWriter, r *http.Request) {
	var req cacheActionRequest
	if !s.decode(w, r, &req) {
		return
	}

	s.svc.ClearCache(req.Key)
	msg := "Cleared all cache"
	if req.Key != "" {
		msg = "Cleared cache key: " + req.Key
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "message": msg})
}

// decode reads and validates a JSON body, writing a 400 response when it is unusable
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		s.writeError(w, r, http.StatusBadRequest, "Invalid JSON body", nil)
		return false
	}
	if err := s.validate.StructCtx(r.Context(), v); err != nil {
		s.writeError(w, r, http.StatusBadRequest, "Invalid request: "+err.Error(), nil)
		return false
	}
	return true
}

// GET /
func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(indexHTML)
}
