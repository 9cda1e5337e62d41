// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/openquest/questboard/internal/domain/model"
	"github.com/openquest/questboard/internal/domain/ranking"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// GlobalPage returns one page of the global leaderboard.
	GlobalPage(ctx context.Context, callerUserID string, offset, limit int) (model.Page, error)

	// LevelPage returns one page of a level tier's leaderboard.
	LevelPage(ctx context.Context, callerUserID, levelID string, offset, limit int) (model.Page, error)

	// MyRanking returns the caller's own position and percentile.
	MyRanking(ctx context.Context, callerUserID string) (model.MyRanking, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler  *HealthHandler
	statsHandler   *StatsHandler
	rankingHandler *RankingHandler
	myRankHandler  *MyRankHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:  NewHealthHandler(),
		statsHandler:   NewStatsHandler(statsProvider),
		rankingHandler: NewRankingHandler(deps),
		myRankHandler:  NewMyRankHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	// Specific paths first (most specific to least specific)
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/ranking/me", MetricsMiddleware(CallerIdentityMiddleware(s.myRankHandler.HandleGetMyRank), "ranking_me"))
	mux.HandleFunc("/ranking/level/", MetricsMiddleware(CallerIdentityMiddleware(s.rankingHandler.HandleGetLevelRanking), "ranking_level"))
	mux.HandleFunc("/ranking", MetricsMiddleware(CallerIdentityMiddleware(s.rankingHandler.HandleGetRanking), "ranking"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeDomainError translates ranking errors to HTTP status codes.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ranking.ErrLimitExceeded), errors.Is(err, ranking.ErrInvalidPage):
		writeError(w, http.StatusBadRequest, "bad_request", err)
	case errors.Is(err, ranking.ErrLevelNotFound), errors.Is(err, ranking.ErrNoStanding):
		writeError(w, http.StatusNotFound, "not_found", err)
	case errors.Is(err, ranking.ErrUnauthenticated):
		writeError(w, http.StatusUnauthorized, "unauthenticated", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}
