// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
	"strconv"
	"strings"
)

// Default page shape when query parameters are omitted.
const (
	defaultPageLimit = 20
)

// RankingHandler handles leaderboard page requests.
type RankingHandler struct {
	deps Dependencies
}

// NewRankingHandler creates a new ranking handler.
func NewRankingHandler(deps Dependencies) *RankingHandler {
	return &RankingHandler{deps: deps}
}

// HandleGetRanking handles GET /ranking?offset=N&limit=M requests.
func (h *RankingHandler) HandleGetRanking(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	offset, limit, err := pageParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	page, err := h.deps.GlobalPage(r.Context(), CallerUserID(r.Context()), offset, limit)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// HandleGetLevelRanking handles GET /ranking/level/{levelID}?offset=N&limit=M.
func (h *RankingHandler) HandleGetLevelRanking(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	levelID := strings.TrimPrefix(r.URL.Path, "/ranking/level/")
	if levelID == "" || strings.Contains(levelID, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	offset, limit, err := pageParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	page, err := h.deps.LevelPage(r.Context(), CallerUserID(r.Context()), levelID, offset, limit)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// pageParams parses offset and limit query parameters with defaults.
// Range validation beyond basic syntax belongs to the query service.
func pageParams(r *http.Request) (offset, limit int, err error) {
	offset = 0
	limit = defaultPageLimit

	if raw := r.URL.Query().Get("offset"); raw != "" {
		offset, err = strconv.Atoi(raw)
		if err != nil || offset < 0 {
			return 0, 0, ErrBadRequest
		}
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 1 {
			return 0, 0, ErrBadRequest
		}
	}
	return offset, limit, nil
}
