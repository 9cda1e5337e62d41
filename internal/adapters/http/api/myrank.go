// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"

	"github.com/openquest/questboard/internal/domain/ranking"
)

// MyRankHandler handles the caller's own ranking requests.
type MyRankHandler struct {
	deps Dependencies
}

// NewMyRankHandler creates a new my-rank handler.
func NewMyRankHandler(deps Dependencies) *MyRankHandler {
	return &MyRankHandler{deps: deps}
}

// HandleGetMyRank handles GET /ranking/me requests. Identity is mandatory
// here, unlike the page endpoints where it only drives the IsMe flag.
func (h *MyRankHandler) HandleGetMyRank(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	callerUserID := CallerUserID(r.Context())
	if callerUserID == "" {
		writeError(w, http.StatusUnauthorized, "unauthenticated", ranking.ErrUnauthenticated)
		return
	}
	my, err := h.deps.MyRanking(r.Context(), callerUserID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, my)
}
