package profiles

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/researchmatch/researchmatch-server/internal/auth"
	"github.com/researchmatch/researchmatch-server/internal/db"
	svcErr "github.com/researchmatch/researchmatch-server/internal/errors"
)

// handleGetMe serves GET /api/profiles/me.
func (s *Service) handleGetMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		svcErr.WriteHTTP(w, svcErr.ErrNotAuthenticated)
		return
	}

	p, err := s.Get(r.Context(), userID)
	if err != nil {
		svcErr.WriteHTTP(w, err)
		return
	}
	writeJSON(w, p)
}

// handleUpdateMe serves PUT /api/profiles/me.
func (s *Service) handleUpdateMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		svcErr.WriteHTTP(w, svcErr.ErrNotAuthenticated)
		return
	}

	var input UpdateInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		svcErr.WriteHTTP(w, svcErr.InvalidArgument("malformed request body"))
		return
	}

	p, err := s.UpdateOwn(r.Context(), userID, input)
	if err != nil {
		s.appCtx.Logger.Error("profile update failed", "user", userID, "err", err)
		svcErr.WriteHTTP(w, err)
		return
	}
	writeJSON(w, p)
}

// handleGetByID serves GET /api/profiles/{id}.
func (s *Service) handleGetByID(w http.ResponseWriter, r *http.Request) {
	if _, ok := auth.UserIDFromContext(r.Context()); !ok {
		svcErr.WriteHTTP(w, svcErr.ErrNotAuthenticated)
		return
	}

	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		svcErr.WriteHTTP(w, svcErr.InvalidArgument("profile id must be a valid uint64"))
		return
	}

	p, err := s.Get(r.Context(), id)
	if err != nil {
		svcErr.WriteHTTP(w, err)
		return
	}
	writeJSON(w, p)
}

// handleListMatches serves GET /api/matches.
func (s *Service) handleListMatches(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		svcErr.WriteHTTP(w, svcErr.ErrNotAuthenticated)
		return
	}

	matches, err := s.ListMatches(r.Context(), userID)
	if err != nil {
		s.appCtx.Logger.Error("list matches failed", "user", userID, "err", err)
		svcErr.WriteHTTP(w, err)
		return
	}
	if matches == nil {
		matches = []db.Profile{}
	}
	writeJSON(w, map[string]any{"matches": matches})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
