package discover

import (
	"encoding/json"
	"net/http"

	"github.com/researchmatch/researchmatch-server/internal/auth"
	"github.com/researchmatch/researchmatch-server/internal/db"
	svcErr "github.com/researchmatch/researchmatch-server/internal/errors"
)

type nextCandidateResponse struct {
	SessionID string      `json:"sessionId"`
	Exhausted bool        `json:"exhausted"`
	Candidate *db.Profile `json:"candidate,omitempty"`
}

type recordDecisionRequest struct {
	MatcheeID uint64 `json:"matcheeId"`
	Decision  string `json:"decision"`
}

type recordDecisionResponse struct {
	DecisionID  uint64 `json:"decisionId"`
	MutualMatch bool   `json:"mutualMatch"`
}

// handleNext serves GET /api/discover/next?session=<id>.
func (s *Service) handleNext(w http.ResponseWriter, r *http.Request) {
	requesterID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		svcErr.WriteHTTP(w, svcErr.ErrNotAuthenticated)
		return
	}

	sessionID := r.URL.Query().Get("session")

	candidate, sessionID, err := s.NextCandidate(r.Context(), requesterID, sessionID)
	if err != nil {
		s.appCtx.Logger.Error("NextCandidate failed", "requester", requesterID, "err", err)
		svcErr.WriteHTTP(w, err)
		return
	}

	resp := nextCandidateResponse{
		SessionID: sessionID,
		Exhausted: candidate == nil,
		Candidate: candidate,
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

// handleDecision serves POST /api/discover/decision.
func (s *Service) handleDecision(w http.ResponseWriter, r *http.Request) {
	requesterID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		svcErr.WriteHTTP(w, svcErr.ErrNotAuthenticated)
		return
	}

	var req recordDecisionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		svcErr.WriteHTTP(w, svcErr.InvalidArgument("malformed request body"))
		return
	}
	if req.MatcheeID == 0 {
		svcErr.WriteHTTP(w, svcErr.InvalidArgument("matcheeId is required"))
		return
	}

	decisionID, mutual, err := s.RecordDecision(r.Context(), requesterID, req.MatcheeID, req.Decision)
	if err != nil {
		s.appCtx.Logger.Error("RecordDecision failed",
			"matcher", requesterID, "matchee", req.MatcheeID, "err", err)
		svcErr.WriteHTTP(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(recordDecisionResponse{
		DecisionID:  decisionID,
		MutualMatch: mutual,
	})
}
