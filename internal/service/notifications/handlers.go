package notifications

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/researchmatch/researchmatch-server/internal/auth"
	"github.com/researchmatch/researchmatch-server/internal/db"
	svcErr "github.com/researchmatch/researchmatch-server/internal/errors"
)

type listResponse struct {
	Notifications       []db.Notification `json:"notifications"`
	NextPaginationToken *string           `json:"nextPaginationToken,omitempty"`
}

// handleList serves GET /api/notifications?token=<cursor>.
func (s *Service) handleList(w http.ResponseWriter, r *http.Request) {
	recipientID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		svcErr.WriteHTTP(w, svcErr.ErrNotAuthenticated)
		return
	}

	var token *string
	if v := r.URL.Query().Get("token"); v != "" {
		token = &v
	}

	items, nextToken, err := s.List(r.Context(), recipientID, token)
	if err != nil {
		s.appCtx.Logger.Error("list notifications failed", "recipient", recipientID, "err", err)
		svcErr.WriteHTTP(w, err)
		return
	}
	if items == nil {
		items = []db.Notification{}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(listResponse{
		Notifications:       items,
		NextPaginationToken: nextToken,
	})
}

// handleMarkRead serves POST /api/notifications/{id}/read.
func (s *Service) handleMarkRead(w http.ResponseWriter, r *http.Request) {
	recipientID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		svcErr.WriteHTTP(w, svcErr.ErrNotAuthenticated)
		return
	}

	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		svcErr.WriteHTTP(w, svcErr.InvalidArgument("notification id must be a valid uint64"))
		return
	}

	if err := s.MarkRead(r.Context(), recipientID, id); err != nil {
		svcErr.WriteHTTP(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleUnreadCount serves GET /api/notifications/unread-count.
func (s *Service) handleUnreadCount(w http.ResponseWriter, r *http.Request) {
	recipientID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		svcErr.WriteHTTP(w, svcErr.ErrNotAuthenticated)
		return
	}

	count, err := s.UnreadCount(r.Context(), recipientID)
	if err != nil {
		svcErr.WriteHTTP(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]int64{"count": count})
}
