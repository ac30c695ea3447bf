package notifications

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/researchmatch/researchmatch-server/internal/app"
	"github.com/researchmatch/researchmatch-server/internal/server"
)

// Registrar ties the notifications service into the HTTP router
type Registrar struct {
	appCtx *app.AppContext
}

// NewRegistrar creates a new Registrar for the notifications service
func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

// Register attaches the notification routes to the router
func (reg *Registrar) Register(r *mux.Router) {
	svc := NewService(reg.appCtx)

	sub := r.PathPrefix("/api/notifications").Subrouter()
	sub.Use(server.Auth(reg.appCtx.Cfg.Auth.JWTSecret))
	sub.HandleFunc("", svc.handleList).Methods(http.MethodGet)
	sub.HandleFunc("/unread-count", svc.handleUnreadCount).Methods(http.MethodGet)
	sub.HandleFunc("/{id:[0-9]+}/read", svc.handleMarkRead).Methods(http.MethodPost)
}
