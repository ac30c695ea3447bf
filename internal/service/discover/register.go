package discover

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/researchmatch/researchmatch-server/internal/app"
	"github.com/researchmatch/researchmatch-server/internal/server"
)

// Registrar ties the discovery service into the HTTP router
type Registrar struct {
	appCtx *app.AppContext
}

// NewRegistrar creates a new Registrar for the discovery service
func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

// Register attaches the discovery routes to the router
func (reg *Registrar) Register(r *mux.Router) {
	svc := NewService(reg.appCtx)

	sub := r.PathPrefix("/api/discover").Subrouter()
	sub.Use(server.Auth(reg.appCtx.Cfg.Auth.JWTSecret))
	sub.HandleFunc("/next", svc.handleNext).Methods(http.MethodGet)
	sub.HandleFunc("/decision", svc.handleDecision).Methods(http.MethodPost)
}
