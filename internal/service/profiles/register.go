package profiles

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/researchmatch/researchmatch-server/internal/app"
	"github.com/researchmatch/researchmatch-server/internal/server"
)

// Registrar ties the profiles service into the HTTP router
type Registrar struct {
	appCtx *app.AppContext
}

// NewRegistrar creates a new Registrar for the profiles service
func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

// Register attaches the profile and match routes to the router
func (reg *Registrar) Register(r *mux.Router) {
	svc := NewService(reg.appCtx)
	authMw := server.Auth(reg.appCtx.Cfg.Auth.JWTSecret)

	sub := r.PathPrefix("/api/profiles").Subrouter()
	sub.Use(authMw)
	sub.HandleFunc("/me", svc.handleGetMe).Methods(http.MethodGet)
	sub.HandleFunc("/me", svc.handleUpdateMe).Methods(http.MethodPut)
	sub.HandleFunc("/{id:[0-9]+}", svc.handleGetByID).Methods(http.MethodGet)

	matches := r.PathPrefix("/api/matches").Subrouter()
	matches.Use(authMw)
	matches.HandleFunc("", svc.handleListMatches).Methods(http.MethodGet)
}
