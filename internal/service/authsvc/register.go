package authsvc

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/researchmatch/researchmatch-server/internal/app"
)

// Registrar ties the auth service into the HTTP router
type Registrar struct {
	appCtx *app.AppContext
}

// NewRegistrar creates a new Registrar for the auth service
func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

// Register attaches the auth routes to the router. These routes are the
// only API surface reachable without a bearer token.
func (reg *Registrar) Register(r *mux.Router) {
	svc := NewService(reg.appCtx)

	sub := r.PathPrefix("/api/auth").Subrouter()
	sub.HandleFunc("/signup", svc.handleSignup).Methods(http.MethodPost)
	sub.HandleFunc("/login", svc.handleLogin).Methods(http.MethodPost)
}
