package authsvc

import (
	"encoding/json"
	"net/http"

	"github.com/researchmatch/researchmatch-server/internal/db"
	svcErr "github.com/researchmatch/researchmatch-server/internal/errors"
)

type signupRequest struct {
	Email     string  `json:"email"`
	Password  string  `json:"password"`
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Profile *db.Profile `json:"profile"`
	Token   string      `json:"token"`
}

// handleSignup serves POST /api/auth/signup.
func (s *Service) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		svcErr.WriteHTTP(w, svcErr.InvalidArgument("malformed request body"))
		return
	}

	profile, token, err := s.Signup(r.Context(), req.Email, req.Password, req.FirstName, req.LastName)
	if err != nil {
		s.appCtx.Logger.Error("signup failed", "email", req.Email, "err", err)
		svcErr.WriteHTTP(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(authResponse{Profile: profile, Token: token})
}

// handleLogin serves POST /api/auth/login.
func (s *Service) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		svcErr.WriteHTTP(w, svcErr.InvalidArgument("malformed request body"))
		return
	}

	profile, token, err := s.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		svcErr.WriteHTTP(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(authResponse{Profile: profile, Token: token})
}
