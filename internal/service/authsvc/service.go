package authsvc

import (
	"context"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/researchmatch/researchmatch-server/internal/app"
	"github.com/researchmatch/researchmatch-server/internal/auth"
	"github.com/researchmatch/researchmatch-server/internal/db"
	svcErr "github.com/researchmatch/researchmatch-server/internal/errors"
	"github.com/researchmatch/researchmatch-server/internal/repository"
)

// Service handles account creation and login, issuing bearer tokens that
// the rest of the API authenticates with.
type Service struct {
	appCtx      *app.AppContext
	profileRepo *repository.ProfileRepository
}

// NewService creates a new auth service with dependencies from AppContext.
func NewService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:      appCtx,
		profileRepo: repository.NewProfileRepository(appCtx.DB),
	}
}

// Signup creates a profile with a bcrypt-hashed password and returns the
// new profile plus a signed token.
func (s *Service) Signup(ctx context.Context, email, password string, firstName, lastName *string) (*db.Profile, string, error) {
	if email == "" || password == "" {
		return nil, "", svcErr.InvalidArgument("email and password are required")
	}

	if _, err := s.profileRepo.GetByEmail(ctx, email); err == nil {
		return nil, "", svcErr.AlreadyExists("email already registered")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", svcErr.Map(err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", svcErr.Map(err)
	}

	profile := &db.Profile{
		Email:        email,
		PasswordHash: string(hash),
		Active:       true,
		FirstName:    firstName,
		LastName:     lastName,
		LastLoginAt:  time.Now().UTC(),
	}
	if err := s.profileRepo.Create(ctx, profile); err != nil {
		return nil, "", svcErr.Map(err)
	}

	token, err := auth.GenerateToken(
		[]byte(s.appCtx.Cfg.Auth.JWTSecret),
		profile.ID, profile.Email,
		s.appCtx.Cfg.Auth.TokenTTL,
	)
	if err != nil {
		return nil, "", svcErr.Map(err)
	}

	return profile, token, nil
}

// Login verifies the password and returns the profile plus a fresh token.
func (s *Service) Login(ctx context.Context, email, password string) (*db.Profile, string, error) {
	profile, err := s.profileRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", svcErr.ErrNotAuthenticated
		}
		return nil, "", svcErr.Map(err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(password)); err != nil {
		return nil, "", svcErr.ErrNotAuthenticated
	}

	profile.LastLoginAt = time.Now().UTC()
	if err := s.profileRepo.Save(ctx, profile); err != nil {
		s.appCtx.Logger.Warn("failed to update last login", "user", profile.ID, "err", err)
	}

	token, err := auth.GenerateToken(
		[]byte(s.appCtx.Cfg.Auth.JWTSecret),
		profile.ID, profile.Email,
		s.appCtx.Cfg.Auth.TokenTTL,
	)
	if err != nil {
		return nil, "", svcErr.Map(err)
	}

	return profile, token, nil
}
