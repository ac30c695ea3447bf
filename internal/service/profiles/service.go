package profiles

import (
	"context"

	"github.com/researchmatch/researchmatch-server/internal/app"
	"github.com/researchmatch/researchmatch-server/internal/db"
	svcErr "github.com/researchmatch/researchmatch-server/internal/errors"
	"github.com/researchmatch/researchmatch-server/internal/repository"
)

// UpdateInput carries the display attributes a user may change on their
// own profile. Nil fields are left untouched.
type UpdateInput struct {
	FirstName   *string   `json:"firstName"`
	LastName    *string   `json:"lastName"`
	Bio         *string   `json:"bio"`
	Institution *string   `json:"institution"`
	AvatarURL   *string   `json:"avatarUrl"`
	Location    *string   `json:"location"`
	CollabPitch *string   `json:"collabPitch"`
	Interests   *[]string `json:"interests"`
	Skills      *[]string `json:"skills"`
}

// Service exposes profile reads, owner-only updates and the collaborator
// (mutual match) list.
type Service struct {
	appCtx       *app.AppContext
	profileRepo  *repository.ProfileRepository
	decisionRepo *repository.DecisionRepository
}

// NewService creates a new profiles service with dependencies from AppContext.
func NewService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:       appCtx,
		profileRepo:  repository.NewProfileRepository(appCtx.DB),
		decisionRepo: repository.NewDecisionRepository(appCtx.DB),
	}
}

// Get fetches one profile by id.
func (s *Service) Get(ctx context.Context, id uint64) (*db.Profile, error) {
	p, err := s.profileRepo.GetByID(ctx, id)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	return p, nil
}

// UpdateOwn applies the non-nil fields of input to the owner's profile.
// Only the owning user ever reaches this with their own id; the handler
// derives ownerID from the authenticated identity.
func (s *Service) UpdateOwn(ctx context.Context, ownerID uint64, input UpdateInput) (*db.Profile, error) {
	p, err := s.profileRepo.GetByID(ctx, ownerID)
	if err != nil {
		return nil, svcErr.Map(err)
	}

	if input.FirstName != nil {
		p.FirstName = input.FirstName
	}
	if input.LastName != nil {
		p.LastName = input.LastName
	}
	if input.Bio != nil {
		p.Bio = input.Bio
	}
	if input.Institution != nil {
		p.Institution = input.Institution
	}
	if input.AvatarURL != nil {
		p.AvatarURL = input.AvatarURL
	}
	if input.Location != nil {
		p.Location = input.Location
	}
	if input.CollabPitch != nil {
		p.CollabPitch = input.CollabPitch
	}
	if input.Interests != nil {
		p.Interests = *input.Interests
	}
	if input.Skills != nil {
		p.Skills = *input.Skills
	}

	if err := s.profileRepo.Save(ctx, p); err != nil {
		return nil, svcErr.Map(err)
	}
	return p, nil
}

// ListMatches returns the profiles this user has a realized mutual match
// with. MutualMatch is derived from the two directional decisions, not
// stored separately.
func (s *Service) ListMatches(ctx context.Context, userID uint64) ([]db.Profile, error) {
	ids, err := s.decisionRepo.ListMutualMatcheeIDs(ctx, userID)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	matches, err := s.profileRepo.ListByIDs(ctx, ids)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	return matches, nil
}
