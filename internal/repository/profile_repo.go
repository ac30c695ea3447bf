package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/researchmatch/researchmatch-server/internal/db"
)

// ProfileRepository provides data access methods for the Profile model.
type ProfileRepository struct {
	db *gorm.DB
}

// NewProfileRepository creates a new repository bound to the given DB connection.
func NewProfileRepository(database *gorm.DB) *ProfileRepository {
	return &ProfileRepository{db: database}
}

// Create inserts a new profile row.
func (r *ProfileRepository) Create(ctx context.Context, p *db.Profile) error {
	return r.db.WithContext(ctx).Create(p).Error
}

// Save persists the given profile's current field values.
func (r *ProfileRepository) Save(ctx context.Context, p *db.Profile) error {
	return r.db.WithContext(ctx).Save(p).Error
}

// GetByID fetches one profile by primary key.
func (r *ProfileRepository) GetByID(ctx context.Context, id uint64) (*db.Profile, error) {
	var p db.Profile
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// GetByEmail fetches one profile by email.
func (r *ProfileRepository) GetByEmail(ctx context.Context, email string) (*db.Profile, error) {
	var p db.Profile
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// CountExcluding returns how many active profiles fall outside the
// exclusion set. This is the size of the eligible set for discovery.
func (r *ProfileRepository) CountExcluding(ctx context.Context, excludedIDs []uint64) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).
		Model(&db.Profile{}).
		Where("active = ?", true)
	if len(excludedIDs) > 0 {
		query = query.Where("id NOT IN ?", excludedIDs)
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// SampleExcluding returns the profile at the given ordinal position within
// the eligible set, ordered by id. A uniformly random offset in
// [0, CountExcluding) therefore yields a uniform pick over eligible profiles.
func (r *ProfileRepository) SampleExcluding(ctx context.Context, excludedIDs []uint64, offset int) (*db.Profile, error) {
	query := r.db.WithContext(ctx).
		Where("active = ?", true)
	if len(excludedIDs) > 0 {
		query = query.Where("id NOT IN ?", excludedIDs)
	}

	var p db.Profile
	if err := query.Order("id ASC").Offset(offset).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// ListByIDs fetches profiles for the given ids, ordered by id.
func (r *ProfileRepository) ListByIDs(ctx context.Context, ids []uint64) ([]db.Profile, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var profiles []db.Profile
	if err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Order("id ASC").
		Find(&profiles).Error; err != nil {
		return nil, err
	}
	return profiles, nil
}
