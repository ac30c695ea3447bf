package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/researchmatch/researchmatch-server/internal/db"
)

// DecisionRepository provides data access methods for the MatchDecision
// model. The decision log is append-only: Insert never checks for a prior
// row for the same pair, and nothing here updates or deletes rows. All
// reads are set-membership queries, so duplicate rows do not affect
// behavior.
type DecisionRepository struct {
	db *gorm.DB
}

// NewDecisionRepository creates a new repository bound to the given DB connection.
func NewDecisionRepository(database *gorm.DB) *DecisionRepository {
	return &DecisionRepository{db: database}
}

// Insert appends a decision made by matcher -> matchee and returns the
// persisted row id.
//
// Example:
//
//	repo.Insert(ctx, 1, 2, db.DecisionMatched) // user 1 matched with user 2
func (r *DecisionRepository) Insert(
	ctx context.Context,
	matcherID, matcheeID uint64,
	status string,
) (uint64, error) {
	decision := db.MatchDecision{
		MatcherID: matcherID,
		MatcheeID: matcheeID,
		Status:    status,
	}
	if err := r.db.WithContext(ctx).Create(&decision).Error; err != nil {
		return 0, err
	}
	return decision.ID, nil
}

// ListMatcheeIDs returns the distinct set of profile ids this matcher has
// already decided about, in either status. Used to build the discovery
// exclusion set.
//
// Decisions in the reverse direction (where this user is the matchee) are
// deliberately not included, so the user can still be shown someone who
// already swiped on them and reciprocate.
func (r *DecisionRepository) ListMatcheeIDs(
	ctx context.Context,
	matcherID uint64,
) ([]uint64, error) {
	var ids []uint64
	err := r.db.WithContext(ctx).
		Model(&db.MatchDecision{}).
		Distinct("matchee_id").
		Where("matcher_id = ?", matcherID).
		Pluck("matchee_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// Exists reports whether any decision row matches (matcher, matchee, status).
//
// Example:
//
//	repo.Exists(ctx, 2, 1, db.DecisionMatched) // did user 2 match with user 1?
func (r *DecisionRepository) Exists(
	ctx context.Context,
	matcherID, matcheeID uint64,
	status string,
) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.MatchDecision{}).
		Where("matcher_id = ? AND matchee_id = ? AND status = ?", matcherID, matcheeID, status).
		Count(&count).Error
	return count > 0, err
}

// ListMutualMatcheeIDs returns the ids of every profile the given user has
// a realized mutual match with: both directional "matched" decisions exist.
func (r *DecisionRepository) ListMutualMatcheeIDs(
	ctx context.Context,
	userID uint64,
) ([]uint64, error) {
	var ids []uint64
	err := r.db.WithContext(ctx).
		Table("match_decisions d").
		Distinct("d.matchee_id").
		Where("d.matcher_id = ? AND d.status = ?", userID, db.DecisionMatched).
		Where(`
			EXISTS (
				SELECT 1 FROM match_decisions d2
				WHERE d2.matcher_id = d.matchee_id
				  AND d2.matchee_id = d.matcher_id
				  AND d2.status = ?
			)`, db.DecisionMatched).
		Pluck("d.matchee_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}
