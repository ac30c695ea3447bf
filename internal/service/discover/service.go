package discover

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/researchmatch/researchmatch-server/internal/app"
	"github.com/researchmatch/researchmatch-server/internal/db"
	svcErr "github.com/researchmatch/researchmatch-server/internal/errors"
	"github.com/researchmatch/researchmatch-server/internal/repository"
)

// Service implements the collaborator discovery engine: it surfaces the
// next candidate profile for a requester and records swipe decisions,
// detecting mutual matches as they complete.
type Service struct {
	appCtx           *app.AppContext
	profileRepo      *repository.ProfileRepository
	decisionRepo     *repository.DecisionRepository
	notificationRepo *repository.NotificationRepository
}

// NewService creates a new discovery service with dependencies from AppContext.
func NewService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:           appCtx,
		profileRepo:      repository.NewProfileRepository(appCtx.DB),
		decisionRepo:     repository.NewDecisionRepository(appCtx.DB),
		notificationRepo: repository.NewNotificationRepository(appCtx.DB),
	}
}

// NextCandidate picks the next discoverable profile for the requester,
// uniformly at random over the eligible set.
//
// The exclusion set is the union of:
//   - the requester themselves,
//   - everyone already surfaced during this browsing session (even
//     without a decision),
//   - everyone the requester has already decided about, in either status.
//
// Reverse-direction decisions are not excluded: someone who already swiped
// on the requester can still be shown, so the requester gets a chance to
// reciprocate.
//
// sessionID is an opaque id minted on first call and returned to the
// client; the seen set behind it lives in Redis with a TTL and is
// discarded when the session expires. A nil profile with a nil error is
// the exhausted signal: no candidates remain.
func (s *Service) NextCandidate(ctx context.Context, requesterID uint64, sessionID string) (*db.Profile, string, error) {
	if _, err := s.profileRepo.GetByID(ctx, requesterID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", svcErr.ErrNotAuthenticated
		}
		return nil, "", svcErr.Map(err)
	}

	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	// Session memory is best-effort: if Redis is down, discovery still
	// works off the authoritative decision log, it just may repeat an
	// undecided candidate within the session.
	seen, err := s.appCtx.RedisCache.SeenIDs(ctx, sessionID)
	if err != nil {
		s.appCtx.Logger.Warn("failed to load session seen set", "session", sessionID, "err", err)
		seen = nil
	}

	decided, err := s.decisionRepo.ListMatcheeIDs(ctx, requesterID)
	if err != nil {
		return nil, "", svcErr.Map(err)
	}

	excluded := buildExclusionSet(requesterID, seen, decided)

	count, err := s.profileRepo.CountExcluding(ctx, excluded)
	if err != nil {
		return nil, "", svcErr.Map(err)
	}
	if count == 0 {
		// terminal empty state, not an error
		return nil, sessionID, nil
	}

	offset := rand.Intn(int(count))
	candidate, err := s.profileRepo.SampleExcluding(ctx, excluded, offset)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// eligible set shrank between count and sample
			return nil, sessionID, nil
		}
		return nil, "", svcErr.Map(err)
	}

	if err := s.appCtx.RedisCache.AddSeen(ctx, sessionID, candidate.ID, s.appCtx.Cfg.Discover.SessionTTL); err != nil {
		s.appCtx.Logger.Warn("failed to record seen candidate", "session", sessionID, "err", err)
	}

	return candidate, sessionID, nil
}

// RecordDecision appends a directional swipe decision and reports whether
// it completed a mutual match.
//
// The insert is the primary effect: its failure fails the call. The
// reciprocal check and the notification dispatch are best-effort — their
// failure is logged and never rolled back into the result, since the
// decision itself already persisted.
func (s *Service) RecordDecision(ctx context.Context, matcherID, matcheeID uint64, status string) (uint64, bool, error) {
	if matcherID == matcheeID {
		return 0, false, svcErr.ErrInvalidTarget
	}
	if status != db.DecisionMatched && status != db.DecisionRejected {
		return 0, false, fmt.Errorf("%w: unknown decision %q", svcErr.ErrInvalidTarget, status)
	}

	decisionID, err := s.decisionRepo.Insert(ctx, matcherID, matcheeID, status)
	if err != nil {
		return 0, false, svcErr.Map(err)
	}

	if status != db.DecisionMatched {
		return decisionID, false, nil
	}

	reciprocal, err := s.decisionRepo.Exists(ctx, matcheeID, matcherID, db.DecisionMatched)
	if err != nil {
		s.appCtx.Logger.Warn("mutual-match check failed",
			"matcher", matcherID, "matchee", matcheeID, "err", err)
		return decisionID, false, nil
	}
	if !reciprocal {
		return decisionID, false, nil
	}

	// mutual match realized: the matchee swiped first, notify them that
	// the matcher reciprocated
	s.notifyMutualMatch(ctx, matcherID, matcheeID)

	return decisionID, true, nil
}

// notifyMutualMatch dispatches the fire-and-forget match notification to
// the earlier decider.
func (s *Service) notifyMutualMatch(ctx context.Context, matcherID, matcheeID uint64) {
	name := fmt.Sprintf("researcher #%d", matcherID)
	if matcher, err := s.profileRepo.GetByID(ctx, matcherID); err == nil {
		name = matcher.DisplayName()
	}

	link := fmt.Sprintf("/profile/%d", matcherID)
	notification := &db.Notification{
		RecipientID: matcheeID,
		SenderID:    &matcherID,
		Type:        db.NotificationTypeMatch,
		Content:     fmt.Sprintf("%s wants to collaborate with you too. It's a match!", name),
		LinkTo:      &link,
	}
	if err := s.notificationRepo.Create(ctx, notification); err != nil {
		s.appCtx.Logger.Warn("match notification dispatch failed",
			"recipient", matcheeID, "sender", matcherID, "err", err)
		return
	}

	if err := s.appCtx.RedisCache.InvalidateUnreadCount(ctx, matcheeID); err != nil {
		s.appCtx.Logger.Warn("failed to invalidate unread counter", "recipient", matcheeID, "err", err)
	}
}

// buildExclusionSet merges self, session-seen and already-decided ids,
// deduplicated.
func buildExclusionSet(requesterID uint64, seen, decided []uint64) []uint64 {
	set := make(map[uint64]struct{}, 1+len(seen)+len(decided))
	set[requesterID] = struct{}{}
	for _, id := range seen {
		set[id] = struct{}{}
	}
	for _, id := range decided {
		set[id] = struct{}{}
	}

	out := make([]uint64, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	return out
}
