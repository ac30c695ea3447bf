package discover_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/researchmatch/researchmatch-server/internal/app"
	"github.com/researchmatch/researchmatch-server/internal/auth"
	"github.com/researchmatch/researchmatch-server/internal/cache"
	"github.com/researchmatch/researchmatch-server/internal/config"
	"github.com/researchmatch/researchmatch-server/internal/db"
	svcErr "github.com/researchmatch/researchmatch-server/internal/errors"
	"github.com/researchmatch/researchmatch-server/internal/service/discover"
)

//
// Test helpers
//

func str(s string) *string { return &s }

// seedProfiles inserts n researcher profiles with ids 1..n.
func seedProfiles(t *testing.T, gdb *gorm.DB, n int) {
	t.Helper()
	for i := 1; i <= n; i++ {
		p := db.Profile{
			ID:           uint64(i),
			Email:        fmt.Sprintf("r%d@uni.test", i),
			PasswordHash: "x",
			Active:       true,
			FirstName:    str(fmt.Sprintf("Res%d", i)),
			LastName:     str("Earcher"),
			Interests:    []string{"ml", "bio"},
		}
		require.NoError(t, gdb.Create(&p).Error)
	}
}

// setup spins up an in-memory SQLite DB, applies migrations, starts a
// miniredis, and wires everything into a discovery Service.
//
// Each test gets its own isolated DB + Redis.
func setup(t *testing.T, profiles int) (*discover.Service, *app.AppContext) {
	t.Helper()

	dbName := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	gdb, err := gorm.Open(sqlite.Open(dbName), &gorm.Config{
		NowFunc:                func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, gdb.AutoMigrate(&db.Profile{}, &db.MatchDecision{}, &db.Notification{}))
	seedProfiles(t, gdb, profiles)

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(func() { mr.Close() })

	cfg := config.New()
	cfg.Redis.Addr = mr.Addr()

	redisCache := cache.NewRedisCache(cfg)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	appCtx := app.New(cfg, gdb, redisCache, logger)
	return discover.NewService(appCtx), appCtx
}

func notificationCount(t *testing.T, appCtx *app.AppContext) int64 {
	t.Helper()
	var n int64
	require.NoError(t, appCtx.DB.Model(&db.Notification{}).Count(&n).Error)
	return n
}

//
// Tests
//

// A requester must never be shown their own profile.
func TestNextCandidateNeverReturnsSelf(t *testing.T) {
	ctx := context.Background()
	svc, _ := setup(t, 2)

	for i := 0; i < 10; i++ {
		// fresh session each time so only self-exclusion applies
		candidate, _, err := svc.NextCandidate(ctx, 1, "")
		require.NoError(t, err)
		require.NotNil(t, candidate)
		assert.Equal(t, uint64(2), candidate.ID)
	}
}

// Everyone the requester already decided about is excluded, in either
// status; with one decision recorded the only remaining candidate is
// returned deterministically.
func TestNextCandidateExcludesDecided(t *testing.T) {
	ctx := context.Background()
	svc, _ := setup(t, 3)

	_, _, err := svc.RecordDecision(ctx, 1, 2, db.DecisionRejected)
	require.NoError(t, err)

	candidate, _, err := svc.NextCandidate(ctx, 1, "")
	require.NoError(t, err)
	require.NotNil(t, candidate)
	assert.Equal(t, uint64(3), candidate.ID)

	// matched decisions exclude as well
	_, _, err = svc.RecordDecision(ctx, 1, 3, db.DecisionMatched)
	require.NoError(t, err)

	candidate, sessionID, err := svc.NextCandidate(ctx, 1, "")
	require.NoError(t, err)
	assert.Nil(t, candidate)
	assert.NotEmpty(t, sessionID)
}

// Within one session, two consecutive calls never repeat a candidate even
// without an intervening decision.
func TestSessionNoRepeat(t *testing.T) {
	ctx := context.Background()
	svc, _ := setup(t, 3)

	first, sessionID, err := svc.NextCandidate(ctx, 1, "")
	require.NoError(t, err)
	require.NotNil(t, first)
	require.NotEmpty(t, sessionID)

	second, sessionID2, err := svc.NextCandidate(ctx, 1, sessionID)
	require.NoError(t, err)
	require.NotNil(t, second)
	assert.Equal(t, sessionID, sessionID2)
	assert.NotEqual(t, first.ID, second.ID)

	// both remaining profiles surfaced, session is now exhausted
	third, _, err := svc.NextCandidate(ctx, 1, sessionID)
	require.NoError(t, err)
	assert.Nil(t, third)
}

// A decision in the reverse direction does not hide a profile: the
// requester must still get the chance to reciprocate.
func TestReverseDecisionDoesNotExclude(t *testing.T) {
	ctx := context.Background()
	svc, _ := setup(t, 2)

	_, _, err := svc.RecordDecision(ctx, 2, 1, db.DecisionMatched)
	require.NoError(t, err)

	candidate, _, err := svc.NextCandidate(ctx, 1, "")
	require.NoError(t, err)
	require.NotNil(t, candidate)
	assert.Equal(t, uint64(2), candidate.ID)
}

// The first matched swipe of a pair reports no mutual match; the
// reciprocal one completes it.
func TestReciprocityCompletesMutualMatch(t *testing.T) {
	ctx := context.Background()
	svc, _ := setup(t, 2)

	_, mutual, err := svc.RecordDecision(ctx, 1, 2, db.DecisionMatched)
	require.NoError(t, err)
	assert.False(t, mutual)

	_, mutual, err = svc.RecordDecision(ctx, 2, 1, db.DecisionMatched)
	require.NoError(t, err)
	assert.True(t, mutual)
}

// A one-way matched swipe creates no notification.
func TestNonReciprocalCreatesNoNotification(t *testing.T) {
	ctx := context.Background()
	svc, appCtx := setup(t, 2)

	_, _, err := svc.RecordDecision(ctx, 1, 2, db.DecisionMatched)
	require.NoError(t, err)

	assert.Equal(t, int64(0), notificationCount(t, appCtx))
}

// Rejection is terminal: the rejected profile never comes back, a
// reciprocal-looking matched swipe from the other side stays non-mutual,
// and no notification is ever created from a rejection.
func TestRejectionIsTerminal(t *testing.T) {
	ctx := context.Background()
	svc, appCtx := setup(t, 2)

	_, mutual, err := svc.RecordDecision(ctx, 1, 2, db.DecisionRejected)
	require.NoError(t, err)
	assert.False(t, mutual)

	candidate, _, err := svc.NextCandidate(ctx, 1, "")
	require.NoError(t, err)
	assert.Nil(t, candidate)

	_, mutual, err = svc.RecordDecision(ctx, 2, 1, db.DecisionMatched)
	require.NoError(t, err)
	assert.False(t, mutual)

	assert.Equal(t, int64(0), notificationCount(t, appCtx))
}

func TestSelfDecisionRejected(t *testing.T) {
	ctx := context.Background()
	svc, _ := setup(t, 2)

	_, _, err := svc.RecordDecision(ctx, 1, 1, db.DecisionMatched)
	assert.ErrorIs(t, err, svcErr.ErrInvalidTarget)
}

func TestUnknownDecisionStatusRejected(t *testing.T) {
	ctx := context.Background()
	svc, _ := setup(t, 2)

	_, _, err := svc.RecordDecision(ctx, 1, 2, "maybe")
	assert.ErrorIs(t, err, svcErr.ErrInvalidTarget)
}

// With nobody else left, discovery returns the exhausted signal, not an
// error.
func TestExhaustedSignal(t *testing.T) {
	ctx := context.Background()
	svc, _ := setup(t, 1)

	candidate, sessionID, err := svc.NextCandidate(ctx, 1, "")
	require.NoError(t, err)
	assert.Nil(t, candidate)
	assert.NotEmpty(t, sessionID)
}

func TestUnknownRequesterNotAuthenticated(t *testing.T) {
	ctx := context.Background()
	svc, _ := setup(t, 2)

	_, _, err := svc.NextCandidate(ctx, 999, "")
	assert.ErrorIs(t, err, svcErr.ErrNotAuthenticated)
}

// Full scenario: discovery, rejection, deterministic follow-up, mutual
// completion, and exactly one notification addressed to the earlier
// decider.
func TestEndToEndScenario(t *testing.T) {
	ctx := context.Background()
	svc, appCtx := setup(t, 3)

	first, _, err := svc.NextCandidate(ctx, 1, "")
	require.NoError(t, err)
	require.NotNil(t, first)
	require.Contains(t, []uint64{2, 3}, first.ID)

	_, _, err = svc.RecordDecision(ctx, 1, first.ID, db.DecisionRejected)
	require.NoError(t, err)

	var other uint64 = 2
	if first.ID == 2 {
		other = 3
	}

	second, _, err := svc.NextCandidate(ctx, 1, "")
	require.NoError(t, err)
	require.NotNil(t, second)
	assert.Equal(t, other, second.ID)

	// the other researcher swipes first, then requester reciprocates
	_, mutual, err := svc.RecordDecision(ctx, other, 1, db.DecisionMatched)
	require.NoError(t, err)
	assert.False(t, mutual)

	_, mutual, err = svc.RecordDecision(ctx, 1, other, db.DecisionMatched)
	require.NoError(t, err)
	assert.True(t, mutual)

	var notifications []db.Notification
	require.NoError(t, appCtx.DB.Find(&notifications).Error)
	require.Len(t, notifications, 1)

	n := notifications[0]
	assert.Equal(t, other, n.RecipientID) // earlier decider gets notified
	require.NotNil(t, n.SenderID)
	assert.Equal(t, uint64(1), *n.SenderID)
	assert.Equal(t, db.NotificationTypeMatch, n.Type)
	require.NotNil(t, n.LinkTo)
	assert.Equal(t, "/profile/1", *n.LinkTo)
	assert.False(t, n.IsRead)
}

// Duplicate directional decisions accumulate (append-only log) without
// changing observable behavior.
func TestDuplicateDecisionsAccumulate(t *testing.T) {
	ctx := context.Background()
	svc, appCtx := setup(t, 2)

	id1, _, err := svc.RecordDecision(ctx, 1, 2, db.DecisionMatched)
	require.NoError(t, err)
	id2, _, err := svc.RecordDecision(ctx, 1, 2, db.DecisionMatched)
	require.NoError(t, err)
	assert.NotEqual(t, id1, id2)

	var rows int64
	require.NoError(t, appCtx.DB.Model(&db.MatchDecision{}).Count(&rows).Error)
	assert.Equal(t, int64(2), rows)

	// still excluded exactly once
	candidate, _, err := svc.NextCandidate(ctx, 1, "")
	require.NoError(t, err)
	assert.Nil(t, candidate)
}

// The HTTP surface: bearer auth resolves the matcher, the decision lands,
// and the mutual flag comes back in the response body.
func TestDecisionEndpoint(t *testing.T) {
	_, appCtx := setup(t, 2)

	router := mux.NewRouter()
	discover.NewRegistrar(appCtx).Register(router)

	token, err := auth.GenerateToken([]byte(appCtx.Cfg.Auth.JWTSecret), 2, "r2@uni.test", time.Hour)
	require.NoError(t, err)

	// seed the opposite direction so this call completes the match
	require.NoError(t, appCtx.DB.Create(&db.MatchDecision{
		MatcherID: 1, MatcheeID: 2, Status: db.DecisionMatched,
	}).Error)

	req := httptest.NewRequest(http.MethodPost, "/api/discover/decision",
		strings.NewReader(`{"matcheeId":1,"decision":"matched"}`))
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		DecisionID  uint64 `json:"decisionId"`
		MutualMatch bool   `json:"mutualMatch"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.NotZero(t, resp.DecisionID)
	assert.True(t, resp.MutualMatch)
}

func TestDecisionEndpointRequiresAuth(t *testing.T) {
	_, appCtx := setup(t, 2)

	router := mux.NewRouter()
	discover.NewRegistrar(appCtx).Register(router)

	req := httptest.NewRequest(http.MethodPost, "/api/discover/decision",
		strings.NewReader(`{"matcheeId":1,"decision":"matched"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
