package profiles_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/researchmatch/researchmatch-server/internal/app"
	"github.com/researchmatch/researchmatch-server/internal/cache"
	"github.com/researchmatch/researchmatch-server/internal/config"
	"github.com/researchmatch/researchmatch-server/internal/db"
	svcErr "github.com/researchmatch/researchmatch-server/internal/errors"
	"github.com/researchmatch/researchmatch-server/internal/service/profiles"
)

func str(s string) *string { return &s }

func setupService(t *testing.T) (*profiles.Service, *app.AppContext) {
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

	require.NoError(t, gdb.AutoMigrate(&db.Profile{}, &db.MatchDecision{}))

	for i := 1; i <= 3; i++ {
		p := db.Profile{
			ID:           uint64(i),
			Email:        fmt.Sprintf("p%d@test.com", i),
			PasswordHash: "x",
			Active:       true,
			FirstName:    str(fmt.Sprintf("P%d", i)),
		}
		require.NoError(t, gdb.Create(&p).Error)
	}

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(func() { mr.Close() })

	cfg := config.New()
	cfg.Redis.Addr = mr.Addr()

	appCtx := app.New(cfg, gdb, cache.NewRedisCache(cfg), slog.New(slog.NewTextHandler(io.Discard, nil)))
	return profiles.NewService(appCtx), appCtx
}

func TestGetProfile(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupService(t)

	p, err := svc.Get(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "p2@test.com", p.Email)

	_, err = svc.Get(ctx, 99)
	assert.ErrorIs(t, err, svcErr.ErrNotFound)
}

func TestUpdateOwnAppliesOnlyProvidedFields(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupService(t)

	updated, err := svc.UpdateOwn(ctx, 1, profiles.UpdateInput{
		Bio:         str("Working on protein folding."),
		Institution: str("ETH Zurich"),
		Interests:   &[]string{"structural biology"},
	})
	require.NoError(t, err)

	require.NotNil(t, updated.Bio)
	assert.Equal(t, "Working on protein folding.", *updated.Bio)
	require.NotNil(t, updated.Institution)
	assert.Equal(t, "ETH Zurich", *updated.Institution)
	assert.Equal(t, []string{"structural biology"}, updated.Interests)

	// untouched field survives
	require.NotNil(t, updated.FirstName)
	assert.Equal(t, "P1", *updated.FirstName)

	// fetched copy matches
	stored, err := svc.Get(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, stored.Bio)
	assert.Equal(t, "Working on protein folding.", *stored.Bio)
}

func TestListMatchesOnlyMutual(t *testing.T) {
	ctx := context.Background()
	svc, appCtx := setupService(t)

	decisions := []db.MatchDecision{
		{MatcherID: 1, MatcheeID: 2, Status: db.DecisionMatched},
		{MatcherID: 2, MatcheeID: 1, Status: db.DecisionMatched}, // mutual
		{MatcherID: 1, MatcheeID: 3, Status: db.DecisionMatched}, // one-way
	}
	require.NoError(t, appCtx.DB.Create(&decisions).Error)

	matches, err := svc.ListMatches(ctx, 1)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, uint64(2), matches[0].ID)

	matches, err = svc.ListMatches(ctx, 3)
	require.NoError(t, err)
	assert.Empty(t, matches)
}
