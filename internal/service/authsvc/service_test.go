package authsvc_test

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
	"github.com/researchmatch/researchmatch-server/internal/auth"
	"github.com/researchmatch/researchmatch-server/internal/cache"
	"github.com/researchmatch/researchmatch-server/internal/config"
	"github.com/researchmatch/researchmatch-server/internal/db"
	svcErr "github.com/researchmatch/researchmatch-server/internal/errors"
	"github.com/researchmatch/researchmatch-server/internal/service/authsvc"
)

func str(s string) *string { return &s }

func setupService(t *testing.T) (*authsvc.Service, *app.AppContext) {
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

	require.NoError(t, gdb.AutoMigrate(&db.Profile{}))

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(func() { mr.Close() })

	cfg := config.New()
	cfg.Redis.Addr = mr.Addr()
	cfg.Auth.JWTSecret = "test-secret"

	appCtx := app.New(cfg, gdb, cache.NewRedisCache(cfg), slog.New(slog.NewTextHandler(io.Discard, nil)))
	return authsvc.NewService(appCtx), appCtx
}

func TestSignupAndLoginRoundTrip(t *testing.T) {
	ctx := context.Background()
	svc, appCtx := setupService(t)

	profile, token, err := svc.Signup(ctx, "ada@uni.test", "hunter2", str("Ada"), str("Lovelace"))
	require.NoError(t, err)
	require.NotZero(t, profile.ID)
	require.NotEmpty(t, token)

	claims, err := auth.ParseToken([]byte(appCtx.Cfg.Auth.JWTSecret), token)
	require.NoError(t, err)
	assert.Equal(t, profile.ID, claims.UserID)
	assert.Equal(t, "ada@uni.test", claims.Email)

	// password never leaves as plaintext
	assert.NotEqual(t, "hunter2", profile.PasswordHash)

	logged, token2, err := svc.Login(ctx, "ada@uni.test", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, profile.ID, logged.ID)
	assert.NotEmpty(t, token2)
}

func TestLoginWrongPassword(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupService(t)

	_, _, err := svc.Signup(ctx, "ada@uni.test", "hunter2", nil, nil)
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, "ada@uni.test", "wrong")
	assert.ErrorIs(t, err, svcErr.ErrNotAuthenticated)

	_, _, err = svc.Login(ctx, "nobody@uni.test", "hunter2")
	assert.ErrorIs(t, err, svcErr.ErrNotAuthenticated)
}

func TestSignupDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupService(t)

	_, _, err := svc.Signup(ctx, "ada@uni.test", "hunter2", nil, nil)
	require.NoError(t, err)

	_, _, err = svc.Signup(ctx, "ada@uni.test", "other", nil, nil)
	assert.ErrorIs(t, err, svcErr.ErrAlreadyExists)
}

func TestSignupRequiresCredentials(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupService(t)

	_, _, err := svc.Signup(ctx, "", "pw", nil, nil)
	assert.ErrorIs(t, err, svcErr.ErrInvalidArgument)

	_, _, err = svc.Signup(ctx, "a@b.test", "", nil, nil)
	assert.ErrorIs(t, err, svcErr.ErrInvalidArgument)
}
