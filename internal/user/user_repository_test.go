package user

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seedling/internal/common"
	"seedling/internal/config"
	"seedling/internal/dbmysql"
	"seedling/internal/dbmysql/dbtest"
	"seedling/internal/match"
)

func newUser(id, handle string) *dbmysql.User {
	return &dbmysql.User{
		ID:               id,
		Handle:           handle,
		PasswordHash:     "x",
		SubscriptionPlan: dbmysql.PlanNone,
		NotifySeeds:      true,
		NotifyMatches:    true,
		NotifyMessages:   true,
		NotifyLowBalance: true,
		Status:           "active",
	}
}

func TestUserRepository_CreateAndLookup(t *testing.T) {
	db := dbtest.Open(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.CreateUser(ctx, newUser("u-1", "alice")))

	byID, err := repo.GetUserByID(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, "alice", byID.Handle)

	byHandle, err := repo.GetUserByHandle(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "u-1", byHandle.ID)

	exists, err := repo.CheckUserExists(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.CheckUserExists(ctx, "nobody")
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = repo.GetUserByID(ctx, "missing")
	assert.ErrorIs(t, err, common.ErrUserNotFound)
}

func TestUserRepository_DuplicateHandle(t *testing.T) {
	db := dbtest.Open(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.CreateUser(ctx, newUser("u-1", "alice")))
	err := repo.CreateUser(ctx, newUser("u-2", "alice"))
	assert.ErrorIs(t, err, common.ErrHandleTaken)
}

func TestUserRepository_UpdatePreferences(t *testing.T) {
	db := dbtest.Open(t)
	repo := NewUserRepository(db)
	ctx := context.Background()
	require.NoError(t, repo.CreateUser(ctx, newUser("u-1", "alice")))

	off := false
	require.NoError(t, repo.UpdatePreferences(ctx, "u-1", Preferences{NotifyMessages: &off, NotifySeeds: &off}))

	u, err := repo.GetUserByID(ctx, "u-1")
	require.NoError(t, err)
	assert.False(t, u.NotifyMessages)
	assert.False(t, u.NotifySeeds)
	assert.True(t, u.NotifyMatches)
	assert.True(t, u.NotifyLowBalance)

	// empty update is a no-op
	require.NoError(t, repo.UpdatePreferences(ctx, "u-1", Preferences{}))

	err = repo.UpdatePreferences(ctx, "missing", Preferences{NotifyMessages: &off})
	assert.ErrorIs(t, err, common.ErrUserNotFound)
}

type silentNotifier struct{}

func (silentNotifier) OnSeedReceived(string, string) {}
func (silentNotifier) OnMatch(string, string)        {}
func (silentNotifier) OnLowBalance(string, int)      {}

func TestRegisterUser_GrantsInitialSeeds(t *testing.T) {
	db := dbtest.Open(t)
	txr := dbmysql.NewTransactor(db)
	ledger := match.NewLedgerService(match.NewLedgerRepository(db), txr, silentNotifier{})
	tokens := common.NewTokenManager("secret", time.Hour, "seedling")
	svc := NewUserService(NewUserRepository(db), txr, ledger, tokens, config.SeedConfig{InitialGrant: 5})
	ctx := context.Background()

	res, err := svc.RegisterUser(ctx, RegisterInput{Handle: "dana", Email: "dana@example.com", Password: "Password123"})
	require.NoError(t, err)
	assert.Equal(t, 5, res.User.SeedsAvailable)

	var stored dbmysql.User
	require.NoError(t, db.First(&stored, "id = ?", res.User.ID).Error)
	assert.Equal(t, 5, stored.SeedsAvailable)

	var entries []dbmysql.SeedTransaction
	require.NoError(t, db.Where("user_id = ?", res.User.ID).Find(&entries).Error)
	require.Len(t, entries, 1)
	assert.Equal(t, dbmysql.TxBonus, entries[0].Type)
	assert.Equal(t, 5, entries[0].Change)
	assert.Equal(t, 5, entries[0].BalanceAfter)

	_, err = svc.RegisterUser(ctx, RegisterInput{Handle: "dana", Password: "Password123"})
	assert.ErrorIs(t, err, common.ErrHandleTaken)

	login, err := svc.LoginUser(ctx, "dana", "Password123")
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, login.User.ID)

	_, err = svc.LoginUser(ctx, "dana", "wrong-password")
	assert.ErrorIs(t, err, common.ErrInvalidCredentials)
}
