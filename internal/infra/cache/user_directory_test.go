package cache

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"shoponline/config"
	"shoponline/internal/domain/entity"
	domainerrors "shoponline/internal/domain/errors"
	"shoponline/internal/domain/repository"
	"shoponline/internal/infra/metrics"
	"shoponline/internal/infra/persistence/postgres"
	"shoponline/internal/infra/persistence/sqlitetest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingUserRepo counts store round trips for username lookups.
type countingUserRepo struct {
	repository.UserRepository

	mu    sync.Mutex
	calls int
}

func (r *countingUserRepo) FindActiveByUsername(ctx context.Context, username string) (*entity.User, error) {
	r.mu.Lock()
	r.calls++
	r.mu.Unlock()

	return r.UserRepository.FindActiveByUsername(ctx, username)
}

func (r *countingUserRepo) Calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.calls
}

type directoryFixture struct {
	directory *userDirectory
	users     repository.UserRepository
	counting  *countingUserRepo
}

func newDirectoryFixture(t *testing.T, cacheCfg *config.CacheConfig) directoryFixture {
	db := sqlitetest.Open(t)
	users := postgres.NewUserRepository(db)
	counting := &countingUserRepo{UserRepository: users}

	dir := NewUserDirectory(DirectoryParams{
		Config:   &config.Config{Cache: cacheCfg},
		UserRepo: counting,
		RoleRepo: postgres.NewRoleRepository(db),
		Metrics:  metrics.New(),
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	})

	return directoryFixture{directory: dir.(*userDirectory), users: users, counting: counting}
}

func createUser(t *testing.T, users repository.UserRepository, username string) *entity.User {
	t.Helper()

	roleID := uint(entity.RoleIDCustomer)
	user := &entity.User{Username: username, PasswordHash: "hash", RoleID: &roleID, IsActive: true}
	require.NoError(t, users.Create(context.Background(), user))

	return user
}

func TestUserDirectory_CachesCaseInsensitively(t *testing.T) {
	fx := newDirectoryFixture(t, &config.CacheConfig{UserTTL: time.Minute, RoleTTL: time.Hour})
	ctx := context.Background()
	bob := createUser(t, fx.users, "Bob")

	got, err := fx.directory.GetByUsername(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, bob.ID, got.ID)

	got, err = fx.directory.GetByUsername(ctx, "BOB")
	require.NoError(t, err)
	assert.Equal(t, bob.ID, got.ID)

	byID, err := fx.directory.GetByID(ctx, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, "Bob", byID.Username)

	assert.Equal(t, 1, fx.counting.Calls(), "later lookups are served from memory")
}

func TestUserDirectory_InvalidateAfterDeactivation(t *testing.T) {
	fx := newDirectoryFixture(t, &config.CacheConfig{UserTTL: time.Hour, RoleTTL: time.Hour})
	ctx := context.Background()
	bob := createUser(t, fx.users, "bob")

	_, err := fx.directory.GetByUsername(ctx, "bob")
	require.NoError(t, err)

	require.NoError(t, fx.users.Deactivate(ctx, bob.ID, time.Now()))

	// Stale within the window until invalidated.
	_, err = fx.directory.GetByUsername(ctx, "bob")
	require.NoError(t, err)

	fx.directory.Invalidate(ctx, bob.ID)

	_, err = fx.directory.GetByUsername(ctx, "bob")
	assert.ErrorIs(t, err, domainerrors.ErrUserNotFound)

	_, err = fx.directory.GetByID(ctx, bob.ID)
	assert.ErrorIs(t, err, domainerrors.ErrUserNotFound)
}

func TestUserDirectory_InvalidateDropsRenamedUsername(t *testing.T) {
	fx := newDirectoryFixture(t, &config.CacheConfig{UserTTL: time.Hour, RoleTTL: time.Hour})
	ctx := context.Background()
	bob := createUser(t, fx.users, "bob")

	_, err := fx.directory.GetByUsername(ctx, "bob")
	require.NoError(t, err)

	bob.Username = "robert"
	require.NoError(t, fx.users.Update(ctx, bob))
	fx.directory.Invalidate(ctx, bob.ID)

	_, err = fx.directory.GetByUsername(ctx, "bob")
	assert.ErrorIs(t, err, domainerrors.ErrUserNotFound)

	renamed, err := fx.directory.GetByUsername(ctx, "Robert")
	require.NoError(t, err)
	assert.Equal(t, bob.ID, renamed.ID)
}

func TestUserDirectory_EntriesExpire(t *testing.T) {
	fx := newDirectoryFixture(t, &config.CacheConfig{UserTTL: 50 * time.Millisecond, RoleTTL: time.Hour})
	ctx := context.Background()
	createUser(t, fx.users, "bob")

	_, err := fx.directory.GetByUsername(ctx, "bob")
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		_, err := fx.directory.GetByUsername(ctx, "bob")

		return err == nil && fx.counting.Calls() > 1
	}, 2*time.Second, 20*time.Millisecond)
}

func TestUserDirectory_GetRole(t *testing.T) {
	fx := newDirectoryFixture(t, nil)
	ctx := context.Background()

	role, err := fx.directory.GetRole(ctx, entity.RoleIDAdmin)
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, role.Name)

	role.Name = "mutated"
	again, err := fx.directory.GetRole(ctx, entity.RoleIDAdmin)
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, again.Name, "callers cannot corrupt cached entries")

	_, err = fx.directory.GetRole(ctx, 999)
	assert.ErrorIs(t, err, domainerrors.ErrRoleNotFound)
}

func TestUserDirectory_ConcurrentAccess(t *testing.T) {
	fx := newDirectoryFixture(t, &config.CacheConfig{UserTTL: time.Minute})
	ctx := context.Background()
	bob := createUser(t, fx.users, "bob")

	var wg sync.WaitGroup
	for i := range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if i%4 == 0 {
				fx.directory.Invalidate(ctx, bob.ID)

				return
			}
			user, err := fx.directory.GetByUsername(ctx, "bob")
			assert.NoError(t, err)
			assert.Equal(t, bob.ID, user.ID)
		}()
	}
	wg.Wait()
}
