// Package cache provides the in-memory user directory sitting in front of the user and role stores.
package cache

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"shoponline/config"
	"shoponline/internal/domain/entity"
	domainerrors "shoponline/internal/domain/errors"
	"shoponline/internal/domain/repository"
	"shoponline/internal/domain/service"
	"shoponline/internal/infra/metrics"

	lru "github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

const (
	usernamePrefix = "username:"
	idPrefix       = "id:"

	kindUser = "user"
	kindRole = "role"
)

// DirectoryParams defines the dependencies of the user directory.
type DirectoryParams struct {
	fx.In

	Config   *config.Config
	UserRepo repository.UserRepository
	RoleRepo repository.RoleRepository
	Metrics  *metrics.Metrics `optional:"true"`
	Logger   *slog.Logger
}

// userDirectory caches active users under both their lowercase username and
// their id, and roles under their id. Each expirable LRU is safe for
// concurrent use; entries expire after their freshness window.
type userDirectory struct {
	users    *lru.LRU[string, *entity.User]
	roles    *lru.LRU[uint, *entity.Role]
	userRepo repository.UserRepository
	roleRepo repository.RoleRepository
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

// NewUserDirectory creates the directory with the configured freshness windows.
func NewUserDirectory(params DirectoryParams) service.UserDirectory {
	userTTL, roleTTL, size := windows(params.Config.Cache)

	return &userDirectory{
		users:    lru.NewLRU[string, *entity.User](size, nil, userTTL),
		roles:    lru.NewLRU[uint, *entity.Role](size, nil, roleTTL),
		userRepo: params.UserRepo,
		roleRepo: params.RoleRepo,
		metrics:  params.Metrics,
		logger:   params.Logger.With("component", "user_directory"),
	}
}

func windows(cfg *config.CacheConfig) (userTTL, roleTTL time.Duration, size int) {
	fallback := 300 * time.Second
	size = 10000
	if cfg == nil {
		return fallback, fallback, size
	}

	if cfg.DefaultTimeout > 0 {
		fallback = time.Duration(cfg.DefaultTimeout) * time.Second
	}
	userTTL, roleTTL = cfg.UserTTL, cfg.RoleTTL
	if userTTL <= 0 {
		userTTL = fallback
	}
	if roleTTL <= 0 {
		roleTTL = fallback
	}
	if cfg.MaxEntries > 0 {
		size = cfg.MaxEntries
	}

	return userTTL, roleTTL, size
}

func usernameKey(username string) string {
	return usernamePrefix + entity.UsernameKey(username)
}

func idKey(id uint) string {
	return idPrefix + strconv.FormatUint(uint64(id), 10)
}

func (d *userDirectory) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	if strings.TrimSpace(username) == "" {
		return nil, domainerrors.ErrUserNotFound
	}

	key := usernameKey(username)
	if user, ok := d.users.Get(key); ok {
		d.metrics.CacheHit(kindUser)

		return cloneUser(user), nil
	}
	d.metrics.CacheMiss(kindUser)

	user, err := d.userRepo.FindActiveByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return nil, domainerrors.ErrUserNotFound
		}

		return nil, errors.Wrap(err, "failed to load user by username")
	}

	d.store(user)

	return cloneUser(user), nil
}

func (d *userDirectory) GetByID(ctx context.Context, id uint) (*entity.User, error) {
	if user, ok := d.users.Get(idKey(id)); ok {
		d.metrics.CacheHit(kindUser)

		return cloneUser(user), nil
	}
	d.metrics.CacheMiss(kindUser)

	user, err := d.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return nil, domainerrors.ErrUserNotFound
		}

		return nil, errors.Wrap(err, "failed to load user by id")
	}
	if !user.IsActive {
		return nil, domainerrors.ErrUserNotFound
	}

	d.store(user)

	return cloneUser(user), nil
}

func (d *userDirectory) GetRole(ctx context.Context, id uint) (*entity.Role, error) {
	if role, ok := d.roles.Get(id); ok {
		d.metrics.CacheHit(kindRole)
		copied := *role

		return &copied, nil
	}
	d.metrics.CacheMiss(kindRole)

	role, err := d.roleRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return nil, domainerrors.ErrRoleNotFound
		}

		return nil, errors.Wrap(err, "failed to load role")
	}

	copied := *role
	d.roles.Add(id, &copied)

	return role, nil
}

// Invalidate drops the id entry and every username entry pointing at the
// same user, including one cached under a username since changed.
func (d *userDirectory) Invalidate(ctx context.Context, id uint) {
	d.users.Remove(idKey(id))

	for _, key := range d.users.Keys() {
		if !strings.HasPrefix(key, usernamePrefix) {
			continue
		}
		if user, ok := d.users.Peek(key); ok && user.ID == id {
			d.users.Remove(key)
		}
	}

	d.logger.DebugContext(ctx, "User evicted from directory", slog.Uint64("userID", uint64(id)))
}

func (d *userDirectory) InvalidateRole(id uint) {
	d.roles.Remove(id)
}

func (d *userDirectory) store(user *entity.User) {
	cached := cloneUser(user)
	d.users.Add(usernameKey(user.Username), cached)
	d.users.Add(idKey(user.ID), cached)
}

func cloneUser(user *entity.User) *entity.User {
	copied := *user

	return &copied
}
