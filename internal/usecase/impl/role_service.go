package impl

import (
	"context"
	"log/slog"
	"strings"

	deliverycontext "shoponline/internal/delivery/context"
	"shoponline/internal/domain/entity"
	domainerrors "shoponline/internal/domain/errors"
	"shoponline/internal/domain/repository"
	"shoponline/internal/domain/service"
	"shoponline/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

type roleService struct {
	roleRepo  repository.RoleRepository
	userRepo  repository.UserRepository
	directory service.UserDirectory
	logger    *slog.Logger
}

// RoleServiceParams holds dependencies for RoleService, injected by Fx.
type RoleServiceParams struct {
	fx.In

	RoleRepo  repository.RoleRepository
	UserRepo  repository.UserRepository
	Directory service.UserDirectory
	Logger    *slog.Logger
}

// NewRoleService is the constructor for roleService.
func NewRoleService(params RoleServiceParams) usecase.RoleUsecase {
	return &roleService{
		roleRepo:  params.RoleRepo,
		userRepo:  params.UserRepo,
		directory: params.Directory,
		logger:    params.Logger,
	}
}

func (srv *roleService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

func (srv *roleService) List(ctx context.Context) ([]*entity.Role, error) {
	roles, err := srv.roleRepo.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list roles")
	}

	return roles, nil
}

func (srv *roleService) Get(ctx context.Context, id uint) (*entity.Role, error) {
	role, err := srv.roleRepo.FindByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err, domainerrors.ErrRoleNotFound, "failed to find role")
	}

	return role, nil
}

func (srv *roleService) Create(ctx context.Context, input *usecase.RoleInput) (*entity.Role, error) {
	name := strings.TrimSpace(input.Name)
	if err := srv.ensureName(ctx, name, 0); err != nil {
		return nil, err
	}

	role := &entity.Role{Name: name, Description: strings.TrimSpace(input.Description)}
	if err := srv.roleRepo.Create(ctx, role); err != nil {
		return nil, errors.Wrap(err, "failed to create role")
	}

	srv.log(ctx).Info("Role created", slog.Uint64("roleID", uint64(role.ID)), slog.String("name", role.Name))

	return role, nil
}

// Update edits a role. Seeded roles keep their names because grants are keyed by name.
func (srv *roleService) Update(ctx context.Context, id uint, input *usecase.RoleInput) (*entity.Role, error) {
	role, err := srv.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(input.Name)
	if name != "" && name != role.Name {
		if isSeededRole(role.ID) {
			return nil, domainerrors.NewFieldError("name", "seeded roles cannot be renamed")
		}
		if err := srv.ensureName(ctx, name, role.ID); err != nil {
			return nil, err
		}
		role.Name = name
	}
	role.Description = strings.TrimSpace(input.Description)

	if err := srv.roleRepo.Update(ctx, role); err != nil {
		return nil, errors.Wrap(err, "failed to update role")
	}
	srv.directory.InvalidateRole(role.ID)

	return role, nil
}

// Delete refuses while any user references the role, and always for seeded roles.
func (srv *roleService) Delete(ctx context.Context, id uint) error {
	if _, err := srv.Get(ctx, id); err != nil {
		return err
	}
	if isSeededRole(id) {
		return domainerrors.ErrRoleInUse.WithDetails("seeded roles cannot be deleted")
	}

	count, err := srv.userRepo.CountByRole(ctx, id)
	if err != nil {
		return errors.Wrap(err, "failed to count role users")
	}
	if count > 0 {
		return domainerrors.ErrRoleInUse
	}

	if err := srv.roleRepo.Delete(ctx, id); err != nil {
		return mapNotFound(err, domainerrors.ErrRoleNotFound, "failed to delete role")
	}
	srv.directory.InvalidateRole(id)

	srv.log(ctx).Info("Role deleted", slog.Uint64("roleID", uint64(id)))

	return nil
}

func (srv *roleService) ListUsers(ctx context.Context, id uint, page entity.Pagination) (entity.Page[*entity.User], error) {
	if _, err := srv.Get(ctx, id); err != nil {
		return entity.Page[*entity.User]{}, err
	}

	users, total, err := srv.userRepo.List(ctx, repository.UserFilter{RoleID: &id}, page)
	if err != nil {
		return entity.Page[*entity.User]{}, errors.Wrap(err, "failed to list role users")
	}

	return entity.NewPage(users, total, page), nil
}

func (srv *roleService) ensureName(ctx context.Context, name string, excludeID uint) error {
	if name == "" {
		return domainerrors.NewFieldError("name", "is required")
	}

	taken, err := srv.roleRepo.NameTaken(ctx, name, excludeID)
	if err != nil {
		return errors.Wrap(err, "failed to check role name")
	}
	if taken {
		return domainerrors.ErrRoleNameTaken
	}

	return nil
}

func isSeededRole(id uint) bool {
	return id >= entity.RoleIDAdmin && id <= entity.RoleIDCustomer
}
