package impl

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	deliverycontext "shoponline/internal/delivery/context"
	"shoponline/internal/domain/entity"
	domainerrors "shoponline/internal/domain/errors"
	"shoponline/internal/domain/repository"
	"shoponline/internal/domain/service"
	"shoponline/internal/infra/metrics"
	"shoponline/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// userService implements the UserUsecase interface.
type userService struct {
	userRepo     repository.UserRepository
	directory    service.UserDirectory
	hasher       service.PasswordHasher
	tokenService service.TokenService
	throttle     service.LoginThrottle
	metrics      *metrics.Metrics
	logger       *slog.Logger

	// dummyHash is verified against when the username is unknown, so both
	// rejections cost one bcrypt comparison.
	dummyHash func() string
}

// UserServiceParams holds dependencies for UserService, injected by Fx.
type UserServiceParams struct {
	fx.In

	UserRepo     repository.UserRepository
	Directory    service.UserDirectory
	Hasher       service.PasswordHasher
	TokenService service.TokenService
	Throttle     service.LoginThrottle
	Metrics      *metrics.Metrics `optional:"true"`
	Logger       *slog.Logger
}

// NewUserService is the constructor for userService. It receives all dependencies as interfaces.
func NewUserService(params UserServiceParams) usecase.UserUsecase {
	return &userService{
		userRepo:     params.UserRepo,
		directory:    params.Directory,
		hasher:       params.Hasher,
		tokenService: params.TokenService,
		throttle:     params.Throttle,
		metrics:      params.Metrics,
		logger:       params.Logger,
		dummyHash: sync.OnceValue(func() string {
			hash, err := params.Hasher.Hash("unknown-user-Placeholder-0")
			if err != nil {
				params.Logger.Error("Failed to prepare placeholder hash", slog.Any("error", err))
			}

			return hash
		}),
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *userService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Register creates a Customer account.
func (srv *userService) Register(ctx context.Context, input *usecase.RegisterInput) (*usecase.UserOutput, error) {
	roleID := entity.RoleIDCustomer
	user, err := srv.createUser(ctx, &usecase.CreateUserInput{
		Username: input.Username,
		Password: input.Password,
		Email:    input.Email,
		Phone:    input.Phone,
		RoleID:   &roleID,
	})
	if err != nil {
		return nil, err
	}

	srv.log(ctx).Info("User registered", slog.Uint64("userID", uint64(user.ID)))

	return srv.withRoleName(ctx, user), nil
}

// Create is the admin path: same rules as Register with a caller-chosen role.
func (srv *userService) Create(ctx context.Context, input *usecase.CreateUserInput) (*usecase.UserOutput, error) {
	user, err := srv.createUser(ctx, input)
	if err != nil {
		return nil, err
	}

	srv.log(ctx).Info("User created", slog.Uint64("userID", uint64(user.ID)))

	return srv.withRoleName(ctx, user), nil
}

func (srv *userService) createUser(ctx context.Context, input *usecase.CreateUserInput) (*entity.User, error) {
	problems := map[string]string{}
	if msg := entity.UsernameProblem(input.Username); msg != "" {
		problems["username"] = msg
	}
	if msg := entity.PasswordProblem(input.Password); msg != "" {
		problems["password"] = msg
	}
	email, phone := trimmedOrNil(input.Email), trimmedOrNil(input.Phone)
	if email != nil && !entity.ValidEmail(*email) {
		problems["email"] = "must be a valid email address"
	}
	if phone != nil && !entity.ValidPhone(*phone) {
		problems["phone"] = "must be a valid Vietnamese mobile number"
	}
	if len(problems) > 0 {
		return nil, domainerrors.NewValidationError(problems)
	}

	username := entity.NormalizeUsername(input.Username)
	if err := srv.ensureAvailable(ctx, username, email, 0); err != nil {
		return nil, err
	}
	if err := srv.ensureRole(ctx, input.RoleID); err != nil {
		return nil, err
	}

	hash, err := srv.hasher.Hash(input.Password)
	if err != nil {
		srv.log(ctx).Error("Failed to hash password", slog.Any("error", err))

		return nil, domainerrors.ErrPasswordHashFailed
	}

	user := &entity.User{
		Username:     username,
		PasswordHash: hash,
		Email:        email,
		Phone:        phone,
		RoleID:       input.RoleID,
		IsActive:     true,
	}
	if err := srv.userRepo.Create(ctx, user); err != nil {
		return nil, errors.Wrap(err, "failed to create user")
	}

	return user, nil
}

func (srv *userService) ensureAvailable(ctx context.Context, username string, email *string, excludeID uint) error {
	if username != "" {
		taken, err := srv.userRepo.UsernameTaken(ctx, username, excludeID)
		if err != nil {
			return errors.Wrap(err, "failed to check username")
		}
		if taken {
			return domainerrors.ErrUsernameTaken
		}
	}

	if email != nil {
		taken, err := srv.userRepo.EmailTaken(ctx, *email, excludeID)
		if err != nil {
			return errors.Wrap(err, "failed to check email")
		}
		if taken {
			return domainerrors.ErrEmailTaken
		}
	}

	return nil
}

func (srv *userService) ensureRole(ctx context.Context, roleID *uint) error {
	if roleID == nil {
		return nil
	}

	if _, err := srv.directory.GetRole(ctx, *roleID); err != nil {
		if errors.Is(err, domainerrors.ErrRoleNotFound) {
			return domainerrors.ErrInvalidRole
		}

		return errors.Wrap(err, "failed to load role")
	}

	return nil
}

// Login verifies credentials and issues an access token. Every rejection,
// throttled ones included, surfaces as the same InvalidCredentials.
func (srv *userService) Login(ctx context.Context, input *usecase.LoginInput) (*usecase.LoginOutput, error) {
	key := entity.UsernameKey(input.Username)

	allowed, err := srv.throttle.Allow(ctx, key)
	if err != nil {
		srv.log(ctx).Warn("Login throttle unavailable", slog.Any("error", err))
	}
	if !allowed {
		srv.metrics.LoginAttempt("throttled")
		srv.log(ctx).Warn("Login throttled", slog.String("username", key))

		return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "login throttled")
	}

	user, err := srv.directory.GetByUsername(ctx, input.Username)
	if err != nil && !errors.Is(err, domainerrors.ErrUserNotFound) {
		return nil, errors.Wrap(err, "failed to look up user")
	}
	hash := srv.dummyHash()
	if err == nil {
		hash = user.PasswordHash
	}
	if !srv.hasher.Verify(hash, input.Password) || err != nil {
		srv.recordFailure(ctx, key)

		return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "login failed")
	}

	roleName := srv.roleName(ctx, user)
	token, err := srv.tokenService.Issue(user, roleName)
	if err != nil {
		srv.log(ctx).Error("Failed to issue token", slog.Uint64("userID", uint64(user.ID)), slog.Any("error", err))

		return nil, domainerrors.ErrTokenIssueFailed
	}

	if err := srv.throttle.Reset(ctx, key); err != nil {
		srv.log(ctx).Warn("Failed to reset login throttle", slog.Any("error", err))
	}
	srv.metrics.LoginAttempt("success")
	srv.log(ctx).Debug("User logged in", slog.Uint64("userID", uint64(user.ID)))

	return &usecase.LoginOutput{Token: token, User: user, RoleName: roleName}, nil
}

func (srv *userService) recordFailure(ctx context.Context, key string) {
	srv.metrics.LoginAttempt("failure")
	srv.log(ctx).Warn("Login failed", slog.String("username", key))

	if err := srv.throttle.RecordFailure(ctx, key); err != nil {
		srv.log(ctx).Warn("Failed to record login failure", slog.Any("error", err))
	}
}

// Me resolves the caller through the directory, so a deactivated account stops resolving.
func (srv *userService) Me(ctx context.Context, principal entity.Principal) (*usecase.UserOutput, error) {
	user, err := srv.directory.GetByID(ctx, principal.UserID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load current user")
	}

	return srv.withRoleName(ctx, user), nil
}

func (srv *userService) List(ctx context.Context, input *usecase.ListUsersInput) (entity.Page[*usecase.UserOutput], error) {
	users, total, err := srv.userRepo.List(ctx, repository.UserFilter{
		IncludeInactive: input.IncludeInactive,
		Search:          strings.TrimSpace(input.Search),
		RoleID:          input.RoleID,
	}, input.Page)
	if err != nil {
		return entity.Page[*usecase.UserOutput]{}, errors.Wrap(err, "failed to list users")
	}

	return entity.MapPage(entity.NewPage(users, total, input.Page), func(u *entity.User) *usecase.UserOutput {
		return srv.withRoleName(ctx, u)
	}), nil
}

func (srv *userService) Get(ctx context.Context, id uint) (*usecase.UserOutput, error) {
	user, err := srv.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err, domainerrors.ErrUserNotFound, "failed to find user")
	}

	return srv.withRoleName(ctx, user), nil
}

// Update applies the given fields and evicts the cached identity before returning.
func (srv *userService) Update(ctx context.Context, input *usecase.UpdateUserInput) (*usecase.UserOutput, error) {
	user, err := srv.userRepo.FindByID(ctx, input.ID)
	if err != nil {
		return nil, mapNotFound(err, domainerrors.ErrUserNotFound, "failed to find user")
	}

	problems := map[string]string{}
	var username string
	if input.Username != nil {
		if msg := entity.UsernameProblem(*input.Username); msg != "" {
			problems["username"] = msg
		}
		username = entity.NormalizeUsername(*input.Username)
	}
	if input.Password != nil {
		if msg := entity.PasswordProblem(*input.Password); msg != "" {
			problems["password"] = msg
		}
	}
	if email := trimmedOrNil(input.Email); email != nil && !entity.ValidEmail(*email) {
		problems["email"] = "must be a valid email address"
	}
	if input.Phone != nil {
		if phone := trimmedOrNil(input.Phone); phone != nil && !entity.ValidPhone(*phone) {
			problems["phone"] = "must be a valid Vietnamese mobile number"
		}
	}
	if len(problems) > 0 {
		return nil, domainerrors.NewValidationError(problems)
	}

	var email *string
	if input.Email != nil {
		email = trimmedOrNil(input.Email)
	}
	if err := srv.ensureAvailable(ctx, username, email, user.ID); err != nil {
		return nil, err
	}
	if err := srv.ensureRole(ctx, input.RoleID); err != nil {
		return nil, err
	}

	if input.Username != nil {
		user.Username = username
	}
	if input.Email != nil {
		user.Email = email
	}
	if input.Phone != nil {
		user.Phone = trimmedOrNil(input.Phone)
	}
	if input.RoleID != nil {
		user.RoleID = input.RoleID
	}
	if input.IsActive != nil {
		user.IsActive = *input.IsActive
	}
	if input.Password != nil {
		hash, err := srv.hasher.Hash(*input.Password)
		if err != nil {
			srv.log(ctx).Error("Failed to hash password", slog.Any("error", err))

			return nil, domainerrors.ErrPasswordHashFailed
		}
		user.PasswordHash = hash
	}

	if err := srv.userRepo.Update(ctx, user); err != nil {
		return nil, errors.Wrap(err, "failed to update user")
	}
	srv.directory.Invalidate(ctx, user.ID)

	srv.log(ctx).Info("User updated", slog.Uint64("userID", uint64(user.ID)))

	return srv.withRoleName(ctx, user), nil
}

// Delete deactivates the account and evicts it from the directory.
func (srv *userService) Delete(ctx context.Context, id uint) error {
	if err := srv.userRepo.Deactivate(ctx, id, time.Now()); err != nil {
		return mapNotFound(err, domainerrors.ErrUserNotFound, "failed to deactivate user")
	}
	srv.directory.Invalidate(ctx, id)

	srv.log(ctx).Info("User deactivated", slog.Uint64("userID", uint64(id)))

	return nil
}

func (srv *userService) withRoleName(ctx context.Context, user *entity.User) *usecase.UserOutput {
	return &usecase.UserOutput{User: user, RoleName: srv.roleName(ctx, user)}
}

// roleName resolves the role through the directory; a dangling role id reads as no role.
func (srv *userService) roleName(ctx context.Context, user *entity.User) string {
	if !user.HasRole() {
		return ""
	}

	role, err := srv.directory.GetRole(ctx, *user.RoleID)
	if err != nil {
		srv.log(ctx).Warn("Failed to resolve role", slog.Uint64("roleID", uint64(*user.RoleID)), slog.Any("error", err))

		return ""
	}

	return role.Name
}
