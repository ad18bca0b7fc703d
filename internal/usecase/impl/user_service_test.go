package impl

import (
	"context"
	"testing"
	"time"

	"shoponline/internal/domain/entity"
	domainerrors "shoponline/internal/domain/errors"
	"shoponline/internal/domain/service"
	"shoponline/internal/infra/throttle"
	"shoponline/internal/usecase"

	"github.com/alicebob/miniredis/v2"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestUserService_Register_AssignsCustomerRole(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	out, err := env.users.Register(ctx, &usecase.RegisterInput{
		Username: "  bob ",
		Password: "Secret123",
		Email:    strPtr("bob@example.com"),
		Phone:    strPtr("0912345678"),
	})
	require.NoError(t, err)

	assert.Equal(t, "bob", out.User.Username)
	assert.Equal(t, entity.RoleCustomer, out.RoleName)
	require.NotNil(t, out.User.RoleID)
	assert.Equal(t, entity.RoleIDCustomer, *out.User.RoleID)
	assert.True(t, out.User.IsActive)
	assert.NotEqual(t, "Secret123", out.User.PasswordHash)
	assert.True(t, env.hasher.Verify(out.User.PasswordHash, "Secret123"))
}

func TestUserService_Register_RejectsBadInput(t *testing.T) {
	env := newTestEnv(t, nil)

	_, err := env.users.Register(context.Background(), &usecase.RegisterInput{
		Username: "ab",
		Password: "weakpass",
		Phone:    strPtr("12345"),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)

	var validation *domainerrors.ValidationError
	require.True(t, errors.As(err, &validation))

	fields := map[string]bool{}
	for _, f := range validation.Fields() {
		fields[f.Field] = true
	}
	assert.Equal(t, map[string]bool{"username": true, "password": true, "phone": true}, fields)
}

func TestUserService_Register_UsernameTakenIgnoresCase(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	_, err := env.users.Register(ctx, &usecase.RegisterInput{Username: "Bob", Password: "Secret123"})
	require.NoError(t, err)

	_, err = env.users.Register(ctx, &usecase.RegisterInput{Username: "bob", Password: "Secret123"})
	assert.ErrorIs(t, err, domainerrors.ErrUsernameTaken)
}

func TestUserService_Register_EmailTaken(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	_, err := env.users.Register(ctx, &usecase.RegisterInput{Username: "carol", Password: "Secret123", Email: strPtr("c@example.com")})
	require.NoError(t, err)

	_, err = env.users.Register(ctx, &usecase.RegisterInput{Username: "carla", Password: "Secret123", Email: strPtr("C@Example.com")})
	assert.ErrorIs(t, err, domainerrors.ErrEmailTaken)
}

func TestUserService_Login_IssuesTokenWithRole(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	_, err := env.users.Register(ctx, &usecase.RegisterInput{Username: "bob", Password: "Secret123"})
	require.NoError(t, err)

	out, err := env.users.Login(ctx, &usecase.LoginInput{Username: "BOB", Password: "Secret123"})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleCustomer, out.RoleName)

	claims, err := env.tokens.Validate(out.Token)
	require.NoError(t, err)
	assert.Equal(t, out.User.ID, claims.UserID)
	assert.Equal(t, "bob", claims.Username)
	assert.Equal(t, entity.RoleCustomer, claims.Role)
}

func TestUserService_Login_RejectionsLookAlike(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	_, err := env.users.Register(ctx, &usecase.RegisterInput{Username: "bob", Password: "Secret123"})
	require.NoError(t, err)

	_, wrongPassword := env.users.Login(ctx, &usecase.LoginInput{Username: "bob", Password: "Wrong1234"})
	_, unknownUser := env.users.Login(ctx, &usecase.LoginInput{Username: "nobody", Password: "Secret123"})

	assert.ErrorIs(t, wrongPassword, domainerrors.ErrInvalidCredentials)
	assert.ErrorIs(t, unknownUser, domainerrors.ErrInvalidCredentials)
	assert.Equal(t, wrongPassword.Error(), unknownUser.Error())
}

// countingHasher records the hashes Verify is asked to compare against.
type countingHasher struct {
	service.PasswordHasher
	verified []string
}

func (h *countingHasher) Verify(hash, password string) bool {
	h.verified = append(h.verified, hash)

	return h.PasswordHasher.Verify(hash, password)
}

func TestUserService_Login_UnknownUserStillComparesAHash(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	hasher := &countingHasher{PasswordHasher: env.hasher}
	users := NewUserService(UserServiceParams{
		UserRepo:     env.userRepo,
		Directory:    env.directory,
		Hasher:       hasher,
		TokenService: env.tokens,
		Throttle:     allowAllThrottle{},
		Logger:       newDiscardLogger(),
	})

	_, err := users.Register(ctx, &usecase.RegisterInput{Username: "bob", Password: "Secret123"})
	require.NoError(t, err)

	_, err = users.Login(ctx, &usecase.LoginInput{Username: "nobody", Password: "Secret123"})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
	_, err = users.Login(ctx, &usecase.LoginInput{Username: "ghost", Password: "unknown-user-Placeholder-0"})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials, "the placeholder password never logs anyone in")

	require.Len(t, hasher.verified, 2)
	assert.NotEmpty(t, hasher.verified[0])
	assert.Equal(t, hasher.verified[0], hasher.verified[1], "one placeholder hash is reused")

	_, err = users.Login(ctx, &usecase.LoginInput{Username: "bob", Password: "Secret123"})
	require.NoError(t, err)
	assert.Len(t, hasher.verified, 3)
	assert.NotEqual(t, hasher.verified[0], hasher.verified[2])
}

func TestUserService_Login_ThrottledAfterRepeatedFailures(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	env := newTestEnv(t, throttle.NewRedisThrottle(client, 2, time.Minute))
	ctx := context.Background()

	_, err := env.users.Register(ctx, &usecase.RegisterInput{Username: "bob", Password: "Secret123"})
	require.NoError(t, err)

	for range 2 {
		_, err := env.users.Login(ctx, &usecase.LoginInput{Username: "bob", Password: "Wrong1234"})
		require.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
	}

	_, err = env.users.Login(ctx, &usecase.LoginInput{Username: "Bob", Password: "Secret123"})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)

	mr.FastForward(2 * time.Minute)

	_, err = env.users.Login(ctx, &usecase.LoginInput{Username: "bob", Password: "Secret123"})
	assert.NoError(t, err)
}

func TestUserService_Delete_EndsLoginAndLookups(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	out, err := env.users.Register(ctx, &usecase.RegisterInput{Username: "dave", Password: "Secret123"})
	require.NoError(t, err)
	principal := entity.Principal{UserID: out.User.ID, Username: "dave", Role: out.RoleName}

	// Warm the directory so the deactivation has to evict it.
	_, err = env.users.Login(ctx, &usecase.LoginInput{Username: "dave", Password: "Secret123"})
	require.NoError(t, err)
	_, err = env.users.Me(ctx, principal)
	require.NoError(t, err)

	require.NoError(t, env.users.Delete(ctx, out.User.ID))

	_, err = env.users.Login(ctx, &usecase.LoginInput{Username: "dave", Password: "Secret123"})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)

	_, err = env.users.Me(ctx, principal)
	assert.ErrorIs(t, err, domainerrors.ErrUserNotFound)

	kept, err := env.users.Get(ctx, out.User.ID)
	require.NoError(t, err)
	assert.False(t, kept.User.IsActive)

	page, err := env.users.List(ctx, &usecase.ListUsersInput{Page: entity.NewPagination(1, 10)})
	require.NoError(t, err)
	assert.Empty(t, page.Items)
}

func TestUserService_Delete_UnknownUser(t *testing.T) {
	env := newTestEnv(t, nil)

	err := env.users.Delete(context.Background(), 999)
	assert.ErrorIs(t, err, domainerrors.ErrUserNotFound)
}

func TestUserService_Update_RenameAndPassword(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	out, err := env.users.Register(ctx, &usecase.RegisterInput{Username: "erin", Password: "Secret123"})
	require.NoError(t, err)
	_, err = env.users.Login(ctx, &usecase.LoginInput{Username: "erin", Password: "Secret123"})
	require.NoError(t, err)

	_, err = env.users.Update(ctx, &usecase.UpdateUserInput{
		ID:       out.User.ID,
		Username: strPtr("erin2"),
		Password: strPtr("Newpass456"),
	})
	require.NoError(t, err)

	_, err = env.users.Login(ctx, &usecase.LoginInput{Username: "erin", Password: "Secret123"})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)

	_, err = env.users.Login(ctx, &usecase.LoginInput{Username: "erin2", Password: "Newpass456"})
	assert.NoError(t, err)
}

func TestUserService_Update_RoleChangeReachesNextLogin(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	shipper := entity.RoleIDShipper
	out, err := env.users.Register(ctx, &usecase.RegisterInput{Username: "frank", Password: "Secret123"})
	require.NoError(t, err)

	_, err = env.users.Update(ctx, &usecase.UpdateUserInput{ID: out.User.ID, RoleID: &shipper})
	require.NoError(t, err)

	login, err := env.users.Login(ctx, &usecase.LoginInput{Username: "frank", Password: "Secret123"})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleShipper, login.RoleName)
}

func TestUserService_Create_UnknownRole(t *testing.T) {
	env := newTestEnv(t, nil)
	missing := uint(42)

	_, err := env.users.Create(context.Background(), &usecase.CreateUserInput{
		Username: "gina",
		Password: "Secret123",
		RoleID:   &missing,
	})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidRole)
}
