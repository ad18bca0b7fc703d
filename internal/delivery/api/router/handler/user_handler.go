package handler

import (
	"log/slog"
	"strconv"
	"time"

	"shoponline/internal/delivery/api/response"
	"shoponline/internal/domain/entity"
	"shoponline/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type registerRequest struct {
	Username string  `json:"username" validate:"required"`
	Password string  `json:"password" validate:"required"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Phone    *string `json:"phone"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type createUserRequest struct {
	Username string  `json:"username" validate:"required"`
	Password string  `json:"password" validate:"required"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Phone    *string `json:"phone"`
	RoleID   *uint   `json:"roleId"`
}

type updateUserRequest struct {
	Username *string `json:"username"`
	Password *string `json:"password"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Phone    *string `json:"phone"`
	RoleID   *uint   `json:"roleId"`
	IsActive *bool   `json:"isActive"`
}

// userResponse never carries the password hash.
type userResponse struct {
	UserID    uint      `json:"userId"`
	Username  string    `json:"username"`
	Email     *string   `json:"email"`
	Phone     *string   `json:"phone"`
	RoleID    *uint     `json:"roleId"`
	RoleName  string    `json:"roleName"`
	CreatedAt time.Time `json:"createdAt"`
	IsActive  bool      `json:"isActive"`
}

type loginResponse struct {
	UserID   uint    `json:"userId"`
	Username string  `json:"username"`
	Email    *string `json:"email"`
	Token    string  `json:"token"`
	RoleID   *uint   `json:"roleId"`
	RoleName string  `json:"roleName"`
}

func newUserResponse(out *usecase.UserOutput) userResponse {
	return userResponse{
		UserID:    out.User.ID,
		Username:  out.User.Username,
		Email:     out.User.Email,
		Phone:     out.User.Phone,
		RoleID:    out.User.RoleID,
		RoleName:  out.RoleName,
		CreatedAt: out.User.CreatedAt,
		IsActive:  out.User.IsActive,
	}
}

// UserHandler holds dependencies for user-related handlers.
type UserHandler struct {
	uc     usecase.UserUsecase
	logger *slog.Logger
}

// NewUserHandler is the constructor for UserHandler, injected by Fx.
func NewUserHandler(uc usecase.UserUsecase, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		uc:     uc,
		logger: logger,
	}
}

// Register handles self-registration; the account always gets the Customer role.
func (h *UserHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	output, err := h.uc.Register(c.Request().Context(), &usecase.RegisterInput{
		Username: req.Username,
		Password: req.Password,
		Email:    req.Email,
		Phone:    req.Phone,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.OK(c, newUserResponse(output), "User registered successfully")
}

// Login handles the user login request.
func (h *UserHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	output, err := h.uc.Login(c.Request().Context(), &usecase.LoginInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.OK(c, loginResponse{
		UserID:   output.User.ID,
		Username: output.User.Username,
		Email:    output.User.Email,
		Token:    output.Token,
		RoleID:   output.User.RoleID,
		RoleName: output.RoleName,
	}, "Login successful")
}

// Me returns the caller's own account.
func (h *UserHandler) Me(c echo.Context) error {
	caller, err := principal(c)
	if err != nil {
		return err
	}

	output, err := h.uc.Me(c.Request().Context(), caller)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.OK(c, newUserResponse(output), "User retrieved successfully")
}

// List returns users, active ones only unless includeInactive=true.
func (h *UserHandler) List(c echo.Context) error {
	roleID, err := optionalUintQuery(c, "roleId")
	if err != nil {
		return err
	}
	includeInactive, _ := strconv.ParseBool(c.QueryParam("includeInactive"))

	page, err := h.uc.List(c.Request().Context(), &usecase.ListUsersInput{
		IncludeInactive: includeInactive,
		Search:          c.QueryParam("search"),
		RoleID:          roleID,
		Page:            pageQuery(c),
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.OK(c, entity.MapPage(page, newUserResponse), "Users retrieved successfully")
}

// Get returns one user, including deactivated ones.
func (h *UserHandler) Get(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}

	output, err := h.uc.Get(c.Request().Context(), id)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.OK(c, newUserResponse(output), "User retrieved successfully")
}

// Create lets an administrator create a user with any role.
func (h *UserHandler) Create(c echo.Context) error {
	var req createUserRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	output, err := h.uc.Create(c.Request().Context(), &usecase.CreateUserInput{
		Username: req.Username,
		Password: req.Password,
		Email:    req.Email,
		Phone:    req.Phone,
		RoleID:   req.RoleID,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Created(c, newUserResponse(output), "User created successfully")
}

// Update changes the fields present in the body.
func (h *UserHandler) Update(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}

	var req updateUserRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	output, err := h.uc.Update(c.Request().Context(), &usecase.UpdateUserInput{
		ID:       id,
		Username: req.Username,
		Password: req.Password,
		Email:    req.Email,
		Phone:    req.Phone,
		RoleID:   req.RoleID,
		IsActive: req.IsActive,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.OK(c, newUserResponse(output), "User updated successfully")
}

// Delete deactivates a user.
func (h *UserHandler) Delete(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.uc.Delete(c.Request().Context(), id); err != nil {
		return errors.WithStack(err)
	}

	return response.OK(c, nil, "User deactivated successfully")
}
