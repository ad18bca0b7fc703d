package handler

import (
	"shoponline/internal/delivery/api/response"
	"shoponline/internal/domain/entity"
	"shoponline/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type roleRequest struct {
	Name        string `json:"name" validate:"required,max=50"`
	Description string `json:"description" validate:"max=255"`
}

type roleResponse struct {
	ID          uint     `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Permissions []string `json:"permissions"`
}

func newRoleResponse(role *entity.Role) roleResponse {
	permissions := role.Permissions()
	if permissions == nil {
		permissions = []string{}
	}

	return roleResponse{
		ID:          role.ID,
		Name:        role.Name,
		Description: role.Description,
		Permissions: permissions,
	}
}

// RoleHandler serves role management.
type RoleHandler struct {
	uc usecase.RoleUsecase
}

// NewRoleHandler is the constructor for RoleHandler.
func NewRoleHandler(uc usecase.RoleUsecase) *RoleHandler {
	return &RoleHandler{uc: uc}
}

func (h *RoleHandler) List(c echo.Context) error {
	roles, err := h.uc.List(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	out := make([]roleResponse, 0, len(roles))
	for _, role := range roles {
		out = append(out, newRoleResponse(role))
	}

	return response.OK(c, out, "Roles retrieved successfully")
}

func (h *RoleHandler) Get(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}

	role, err := h.uc.Get(c.Request().Context(), id)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.OK(c, newRoleResponse(role), "Role retrieved successfully")
}

func (h *RoleHandler) Create(c echo.Context) error {
	var req roleRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	role, err := h.uc.Create(c.Request().Context(), &usecase.RoleInput{Name: req.Name, Description: req.Description})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Created(c, newRoleResponse(role), "Role created successfully")
}

func (h *RoleHandler) Update(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}

	var req roleRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	role, err := h.uc.Update(c.Request().Context(), id, &usecase.RoleInput{Name: req.Name, Description: req.Description})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.OK(c, newRoleResponse(role), "Role updated successfully")
}

func (h *RoleHandler) Delete(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.uc.Delete(c.Request().Context(), id); err != nil {
		return errors.WithStack(err)
	}

	return response.OK(c, nil, "Role deleted successfully")
}

// ListUsers pages through the users holding a role.
func (h *RoleHandler) ListUsers(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}

	role, err := h.uc.Get(c.Request().Context(), id)
	if err != nil {
		return errors.WithStack(err)
	}

	page, err := h.uc.ListUsers(c.Request().Context(), id, pageQuery(c))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.OK(c, entity.MapPage(page, func(u *entity.User) userResponse {
		return newUserResponse(&usecase.UserOutput{User: u, RoleName: role.Name})
	}), "Role users retrieved successfully")
}
