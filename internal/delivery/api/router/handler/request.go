// Package handler contains the HTTP handlers for the application.
package handler

import (
	"strconv"

	"shoponline/internal/delivery/api/middleware"
	"shoponline/internal/domain/entity"
	domainerrors "shoponline/internal/domain/errors"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// bind decodes the request into req and runs the registered validator.
func bind(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return domainerrors.ErrInvalidInput.WithDetails(bindMessage(err))
	}

	return errors.WithStack(c.Validate(req))
}

func bindMessage(err error) string {
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		if msg, ok := httpErr.Message.(string); ok {
			return msg
		}
	}

	return "cannot decode request"
}

// idParam parses a positive numeric path parameter.
func idParam(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, domainerrors.NewFieldError(name, "must be a positive integer")
	}

	return uint(id), nil
}

// pageQuery reads page and pageSize, clamping them to the allowed range.
func pageQuery(c echo.Context) entity.Pagination {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	size, _ := strconv.Atoi(c.QueryParam("pageSize"))

	return entity.NewPagination(page, size)
}

func optionalUintQuery(c echo.Context, name string) (*uint, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}

	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return nil, domainerrors.NewFieldError(name, "must be a positive integer")
	}
	id := uint(v)

	return &id, nil
}

func optionalFloatQuery(c echo.Context, name string) (*float64, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, domainerrors.NewFieldError(name, "must be a number")
	}

	return &v, nil
}

// principal returns the caller established by the access guard.
func principal(c echo.Context) (entity.Principal, error) {
	p, err := middleware.Principal(c)

	return p, errors.WithStack(err)
}
