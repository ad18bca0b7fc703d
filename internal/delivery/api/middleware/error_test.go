package middleware

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	domainerrors "shoponline/internal/domain/errors"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serveError(t *testing.T, logger *slog.Logger, err error) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	e := echo.New()
	e.HTTPErrorHandler = NewErrorMiddleware(logger).HandleHTTPError
	e.GET("/boom", func(echo.Context) error { return err })

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))

	return rec, decodeEnvelope(t, rec)
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestHandleHTTPError_ValidationCarriesFields(t *testing.T) {
	err := errors.Wrap(domainerrors.NewValidationError(map[string]string{
		"username": "must be 3-50 characters",
		"password": "is required",
	}), "register")

	rec, body := serveError(t, discard(), err)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "VALIDATION_FAILED", body["code"])
	assert.NotEmpty(t, body["timestamp"])

	fields, ok := body["errors"].([]any)
	require.True(t, ok)
	require.Len(t, fields, 2)
	assert.Equal(t, "password", fields[0].(map[string]any)["field"])
	assert.Equal(t, "username", fields[1].(map[string]any)["field"])
}

func TestHandleHTTPError_AppErrorStatusAndCode(t *testing.T) {
	rec, body := serveError(t, discard(), errors.WithStack(domainerrors.ErrInsufficientStock.WithDetails("Widget")))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INSUFFICIENT_STOCK", body["code"])
	assert.Equal(t, "Requested quantity exceeds available stock: Widget", body["message"])
	assert.Nil(t, body["errors"])

	rec, body = serveError(t, discard(), domainerrors.ErrUsernameTaken)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "USERNAME_TAKEN", body["code"])

	rec, body = serveError(t, discard(), domainerrors.ErrForbidden.WithDetails("missing permission users.view"))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Access denied", body["message"], "authorization detail stays server-side")
}

func TestHandleHTTPError_InternalErrorsAreOpaque(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	rec, body := serveError(t, logger, errors.New("pq: connection refused to 10.0.0.5"))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "INTERNAL_ERROR", body["code"])
	assert.NotContains(t, rec.Body.String(), "10.0.0.5")
	assert.Contains(t, logs.String(), "10.0.0.5")

	logs.Reset()
	dbErr := domainerrors.NewDatabaseExecuteError(errors.New("deadlock detected"), "orders")
	rec, body = serveError(t, logger, errors.Wrap(dbErr, "place order"))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "DATABASE_EXECUTE_FAILED", body["code"])
	assert.NotContains(t, rec.Body.String(), "deadlock")
	assert.Contains(t, logs.String(), "deadlock")
}

func TestHandleHTTPError_EchoErrors(t *testing.T) {
	e := echo.New()
	e.HTTPErrorHandler = NewErrorMiddleware(discard()).HandleHTTPError

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	body := decodeEnvelope(t, rec)
	assert.Equal(t, "HTTP_ERROR", body["code"])
	assert.Equal(t, false, body["success"])
}
