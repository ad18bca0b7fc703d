package middleware

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	deliverycontext "shoponline/internal/delivery/context"
	"shoponline/internal/domain/entity"
	"shoponline/internal/infra/metrics"
	"shoponline/internal/infra/permission"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockTokenService struct {
	mock.Mock
}

func (m *mockTokenService) Issue(user *entity.User, roleName string) (string, error) {
	args := m.Called(user, roleName)

	return args.String(0), args.Error(1)
}

func (m *mockTokenService) Validate(token string) (*entity.TokenClaims, error) {
	args := m.Called(token)
	claims, _ := args.Get(0).(*entity.TokenClaims)

	return claims, args.Error(1)
}

type guardFixture struct {
	echo    *echo.Echo
	tokens  *mockTokenService
	metrics *metrics.Metrics
}

func newGuardFixture(t *testing.T, permissions ...string) *guardFixture {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	authorizer, err := permission.NewAuthorizer(logger)
	require.NoError(t, err)

	f := &guardFixture{echo: echo.New(), tokens: &mockTokenService{}, metrics: metrics.New()}
	guard := NewAccessGuard(AccessGuardParams{
		TokenService: f.tokens,
		Authorizer:   authorizer,
		Metrics:      f.metrics,
		Logger:       logger,
	})

	f.echo.HTTPErrorHandler = NewErrorMiddleware(logger).HandleHTTPError
	handle := func(c echo.Context) error {
		p, ok := deliverycontext.GetPrincipal(c)
		require.True(t, ok)
		fromCtx, ok := deliverycontext.PrincipalFromContext(c.Request().Context())
		require.True(t, ok)
		assert.Equal(t, p, fromCtx)

		return c.JSON(http.StatusOK, map[string]any{"userId": p.UserID, "role": p.Role})
	}
	f.echo.GET("/protected", handle, guard.Authenticate, guard.RequirePermission(permissions...))
	f.echo.GET("/any", handle, guard.Authenticate, guard.RequireAnyPermission(permissions...))

	return f
}

func (f *guardFixture) get(authorization string) *httptest.ResponseRecorder {
	return f.getPath("/protected", authorization)
}

func (f *guardFixture) getPath(path, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authorization != "" {
		req.Header.Set(echo.HeaderAuthorization, authorization)
	}
	rec := httptest.NewRecorder()
	f.echo.ServeHTTP(rec, req)

	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	return body
}

func scrape(t *testing.T, m *metrics.Metrics) string {
	t.Helper()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	return rec.Body.String()
}

func TestAccessGuard_RejectsMissingOrMalformedTokens(t *testing.T) {
	f := newGuardFixture(t)
	f.tokens.On("Validate", "expired").Return(nil, errors.New("token is expired"))

	for _, header := range []string{"", "Basic abc", "Bearer ", "Bearer expired"} {
		rec := f.get(header)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "header %q", header)

		body := decodeEnvelope(t, rec)
		assert.Equal(t, false, body["success"])
		assert.Equal(t, "Authentication required", body["message"])
	}

	assert.Contains(t, scrape(t, f.metrics), `shoponline_authz_decisions_total{outcome="unauthenticated"} 4`)
}

func TestAccessGuard_AdmitsValidTokenWithoutPermissions(t *testing.T) {
	f := newGuardFixture(t)
	f.tokens.On("Validate", "good").Return(&entity.TokenClaims{UserID: 7, Username: "bob", Role: entity.RoleCustomer}, nil)

	rec := f.get("Bearer good")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeEnvelope(t, rec)
	assert.EqualValues(t, 7, body["userId"])
	assert.Equal(t, entity.RoleCustomer, body["role"])
	f.tokens.AssertExpectations(t)
}

func TestAccessGuard_RequirePermission(t *testing.T) {
	tests := []struct {
		name       string
		role       string
		perms      []string
		wantStatus int
	}{
		{name: "admin holds everything", role: entity.RoleAdmin, perms: []string{"users.delete"}, wantStatus: http.StatusOK},
		{name: "wildcard grant", role: entity.RoleProductManager, perms: []string{"products.update"}, wantStatus: http.StatusOK},
		{name: "exact grant", role: entity.RoleAccount, perms: []string{"payments.view"}, wantStatus: http.StatusOK},
		{name: "missing grant", role: entity.RoleCustomer, perms: []string{"products.update"}, wantStatus: http.StatusForbidden},
		{name: "every permission is required", role: entity.RoleShipper, perms: []string{"shipping.update", "orders.update"}, wantStatus: http.StatusForbidden},
		{name: "no role", role: "", perms: []string{"products.view"}, wantStatus: http.StatusForbidden},
		{name: "unknown role", role: "Auditor", perms: []string{"products.view"}, wantStatus: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newGuardFixture(t, tt.perms...)
			f.tokens.On("Validate", "tok").Return(&entity.TokenClaims{UserID: 1, Role: tt.role}, nil)

			rec := f.get("Bearer tok")
			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusForbidden {
				assert.Equal(t, "Access denied", decodeEnvelope(t, rec)["message"])
				assert.Contains(t, scrape(t, f.metrics), `shoponline_authz_decisions_total{outcome="forbidden"} 1`)
			}
		})
	}
}

func TestAccessGuard_RequireAnyPermission(t *testing.T) {
	stats := []string{"reports.view", "payments.view"}
	tests := []struct {
		name       string
		role       string
		perms      []string
		wantStatus int
	}{
		{name: "first permission", role: entity.RoleAccount, perms: stats, wantStatus: http.StatusOK},
		{name: "second permission", role: entity.RoleOrderManager, perms: stats, wantStatus: http.StatusOK},
		{name: "admin", role: entity.RoleAdmin, perms: stats, wantStatus: http.StatusOK},
		{name: "neither permission", role: entity.RoleCustomer, perms: stats, wantStatus: http.StatusForbidden},
		{name: "nothing listed", role: entity.RoleAdmin, perms: nil, wantStatus: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newGuardFixture(t, tt.perms...)
			f.tokens.On("Validate", "tok").Return(&entity.TokenClaims{UserID: 1, Role: tt.role}, nil)

			rec := f.getPath("/any", "Bearer tok")
			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusForbidden {
				assert.Contains(t, scrape(t, f.metrics), `shoponline_authz_decisions_total{outcome="forbidden"} 1`)
			} else {
				assert.Contains(t, scrape(t, f.metrics), `shoponline_authz_decisions_total{outcome="allowed"} 1`)
			}
		})
	}
}
