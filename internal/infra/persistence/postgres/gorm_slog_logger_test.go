package postgres

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"shoponline/config"
	deliverycontext "shoponline/internal/delivery/context"
	"shoponline/internal/infra/metrics"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestGormSlogLogger_Trace(t *testing.T) {
	var base, scoped bytes.Buffer
	m := metrics.New()
	l := newGormSlogLogger(slog.New(slog.NewJSONHandler(&base, nil)), &config.Config{}, m)

	ctx := deliverycontext.WithLogger(context.Background(),
		slog.New(slog.NewJSONHandler(&scoped, nil)).With("request_id", "req-1"))
	stmt := func() (string, int64) { return "SELECT 1", 1 }

	l.Trace(ctx, time.Now(), stmt, errors.New("connection reset"))
	l.Trace(ctx, time.Now(), stmt, gorm.ErrRecordNotFound)
	l.Trace(context.Background(), time.Now().Add(-time.Second), stmt, nil)

	assert.Contains(t, scoped.String(), `"msg":"GORM query failed"`)
	assert.Contains(t, scoped.String(), `"request_id":"req-1"`)
	assert.NotContains(t, scoped.String(), "record not found")
	assert.Contains(t, base.String(), `"msg":"GORM slow query"`)

	body := scrapeText(t, m)
	assert.Contains(t, body, `shoponline_db_queries_total{outcome="error"} 1`)
	assert.Contains(t, body, `shoponline_db_queries_total{outcome="ok"} 1`)
	assert.Contains(t, body, `shoponline_db_queries_total{outcome="slow"} 1`)
}

func TestGormSlogLogger_SilentStillCounts(t *testing.T) {
	var logs bytes.Buffer
	m := metrics.New()
	l := newGormSlogLogger(slog.New(slog.NewJSONHandler(&logs, nil)), nil, m).LogMode(logger.Silent)

	l.Trace(context.Background(), time.Now(), func() (string, int64) { return "SELECT 1", 0 }, errors.New("boom"))

	assert.Empty(t, logs.String())
	assert.Contains(t, scrapeText(t, m), `shoponline_db_queries_total{outcome="error"} 1`)
}

func scrapeText(t *testing.T, m *metrics.Metrics) string {
	t.Helper()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	return rec.Body.String()
}
