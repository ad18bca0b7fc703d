package logs

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{in: "debug", want: slog.LevelDebug},
		{in: "INFO", want: slog.LevelInfo},
		{in: "", want: slog.LevelInfo},
		{in: "warn", want: slog.LevelWarn},
		{in: "error", want: slog.LevelError},
		{in: "verbose", want: slog.LevelInfo, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseLogLevel(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewHandler_JSONWhenNotPretty(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(newHandler(&buf, false, slog.LevelInfo))

	logger.Debug("dropped")
	logger.Info("login succeeded", slog.Uint64("user_id", 7))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "login succeeded", entry["msg"])
	assert.EqualValues(t, 7, entry["user_id"])
}

func TestNewHandler_PrettyWritesText(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(newHandler(&buf, true, slog.LevelInfo))

	logger.Info("cart updated")

	assert.Contains(t, buf.String(), "cart updated")
	assert.False(t, json.Valid(buf.Bytes()))
}
