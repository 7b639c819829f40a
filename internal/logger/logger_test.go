package logger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	testCases := []struct {
		input   string
		want    zapcore.Level
		wantErr bool
	}{
		{input: "debug", want: zapcore.DebugLevel},
		{input: "INFO", want: zapcore.InfoLevel},
		{input: "", want: zapcore.InfoLevel},
		{input: "warning", want: zapcore.WarnLevel},
		{input: "error", want: zapcore.ErrorLevel},
		{input: "loud", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			got, err := ParseLevel(tc.input)
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrInvalidLogLevel)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestNew_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lab.log")
	l, err := New(&Config{Level: "warn", Format: "json", Output: path})
	require.NoError(t, err)

	l.Info("dropped")
	l.Warn("kept")
	_ = l.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(data, &entry))
	assert.Equal(t, "kept", entry["msg"])
	assert.Equal(t, ServiceName, entry["service"])
}

func TestNew_InvalidLevel(t *testing.T) {
	_, err := New(&Config{Level: "verbose"})
	assert.ErrorIs(t, err, ErrInvalidLogLevel)
}

func TestNew_Defaults(t *testing.T) {
	l, err := New(nil)
	require.NoError(t, err)
	assert.NotNil(t, l)

	l, err = New(&Config{Format: "console"})
	require.NoError(t, err)
	assert.NotNil(t, l)
}
