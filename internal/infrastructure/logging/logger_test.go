package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup_Levels(t *testing.T) {
	tests := []struct {
		level string
		want  zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"WARN", zerolog.WarnLevel},
		{" error ", zerolog.ErrorLevel},
		{"", zerolog.InfoLevel},
		{"verbose", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			var buf bytes.Buffer
			got := setup(&buf, tt.level, "json", "production")
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want, zerolog.GlobalLevel())
		})
	}
}

func TestSetup_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	setup(&buf, "info", "json", "development")

	log.Info().Str("store", "IGA").Msg("hello")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "hello", entry["message"])
	assert.Equal(t, "IGA", entry["store"])
}

func TestUseConsole(t *testing.T) {
	tests := []struct {
		format, env string
		want        bool
	}{
		{"json", "development", false},
		{"console", "production", true},
		{"", "development", true},
		{"", "", true},
		{"", "production", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, useConsole(tt.format, tt.env), "format=%q env=%q", tt.format, tt.env)
	}
}
