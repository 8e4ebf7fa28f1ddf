package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/mitchelldurbincs/genghis/internal/config"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]zerolog.Level{
		"trace":   zerolog.TraceLevel,
		"debug":   zerolog.DebugLevel,
		"info":    zerolog.InfoLevel,
		"warn":    zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"":        zerolog.InfoLevel,
		"verbose": zerolog.InfoLevel,
	}
	for in, want := range tests {
		t.Run(in, func(t *testing.T) {
			assert.Equal(t, want, ParseLevel(in))
		})
	}
}

func TestSetup(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.TraceLevel)

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		logger := Setup(config.LogConfig{Level: "warn", Format: "json"}, &buf)

		logger.Info().Msg("hidden")
		logger.Warn().Int("turn", 3).Msg("shown")

		var line map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
		assert.Equal(t, "shown", line["message"])
		assert.Equal(t, float64(3), line["turn"])
	})

	t.Run("console", func(t *testing.T) {
		var buf bytes.Buffer
		logger := Setup(config.LogConfig{Level: "debug", Format: "console"}, &buf)

		logger.Debug().Msg("engine ready")
		assert.Contains(t, buf.String(), "engine ready")
		assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())
	})
}
