package logger

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestNew_Levels(t *testing.T) {
	testCases := []struct {
		level         string
		expectedLevel zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"off", zerolog.Disabled},
		{"unknown", zerolog.InfoLevel},
	}
	for _, tc := range testCases {
		t.Run(tc.level, func(t *testing.T) {
			log := New(Config{Level: tc.level, Out: &bytes.Buffer{}})
			assert.Equal(t, tc.expectedLevel, log.GetLevel())
		})
	}
}

func TestNew_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: "info", Out: &buf})
	log.Debug().Msg("hidden")
	log.Info().Str("component", "ledger").Msg("trade added")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"component":"ledger"`)
	assert.Contains(t, out, `"message":"trade added"`)
	assert.Contains(t, out, `"time":`)
}

func TestNew_PrettyOutput(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: "debug", Pretty: true, Out: &buf})
	log.Warn().Str("symbol", "VOD").Msg("price unavailable this cycle")

	out := buf.String()
	assert.Contains(t, out, "price unavailable this cycle")
	assert.Contains(t, out, "symbol=")
	assert.NotContains(t, out, `"message"`)
}
