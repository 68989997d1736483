package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonasrmichel/jup-routes/pkg/config"
)

func TestNewLoggerTo_JSON(t *testing.T) {
	var buf bytes.Buffer
	l := Component(NewLoggerTo(&buf, config.LoggingSettings{Level: "warn"}), "finder")

	l.Info().Msg("hidden")
	l.Warn().Int("hops", 2).Msg("shown")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "finder", entry["component"])
	assert.Equal(t, "shown", entry["message"])
	assert.EqualValues(t, 2, entry["hops"])
}

func TestNewLoggerTo_BadLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	l := NewLoggerTo(&buf, config.LoggingSettings{Level: "loud"})

	l.Debug().Msg("hidden")
	assert.Zero(t, buf.Len())

	l.Info().Msg("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestNewLoggerTo_Pretty(t *testing.T) {
	var buf bytes.Buffer
	l := NewLoggerTo(&buf, config.LoggingSettings{Level: "info", Pretty: true})

	l.Info().Str("route", "A -> B").Msg("retained")
	assert.Contains(t, buf.String(), "retained")
	assert.NotContains(t, buf.String(), `"message"`)
}
