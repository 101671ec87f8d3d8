package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestNewJSONRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "warn", "json")

	log.Info().Msg("hidden")
	require.Zero(t, buf.Len())

	log.Warn().Str("campaign", "Curse of Strahd").Msg("shown")
	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	require.Equal(t, "warn", line["level"])
	require.Equal(t, "Curse of Strahd", line["campaign"])
	require.Contains(t, line, "time")
}

func TestNewFallsBackToInfo(t *testing.T) {
	log := New(&bytes.Buffer{}, "loud", "console")
	require.Equal(t, zerolog.InfoLevel, log.GetLevel())
}
