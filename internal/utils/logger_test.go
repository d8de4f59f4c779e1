package utils

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestNewLoggerLevels(t *testing.T) {
	var buf bytes.Buffer

	logger := newLogger(&buf, "debug", "json")
	assert.Equal(t, zerolog.DebugLevel, logger.GetLevel())

	logger = newLogger(&buf, "nonsense", "json")
	assert.Equal(t, zerolog.InfoLevel, logger.GetLevel())

	logger.Info().Str("source", "tmdb").Msg("hello")
	assert.Contains(t, buf.String(), `"source":"tmdb"`)
	assert.Contains(t, buf.String(), `"message":"hello"`)
}
