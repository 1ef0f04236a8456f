package logging_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cyderes/cbnlint/internal/logging"
)

func TestGetLevelParsesKnownNames(t *testing.T) {
	lvl, err := logging.GetLevel("WARN")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, lvl)

	_, err = logging.GetLevel("bogus")
	assert.ErrorIs(t, err, logging.ErrUnknownLogLevel)
}

func TestGetFormatParsesKnownNames(t *testing.T) {
	f, err := logging.GetFormat("JSON")
	require.NoError(t, err)
	assert.Equal(t, logging.FormatJSON, f)

	_, err = logging.GetFormat("bogus")
	assert.ErrorIs(t, err, logging.ErrUnknownLogFormat)
}

func TestCreateHandlerWithStringsProducesWorkingHandler(t *testing.T) {
	var buf bytes.Buffer
	handler, err := logging.CreateHandlerWithStrings(&buf, "info", "json")
	require.NoError(t, err)

	logger := slog.New(handler)
	logger.Info("hello")
	assert.Contains(t, buf.String(), `"msg":"hello"`)
}
