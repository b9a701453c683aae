package logging_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/marigold/pkg/logging"
)

func TestNewLogger(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error"} {
		logger, err := logging.NewLogger("marigold-test", level, false)
		require.NoError(t, err, level)
		assert.NotNil(t, logger)
	}

	_, err := logging.NewLogger("marigold-test", "info", true)
	assert.NoError(t, err)
}

func TestNewLogger_InvalidLevel(t *testing.T) {
	_, err := logging.NewLogger("marigold-test", "loud", false)
	assert.ErrorContains(t, err, `invalid log level "loud"`)
}
