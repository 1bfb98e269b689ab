package main

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewLogger_Levels(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error", "bogus", ""} {
		logger := newLogger(level)
		require.NotNil(t, logger, "level=%s", level)
	}
}
