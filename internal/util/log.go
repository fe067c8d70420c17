package util

import (
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

func NewLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(os.Stderr).With().Timestamp().Logger().Level(lvl)
}

// NewRunLogger stamps a fresh run id onto the process logger so every tick of
// one invocation can be correlated in downstream sinks.
func NewRunLogger(level string) (zerolog.Logger, string) {
	runID := uuid.NewString()
	return NewLogger(level).With().Str("run_id", runID).Logger(), runID
}
