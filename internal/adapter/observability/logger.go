package observability

import (
	"context"
	"io"
	"time"

	"github.com/rs/zerolog"
)

// GateLogger adapts zerolog to the gate.Logger interface so the
// orchestrator and the CLI share one structured logging pipeline.
type GateLogger struct {
	logger zerolog.Logger
}

// NewGateLogger creates a logger writing to out. Format "json" emits
// machine-readable lines; anything else gets the human console format.
// Unknown levels default to info.
func NewGateLogger(out io.Writer, format, level string) *GateLogger {
	var w io.Writer = out
	if format != "json" {
		w = zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen}
	}

	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	return &GateLogger{
		logger: zerolog.New(w).Level(lvl).With().Timestamp().Logger(),
	}
}

// LogWarning logs a warning message with structured fields.
func (l *GateLogger) LogWarning(ctx context.Context, message string, fields map[string]interface{}) {
	l.logger.Warn().Fields(fields).Msg(message)
}

// LogInfo logs an informational message with structured fields.
func (l *GateLogger) LogInfo(ctx context.Context, message string, fields map[string]interface{}) {
	l.logger.Info().Fields(fields).Msg(message)
}
