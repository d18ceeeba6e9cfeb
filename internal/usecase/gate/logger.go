package gate

import "context"

// Logger provides structured logging for the gate use case. It lets the
// orchestrator report progress and recoverable failures with structured
// fields without binding the use case to a logging library.
type Logger interface {
	// LogWarning logs a recoverable problem with structured fields.
	LogWarning(ctx context.Context, message string, fields map[string]interface{})

	// LogInfo logs progress information with structured fields.
	LogInfo(ctx context.Context, message string, fields map[string]interface{})
}
