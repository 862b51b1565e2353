package outbound

import (
	"context"
)

// Logger is the structured logging port. The infrastructure logger
// implements it; use cases log through it so the application layer
// stays free of logging-library imports.
type Logger interface {
	Info(ctx context.Context, message string, fields map[string]interface{})
	Error(ctx context.Context, message string, err error, fields map[string]interface{})
	Warn(ctx context.Context, message string, fields map[string]interface{})
	Debug(ctx context.Context, message string, fields map[string]interface{})
	WithFields(fields map[string]interface{}) Logger
}
