// Package logger provides structured logging for the application.
//
// It uses log/slog with a JSON handler, carries request-scoped loggers through
// context.Context, and wraps the handler with CI metadata when running under a
// CI system. Test helpers capture JSON log output for assertions.
package logger
