// Package logger provides structured logging functionality for the application
// using Go's standard library log/slog package.
//
// Components derive their own logger with a "component" attribute; request
// handlers put a request-scoped logger on the context with WithContext and
// downstream code reads it back with FromContextOrDefault.
package logger
