// Package logger provides nil-safe slog attribute helpers used across the
// dispatch packages.
package logger
