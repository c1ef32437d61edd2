// Package logger provides a structured logging interface for the image fetcher.
//
// It wraps the zerolog library and supports:
// - Log levels (Debug, Info, Warn, Error, or disabled)
// - Structured logging with fields
// - Console output on stderr, so stdout stays reserved for status lines
// - Optional append-only log file
// - A global logger instance for easy access
//
// Basic Usage:
//
//	err := logger.Initialize(&cfg.Logging)
//
//	logger.Info("Application started")
//	logger.WithField("url", u).Info("Fetching image")
//	logger.WithError(err).Error("Failed to create output directory")
//
// Tests use NewTestLogger to capture messages or NewNopLogger to drop them.
package logger
