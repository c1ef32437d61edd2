package logger

import (
	"time"
)

// LogRequest logs HTTP request information
func LogRequest(l Logger, method, url string, statusCode int, duration time.Duration) {
	fields := map[string]interface{}{
		"method":      method,
		"url":         url,
		"status_code": statusCode,
		"duration":    duration,
	}

	switch {
	case statusCode >= 200 && statusCode < 300:
		l.DebugWithFields("HTTP request completed", fields)
	case statusCode >= 500:
		l.ErrorWithFields("HTTP request server error", fields)
	default:
		l.WarnWithFields("HTTP request not successful", fields)
	}
}

// LogOutcome logs the outcome of one URL of a fetch session.
// kind is empty for saved items.
func LogOutcome(l Logger, index int, url, kind, path string, err error) {
	fields := map[string]interface{}{
		"index": index,
		"url":   url,
	}

	switch {
	case kind == "":
		fields["path"] = path
		l.InfoWithFields("Image saved", fields)
	case err != nil:
		fields["kind"] = kind
		l.WithError(err).WarnWithFields("Image not saved", fields)
	default:
		fields["kind"] = kind
		l.WarnWithFields("Image not saved", fields)
	}
}

// LogSummary logs the counters of a finished fetch session
func LogSummary(l Logger, saved, skipped, failed int, elapsed time.Duration) {
	l.InfoWithFields("Fetch session finished", map[string]interface{}{
		"saved":   saved,
		"skipped": skipped,
		"failed":  failed,
		"elapsed": elapsed,
	})
}

// NewNopLogger creates a no-operation logger for testing
func NewNopLogger() Logger {
	return &nopLogger{}
}

// nopLogger is a logger that does nothing
type nopLogger struct{}

func (n *nopLogger) Debug(msg string)                                          {}
func (n *nopLogger) Info(msg string)                                           {}
func (n *nopLogger) Warn(msg string)                                           {}
func (n *nopLogger) Error(msg string)                                          {}
func (n *nopLogger) WithField(key string, value interface{}) Logger            { return n }
func (n *nopLogger) WithFields(fields map[string]interface{}) Logger           { return n }
func (n *nopLogger) WithError(err error) Logger                                { return n }
func (n *nopLogger) DebugWithFields(msg string, fields map[string]interface{}) {}
func (n *nopLogger) InfoWithFields(msg string, fields map[string]interface{})  {}
func (n *nopLogger) WarnWithFields(msg string, fields map[string]interface{})  {}
func (n *nopLogger) ErrorWithFields(msg string, fields map[string]interface{}) {}
