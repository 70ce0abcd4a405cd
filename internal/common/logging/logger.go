package logging

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace/tracer"
)

// New creates a JSON logrus logger writing to stdout at the given level
func New(level string) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	logger.SetFormatter(&logrus.JSONFormatter{})

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	logger.SetLevel(lvl)
	return logger
}

// LogWithTrace logs a message with trace information and caller details
func LogWithTrace(ctx context.Context, logger *logrus.Logger, layer, message string, fields logrus.Fields) {
	entry, formattedMessage := traceEntry(ctx, logger, layer, message, fields)
	entry.Info(formattedMessage)
}

// LogErrorWithTrace logs an error with trace information and caller details
func LogErrorWithTrace(ctx context.Context, logger *logrus.Logger, layer, message string, err error, fields logrus.Fields) {
	entry, formattedMessage := traceEntry(ctx, logger, layer, message, fields)
	entry.WithError(err).Error(formattedMessage)
}

// LogSQL logs one executed SQL statement with its duration and outcome
func LogSQL(ctx context.Context, logger *logrus.Logger, query string, args []any, duration time.Duration, rowsAffected int64, err error) {
	fields := logrus.Fields{
		"component":       "mysql",
		"sql.query":       query,
		"sql.args":        fmt.Sprint(args...),
		"sql.duration_ms": duration.Milliseconds(),
	}
	if rowsAffected >= 0 {
		fields["sql.rows_affected"] = rowsAffected
	}

	message := fmt.Sprintf("SQL: %s [%v]", query, duration)
	if err != nil {
		entry, formattedMessage := traceEntry(ctx, logger, "repository", message, fields)
		entry.WithError(err).Error(formattedMessage)
		return
	}
	entry, formattedMessage := traceEntry(ctx, logger, "repository", message, fields)
	entry.Debug(formattedMessage)
}

// traceEntry builds the entry shared by the Log* helpers. Caller info is
// taken three frames up: traceEntry, the Log* helper, then its caller.
func traceEntry(ctx context.Context, logger *logrus.Logger, layer, message string, fields logrus.Fields) (*logrus.Entry, string) {
	if fields == nil {
		fields = logrus.Fields{}
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	_, file, line, ok := runtime.Caller(3)
	var formattedMessage string
	if ok {
		fields["file"] = file
		fields["line"] = line
		formattedMessage = fmt.Sprintf("[%s] %s:%d | %s", layer, file, line, message)
	} else {
		formattedMessage = fmt.Sprintf("[%s] %s", layer, message)
	}

	if span, ok := tracer.SpanFromContext(ctx); ok {
		spanContext := span.Context()
		fields["dd.trace_id"] = spanContext.TraceID()
		fields["dd.span_id"] = spanContext.SpanID()
	}

	fields["layer"] = layer

	return logger.WithFields(fields), formattedMessage
}
