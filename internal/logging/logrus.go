package logging

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
)

// LogrusLogger adapts a logrus entry to Logger.
type LogrusLogger struct {
	e *logrus.Entry
}

func NewLogrusLogger(l *logrus.Logger) *LogrusLogger {
	return &LogrusLogger{e: logrus.NewEntry(l)}
}

func (l *LogrusLogger) Debug(ctx context.Context, msg string, args ...any) {
	l.entry(ctx, args).Debug(msg)
}

func (l *LogrusLogger) Info(ctx context.Context, msg string, args ...any) {
	l.entry(ctx, args).Info(msg)
}

func (l *LogrusLogger) Warn(ctx context.Context, msg string, args ...any) {
	l.entry(ctx, args).Warn(msg)
}

func (l *LogrusLogger) Error(ctx context.Context, msg string, args ...any) {
	l.entry(ctx, args).Error(msg)
}

func (l *LogrusLogger) With(args ...any) Logger {
	return &LogrusLogger{e: l.e.WithFields(fields(args))}
}

func (l *LogrusLogger) entry(ctx context.Context, args []any) *logrus.Entry {
	return l.e.WithContext(ctx).WithFields(fields(withContextAttrs(ctx, args)))
}

// fields turns slog-style key/value pairs into logrus fields. A dangling
// value is kept under "!BADKEY", as slog does.
func fields(args []any) logrus.Fields {
	f := make(logrus.Fields, len(args)/2)
	for i := 0; i < len(args); i += 2 {
		if i+1 >= len(args) {
			f["!BADKEY"] = args[i]
			break
		}
		key, ok := args[i].(string)
		if !ok {
			key = fmt.Sprint(args[i])
		}
		f[key] = args[i+1]
	}
	return f
}
