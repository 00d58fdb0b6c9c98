// Package logging is the structured logging used by the server: a small
// context-aware Logger with slog and logrus backends, and request-scoped
// attributes carried on the context.
package logging

import "context"

// Logger takes slog-style key/value args, e.g.
//
//	log.Info(ctx, "user authenticated", "user_id", id)
//
// Attributes attached to ctx with WithAttrs are written before the call-site
// args on every line.
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes args.
	With(args ...any) Logger
}

type attrsKey struct{}

// WithAttrs returns a copy of ctx whose log lines also carry args. Calls
// accumulate.
func WithAttrs(ctx context.Context, args ...any) context.Context {
	if len(args) == 0 {
		return ctx
	}
	return context.WithValue(ctx, attrsKey{}, withContextAttrs(ctx, args))
}

// withContextAttrs prepends the attributes stored on ctx to args.
func withContextAttrs(ctx context.Context, args []any) []any {
	if ctx == nil {
		return args
	}
	stored, _ := ctx.Value(attrsKey{}).([]any)
	if len(stored) == 0 {
		return args
	}
	out := make([]any, 0, len(stored)+len(args))
	out = append(out, stored...)
	return append(out, args...)
}
