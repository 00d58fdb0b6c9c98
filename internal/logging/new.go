package logging

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/sirupsen/logrus"
)

const (
	BackendSlog   = "slog"
	BackendLogrus = "logrus"
)

// New builds a JSON logger for the named backend writing to w.
// level is one of debug, info, warn, error.
func New(backend, level string, w io.Writer) (Logger, error) {
	switch strings.ToLower(backend) {
	case "", BackendSlog:
		var lvl slog.Level
		if err := lvl.UnmarshalText([]byte(level)); err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", level, err)
		}
		h := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl})
		return NewSlogLogger(slog.New(h)), nil
	case BackendLogrus:
		lvl, err := logrus.ParseLevel(level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", level, err)
		}
		l := logrus.New()
		l.SetFormatter(&logrus.JSONFormatter{})
		l.SetOutput(w)
		l.SetLevel(lvl)
		return NewLogrusLogger(l), nil
	default:
		return nil, fmt.Errorf("unknown log backend %q", backend)
	}
}
