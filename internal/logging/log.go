// Package logging provides the tasktracker Logger backed by charmbracelet/log.
package logging

import (
	"io"
	"net/http"
	"os"
	"time"

	"github.com/charmbracelet/log"
)

type Logger interface {
	Debug(interface{}, ...interface{})
	Info(interface{}, ...interface{})
	Warn(interface{}, ...interface{})
	Error(interface{}, ...interface{})
	Fatal(interface{}, ...interface{})
}

type Options struct {
	Writer io.Writer
	Level  string
	Prefix string
}

func NewLogger(opts Options) Logger {
	var w io.Writer = os.Stdout
	if opts.Writer != nil {
		w = opts.Writer
	}

	lvl, err := log.ParseLevel(opts.Level)
	if err != nil {
		lvl = log.InfoLevel
	}

	return log.NewWithOptions(w, log.Options{
		Level:           lvl,
		Prefix:          opts.Prefix,
		ReportTimestamp: true,
	})
}

// Discard returns a Logger that drops everything.
func Discard() Logger {
	return log.New(io.Discard)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Middleware logs one line per request.
func Middleware(logger Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}
