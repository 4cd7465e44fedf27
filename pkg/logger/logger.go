package logger

import (
	"log/slog"
	"os"
	"time"

	"github.com/rs/zerolog"
	slogzerolog "github.com/samber/slog-zerolog/v2"
)

type Opts struct {
	Env string
}

// New builds a slog logger backed by zerolog. Development gets a console
// writer at debug level, everything else JSON at info.
func New(opts Opts) *slog.Logger {
	level := slog.LevelInfo
	var zl zerolog.Logger
	if opts.Env == "development" {
		level = slog.LevelDebug
		zl = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).With().Timestamp().Logger()
	} else {
		zl = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	return slog.New(slogzerolog.Option{Level: level, Logger: &zl}.NewZerologHandler())
}

// Setup installs the logger as the slog default.
func Setup(opts Opts) *slog.Logger {
	l := New(opts)
	slog.SetDefault(l)
	return l
}
