package log

import (
	"os"

	"github.com/rs/zerolog"
)

type Logger = zerolog.Logger

// New builds the process logger. In the "local" environment output is
// pretty-printed to the console; everywhere else it is JSON on stdout.
func New(env string) Logger {
	if env == "local" {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).
			With().Timestamp().Logger()
	}
	return zerolog.New(os.Stdout).With().Timestamp().Logger().
		Level(zerolog.InfoLevel)
}

// For returns a child logger tagged with the originating component.
func For(logger Logger, component string) Logger {
	return logger.With().Str("component", component).Logger()
}
