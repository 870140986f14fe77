// Package shared holds setup helpers used by the pushfold commands.
package shared

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// SetupLogger returns a logger at level, writing JSON when structured is set
// and human-readable console lines otherwise. Logs go to stderr so command
// output on stdout stays clean.
func SetupLogger(level string, structured bool) (zerolog.Logger, error) {
	return newLogger(os.Stderr, level, structured)
}

func newLogger(w io.Writer, level string, structured bool) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("invalid log level %q", level)
	}
	if lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	if structured {
		zerolog.TimeFieldFormat = time.RFC3339Nano
	} else {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}
	return zerolog.New(w).
		Level(lvl).
		With().
		Timestamp().
		Logger(), nil
}
