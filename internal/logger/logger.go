package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Setup builds the process logger. Dev mode switches to a human readable console writer.
func Setup(level string, dev bool) zerolog.Logger {
	return New(os.Stderr, level, dev)
}

func New(w io.Writer, level string, dev bool) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	if dev && lvl > zerolog.DebugLevel {
		lvl = zerolog.DebugLevel
	}

	if dev {
		return zerolog.New(zerolog.ConsoleWriter{Out: w, FormatTimestamp: func(i any) string {
			return time.Now().Format(time.RFC3339)
		}}).Level(lvl).With().Timestamp().Caller().Logger()
	}

	return zerolog.New(w).Level(lvl).With().Timestamp().Logger()
}
