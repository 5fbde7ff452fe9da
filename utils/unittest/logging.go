package unittest

import (
	"flag"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

var verbose = flag.Bool("vv", false, "print debugging logs")

func LogVerbose() {
	*verbose = true
}

// Logger returns a zerolog
// use -vv flag to print debugging logs for tests
func Logger() zerolog.Logger {
	writer := io.Discard
	if *verbose {
		writer = os.Stderr
	}
	return LoggerWithWriter(writer)
}

// LoggerWithWriter returns a debug level logger writing JSON lines to writer.
func LoggerWithWriter(writer io.Writer) zerolog.Logger {
	zerolog.TimestampFunc = func() time.Time { return time.Now().UTC() }
	return zerolog.New(writer).Level(zerolog.DebugLevel).With().Timestamp().Logger()
}
