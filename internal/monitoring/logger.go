package monitoring

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var levelMatches = map[string]zerolog.Level{
	"NONE":  zerolog.Disabled,
	"TRACE": zerolog.TraceLevel,
	"DEBUG": zerolog.DebugLevel,
	"INFO":  zerolog.InfoLevel,
	"WARN":  zerolog.WarnLevel,
	"ERROR": zerolog.ErrorLevel,
}

// Logf is the package-level diagnostic logger. It defaults to an info-level
// zerolog event but may be replaced by SetLogger. Tests or production code
// can redirect or mute it.
var Logf func(format string, v ...interface{}) = func(format string, v ...interface{}) {
	log.Info().Msgf(format, v...)
}

// Debugf logs at debug level through zerolog. It is muted together with
// Logf by SetLogger(nil).
var Debugf func(format string, v ...interface{}) = func(format string, v ...interface{}) {
	log.Debug().Msgf(format, v...)
}

// SetLogger sends both Logf and Debugf to f. Passing nil mutes both.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		f = func(string, ...interface{}) {}
	}
	Logf = f
	Debugf = f
}

// ParseLevel maps a level name (any case) to a zerolog level.
func ParseLevel(level string) (zerolog.Level, error) {
	l, ok := levelMatches[strings.ToUpper(strings.TrimSpace(level))]
	if !ok {
		return zerolog.NoLevel, fmt.Errorf("unknown log level %q", level)
	}
	return l, nil
}

// Setup points the global zerolog logger at out and sets its level. A human
// readable console writer is used when out is an attached terminal.
func Setup(level string, out io.Writer) error {
	l, err := ParseLevel(level)
	if err != nil {
		return err
	}
	zerolog.SetGlobalLevel(l)

	if f, ok := out.(*os.File); ok && isTerminal(f) {
		out = zerolog.ConsoleWriter{Out: f, TimeFormat: "2006-01-02 15:04:05"}
	}
	log.Logger = zerolog.New(out).With().Timestamp().Logger()
	return nil
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
