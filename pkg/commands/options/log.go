package options

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// LogOptions control diagnostics.
type LogOptions struct {
	Debug   bool
	LogFile string
}

// AddLogArgs registers the persistent logging flags.
func AddLogArgs(cmd *cobra.Command, o *LogOptions) {
	cmd.PersistentFlags().BoolVar(&o.Debug, "debug", false,
		"Log debug details.")
	cmd.PersistentFlags().StringVar(&o.LogFile, "log-file", "",
		"Append logs to this file instead of stderr.")
}

func (o *LogOptions) level() zerolog.Level {
	if o.Debug {
		return zerolog.DebugLevel
	}
	return zerolog.WarnLevel
}

// Logger returns a console logger writing to w, colored when w is a
// terminal.
func (o *LogOptions) Logger(w io.Writer) zerolog.Logger {
	noColor := true
	if f, ok := w.(*os.File); ok {
		noColor = !isatty.IsTerminal(f.Fd())
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: w, NoColor: noColor}).
		Level(o.level()).
		With().Timestamp().Logger()
}

// FileLogger opens path (or LogFile when set) for appending. The returned
// close func must be called when done.
func (o *LogOptions) FileLogger(path string) (zerolog.Logger, func() error, error) {
	if o.LogFile != "" {
		path = o.LogFile
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return zerolog.Nop(), nil, err
	}
	return o.Logger(f), f.Close, nil
}
