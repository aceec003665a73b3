// Package logging builds the structured logger of one gdm invocation from its command-line flags.
package logging

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/pflag"

	"github.com/k0psutin/gdm-sub000/internal/flags/enum"
)

// Log format constants
const (
	FormatFlagName = "logformat"

	FormatText = "text"
	FormatJSON = "json"
)

// Log level constants
const (
	LevelFlagName = "loglevel"

	LevelWarn  = "warn"
	LevelDebug = "debug"
	LevelInfo  = "info"
	LevelError = "error"
)

// Log output constants
const (
	OutputFlagName = "logoutput"

	OutputStderr = "stderr"
	OutputStdout = "stdout"
)

// RegisterFlags adds --logformat, --loglevel and --logoutput to flags.
// Defaults are text, warn and stderr.
func RegisterFlags(flags *pflag.FlagSet) {
	enum.Var(flags, FormatFlagName, []string{FormatText, FormatJSON}, "log output format")
	enum.Var(flags, LevelFlagName, []string{LevelWarn, LevelDebug, LevelInfo, LevelError}, "minimum log level")
	enum.Var(flags, OutputFlagName, []string{OutputStderr, OutputStdout}, "log output destination")
}

// New creates a logger from the flags registered by RegisterFlags.
func New(flags *pflag.FlagSet, stdout, stderr io.Writer) (*slog.Logger, error) {
	level, err := levelFromFlags(flags)
	if err != nil {
		return nil, fmt.Errorf("failed to get log level: %w", err)
	}

	format, err := enum.Get(flags, FormatFlagName)
	if err != nil {
		return nil, fmt.Errorf("failed to get the log format from the command flag: %w", err)
	}

	output, err := enum.Get(flags, OutputFlagName)
	if err != nil {
		return nil, fmt.Errorf("failed to get the log output from the command flag: %w", err)
	}

	w := stderr
	if output == OutputStdout {
		w = stdout
	}

	opts := &slog.HandlerOptions{Level: level}
	switch format {
	case FormatJSON:
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	case FormatText:
		return slog.New(slog.NewTextHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("invalid log format: %s", format)
	}
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}

func levelFromFlags(flags *pflag.FlagSet) (slog.Level, error) {
	name, err := enum.Get(flags, LevelFlagName)
	if err != nil {
		return slog.LevelWarn, err
	}
	switch name {
	case LevelDebug:
		return slog.LevelDebug, nil
	case LevelInfo:
		return slog.LevelInfo, nil
	case LevelWarn:
		return slog.LevelWarn, nil
	case LevelError:
		return slog.LevelError, nil
	default:
		return slog.LevelWarn, fmt.Errorf("invalid log level: %s", name)
	}
}
