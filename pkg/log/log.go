package log

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const (
	LogVerbosityInfo  = 0
	LogVerbosityDebug = 2
	LogVerbosityTrace = 9

	FormatText = "text"
	FormatJSON = "json"

	OutputStdout = "stdout"
	OutputStderr = "stderr"
)

const (
	verbosityFlag = "verbosity"
	formatFlag    = "log-format"
	outputFlag    = "log-output"
)

type loggerCtxKey struct{}

// Config represents the configuration settings for a logger.
type Config struct {
	// Verbosity is the logging verbosity level.
	Verbosity int
	// Format is the log output format, text or json.
	Format string
	// Output is stdout, stderr or a file path.
	Output string
}

// Configure will configure the standard logger from the supplied config.
func Configure(cfg *Config) error {
	return ConfigureLogger(logrus.StandardLogger(), cfg)
}

// ConfigureLogger will configure logger from the supplied config.
func ConfigureLogger(logger *logrus.Logger, cfg *Config) error {
	switch {
	case cfg.Verbosity < 0:
		return ErrNegativeVerbosity
	case cfg.Verbosity >= LogVerbosityTrace:
		logger.SetLevel(logrus.TraceLevel)
	case cfg.Verbosity >= LogVerbosityDebug:
		logger.SetLevel(logrus.DebugLevel)
	default:
		logger.SetLevel(logrus.InfoLevel)
	}

	switch strings.ToLower(cfg.Format) {
	case FormatJSON:
		logger.SetFormatter(&logrus.JSONFormatter{})
	case FormatText:
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	default:
		return FormatError{Format: cfg.Format}
	}

	out, err := openOutput(cfg.Output)
	if err != nil {
		return err
	}

	logger.SetOutput(out)

	return nil
}

func openOutput(output string) (io.Writer, error) {
	switch strings.ToLower(output) {
	case "":
		return nil, ErrLogOutputRequired
	case OutputStdout:
		return os.Stdout, nil
	case OutputStderr:
		return os.Stderr, nil
	}

	file, err := os.OpenFile(output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening log file %s: %w", output, err)
	}

	return file, nil
}

// WithLogger returns a new context carrying entry.
func WithLogger(ctx context.Context, entry *logrus.Entry) context.Context {
	return context.WithValue(ctx, loggerCtxKey{}, entry)
}

// GetLogger returns the logger stored in ctx, or an entry on the standard
// logger when there is none.
func GetLogger(ctx context.Context) *logrus.Entry {
	if ctx != nil {
		if entry, ok := ctx.Value(loggerCtxKey{}).(*logrus.Entry); ok {
			return entry
		}
	}

	return logrus.NewEntry(logrus.StandardLogger())
}

// AddFlagsToCommand will add the logging flags to the supplied command.
func AddFlagsToCommand(cmd *cobra.Command, cfg *Config) {
	cmd.PersistentFlags().IntVarP(&cfg.Verbosity,
		verbosityFlag,
		"v",
		LogVerbosityInfo,
		"The verbosity level of the logging. The level must be a positive integer.")

	cmd.PersistentFlags().StringVar(&cfg.Format,
		formatFlag,
		FormatText,
		"The format of the logging output. Can be 'text' or 'json'.")

	cmd.PersistentFlags().StringVar(&cfg.Output,
		outputFlag,
		OutputStderr,
		"The output for logging. Supply a file path or 'stderr'/'stdout'.")
}
