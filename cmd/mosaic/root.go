package main

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/handiism/cover-mosaic/internal/config"
)

type ctxKey int

const loggerKey ctxKey = 0

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func newRootCmd() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:           "mosaic",
		Short:         "Arrange album cover art into a single mosaic image",
		Long:          `mosaic fetches the cover art of every album in a CSV list and arranges the covers on a square grid, either clustered by color or ordered by release date.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := log.InfoLevel
			if verbose {
				level = log.DebugLevel
			}
			cmd.SetContext(withLogger(cmd.Context(), newLogger(os.Stderr, level)))
		},
	}

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(newBuildCmd())
	root.AddCommand(newConfigCmd())

	return root
}

// newLogger creates a logger with "HH:MM:SS.ms" timestamps.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

// loadSettings reads path, or returns the defaults when path is empty.
func loadSettings(path string) (*config.Settings, error) {
	if path == "" {
		return config.DefaultSettings(), nil
	}
	return config.Load(path)
}

// elapsed logs msg with the time since start, rounded to milliseconds.
func elapsed(l *log.Logger, start time.Time, msg string) {
	l.Infof("%s (%s)", msg, time.Since(start).Round(time.Millisecond))
}
