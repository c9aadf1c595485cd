package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gogpu/aurora"
	"github.com/gogpu/aurora/config"
)

type rootFlags struct {
	logLevel string
	config   string
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}
	cmd := &cobra.Command{
		Use:           "aurora",
		Short:         "Animated aurora gradient background",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return setupLogging(flags.logLevel, cmd.ErrOrStderr())
		},
	}
	cmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "warn", "log level: debug, info, warn, error or off")
	cmd.PersistentFlags().StringVarP(&flags.config, "config", "c", "", "YAML options file")

	cmd.AddCommand(
		newWindowCmd(flags),
		newRenderCmd(flags),
		newShaderCmd(),
	)
	return cmd
}

func setupLogging(level string, w io.Writer) error {
	var l slog.Level
	switch strings.ToLower(level) {
	case "off", "none":
		aurora.SetLogger(nil)
		return nil
	case "debug":
		l = slog.LevelDebug
	case "info":
		l = slog.LevelInfo
	case "warn", "warning":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		return fmt.Errorf("unknown log level %q", level)
	}
	aurora.SetLogger(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: l})))
	return nil
}

// loadOptions returns the options from the config file, if one was given.
func loadOptions(path string) ([]aurora.Option, error) {
	if path == "" {
		return nil, nil
	}
	f, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	return f.Options(), nil
}

