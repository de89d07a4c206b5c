// Package cli provides the command-line interface for skillcast.
package cli

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/klauern/skillcast/internal/config"
	"github.com/klauern/skillcast/internal/logging"
	"github.com/klauern/skillcast/internal/model"
	"github.com/klauern/skillcast/internal/ui"
	"github.com/klauern/skillcast/internal/util"
)

var (
	// Version is the current version of the application.
	Version = "dev"
	// Commit is the git commit hash.
	Commit = "unknown"
	// BuildDate is the date and time of the build.
	BuildDate = "unknown"
)

// Run executes the CLI application with the given context and arguments.
func Run(ctx context.Context, args []string) error {
	app := &cli.Command{
		Name:    "skillcast",
		Usage:   "Share agent skills across projects from git and local sources",
		Version: Version,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Enable verbose output (info level logging)",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug output (debug level logging, implies verbose)",
			},
			&cli.BoolFlag{
				Name:  "no-color",
				Usage: "Disable colored output",
			},
			&cli.StringFlag{
				Name:    "project",
				Usage:   "Project root to activate skills in (default: current directory)",
				Sources: cli.EnvVars(util.ProjectEnv),
			},
			&cli.StringFlag{
				Name:  "lang",
				Usage: "Message language for this run (en, ko)",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			if err := configureLogging(cmd); err != nil {
				return ctx, err
			}
			cfg, err := config.Load()
			if err != nil {
				return ctx, err
			}
			configureColors(cmd, cfg)
			e, err := newEnv(cmd, cfg)
			if err != nil {
				return ctx, err
			}
			return withEnv(ctx, e), nil
		},
		Commands: []*cli.Command{
			initCommand(),
			sourceCommand(),
			discoverCommand(),
			useCommand(),
			listCommand(),
			removeCommand(),
			configCommand(),
			versionCommand(),
		},
	}
	return app.Run(ctx, args)
}

// configureColors sets up color output from the config and CLI flags.
func configureColors(cmd *cli.Command, cfg *config.Config) {
	ui.ConfigureColors(cfg.Output.Color, cmd.Bool("no-color"))
}

// configureLogging sets up the logging level based on CLI flags.
func configureLogging(cmd *cli.Command) error {
	opts := logging.DefaultOptions()

	if cmd.Bool("debug") {
		opts.Level = slog.LevelDebug
		opts.AddSource = true
	} else if cmd.Bool("verbose") {
		opts.Level = slog.LevelInfo
	}

	logger := logging.New(opts)
	logging.SetDefault(logger)

	logging.Debug("logging configured", slog.String("level", opts.Level.String()))

	return nil
}

// FormatError renders err as one classified line, e.g.
// "not found: demo/foo: ...". Unclassified errors are reported as internal.
func FormatError(err error) string {
	if err == nil {
		return ""
	}
	var e *model.Error
	if errors.As(err, &e) {
		msg := err.Error()
		prefix := e.Kind.String() + ":"
		if !strings.HasPrefix(msg, prefix) {
			msg = prefix + " " + msg
		}
		return msg
	}
	return model.KindInternal.String() + ": " + err.Error()
}
