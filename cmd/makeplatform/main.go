package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/specialistvlad/makeplatform/internal/cli"
	"github.com/specialistvlad/makeplatform/internal/platform"
)

// main is the entrypoint for the makeplatform command-line tool.
func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	if err := run(os.Stdout, os.Args[1:]); err != nil {
		if exitErr, ok := err.(*cli.ExitError); ok {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run encapsulates the main application logic for easier testing and error
// handling.
func run(outW io.Writer, args []string) error {
	cmd, shouldExit, err := cli.Parse(args, outW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	ctx := context.Background()
	p := platform.New()
	p.SetLogger(newLogger(cmd.LogLevel, cmd.LogFormat, os.Stderr))
	if err := p.Init(ctx, cmd.ProjectDir, cmd.Mode); err != nil {
		return err
	}
	defer p.Destruct()

	switch cmd.Verb {
	case "build":
		return p.Build(ctx, cmd.Targets)
	case "clean":
		return p.CleanTargets(ctx, cmd.Targets)
	case "task":
		_, err := p.RunTask(ctx, cmd.TaskName, cmd.TaskArgs)
		return err
	default:
		return fmt.Errorf("unknown command: %s", cmd.Verb)
	}
}

// newLogger creates a slog.Logger instance from the CLI's level/format
// flags, without touching the process-wide default logger.
func newLogger(levelStr, formatStr string, outW io.Writer) *slog.Logger {
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	handlerOpts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if formatStr == "json" {
		handler = slog.NewJSONHandler(outW, handlerOpts)
	} else {
		handler = slog.NewTextHandler(outW, handlerOpts)
	}

	return slog.New(handler)
}
