package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Command is the parsed, validated shape of one CLI invocation: which
// verb to run, against which targets/task arguments, with which
// project-level overrides.
type Command struct {
	Verb       string // "build", "clean", or "task"
	ProjectDir string
	Mode       string
	LogFormat  string   // "text" or "json"
	LogLevel   string   // "debug", "info", "warn", or "error"
	Targets    []string // for "build" / "clean"
	TaskName   string   // for "task"
	TaskArgs   []string // for "task"
}

// Parse processes command-line arguments into a Command. It returns
// shouldExit=true when help was requested or no verb was given (after
// printing usage); any other problem comes back as an *ExitError.
func Parse(args []string, output io.Writer) (*Command, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("makeplatform", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
MakePlatform - a project build orchestrator.

Usage:
  makeplatform [options] build [target...]
  makeplatform [options] clean [target...]
  makeplatform [options] task <name> [arg...]

Options:
`)
		flagSet.PrintDefaults()
	}

	dirFlag := flagSet.String("dir", ".", "Project directory.")
	modeFlag := flagSet.String("mode", "", "Build mode. Defaults to $YENV, then \"development\".")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	rest := flagSet.Args()
	if len(rest) == 0 {
		flagSet.Usage()
		return nil, true, nil
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}
	slog.Debug("CLI parameter validation complete.")

	verb := rest[0]
	switch verb {
	case "build", "clean":
		return &Command{
			Verb:       verb,
			ProjectDir: *dirFlag,
			Mode:       *modeFlag,
			LogFormat:  logFormat,
			LogLevel:   logLevel,
			Targets:    rest[1:],
		}, false, nil
	case "task":
		if len(rest) < 2 {
			return nil, false, &ExitError{Code: 2, Message: "task: missing task name"}
		}
		return &Command{
			Verb:       verb,
			ProjectDir: *dirFlag,
			Mode:       *modeFlag,
			LogFormat:  logFormat,
			LogLevel:   logLevel,
			TaskName:   rest[1],
			TaskArgs:   rest[2:],
		}, false, nil
	default:
		return nil, false, &ExitError{Code: 2, Message: fmt.Sprintf("unknown command: %s", verb)}
	}
}
