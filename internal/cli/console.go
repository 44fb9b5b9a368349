package cli

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/thruflo/stackconsole/internal/api"
	"github.com/thruflo/stackconsole/internal/config"
	"github.com/thruflo/stackconsole/internal/console"
	"github.com/thruflo/stackconsole/internal/logging"
	"github.com/thruflo/stackconsole/internal/session"
	"golang.org/x/term"
)

// ErrActionFailed is returned by a command whose report is a failure.
var ErrActionFailed = errors.New("action failed")

// appFs holds the config, session and pod spec files.
// It can be overridden in tests.
var appFs afero.Fs = afero.NewOsFs()

// consoleEnv is everything a command needs to run actions.
type consoleEnv struct {
	cfg      *config.Config
	basePath string
	logger   *logging.Logger
	actions  *console.Actions
}

// loadConfig reads the config file and applies environment, flag and then
// extra overrides, in that order. The result is validated once at the end.
func loadConfig(extra ...func(*config.Config)) (*config.Config, string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, "", fmt.Errorf("failed to get current directory: %w", err)
	}

	overrides := append([]func(*config.Config){applyFlags}, extra...)

	var cfg *config.Config
	if flagConfig == "" {
		cfg, err = config.LoadConfig(appFs, cwd, overrides...)
	} else {
		cfg, err = config.LoadFile(appFs, flagConfig, os.Getenv, overrides...)
	}
	if err != nil {
		return nil, "", err
	}
	return cfg, cwd, nil
}

// applyFlags copies the persistent flags that were set onto cfg.
func applyFlags(cfg *config.Config) {
	if flagBaseURL != "" {
		cfg.API.BaseURL = flagBaseURL
	}
	if flagOutput != "" {
		cfg.Output.Format = flagOutput
	}
	if flagColor != "" {
		cfg.Output.Color = flagColor
	}
	if flagStateFile != "" {
		cfg.Session.File = flagStateFile
	}
	if flagLogLevel != "" {
		cfg.Log.Level = flagLogLevel
	}
}

// newLogger builds the command logger writing to stderr.
func newLogger(cfg *config.Config, stderr io.Writer) (*logging.Logger, error) {
	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	logger := logging.New()
	logger.SetLevel(level)
	logger.SetOutput(log.New(stderr, "", log.LstdFlags))
	return logger, nil
}

// newConsoleEnv wires config, logger, client, session and renderer.
// Reports are rendered to out. With persistent set the active stack is
// kept in the session file between invocations. overrides apply after the
// persistent flags.
func newConsoleEnv(cmd *cobra.Command, out io.Writer, persistent bool, overrides ...func(*config.Config)) (*consoleEnv, error) {
	cfg, cwd, err := loadConfig(overrides...)
	if err != nil {
		return nil, err
	}

	logger, err := newLogger(cfg, cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}

	format, err := console.ParseFormat(cfg.Output.Format)
	if err != nil {
		return nil, err
	}

	cell := session.NewCell()
	if persistent {
		store := session.NewFileStore(appFs, config.ResolvePath(cwd, cfg.Session.File))
		cell, err = session.NewPersistentCell(store)
		if err != nil {
			return nil, err
		}
	}

	client := api.NewClient(cfg.API.BaseURL, api.WithLogger(logger))
	runner := console.NewRunner(
		console.WithLogger(logger),
		console.WithRenderer(console.NewTextRenderer(out, format, useColor(cfg.Output.Color, out))),
	)

	return &consoleEnv{
		cfg:      cfg,
		basePath: cwd,
		logger:   logger,
		actions:  console.NewActions(client, cell, runner),
	}, nil
}

// useColor reports whether headers written to out should be styled.
func useColor(mode string, out io.Writer) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	}
	switch w := out.(type) {
	case *term.Terminal:
		return true
	case *os.File:
		return term.IsTerminal(int(w.Fd()))
	}
	return false
}

// readPodSpec returns the pod document from path, "-" for in, or the
// built-in default when path is empty.
func readPodSpec(path string, in io.Reader) (string, error) {
	switch path {
	case "":
		return console.DefaultPodSpec, nil
	case "-":
		data, err := io.ReadAll(in)
		if err != nil {
			return "", fmt.Errorf("failed to read pod spec from stdin: %w", err)
		}
		return string(data), nil
	}

	data, err := afero.ReadFile(appFs, path)
	if err != nil {
		return "", fmt.Errorf("failed to read pod spec file: %w", err)
	}
	return string(data), nil
}

// reportError turns a failed report into a command error so the process
// exits non-zero.
func reportError(r *console.Report) error {
	if r == nil || !r.Failed {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrActionFailed, strings.TrimSuffix(r.Title, console.ErrorSuffix))
}
