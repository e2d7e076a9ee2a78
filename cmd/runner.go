package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/reef111qq/playlist-buddy/internal/library"
	"github.com/reef111qq/playlist-buddy/internal/services"
	"github.com/reef111qq/playlist-buddy/internal/shared"
	"github.com/reef111qq/playlist-buddy/internal/tasks"
)

// Runner holds all dependencies for CLI commands and provides methods for
// each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	spotify    services.Catalog
	tokens     *services.OAuthTokenProvider
	engine     *library.Engine
	assistant  *library.Assistant
	exporter   *tasks.Exporter
	logger     *log.Logger
	output     io.Writer

	userID string
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Spotify    services.Catalog
	Tokens     *services.OAuthTokenProvider
	Engine     *library.Engine
	Assistant  *library.Assistant
	Exporter   *tasks.Exporter
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.ConfigPath == "" {
		opts.ConfigPath = "config.toml"
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		spotify:    opts.Spotify,
		tokens:     opts.Tokens,
		engine:     opts.Engine,
		assistant:  opts.Assistant,
		exporter:   opts.Exporter,
		logger:     opts.Logger,
		output:     opts.Output,
	}
}

// SetLogger swaps the runner's logger, e.g. to a file logger for the TUI.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

// currentUserID resolves and caches the authenticated user's id. Every
// engine call is keyed on it.
func (r *Runner) currentUserID(ctx context.Context) (string, error) {
	if r.userID != "" {
		return r.userID, nil
	}
	if r.spotify == nil {
		return "", fmt.Errorf("%w: spotify client not initialized", shared.ErrMissingCredentials)
	}

	profile, err := r.spotify.CurrentUser(ctx)
	if err != nil {
		return "", err
	}
	r.userID = profile.ID
	return r.userID, nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	output, err := shared.MarshalJSON(data, pretty)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}
	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
