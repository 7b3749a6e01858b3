package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/danieljhkim/extprofiles/internal/clock"
	"github.com/danieljhkim/extprofiles/internal/config"
	"github.com/danieljhkim/extprofiles/internal/engine"
	"github.com/danieljhkim/extprofiles/internal/fsops"
	"github.com/danieljhkim/extprofiles/internal/profiles"
	"github.com/danieljhkim/extprofiles/internal/workspace"
)

// newEnvironment computes editor paths from the global flags.
func newEnvironment() (config.Environment, error) {
	switch product {
	case "", config.ProductCode, config.ProductInsiders, config.ProductCodium:
	default:
		return config.Environment{}, fmt.Errorf("%w: unknown product %q", engine.ErrValidation, product)
	}
	return config.NewEnvironment(config.Options{
		Product:     product,
		UserDataDir: userDataDir,
	}), nil
}

// newLogger writes to errOut at warn level, or debug under --verbose.
func newLogger(errOut io.Writer) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(errOut, &slog.HandlerOptions{Level: level}))
}

// newEngine creates a new engine with real implementations of all dependencies.
func newEngine(errOut io.Writer) (*engine.Engine, error) {
	env, err := newEnvironment()
	if err != nil {
		return nil, err
	}
	logger := newLogger(errOut)

	fs := fsops.NewRealFS()
	resolver := workspace.NewResolver(env, workspace.Options{FS: fs, Logger: logger})
	store := profiles.NewFileStore(fs, env.ProfilesFile())
	clk := &clock.RealClock{}

	return engine.New(env, fs, resolver, store, clk, logger), nil
}

// folderArgs returns the folders named on the command line, or the current
// directory when none are.
func folderArgs(args []string) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get current directory: %w", err)
	}
	return []string{cwd}, nil
}

// outputJSON outputs a value as JSON to stdout.
func outputJSON(v interface{}) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
