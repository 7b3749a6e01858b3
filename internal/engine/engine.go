// Package engine provides the core operations of extprofiles.
//
// The engine sits between the CLI and the lower-level packages. It resolves
// the open folders to the editor's storage bucket, maintains profiles and
// the installed-extension catalog, and writes a profile's enable/disable
// lists into the resolved bucket.
//
// Key components:
//   - Engine: Main orchestrator called by the CLI
//   - Resolve/Status: Workspace identity and what is applied to it
//   - Apply: Writes a profile into a storage bucket
//   - Profile management: create, edit, clone, delete, import, export
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/danieljhkim/extprofiles/internal/clock"
	"github.com/danieljhkim/extprofiles/internal/config"
	"github.com/danieljhkim/extprofiles/internal/fsops"
	"github.com/danieljhkim/extprofiles/internal/profiles"
	"github.com/danieljhkim/extprofiles/internal/workspace"
)

// Resolver maps open folders to a storage bucket.
type Resolver interface {
	Resolve(ctx context.Context, folders []string) (*workspace.Match, error)
}

// Engine orchestrates all extprofiles operations.
// It is the main API surface called by the CLI.
type Engine struct {
	env      config.Environment
	fs       fsops.FS
	resolver Resolver
	profiles profiles.Store
	clock    clock.Clock
	logger   *slog.Logger
}

// New creates a new Engine with the given dependencies.
func New(
	env config.Environment,
	fs fsops.FS,
	resolver Resolver,
	store profiles.Store,
	clk clock.Clock,
	logger *slog.Logger,
) *Engine {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Engine{
		env:      env,
		fs:       fs,
		resolver: resolver,
		profiles: store,
		clock:    clk,
		logger:   logger,
	}
}

// ResolveWorkspace maps folders to their storage bucket.
func (e *Engine) ResolveWorkspace(ctx context.Context, folders []string) (*ResolveResult, error) {
	match, err := e.resolver.Resolve(ctx, folders)
	if err != nil {
		if errors.Is(err, workspace.ErrNotFound) {
			return nil, fmt.Errorf("%w: %w", ErrUnknownWorkspace, err)
		}
		if errors.Is(err, workspace.ErrNoFolders) {
			return nil, fmt.Errorf("%w: %w", ErrValidation, err)
		}
		return nil, err
	}

	// Buckets are direct children of workspaceStorage.
	if err := e.fs.ValidateIdentifier(match.BucketID); err != nil {
		return nil, fmt.Errorf("%w: bucket %q: %w", ErrValidation, match.BucketID, err)
	}

	return &ResolveResult{
		Folders:        folders,
		BucketID:       match.BucketID,
		BucketDir:      e.env.BucketDir(match.BucketID),
		DefinitionPath: match.DefinitionPath,
		Kind:           string(match.Kind),
	}, nil
}
