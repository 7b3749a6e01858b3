package engine

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/danieljhkim/extprofiles/internal/vscdb"
)

// Status reports which profile is applied to the workspace of folders.
// Algorithm steps:
// 1. Resolve the storage bucket
// 2. Read the bucket's enabled/disabled lists and applied profile name
// 3. Read the globally disabled list
func (e *Engine) Status(ctx context.Context, folders []string) (*StatusResult, error) {
	// Step 1: Resolve the storage bucket
	ws, err := e.ResolveWorkspace(ctx, folders)
	if err != nil {
		return nil, err
	}
	result := &StatusResult{Workspace: *ws}

	// Step 2: Read bucket state; a bucket without a database has nothing applied
	dbPath := filepath.Join(ws.BucketDir, vscdb.FileName)
	if exists, err := e.fs.Exists(dbPath); err != nil {
		return nil, fmt.Errorf("failed to check state database: %w", err)
	} else if exists {
		if err := e.readBucketStatus(dbPath, result); err != nil {
			return nil, err
		}
	}

	// Step 3: Read the globally disabled list
	global, err := vscdb.ReadGlobalDisabled(e.env.GlobalStateDB(), e.logger)
	if err != nil {
		e.logger.Warn("could not read global state", "error", err)
	} else {
		result.GlobalDisabled = len(global)
	}

	return result, nil
}

func (e *Engine) readBucketStatus(dbPath string, result *StatusResult) error {
	db, err := vscdb.Open(dbPath, vscdb.Options{ReadOnly: true, Logger: e.logger})
	if err != nil {
		return fmt.Errorf("failed to open state database: %w", err)
	}
	defer func() {
		_ = db.Close()
	}()

	if name, ok, err := db.Get(vscdb.ProfileKey); err != nil {
		return err
	} else if ok {
		result.Profile = name
	}

	enabled, err := db.ExtensionList(vscdb.Enabled)
	if err != nil {
		return err
	}
	disabled, err := db.ExtensionList(vscdb.Disabled)
	if err != nil {
		return err
	}
	result.Enabled = len(enabled)
	result.Disabled = len(disabled)
	return nil
}
