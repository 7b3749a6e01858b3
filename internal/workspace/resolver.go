package workspace

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/danieljhkim/extprofiles/internal/config"
	"github.com/danieljhkim/extprofiles/internal/fsops"
	"github.com/danieljhkim/extprofiles/internal/scan"
	"github.com/danieljhkim/extprofiles/internal/uri"
)

// DefinitionFileName is the name of the file the editor writes into every
// storage bucket and untitled workspace directory.
const DefinitionFileName = "workspace.json"

// Kind tells which resolution branch produced a Match.
type Kind string

const (
	KindSingleFolder Kind = "single-folder"
	KindMultiRoot    Kind = "multi-root"
)

// Match is a resolved storage bucket.
type Match struct {
	// BucketID names the directory under workspaceStorage
	BucketID string `json:"bucketId"`

	// DefinitionPath is the definition file that matched
	DefinitionPath string `json:"definitionPath"`

	// Kind is the branch that produced the match
	Kind Kind `json:"kind"`
}

// Options configures a Resolver. Zero values select real implementations.
type Options struct {
	FS          fsops.FS
	Normalizer  *uri.Normalizer
	Logger      *slog.Logger
	Concurrency int
}

// Resolver maps open folders to storage buckets. It holds no mutable state
// and is safe for concurrent use.
type Resolver struct {
	env         config.Environment
	fs          fsops.FS
	norm        uri.Normalizer
	scanner     *scan.Scanner
	logger      *slog.Logger
	concurrency int
}

// NewResolver creates a Resolver for env.
func NewResolver(env config.Environment, opts Options) *Resolver {
	fs := opts.FS
	if fs == nil {
		fs = fsops.NewRealFS()
	}
	norm := uri.NewNormalizer(env.OS)
	if opts.Normalizer != nil {
		norm = *opts.Normalizer
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = scan.DefaultConcurrency
	}

	return &Resolver{
		env:         env,
		fs:          fs,
		norm:        norm,
		scanner:     scan.New(scan.Options{Concurrency: concurrency, Logger: logger}),
		logger:      logger,
		concurrency: concurrency,
	}
}

// candidate is one scanned definition file.
type candidate struct {
	path      string
	root      string
	inStorage bool
	def       Definition
}

// Resolve returns the storage bucket of the exact folder set given.
// A single folder is matched by URI against the buckets' workspace.json;
// several folders are matched against multi-root definitions.
// Fails with *ResolutionError (wrapping ErrNotFound) when nothing matches.
func (r *Resolver) Resolve(ctx context.Context, folders []string) (*Match, error) {
	folders, err := r.dedupe(folders)
	if err != nil {
		return nil, err
	}
	if len(folders) == 0 {
		return nil, ErrNoFolders
	}

	var match *Match
	if len(folders) == 1 {
		match, err = r.resolveSingle(ctx, folders[0])
	} else {
		match, err = r.resolveMulti(ctx, folders)
	}
	if err != nil {
		return nil, err
	}
	if match == nil {
		return nil, &ResolutionError{Folders: folders, Err: ErrNotFound}
	}

	r.logger.Debug("resolved workspace",
		"bucket", match.BucketID,
		"definition", match.DefinitionPath,
		"kind", match.Kind,
	)
	return match, nil
}

func (r *Resolver) resolveSingle(ctx context.Context, folder string) (*Match, error) {
	key, err := r.norm.Key(folder)
	if err != nil {
		return nil, err
	}

	candidates, err := r.collect(ctx, r.env.WorkspaceStorage, true)
	if err != nil {
		return nil, err
	}

	for _, c := range candidates {
		sf, ok := c.def.(*SingleFolder)
		if !ok {
			continue
		}
		if r.sameURI(sf.Folder, key) || r.sameURI(sf.Workspace, key) {
			if m := r.storageMatch(c, KindSingleFolder); m != nil {
				return m, nil
			}
		}
	}
	return nil, nil
}

func (r *Resolver) resolveMulti(ctx context.Context, folders []string) (*Match, error) {
	requested := make(map[string]struct{}, len(folders))
	for _, f := range folders {
		key, err := r.norm.PathKey(f)
		if err != nil {
			return nil, err
		}
		requested[key] = struct{}{}
	}

	storage, err := r.collect(ctx, r.env.WorkspaceStorage, true)
	if err != nil {
		return nil, err
	}
	candidates := storage
	for _, root := range r.env.WorkspaceRoots() {
		found, err := r.collect(ctx, root, false)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, found...)
	}

	matched := r.evaluate(ctx, candidates, func(_ int, c candidate) bool {
		entries, base, ok := r.folderEntries(c)
		if !ok {
			return false
		}
		return r.exactMatch(entries, base, requested)
	})
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for i, c := range candidates {
		if !matched[i] {
			continue
		}
		if c.inStorage {
			if m := r.storageMatch(c, KindMultiRoot); m != nil {
				return m, nil
			}
			continue
		}
		if m := r.workspacesMatch(c, storage); m != nil {
			return m, nil
		}
	}
	return nil, nil
}

// folderEntries returns the folders array a candidate declares and the
// directory relative entries resolve against. Indirections through the
// "workspace" field are followed; a target that no longer exists or is not
// a multi-root definition makes the candidate irrelevant.
func (r *Resolver) folderEntries(c candidate) ([]FolderEntry, string, bool) {
	switch def := c.def.(type) {
	case *MultiRoot:
		return def.Folders, r.norm.Dir(c.path), true
	case *SingleFolder:
		if def.Workspace == "" {
			return nil, "", false
		}
		target, err := r.locate(def.Workspace)
		if err != nil {
			r.logger.Debug("skipping workspace reference", "path", c.path, "workspace", def.Workspace, "error", err)
			return nil, "", false
		}
		exists, err := r.fs.Exists(target)
		if err != nil || !exists {
			r.logger.Debug("referenced workspace definition is gone", "path", c.path, "workspace", target)
			return nil, "", false
		}
		resolved, err := ReadDefinition(r.fs, target)
		if err != nil {
			r.logger.Debug("discarding candidate", "path", target, "error", err)
			return nil, "", false
		}
		multi, ok := resolved.(*MultiRoot)
		if !ok {
			return nil, "", false
		}
		return multi.Folders, r.norm.Dir(target), true
	default:
		return nil, "", false
	}
}

// exactMatch reports whether entries name exactly the requested folder set.
func (r *Resolver) exactMatch(entries []FolderEntry, base string, requested map[string]struct{}) bool {
	if len(entries) != len(requested) {
		return false
	}
	seen := make(map[string]struct{}, len(entries))
	for _, entry := range entries {
		key, ok := r.entryKey(entry, base)
		if !ok {
			return false
		}
		if _, want := requested[key]; !want {
			return false
		}
		seen[key] = struct{}{}
	}
	return len(seen) == len(requested)
}

func (r *Resolver) entryKey(entry FolderEntry, base string) (string, bool) {
	var (
		p   string
		err error
	)
	switch {
	case entry.Path != "":
		p, err = r.norm.Join(base, entry.Path)
	case uri.IsFileURI(entry.URI):
		p, err = r.norm.PathFromURI(entry.URI)
	default:
		// Remote and virtual folders never match a local folder.
		return "", false
	}
	if err != nil {
		return "", false
	}
	key, err := r.norm.PathKey(p)
	if err != nil {
		return "", false
	}
	return key, true
}

// locate turns the value of a "workspace" field, a file URI or a plain
// path, into a path on disk.
func (r *Resolver) locate(ref string) (string, error) {
	if uri.IsFileURI(ref) {
		return r.norm.PathFromURI(ref)
	}
	if strings.Contains(ref, "://") {
		return "", fmt.Errorf("unsupported scheme in %q", ref)
	}
	return r.norm.Abs(ref)
}

// workspacesMatch maps a definition found under a Workspaces root to its
// bucket: the storage bucket whose workspace.json points at it, else the
// definition's own directory name.
func (r *Resolver) workspacesMatch(c candidate, storage []candidate) *Match {
	if key, err := r.norm.Key(c.path); err == nil {
		for _, s := range storage {
			sf, ok := s.def.(*SingleFolder)
			if ok && r.sameURI(sf.Workspace, key) {
				if m := r.storageMatch(s, KindMultiRoot); m != nil {
					return m
				}
			}
		}
	}

	id, ok := bucketID(c.root, c.path)
	if !ok {
		return nil
	}
	return &Match{BucketID: id, DefinitionPath: c.path, Kind: KindMultiRoot}
}

func (r *Resolver) storageMatch(c candidate, kind Kind) *Match {
	id, ok := bucketID(c.root, c.path)
	if !ok {
		r.logger.Debug("definition file is not inside a bucket", "path", c.path)
		return nil
	}
	return &Match{BucketID: id, DefinitionPath: c.path, Kind: kind}
}

func (r *Resolver) sameURI(declared, key string) bool {
	return declared != "" && r.norm.URIKey(declared) == key
}

// collect scans root for definition files and decodes them. A missing root
// yields no candidates. Unreadable or malformed files are logged and
// dropped. The result is sorted by path.
func (r *Resolver) collect(ctx context.Context, root string, inStorage bool) ([]candidate, error) {
	paths, err := r.scanner.Files(ctx, root, DefinitionFileName)
	if err != nil {
		var scanErr *scan.ScanError
		if errors.As(err, &scanErr) {
			r.logger.Debug("no definitions under root", "root", root, "error", scanErr.Err)
			return nil, nil
		}
		return nil, err
	}
	paths = slices.DeleteFunc(paths, func(p string) bool {
		return filepath.Base(p) != DefinitionFileName
	})
	slices.Sort(paths)

	defs := make([]Definition, len(paths))
	parsed := make([]candidate, len(paths))
	for i, p := range paths {
		parsed[i] = candidate{path: p, root: root, inStorage: inStorage}
	}
	ok := r.evaluate(ctx, parsed, func(i int, c candidate) bool {
		def, err := ReadDefinition(r.fs, c.path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				r.logger.Debug("definition vanished during scan", "path", c.path)
			} else {
				r.logger.Debug("discarding candidate", "path", c.path, "error", err)
			}
			return false
		}
		defs[i] = def
		return true
	})
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	candidates := make([]candidate, 0, len(parsed))
	for i, c := range parsed {
		if ok[i] {
			c.def = defs[i]
			candidates = append(candidates, c)
		}
	}
	return candidates, nil
}

// evaluate runs fn over every candidate with bounded concurrency and
// returns the results in candidate order. Candidates not yet started when
// ctx is cancelled evaluate to false.
func (r *Resolver) evaluate(ctx context.Context, candidates []candidate, fn func(int, candidate) bool) []bool {
	results := make([]bool, len(candidates))
	sem := make(chan struct{}, r.concurrency)
	var wg sync.WaitGroup

	for i, c := range candidates {
		if ctx.Err() != nil {
			break
		}
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, c candidate) {
			defer func() {
				<-sem
				wg.Done()
			}()
			results[i] = fn(i, c)
		}(i, c)
	}
	wg.Wait()

	return results
}

// bucketID is the name of the definition's directory, which must be a
// direct child of root. Definitions nested deeper belong to something
// else stored inside a bucket, such as an extension's storage directory.
func bucketID(root, definitionPath string) (string, bool) {
	rel, err := filepath.Rel(root, filepath.Dir(definitionPath))
	if err != nil || rel == "." || rel == ".." || strings.ContainsAny(rel, `/\`) {
		return "", false
	}
	return rel, true
}

// dedupe drops folders that name the same directory as an earlier one.
func (r *Resolver) dedupe(folders []string) ([]string, error) {
	seen := make(map[string]struct{}, len(folders))
	out := make([]string, 0, len(folders))
	for _, f := range folders {
		key, err := r.norm.PathKey(f)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, f)
	}
	return out, nil
}
