// Package scan enumerates files below a directory by name suffix.
//
// The walk is level-order over an explicit queue, so stack depth does not
// grow with tree depth, and the directories of one level are read
// concurrently. Unreadable subdirectories are skipped. Result order is
// unspecified.
package scan

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// DefaultConcurrency bounds concurrent directory reads within one level.
const DefaultConcurrency = 8

// ScanError reports that the scan root itself is missing or not a directory.
// Callers treat it as "zero candidates".
type ScanError struct {
	Root string
	Err  error
}

func (e *ScanError) Error() string {
	return fmt.Sprintf("scan %s: %v", e.Root, e.Err)
}

func (e *ScanError) Unwrap() error {
	return e.Err
}

// ErrNotDirectory is wrapped by ScanError when the root is a file.
var ErrNotDirectory = errors.New("not a directory")

// Options tunes a Scanner.
type Options struct {
	// Concurrency is the number of directories read at once; <= 0 means DefaultConcurrency.
	Concurrency int

	// Logger receives skipped-directory messages. Nil discards them.
	Logger *slog.Logger
}

// Scanner finds files by suffix.
type Scanner struct {
	concurrency int
	logger      *slog.Logger
}

// New creates a Scanner.
func New(opts Options) *Scanner {
	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Scanner{concurrency: concurrency, logger: logger}
}

// Files returns every regular file below root whose name ends with suffix.
// It fails with *ScanError only when root is missing or not a directory.
// Symlinked directories are not followed.
func (s *Scanner) Files(ctx context.Context, root, suffix string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, &ScanError{Root: root, Err: err}
	}
	if !info.IsDir() {
		return nil, &ScanError{Root: root, Err: ErrNotDirectory}
	}

	var (
		mu      sync.Mutex
		matches []string
	)
	frontier := []string{root}

	for len(frontier) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var (
			next []string
			wg   sync.WaitGroup
			sem  = make(chan struct{}, s.concurrency)
		)
		for _, dir := range frontier {
			wg.Add(1)
			sem <- struct{}{}
			go func(dir string) {
				defer func() {
					<-sem
					wg.Done()
				}()

				files, subdirs := s.readDir(dir, suffix)

				mu.Lock()
				matches = append(matches, files...)
				next = append(next, subdirs...)
				mu.Unlock()
			}(dir)
		}
		wg.Wait()

		frontier = next
	}

	return matches, nil
}

// readDir lists one directory. Errors are logged and the directory is
// treated as empty.
func (s *Scanner) readDir(dir, suffix string) (files, subdirs []string) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		s.logger.Debug("skipping unreadable directory", "path", dir, "error", err)
		return nil, nil
	}

	for _, entry := range entries {
		full := filepath.Join(dir, entry.Name())
		switch {
		case entry.IsDir():
			subdirs = append(subdirs, full)
		case entry.Type()&fs.ModeType == 0 && strings.HasSuffix(entry.Name(), suffix):
			files = append(files, full)
		}
	}
	return files, subdirs
}
