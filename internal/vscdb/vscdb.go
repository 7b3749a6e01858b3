// Package vscdb reads and writes the editor's state.vscdb key/value database.
//
// Every storage bucket and the global storage directory hold a SQLite
// database with a single ItemTable(key, value) table. The enable/disable
// extension lists live under the extensionsIdentifiers/* keys as JSON arrays.
package vscdb

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/danieljhkim/extprofiles/internal/extensions"
)

// FileName is the database file inside a storage directory.
const FileName = "state.vscdb"

// ListKind selects one of the editor's extension identifier lists.
type ListKind string

const (
	Enabled  ListKind = "enabled"
	Disabled ListKind = "disabled"
)

// Key returns the ItemTable key of the list.
func (k ListKind) Key() string {
	return "extensionsIdentifiers/" + string(k)
}

// ProfileKey records which profile was last applied to a bucket.
const ProfileKey = "extensionProfiles/profile"

const schema = `CREATE TABLE IF NOT EXISTS ItemTable (key TEXT UNIQUE ON CONFLICT REPLACE, value BLOB)`

// Options controls how a database is opened.
type Options struct {
	// ReadOnly opens without write access. The file must exist.
	ReadOnly bool

	// Logger receives open/close messages. Nil discards them.
	Logger *slog.Logger
}

// Store is an open state database. It is not safe for concurrent use.
type Store struct {
	conn   *sqlite.Conn
	path   string
	logger *slog.Logger
}

// Open opens the database at path. Writable opens create the file and the
// ItemTable when missing; read-only opens of a missing file return an error
// matching os.ErrNotExist.
func Open(path string, opts Options) (*Store, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	flags := []sqlite.OpenFlags{sqlite.OpenReadWrite, sqlite.OpenCreate}
	if opts.ReadOnly {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("vscdb: %w", err)
		}
		flags = []sqlite.OpenFlags{sqlite.OpenReadOnly}
	} else if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("vscdb: creating directory: %w", err)
	}

	conn, err := sqlite.OpenConn(path, flags...)
	if err != nil {
		return nil, fmt.Errorf("vscdb: opening %s: %w", path, err)
	}

	// The editor may hold the database open; wait instead of failing.
	if err := sqlitex.ExecuteTransient(conn, "PRAGMA busy_timeout=5000", nil); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("vscdb: busy_timeout: %w", err)
	}
	if !opts.ReadOnly {
		if err := sqlitex.ExecuteTransient(conn, schema, nil); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("vscdb: creating ItemTable: %w", err)
		}
	}

	logger.Debug("state database opened", "path", path, "read_only", opts.ReadOnly)
	return &Store{conn: conn, path: path, logger: logger}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	if err := s.conn.Close(); err != nil {
		s.logger.Error("state database close error", "path", s.path, "error", err)
		return fmt.Errorf("vscdb: closing %s: %w", s.path, err)
	}
	return nil
}

// Get returns the value stored under key. ok is false when the key is absent.
func (s *Store) Get(key string) (value string, ok bool, err error) {
	err = sqlitex.Execute(s.conn, "SELECT value FROM ItemTable WHERE key = ?", &sqlitex.ExecOptions{
		Args: []any{key},
		ResultFunc: func(stmt *sqlite.Stmt) error {
			value = stmt.ColumnText(0)
			ok = true
			return nil
		},
	})
	if err != nil {
		return "", false, fmt.Errorf("vscdb: get %s: %w", key, err)
	}
	return value, ok, nil
}

// Set stores value under key, replacing any previous value.
func (s *Store) Set(key, value string) error {
	return s.SetMany(map[string]string{key: value})
}

// SetMany stores several keys in one transaction.
func (s *Store) SetMany(values map[string]string) (err error) {
	defer sqlitex.Save(s.conn)(&err)

	for key, value := range values {
		if err := sqlitex.Execute(s.conn, "INSERT OR REPLACE INTO ItemTable (key, value) VALUES (?, ?)", &sqlitex.ExecOptions{
			Args: []any{key, value},
		}); err != nil {
			return fmt.Errorf("vscdb: set %s: %w", key, err)
		}
	}
	return nil
}

// Delete removes key. Deleting an absent key is not an error.
func (s *Store) Delete(key string) error {
	if err := sqlitex.Execute(s.conn, "DELETE FROM ItemTable WHERE key = ?", &sqlitex.ExecOptions{
		Args: []any{key},
	}); err != nil {
		return fmt.Errorf("vscdb: delete %s: %w", key, err)
	}
	return nil
}

// ExtensionList decodes one of the extension identifier lists. An absent
// key yields an empty list.
func (s *Store) ExtensionList(kind ListKind) ([]extensions.Identifier, error) {
	raw, ok, err := s.Get(kind.Key())
	if err != nil {
		return nil, err
	}
	if !ok || raw == "" {
		return []extensions.Identifier{}, nil
	}

	var ids []extensions.Identifier
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return nil, fmt.Errorf("vscdb: decoding %s: %w", kind.Key(), err)
	}
	return ids, nil
}

// ExtensionLists is the pair of lists written when a profile is applied.
type ExtensionLists struct {
	Enabled  []extensions.Identifier
	Disabled []extensions.Identifier
}

// WriteExtensionLists replaces both lists and the applied profile name in
// one transaction.
func (s *Store) WriteExtensionLists(lists ExtensionLists, profile string) error {
	enabled, err := encodeList(lists.Enabled)
	if err != nil {
		return err
	}
	disabled, err := encodeList(lists.Disabled)
	if err != nil {
		return err
	}

	return s.SetMany(map[string]string{
		Enabled.Key():  enabled,
		Disabled.Key(): disabled,
		ProfileKey:     profile,
	})
}

func encodeList(ids []extensions.Identifier) (string, error) {
	if ids == nil {
		ids = []extensions.Identifier{}
	}
	data, err := json.Marshal(ids)
	if err != nil {
		return "", fmt.Errorf("vscdb: encoding extension list: %w", err)
	}
	return string(data), nil
}

// ReadGlobalDisabled returns the globally disabled extensions recorded in
// the database at path. A missing database yields an empty list.
func ReadGlobalDisabled(path string, logger *slog.Logger) ([]extensions.Identifier, error) {
	store, err := Open(path, Options{ReadOnly: true, Logger: logger})
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []extensions.Identifier{}, nil
		}
		return nil, err
	}
	defer func() {
		_ = store.Close()
	}()

	return store.ExtensionList(Disabled)
}
