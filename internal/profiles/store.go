package profiles

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/danieljhkim/extprofiles/internal/extensions"
	"github.com/danieljhkim/extprofiles/internal/fsops"
)

// Store provides an interface for persisting the profile document.
type Store interface {
	// Load loads the document. A missing file yields an empty document.
	Load() (*Document, error)

	// Save saves the document atomically.
	Save(doc *Document) error
}

// FileStore implements Store using a JSON file on disk.
type FileStore struct {
	fs   fsops.FS
	path string
}

// NewFileStore creates a new FileStore.
func NewFileStore(fs fsops.FS, path string) *FileStore {
	return &FileStore{
		fs:   fs,
		path: path,
	}
}

// Load loads the document.
func (s *FileStore) Load() (*Document, error) {
	data, err := s.fs.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewDocument(), nil
		}
		return nil, fmt.Errorf("failed to read profiles: %w", err)
	}

	doc := NewDocument()
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profiles: %w", err)
	}
	if doc.Profiles == nil {
		doc.Profiles = make(map[string]*Profile)
	}
	if doc.Catalog == nil {
		doc.Catalog = make(map[string]extensions.Extension)
	}
	for name, p := range doc.Profiles {
		if p == nil {
			delete(doc.Profiles, name)
			continue
		}
		p.Name = name
	}

	return doc, nil
}

// Save saves the document atomically.
func (s *FileStore) Save(doc *Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal profiles: %w", err)
	}

	if err := s.fs.AtomicWrite(s.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write profiles: %w", err)
	}

	return nil
}
