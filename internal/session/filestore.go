package session

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// DefaultFile is the session file location relative to the working directory.
const DefaultFile = ".stackconsole/session.yaml"

// fileState is the on-disk layout of the session file.
type fileState struct {
	ActiveStackID string    `yaml:"active_stack_id"`
	UpdatedAt     time.Time `yaml:"updated_at"`
}

// FileStore keeps the active identifier in a YAML file so that separate CLI
// invocations share it.
type FileStore struct {
	fs   afero.Fs
	path string
	now  func() time.Time
}

// NewFileStore creates a FileStore at path on fs.
func NewFileStore(fs afero.Fs, path string) *FileStore {
	return &FileStore{fs: fs, path: path, now: time.Now}
}

// Path returns the session file path.
func (s *FileStore) Path() string {
	return s.path
}

// Load returns the stored identifier, or "" if the file does not exist.
func (s *FileStore) Load() (string, error) {
	data, err := afero.ReadFile(s.fs, s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("failed to read session file: %w", err)
	}

	var st fileState
	if err := yaml.Unmarshal(data, &st); err != nil {
		return "", fmt.Errorf("failed to parse session file: %w", err)
	}
	return st.ActiveStackID, nil
}

// Save writes the identifier atomically.
func (s *FileStore) Save(stackID string) error {
	data, err := yaml.Marshal(fileState{ActiveStackID: stackID, UpdatedAt: s.now().UTC()})
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	return writeFileAtomic(s.fs, s.path, data)
}

// writeFileAtomic writes data to a temp file in the target directory and
// renames it into place, so readers see either the old or the new file.
func writeFileAtomic(fs afero.Fs, path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tmp, err := afero.TempFile(fs, dir, ".session-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer fs.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := fs.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to rename temp file to %s: %w", path, err)
	}
	return nil
}
