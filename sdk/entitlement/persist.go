package entitlement

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

const (
	ledgerFile    = "ledger.json"
	artifactsFile = "artifacts.json"
)

// FileStore persists the ledger and the session artifacts as two JSON files,
// matching their split lifecycles.
type FileStore struct {
	dir string
}

// NewFileStore stores state under the user config dir.
func NewFileStore(appName string) (*FileStore, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return nil, fmt.Errorf("resolve config dir: %w", err)
	}
	return NewFileStoreAt(filepath.Join(base, appName)), nil
}

// NewFileStoreAt stores state under an explicit directory.
func NewFileStoreAt(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// Load reads the persisted state. Missing files yield zero values; a ledger
// written by an unknown schema version is discarded by Restore.
func (f *FileStore) Load() (Ledger, Artifacts, error) {
	var ledger Ledger
	if err := f.readJSON(ledgerFile, &ledger); err != nil {
		return Ledger{}, Artifacts{}, fmt.Errorf("load ledger: %w", err)
	}

	var artifacts Artifacts
	if err := f.readJSON(artifactsFile, &artifacts); err != nil {
		return Ledger{}, Artifacts{}, fmt.Errorf("load artifacts: %w", err)
	}
	return ledger, artifacts, nil
}

// Save writes both files atomically, each via a temp file and rename.
func (f *FileStore) Save(ledger Ledger, artifacts Artifacts) error {
	if err := os.MkdirAll(f.dir, 0o700); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}
	if err := f.writeJSON(ledgerFile, ledger); err != nil {
		return fmt.Errorf("save ledger: %w", err)
	}
	if err := f.writeJSON(artifactsFile, artifacts); err != nil {
		return fmt.Errorf("save artifacts: %w", err)
	}
	return nil
}

func (f *FileStore) readJSON(name string, v any) error {
	data, err := os.ReadFile(filepath.Join(f.dir, name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

func (f *FileStore) writeJSON(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(f.dir, name+".tmp-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), filepath.Join(f.dir, name))
}
