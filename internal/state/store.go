package state

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

var ErrNoRecord = errors.New("no run record")

// Store persists a single run record as YAML.
type Store struct {
	Path string
}

func (s Store) path() (string, error) {
	path := strings.TrimSpace(s.Path)
	if path == "" {
		return "", fmt.Errorf("state path is required")
	}
	return path, nil
}

// Save writes the record through a temp file and rename so readers never see
// a partial record.
func (s Store) Save(record Record) error {
	path, err := s.path()
	if err != nil {
		return err
	}
	payload, err := yaml.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode run record: %w", err)
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".run-*.yaml")
	if err != nil {
		return fmt.Errorf("create temp record: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write run record: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write run record: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write run record: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write run record: %w", err)
	}
	return nil
}

func (s Store) Load() (Record, error) {
	path, err := s.path()
	if err != nil {
		return Record{}, err
	}
	payload, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Record{}, ErrNoRecord
		}
		return Record{}, fmt.Errorf("read run record: %w", err)
	}
	var record Record
	if err := yaml.Unmarshal(payload, &record); err != nil {
		return Record{}, fmt.Errorf("decode run record %s: %w", path, err)
	}
	return record, nil
}

// Remove deletes the record; a missing record is not an error.
func (s Store) Remove() error {
	path, err := s.path()
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove run record: %w", err)
	}
	return nil
}
