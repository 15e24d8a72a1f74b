package scoring

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// RunStorage loads and saves finished runs. Tests swap in an in-memory
// implementation.
type RunStorage interface {
	// LoadAll loads every recorded run.
	LoadAll() ([]RunEntry, error)
	// SaveAll overwrites the stored runs with entries.
	SaveAll(entries []RunEntry) error
}

// JSONFileStorage stores runs as one JSON object per line.
type JSONFileStorage struct {
	path string
}

// NewJSONFileStorage returns storage at ~/.config/netbreach/runs.json.
func NewJSONFileStorage() (*JSONFileStorage, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("could not get user home directory: %w", err)
	}
	return NewJSONFileStorageAt(filepath.Join(homeDir, ".config", "netbreach", "runs.json")), nil
}

// NewJSONFileStorageAt returns storage backed by the file at path.
func NewJSONFileStorageAt(path string) *JSONFileStorage {
	return &JSONFileStorage{path: path}
}

// Path returns the backing file.
func (jfs *JSONFileStorage) Path() string { return jfs.path }

// LoadAll reads every run from the file. A missing file is an empty history.
func (jfs *JSONFileStorage) LoadAll() ([]RunEntry, error) {
	file, err := os.Open(jfs.path)
	if errors.Is(err, os.ErrNotExist) {
		return []RunEntry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open runs file: %w", err)
	}
	defer file.Close()

	entries := make([]RunEntry, 0)
	decoder := json.NewDecoder(file)
	for {
		var entry RunEntry
		if err := decoder.Decode(&entry); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("decode run entry: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// SaveAll writes entries to the file, creating its directory if needed.
func (jfs *JSONFileStorage) SaveAll(entries []RunEntry) error {
	if err := os.MkdirAll(filepath.Dir(jfs.path), 0755); err != nil {
		return fmt.Errorf("create runs directory: %w", err)
	}

	file, err := os.OpenFile(jfs.path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("open runs file for writing: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	encoder := json.NewEncoder(writer)
	for _, entry := range entries {
		if err := encoder.Encode(entry); err != nil {
			return fmt.Errorf("encode run entry: %w", err)
		}
	}
	return writer.Flush()
}
