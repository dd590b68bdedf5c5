package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

var errCorruptStore = errors.New("store file is not a JSON object of strings")

// FileKV keeps every key in one JSON object file. The file is rewritten whole
// on each Set.
type FileKV struct {
	path string
}

func OpenFile(path string) (*FileKV, error) {
	if path == "" {
		return nil, errors.New("storage file path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, err
	}
	return &FileKV{path: path}, nil
}

func (f *FileKV) Close() error { return nil }

func (f *FileKV) Get(key string) (string, bool, error) {
	values, err := f.read()
	if err != nil {
		return "", false, err
	}
	v, ok := values[key]
	return v, ok, nil
}

func (f *FileKV) Set(key, value string) error {
	values, err := f.read()
	switch {
	case errors.Is(err, errCorruptStore):
		// Unparseable content is replaced rather than blocking every later save.
		values = map[string]string{}
	case err != nil:
		return err
	}
	values[key] = value

	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal store: %w", err)
	}
	data = append(data, '\n')

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write store: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("replace store: %w", err)
	}
	return nil
}

func (f *FileKV) read() (map[string]string, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read store: %w", err)
	}
	values := map[string]string{}
	if len(data) == 0 {
		return values, nil
	}
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("%w: %v", errCorruptStore, err)
	}
	return values, nil
}
