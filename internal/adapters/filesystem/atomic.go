package filesystem

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"ideagraph/internal/domain"
)

// encodeJSON produces the on-disk form: two-space indented JSON
func encodeJSON(v any) ([]byte, error) {
	return json.MarshalIndent(v, "", "  ")
}

// readJSON decodes path into v. It reports false when the file is absent or
// holds only whitespace.
func readJSON(path string, v any) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, &domain.IOError{Op: "read", Path: path, Err: err}
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return false, nil
	}

	if err := json.Unmarshal(data, v); err != nil {
		return false, &domain.IOError{Op: "parse", Path: path, Err: err}
	}
	return true, nil
}

// writeFileAtomic replaces path with data. The bytes go to a temp file in the
// same directory, are synced, then renamed over the target, so readers see
// either the old contents or the new ones.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return &domain.IOError{Op: "write", Path: path, Err: err}
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return &domain.IOError{Op: "write", Path: path, Err: err}
	}
	tmpPath := tmp.Name()
	cleanup := true
	defer func() {
		if cleanup {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return &domain.IOError{Op: "write", Path: path, Err: err}
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return &domain.IOError{Op: "write", Path: path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &domain.IOError{Op: "write", Path: path, Err: err}
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		return &domain.IOError{Op: "write", Path: path, Err: err}
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return &domain.IOError{Op: "write", Path: path, Err: err}
	}
	cleanup = false

	syncDir(dir)
	return nil
}

// writeJSONAtomic encodes v and writes it with writeFileAtomic
func writeJSONAtomic(path string, v any) error {
	data, err := encodeJSON(v)
	if err != nil {
		return &domain.IOError{Op: "encode", Path: path, Err: err}
	}
	return writeFileAtomic(path, data)
}

// syncDir flushes the directory entry after a rename. Best effort: some
// platforms do not support syncing directories.
func syncDir(dir string) {
	d, err := os.Open(dir)
	if err != nil {
		return
	}
	d.Sync()
	d.Close()
}

// fileSize returns the size of path, or 0 when it does not exist
func fileSize(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, nil
		}
		return 0, &domain.IOError{Op: "stat", Path: path, Err: err}
	}
	return info.Size(), nil
}
