package fallback

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	appErrors "github.com/noah-isme/school-portal/pkg/errors"
)

// File persists one JSON document per key under a base directory.
type File struct {
	baseDir string
}

// NewFile ensures the base directory exists and returns a handle.
func NewFile(baseDir string) (*File, error) {
	if baseDir == "" {
		baseDir = "./fallback"
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create fallback directory: %w", err)
	}
	return &File{baseDir: baseDir}, nil
}

// Load reads the snapshot stored for key.
func (f *File) Load(_ context.Context, key string) ([]byte, error) {
	path, err := f.resolve(key)
	if err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, appErrors.ErrCacheMiss
		}
		return nil, fmt.Errorf("read snapshot file: %w", err)
	}
	return raw, nil
}

// Store writes through a temporary file and renames it into place so readers never
// observe a partial snapshot.
func (f *File) Store(_ context.Context, key string, payload []byte) error {
	path, err := f.resolve(key)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(f.baseDir, "."+key+"-*.tmp")
	if err != nil {
		return fmt.Errorf("create snapshot temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) //nolint:errcheck

	if _, err := tmp.Write(payload); err != nil {
		tmp.Close() //nolint:errcheck
		return fmt.Errorf("write snapshot temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close() //nolint:errcheck
		return fmt.Errorf("sync snapshot temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close snapshot temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replace snapshot file: %w", err)
	}
	return nil
}

// Path exposes the file backing key.
func (f *File) Path(key string) string {
	path, _ := f.resolve(key)
	return path
}

func (f *File) resolve(key string) (string, error) {
	if key == "" || strings.ContainsAny(key, `/\`) || strings.Contains(key, "..") {
		return "", fmt.Errorf("invalid snapshot key %q", key)
	}
	return filepath.Join(f.baseDir, key+".json"), nil
}
