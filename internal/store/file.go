package store

import (
	"context"
	"os"
	"path/filepath"
	"strings"
)

// FileKV keeps each key in its own file under a directory.
type FileKV struct {
	dir string
}

// NewFileKV returns a FileKV rooted at dir. The directory is created on first write.
func NewFileKV(dir string) *FileKV {
	return &FileKV{dir: dir}
}

// fileName maps a key to its file. The session list gets a .json suffix.
func fileName(key string) string {
	if key == SessionsKey {
		return key + ".json"
	}
	return key
}

func (f *FileKV) path(key string) string {
	return filepath.Join(f.dir, fileName(key))
}

func (f *FileKV) Get(ctx context.Context, key string) (string, error) {
	data, err := os.ReadFile(f.path(key))
	if os.IsNotExist(err) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Set writes through a temp file and rename so readers never see a partial file.
func (f *FileKV) Set(ctx context.Context, key, value string) error {
	if err := os.MkdirAll(f.dir, 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(f.dir, "."+fileName(key)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.WriteString(value); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, f.path(key)); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}

func (f *FileKV) Delete(ctx context.Context, key string) error {
	err := os.Remove(f.path(key))
	if os.IsNotExist(err) {
		return ErrNotFound
	}
	return err
}

func (f *FileKV) Close() error { return nil }

func (f *FileKV) Describe() string {
	return "file:" + strings.TrimRight(f.dir, string(filepath.Separator))
}
