package fs

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// LocalFileSystem reads source images and writes compressed results for the
// command line front end. The engine itself never touches the filesystem.
type LocalFileSystem struct{}

func NewLocalFileSystem() *LocalFileSystem {
	return &LocalFileSystem{}
}

// ReadFile reads filePath, refusing files larger than maxSize bytes when
// maxSize is positive.
func (lfs *LocalFileSystem) ReadFile(filePath string, maxSize int64) ([]byte, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return nil, err
	}

	if stat.IsDir() {
		return nil, fmt.Errorf("%s is a directory", filePath)
	}

	if maxSize > 0 && stat.Size() > maxSize {
		return nil, fmt.Errorf("%s is %d bytes, limit is %d bytes", filePath, stat.Size(), maxSize)
	}

	return io.ReadAll(file)
}

// WriteFileAtomic writes contents to a temporary file next to filePath and
// renames it into place, so readers never observe a partially written image.
func (lfs *LocalFileSystem) WriteFileAtomic(filePath string, permission os.FileMode, contents []byte) error {
	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error in creating directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(filePath)+".*.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(contents); err != nil {
		tmp.Close()
		return err
	}

	if err := tmp.Chmod(permission); err != nil {
		tmp.Close()
		return err
	}

	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmpPath, filePath)
}

// Checks if a file exists or not.
func (lfs *LocalFileSystem) Exists(file string) (bool, error) {
	_, err := os.Stat(file)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, err
}
