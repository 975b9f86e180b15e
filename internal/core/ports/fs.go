package ports

import "os"

// FileSystem is the file access the command line front end needs.
type FileSystem interface {
	ReadFile(filePath string, maxSize int64) ([]byte, error)
	WriteFileAtomic(filePath string, permission os.FileMode, contents []byte) error
	Exists(filePath string) (bool, error)
}
