package filesystem

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"

	"github.com/natefinch/atomic"
)

const (
	atomicWriteErrorTemplateConstant = "failed to write %s: %w"
	permissionErrorTemplateConstant  = "failed to set permissions on %s: %w"
)

// FileSystem exposes the file operations todosync performs on checklist and mirror files.
type FileSystem interface {
	Stat(path string) (fs.FileInfo, error)
	MkdirAll(path string, permissions fs.FileMode) error
	ReadFile(path string) ([]byte, error)
	WriteFile(path string, data []byte, permissions fs.FileMode) error
}

// OSFileSystem implements FileSystem using the operating system primitives.
type OSFileSystem struct{}

// Stat retrieves file metadata.
func (OSFileSystem) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(path)
}

// MkdirAll ensures a directory hierarchy exists with the provided permissions.
func (OSFileSystem) MkdirAll(path string, permissions fs.FileMode) error {
	return os.MkdirAll(path, permissions)
}

// ReadFile reads file contents.
func (OSFileSystem) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// WriteFile replaces the file through a temporary sibling and rename, so readers never observe a partial write.
func (OSFileSystem) WriteFile(path string, data []byte, permissions fs.FileMode) error {
	if writeError := atomic.WriteFile(path, bytes.NewReader(data)); writeError != nil {
		return fmt.Errorf(atomicWriteErrorTemplateConstant, path, writeError)
	}
	if chmodError := os.Chmod(path, permissions); chmodError != nil {
		return fmt.Errorf(permissionErrorTemplateConstant, path, chmodError)
	}
	return nil
}
