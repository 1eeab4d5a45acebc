package mirror

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/temirov/todosync/internal/filesystem"
)

const (
	directoryPermissionsConstant         = fs.FileMode(0o755)
	mirrorFilePermissionsConstant        = fs.FileMode(0o644)
	mirrorFileExtensionConstant          = ".md"
	mirrorFileNameSeparatorConstant      = "-"
	fileSystemNotConfiguredMessage       = "mirror file system not configured"
	mirrorDirectoryRequiredMessage       = "mirror directory must be provided"
	invalidIssueNumberTemplateConstant   = "mirror issue number must be positive: %d"
	directoryCreateErrorTemplateConstant = "failed to create mirror directory %s: %w"
	mirrorFileWriteErrorTemplateConstant = "failed to write mirror file %s: %w"
)

var (
	// ErrFileSystemNotConfigured indicates the store was constructed without a file system.
	ErrFileSystemNotConfigured = errors.New(fileSystemNotConfiguredMessage)
	// ErrDirectoryRequired indicates the store was constructed without a target directory.
	ErrDirectoryRequired = errors.New(mirrorDirectoryRequiredMessage)
)

// Store writes issue bodies into per-issue files.
type Store struct {
	fileSystem filesystem.FileSystem
	directory  string
}

// NewStore constructs a Store rooted at directory. The directory is created on first write.
func NewStore(fileSystem filesystem.FileSystem, directory string) (*Store, error) {
	if fileSystem == nil {
		return nil, ErrFileSystemNotConfigured
	}
	trimmedDirectory := strings.TrimSpace(directory)
	if len(trimmedDirectory) == 0 {
		return nil, ErrDirectoryRequired
	}
	return &Store{fileSystem: fileSystem, directory: trimmedDirectory}, nil
}

// FilePath returns the mirror location for an issue.
func (store *Store) FilePath(issueNumber int, title string) string {
	return filepath.Join(store.directory, FileName(issueNumber, title))
}

// Write overwrites the mirror file for an issue with its body and returns the written path.
func (store *Store) Write(issueNumber int, title string, body string) (string, error) {
	if issueNumber <= 0 {
		return "", fmt.Errorf(invalidIssueNumberTemplateConstant, issueNumber)
	}
	if mkdirError := store.fileSystem.MkdirAll(store.directory, directoryPermissionsConstant); mkdirError != nil {
		return "", fmt.Errorf(directoryCreateErrorTemplateConstant, store.directory, mkdirError)
	}

	mirrorPath := store.FilePath(issueNumber, title)
	if writeError := store.fileSystem.WriteFile(mirrorPath, []byte(body), mirrorFilePermissionsConstant); writeError != nil {
		return "", fmt.Errorf(mirrorFileWriteErrorTemplateConstant, mirrorPath, writeError)
	}
	return mirrorPath, nil
}

// FileName formats "<number>-<slug>.md".
func FileName(issueNumber int, title string) string {
	return strconv.Itoa(issueNumber) + mirrorFileNameSeparatorConstant + Slugify(title) + mirrorFileExtensionConstant
}
