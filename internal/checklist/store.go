package checklist

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/temirov/todosync/internal/filesystem"
)

const (
	documentPermissionsConstant        = fs.FileMode(0o644)
	fileSystemNotConfiguredMessage     = "checklist file system not configured"
	documentPathRequiredMessage        = "checklist path must be provided"
	documentReadErrorTemplateConstant  = "failed to read checklist %s: %w"
	documentWriteErrorTemplateConstant = "failed to write checklist %s: %w"
)

var (
	// ErrFileSystemNotConfigured indicates the store was constructed without a file system.
	ErrFileSystemNotConfigured = errors.New(fileSystemNotConfiguredMessage)
	// ErrDocumentPathRequired indicates the store was constructed without a document path.
	ErrDocumentPathRequired = errors.New(documentPathRequiredMessage)
)

// Store loads and saves a checklist document.
type Store struct {
	fileSystem filesystem.FileSystem
	path       string
}

// NewStore constructs a Store for the document at path.
func NewStore(fileSystem filesystem.FileSystem, path string) (*Store, error) {
	if fileSystem == nil {
		return nil, ErrFileSystemNotConfigured
	}
	trimmedPath := strings.TrimSpace(path)
	if len(trimmedPath) == 0 {
		return nil, ErrDocumentPathRequired
	}
	return &Store{fileSystem: fileSystem, path: trimmedPath}, nil
}

// Path returns the document location.
func (store *Store) Path() string {
	return store.path
}

// Load parses the document. The boolean is false when the document does not exist.
func (store *Store) Load() ([]Line, bool, error) {
	content, readError := store.fileSystem.ReadFile(store.path)
	if readError != nil {
		if errors.Is(readError, fs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf(documentReadErrorTemplateConstant, store.path, readError)
	}
	return Parse(string(content)), true, nil
}

// Save overwrites the document with the rendered lines.
func (store *Store) Save(lines []Line) error {
	if writeError := store.fileSystem.WriteFile(store.path, []byte(Render(lines)), documentPermissionsConstant); writeError != nil {
		return fmt.Errorf(documentWriteErrorTemplateConstant, store.path, writeError)
	}
	return nil
}
