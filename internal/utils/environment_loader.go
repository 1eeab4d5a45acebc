package utils

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

const (
	// EnvironmentFileName is the shared dotenv file.
	EnvironmentFileName = ".env"
	// LocalEnvironmentFileName holds machine-specific overrides and wins over EnvironmentFileName.
	LocalEnvironmentFileName = ".env.local"

	environmentFileLoadErrorTemplateConstant = "failed to load environment file %s: %w"
)

// EnvironmentFileLoader populates the process environment from dotenv files without overriding variables already set.
type EnvironmentFileLoader struct {
	directory string
}

// NewEnvironmentFileLoader constructs a loader reading dotenv files from directory.
func NewEnvironmentFileLoader(directory string) *EnvironmentFileLoader {
	return &EnvironmentFileLoader{directory: directory}
}

// Load applies .env.local then .env and returns the files that were applied.
func (loader *EnvironmentFileLoader) Load() ([]string, error) {
	loadedFiles := make([]string, 0, 2)
	for _, fileName := range []string{LocalEnvironmentFileName, EnvironmentFileName} {
		filePath := filepath.Join(loader.directory, fileName)
		if _, statError := os.Stat(filePath); statError != nil {
			if errors.Is(statError, fs.ErrNotExist) {
				continue
			}
			return loadedFiles, fmt.Errorf(environmentFileLoadErrorTemplateConstant, filePath, statError)
		}
		if loadError := godotenv.Load(filePath); loadError != nil {
			return loadedFiles, fmt.Errorf(environmentFileLoadErrorTemplateConstant, filePath, loadError)
		}
		loadedFiles = append(loadedFiles, filePath)
	}
	return loadedFiles, nil
}
