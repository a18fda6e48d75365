package credentials

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rios0rios0/shipflow/internal/domain/repositories"
)

const (
	cacheDir = ".git"
	dirMode  = 0o700
	fileMode = 0o600
)

// FileCredentialRepository keeps one small file per key under <home>/.git/.
type FileCredentialRepository struct {
	root string
}

// NewFileCredentialRepository creates the cache directory under homePath.
func NewFileCredentialRepository(homePath string) (repositories.CredentialRepository, error) {
	root := filepath.Join(homePath, cacheDir)
	if err := os.MkdirAll(root, dirMode); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", root, err)
	}
	return &FileCredentialRepository{root: root}, nil
}

func (r *FileCredentialRepository) Read(key string) (string, error) {
	data, err := os.ReadFile(r.Path(key))
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", key, err)
	}
	return strings.TrimSpace(string(data)), nil
}

func (r *FileCredentialRepository) Write(key, value string) error {
	if err := os.WriteFile(r.Path(key), []byte(value), fileMode); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

func (r *FileCredentialRepository) Path(key string) string {
	return filepath.Join(r.root, key)
}
