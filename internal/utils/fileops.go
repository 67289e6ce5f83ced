package utils

import (
	"os"
	"path/filepath"

	"github.com/toyz/simpl/internal/errors"
)

// WriteFile writes content to path, creating missing parent directories.
func WriteFile(path string, content []byte) error {
	cleanPath := filepath.Clean(path)
	if err := os.MkdirAll(filepath.Dir(cleanPath), 0o755); err != nil {
		return errors.WrapFileSystemError("create directory for", cleanPath, err)
	}
	if err := os.WriteFile(cleanPath, content, 0o644); err != nil {
		return errors.WrapFileSystemError("write", cleanPath, err)
	}
	return nil
}

// ReadFile reads path, wrapping failures as file system errors.
func ReadFile(path string) ([]byte, error) {
	cleanPath := filepath.Clean(path)
	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, errors.WrapFileSystemError("read", cleanPath, err)
	}
	return data, nil
}
