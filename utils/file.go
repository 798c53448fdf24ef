// utils/file.go
package utils

import (
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
)

// uploadRoot is the local fallback store for avatars and clan logos when R2
// is not configured.
const uploadRoot = "uploads"

// EnsureUploadDir creates the local upload root if it doesn't exist.
func EnsureUploadDir() error {
	return os.MkdirAll(uploadRoot, os.ModePerm)
}

// SaveFile writes an uploaded image to destPath, creating parent directories
// as needed.
func SaveFile(fileHeader *multipart.FileHeader, destPath string) error {
	if err := os.MkdirAll(filepath.Dir(destPath), os.ModePerm); err != nil {
		return err
	}

	src, err := fileHeader.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := os.Create(destPath)
	if err != nil {
		return err
	}
	defer dst.Close()

	_, err = io.Copy(dst, src)
	return err
}

// GetUploadPath resolves a key (e.g. "avatars/abc.png") inside the upload root.
func GetUploadPath(key string) string {
	return filepath.Join(uploadRoot, key)
}
