package upload

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// MaxFileSize is the upload ceiling for screenshots and settings images.
const MaxFileSize = 5 * 1024 * 1024

var allowedExtensions = map[string]bool{
	".jpeg": true,
	".jpg":  true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// Store persists uploaded images under a single directory, created on
// demand. File names are replaced with a uuid to avoid collisions.
type Store struct {
	Dir     string
	MaxSize int64
}

func NewStore(dir string) *Store {
	return &Store{Dir: dir, MaxSize: MaxFileSize}
}

func (s *Store) SaveImage(file *multipart.FileHeader) (string, error) {
	if file.Size > s.MaxSize {
		return "", fmt.Errorf("file too large: %d bytes (limit %d)", file.Size, s.MaxSize)
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedExtensions[ext] {
		return "", fmt.Errorf("only image files are allowed")
	}
	if ct := file.Header.Get("Content-Type"); ct != "" && !strings.HasPrefix(ct, "image/") {
		return "", fmt.Errorf("only image files are allowed")
	}

	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	path := filepath.Join(s.Dir, uuid.NewString()+ext)
	dst, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(path)
		return "", err
	}
	return path, nil
}
