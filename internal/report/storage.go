package report

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/ShubhenduKH/TestMyBlood/internal/config"
	"github.com/ShubhenduKH/TestMyBlood/internal/model"
)

// allowedTypes maps accepted report content types to the extension the
// stored file gets. Anything else is rejected before touching disk.
var allowedTypes = map[string]string{
	"application/pdf": ".pdf",
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
}

// Storage writes uploaded report files under a single directory with
// generated names. The original filename is kept only as metadata.
type Storage struct {
	dir      string
	maxBytes int64
}

func NewStorage(cfg config.UploadsConfig) (*Storage, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir %s: %w", cfg.Dir, err)
	}
	return &Storage{
		dir:      cfg.Dir,
		maxBytes: cfg.MaxSizeMB * 1024 * 1024,
	}, nil
}

// Save validates and persists one uploaded file, returning the stored
// filename and the resolved content type.
func (s *Storage) Save(fh *multipart.FileHeader) (string, string, error) {
	if fh.Size > s.maxBytes {
		return "", "", fmt.Errorf("file exceeds %d MB limit: %w", s.maxBytes/(1024*1024), model.ErrInvalidInput)
	}

	contentType := strings.TrimSpace(strings.Split(fh.Header.Get("Content-Type"), ";")[0])
	ext, ok := allowedTypes[contentType]
	if !ok {
		return "", "", fmt.Errorf("content type %q is not allowed: %w", contentType, model.ErrInvalidInput)
	}

	src, err := fh.Open()
	if err != nil {
		return "", "", fmt.Errorf("failed to open upload: %w", err)
	}
	defer src.Close()

	name := uuid.NewString() + ext
	path := filepath.Join(s.dir, name)

	dst, err := os.Create(path)
	if err != nil {
		return "", "", fmt.Errorf("failed to create report file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, io.LimitReader(src, s.maxBytes+1)); err != nil {
		os.Remove(path)
		return "", "", fmt.Errorf("failed to write report file: %w", err)
	}

	return name, contentType, nil
}

// Path resolves a stored filename to its location on disk. Names with
// path separators are rejected so a crafted filename cannot escape the
// upload directory.
func (s *Storage) Path(name string) (string, error) {
	if name == "" || name != filepath.Base(name) {
		return "", fmt.Errorf("invalid report filename: %w", model.ErrInvalidInput)
	}
	path := filepath.Join(s.dir, name)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return "", model.ErrNotFound
		}
		return "", fmt.Errorf("failed to stat report file: %w", err)
	}
	return path, nil
}
