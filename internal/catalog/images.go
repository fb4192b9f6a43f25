package catalog

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ImageStore persists product photos on local disk and hands back the
// public path recorded on the product row.
type ImageStore struct {
	dir string
}

// NewImageStore creates the upload directory when missing.
func NewImageStore(dir string) (*ImageStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("catalog: create upload dir: %w", err)
	}
	return &ImageStore{dir: dir}, nil
}

// Save writes the uploaded file under a collision-free name and returns the
// path to store on the product.
func (s *ImageStore) Save(file multipart.File, header *multipart.FileHeader) (string, error) {
	name := fmt.Sprintf("produto_%s%s", uuid.NewString(), sanitizeExt(header.Filename))
	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("catalog: create image file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		return "", fmt.Errorf("catalog: write image file: %w", err)
	}
	return "/uploads/produtos/" + name, nil
}

func sanitizeExt(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".png", ".jpg", ".jpeg", ".gif", ".webp":
		return ext
	default:
		return ".jpg"
	}
}
