package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"kantin-dashboard/dashboard-svc/internal/service"

	"github.com/google/uuid"
)

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// LocalImageStore writes uploads below Dir and serves them from
// BaseURL/uploads/.
type LocalImageStore struct {
	Dir     string
	BaseURL string
}

func NewLocalImageStore(dir, baseURL string) *LocalImageStore {
	return &LocalImageStore{Dir: dir, BaseURL: strings.TrimRight(baseURL, "/")}
}

var _ service.ImageStore = (*LocalImageStore)(nil)

func (s *LocalImageStore) Save(ctx context.Context, folder string, upload *service.Upload) (string, error) {
	ext, ok := imageExtensions[upload.ContentType]
	if !ok {
		return "", fmt.Errorf("unsupported image type %q: only JPEG, PNG, GIF, WebP allowed", upload.ContentType)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	dir := filepath.Join(s.Dir, filepath.FromSlash(folder))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create upload directory: %w", err)
	}

	name := uuid.NewString() + ext
	dst, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return "", fmt.Errorf("create image file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, upload.Reader); err != nil {
		return "", fmt.Errorf("write image file: %w", err)
	}
	return s.BaseURL + "/uploads/" + folder + "/" + name, nil
}
