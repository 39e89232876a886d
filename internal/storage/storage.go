package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Logical buckets under the data directory. Records reference blobs by a
// path relative to the base dir, bucket included.
const (
	BucketPresentations = "presentations"
	BucketThumbnails    = "thumbnails"
	BucketSlides        = "slides"
)

type Provider interface {
	SaveFile(reader io.Reader, bucket, filename string) (string, int64, error)
	SaveBytes(data []byte, bucket, filename string) (string, error)
	GetFile(relPath string) (io.ReadCloser, error)
	AbsPath(relPath string) string
	Remove(relPath string) error
}

type LocalStorage struct {
	BaseDir string
}

func NewLocalStorage(baseDir string) (*LocalStorage, error) {
	for _, bucket := range []string{BucketPresentations, BucketThumbnails, BucketSlides} {
		if err := os.MkdirAll(filepath.Join(baseDir, bucket), 0755); err != nil {
			return nil, err
		}
	}
	return &LocalStorage{BaseDir: baseDir}, nil
}

// SaveFile streams the reader into the bucket and returns the relative path.
// Names get a uuid prefix so two uploads of the same deck cannot collide.
func (s *LocalStorage) SaveFile(reader io.Reader, bucket, filename string) (string, int64, error) {
	rel := filepath.Join(bucket, fmt.Sprintf("%s_%s", uuid.NewString(), filepath.Base(filename)))

	out, err := os.Create(filepath.Join(s.BaseDir, rel))
	if err != nil {
		return "", 0, err
	}
	defer out.Close()

	written, err := io.Copy(out, reader)
	if err != nil {
		return "", 0, err
	}

	return rel, written, nil
}

func (s *LocalStorage) SaveBytes(data []byte, bucket, filename string) (string, error) {
	rel := filepath.Join(bucket, fmt.Sprintf("%s_%s", uuid.NewString(), filepath.Base(filename)))
	if err := os.WriteFile(filepath.Join(s.BaseDir, rel), data, 0644); err != nil {
		return "", err
	}
	return rel, nil
}

func (s *LocalStorage) GetFile(relPath string) (io.ReadCloser, error) {
	return os.Open(filepath.Join(s.BaseDir, relPath))
}

// AbsPath resolves a stored relative path to an absolute one. The external
// rendering engine needs absolute paths.
func (s *LocalStorage) AbsPath(relPath string) string {
	abs, err := filepath.Abs(filepath.Join(s.BaseDir, relPath))
	if err != nil {
		return filepath.Join(s.BaseDir, relPath)
	}
	return abs
}

func (s *LocalStorage) Remove(relPath string) error {
	return os.Remove(filepath.Join(s.BaseDir, relPath))
}
