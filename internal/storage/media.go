package storage

import (
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/jonesrussell/gobrain/internal/logger"
	"github.com/jonesrussell/gobrain/internal/metrics"
)

// MediaStore stores uploaded media files under a single directory with
// opaque generated names.
type MediaStore struct {
	dir     string
	logger  logger.Logger
	metrics *metrics.Metrics
}

// NewMediaStore creates the store and its directory. metrics may be nil.
func NewMediaStore(dir string, log logger.Logger, m *metrics.Metrics) (*MediaStore, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve media dir: %w", err)
	}
	if mkErr := os.MkdirAll(abs, 0o755); mkErr != nil {
		return nil, fmt.Errorf("create media dir: %w", mkErr)
	}
	return &MediaStore{dir: abs, logger: log, metrics: m}, nil
}

// Store writes the content of r under a generated name that keeps the
// original extension. Returns the stored name.
func (s *MediaStore) Store(originalName string, r io.Reader) (string, error) {
	if originalName == "" {
		originalName = "media"
	}

	ext := ""
	if dot := strings.LastIndex(originalName, "."); dot >= 0 && dot < len(originalName)-1 {
		ext = safeFilename(originalName[dot:])
	}

	storedName := strings.ReplaceAll(uuid.NewString(), "-", "") + ext
	target, err := resolveWithinRoot(s.dir, storedName)
	if err != nil {
		return "", err
	}

	f, err := os.Create(target)
	if err != nil {
		return "", fmt.Errorf("create media file: %w", err)
	}
	defer func() { _ = f.Close() }()

	if _, err = io.Copy(f, r); err != nil {
		_ = os.Remove(target)
		return "", fmt.Errorf("write media file: %w", err)
	}

	s.logger.Info("media file stored",
		logger.String("original", originalName),
		logger.String("stored", storedName))
	s.metrics.RecordMediaStored()
	return storedName, nil
}

// Load resolves a stored file and returns its path, size and MIME type.
func (s *MediaStore) Load(filename string) (path string, size int64, contentType string, err error) {
	path, err = resolveWithinRoot(s.dir, filename)
	if err != nil {
		return "", 0, "", err
	}

	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return "", 0, "", ErrNotFound
	}

	return path, info.Size(), detectContentType(filename), nil
}

// Delete removes a stored file. Returns false without error when the
// file does not exist.
func (s *MediaStore) Delete(filename string) (bool, error) {
	path, err := resolveWithinRoot(s.dir, filename)
	if err != nil {
		return false, err
	}

	if rmErr := os.Remove(path); rmErr != nil {
		if os.IsNotExist(rmErr) {
			s.logger.Info("media file already absent", logger.String("filename", filename))
			return false, nil
		}
		return false, fmt.Errorf("delete media file: %w", rmErr)
	}

	s.logger.Info("media file deleted", logger.String("filename", filename))
	return true, nil
}

// detectContentType infers the MIME type from the extension, with
// explicit overrides for the playback formats the frontend streams.
func detectContentType(filename string) string {
	lower := strings.ToLower(filename)
	switch {
	case strings.HasSuffix(lower, ".mp3"):
		return "audio/mpeg"
	case strings.HasSuffix(lower, ".mp4"):
		return "video/mp4"
	}

	if ct := mime.TypeByExtension(filepath.Ext(lower)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
