package store

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"

	"github.com/superscript-dev/superscript/internal/config"
)

// GzipExtension is appended to compressed exports
const GzipExtension = ".gz"

// Export copies the superconfig file to dest. A directory destination receives a
// file named superconfig.yml; compression adds the .gz extension when missing.
func (s *fileStore) Export(ctx context.Context, dest string, compress bool) (string, error) {
	if !s.Exists() {
		return "", ErrNotInitialized
	}

	if info, err := os.Stat(dest); err == nil && info.IsDir() {
		dest = filepath.Join(dest, config.DefaultConfigFile)
	}
	if compress && !strings.HasSuffix(dest, GzipExtension) {
		dest += GzipExtension
	}

	unlock, err := s.lock(ctx, true)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(s.path)
	unlock()
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", s.path, err)
	}

	if compress {
		if data, err = gzipData(data); err != nil {
			return "", err
		}
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0750); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}
	if err := writeFileAtomic(dest, data); err != nil {
		return "", err
	}
	return dest, nil
}

func gzipData(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	writer, err := gzip.NewWriterLevel(&buf, gzip.BestCompression)
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip writer: %w", err)
	}
	writer.Name = config.DefaultConfigFile

	if _, err := writer.Write(data); err != nil {
		return nil, fmt.Errorf("failed to compress configuration: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to compress configuration: %w", err)
	}
	return buf.Bytes(), nil
}
