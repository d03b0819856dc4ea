// Package export turns a backend export stream into a saved local file.
package export

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/nexwrit/scribe/internal/api"
)

// Downloader is the slice of the API client the saver needs.
type Downloader interface {
	Export(ctx context.Context, projectID string) (*api.Download, error)
}

// Saver streams exports into a target directory.
type Saver struct {
	backend Downloader
	dir     string
}

// NewSaver builds a saver. An empty dir means the current directory.
func NewSaver(backend Downloader, dir string) *Saver {
	return &Saver{backend: backend, dir: dir}
}

// Save downloads the rendered document and writes it to disk, preferring
// the backend's suggested filename over fallback. It returns the written
// path. No retry; a failed download leaves nothing behind.
func (s *Saver) Save(ctx context.Context, projectID, fallback string) (string, error) {
	download, err := s.backend.Export(ctx, projectID)
	if err != nil {
		return "", fmt.Errorf("export: download project %s: %w", projectID, err)
	}
	defer download.Close()

	name := download.Filename
	if name == "" {
		name = fallback
	}
	name = SanitizeFilename(name)
	if name == "" {
		name = projectID
	}
	dir := s.dir
	if dir == "" {
		dir = "."
	}
	path := filepath.Join(dir, name)

	// Write-then-rename keeps a failed download from leaving a truncated
	// document under the final name.
	tmp, err := os.CreateTemp(dir, "."+name+".*")
	if err != nil {
		return "", fmt.Errorf("export: create temp file: %w", err)
	}
	if _, err := io.Copy(tmp, download.Body); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("export: write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("export: close %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("export: move into place: %w", err)
	}
	return path, nil
}

// SanitizeFilename strips path separators and control characters so a
// project title can safely become a filename.
func SanitizeFilename(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r == '/' || r == '\\' || r == ':':
			b.WriteRune('-')
		case r < 0x20 || r == 0x7f:
			// drop control characters
		default:
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}
