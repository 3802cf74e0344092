package payload

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Downloader materialises byte buffers as files in a download directory.
type Downloader struct {
	Dir string
}

// NewDownloader returns a Downloader writing into dir.
func NewDownloader(dir string) *Downloader {
	return &Downloader{Dir: dir}
}

// Save writes buf under filename and returns the final path. The data goes to
// a temporary file first; the handle is closed before the rename so nothing
// stays open once Save returns. An existing file is never overwritten: a
// numeric suffix is added instead.
func (d *Downloader) Save(buf []byte, filename string) (string, error) {
	name, err := sanitizeFilename(filename)
	if err != nil {
		return "", err
	}
	dir := d.Dir
	if strings.TrimSpace(dir) == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("ensure download directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".edgectl-download-*")
	if err != nil {
		return "", fmt.Errorf("create download file: %w", err)
	}
	tmpPath := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(buf); err != nil {
		_ = tmp.Close()
		return "", fmt.Errorf("write download file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close download file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		return "", fmt.Errorf("chmod download file: %w", err)
	}

	target, err := availablePath(dir, name)
	if err != nil {
		return "", err
	}
	if err := os.Rename(tmpPath, target); err != nil {
		return "", fmt.Errorf("finalize download file: %w", err)
	}
	committed = true
	return target, nil
}

func sanitizeFilename(filename string) (string, error) {
	name := filepath.Base(strings.TrimSpace(filename))
	if name == "" || name == "." || name == ".." || name == string(filepath.Separator) {
		return "", fmt.Errorf("invalid download filename %q", filename)
	}
	return name, nil
}

func availablePath(dir, name string) (string, error) {
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	candidate := filepath.Join(dir, name)
	for i := 1; i < 1000; i++ {
		_, err := os.Lstat(candidate)
		if errors.Is(err, fs.ErrNotExist) {
			return candidate, nil
		}
		if err != nil {
			return "", fmt.Errorf("stat download target: %w", err)
		}
		candidate = filepath.Join(dir, fmt.Sprintf("%s (%d)%s", stem, i, ext))
	}
	return "", fmt.Errorf("no free filename for %q in %s", name, dir)
}
