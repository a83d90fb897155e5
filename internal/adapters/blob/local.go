// Package blob stores document bytes on the local filesystem. Metadata
// and access control live in the database; this layer only owns the
// files.
package blob

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

type LocalStore struct {
	dir string
}

func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStore{dir: dir}, nil
}

// Put writes the stream to disk under a sanitized name, suffixing on
// collision, and returns the stored name with the content's SHA-256.
func (s *LocalStore) Put(ctx context.Context, filename string, r io.Reader) (string, string, error) {
	if err := ctx.Err(); err != nil {
		return "", "", err
	}

	name := sanitizeFilename(filename)
	stored := name
	for n := 1; ; n++ {
		if _, err := os.Stat(filepath.Join(s.dir, stored)); errors.Is(err, os.ErrNotExist) {
			break
		}
		ext := filepath.Ext(name)
		stored = fmt.Sprintf("%s_%d%s", strings.TrimSuffix(name, ext), n, ext)
	}

	f, err := os.OpenFile(filepath.Join(s.dir, stored), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", "", fmt.Errorf("create blob file: %w", err)
	}

	hasher := sha256.New()
	if _, err := io.Copy(io.MultiWriter(f, hasher), r); err != nil {
		f.Close()
		_ = os.Remove(f.Name())
		return "", "", fmt.Errorf("write blob: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(f.Name())
		return "", "", fmt.Errorf("close blob: %w", err)
	}

	return stored, hex.EncodeToString(hasher.Sum(nil)), nil
}

func (s *LocalStore) Open(ctx context.Context, storedPath string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(filepath.Join(s.dir, sanitizeFilename(storedPath)))
	if err != nil {
		return nil, fmt.Errorf("open blob: %w", err)
	}
	return f, nil
}

func (s *LocalStore) Remove(ctx context.Context, storedPath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := os.Remove(filepath.Join(s.dir, sanitizeFilename(storedPath)))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove blob: %w", err)
	}
	return nil
}

// sanitizeFilename strips any path component so clients cannot escape
// the upload directory.
func sanitizeFilename(name string) string {
	name = filepath.Base(filepath.Clean(name))
	if name == "." || name == string(filepath.Separator) || name == "" {
		return "unnamed"
	}
	return name
}
