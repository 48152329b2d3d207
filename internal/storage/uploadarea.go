package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

var (
	// ErrInvalidFilename is returned when a name would resolve outside the
	// trabalho's upload subtree.
	ErrInvalidFilename = errors.New("invalid filename")
	// ErrNotFound is returned when the bytes are absent from the backing store.
	ErrNotFound = errors.New("file not found")
)

// UploadArea maps a trabalho ID to an isolated subtree under a single upload
// root. Every resolved path is strictly contained in root/<trabalhoID>/;
// adversarial names are rejected, never confined elsewhere.
type UploadArea struct {
	root string
}

func NewUploadArea(root string) *UploadArea {
	return &UploadArea{root: filepath.Clean(root)}
}

func (slf *UploadArea) Root() string {
	return slf.root
}

// Resolve returns the on-disk path for (trabalhoID, filename) or fails if
// either component would escape the trabalho's subtree.
func (slf *UploadArea) Resolve(trabalhoID string, filename string) (string, error) {
	if err := validComponent(trabalhoID); err != nil {
		return "", err
	}
	if err := validComponent(filename); err != nil {
		return "", err
	}

	dir := filepath.Join(slf.root, trabalhoID)
	path := filepath.Join(dir, filename)

	// Containment re-checked on the final path; a name that sneaks past the
	// component check still cannot climb out of root/<trabalhoID>/.
	if !strings.HasPrefix(path, dir+string(os.PathSeparator)) {
		return "", ErrInvalidFilename
	}
	return path, nil
}

func validComponent(name string) error {
	if name == "" || name == "." || name == ".." {
		return ErrInvalidFilename
	}
	if strings.ContainsRune(name, '/') || strings.ContainsRune(name, '\\') {
		return ErrInvalidFilename
	}
	if filepath.Clean(name) != name {
		return ErrInvalidFilename
	}
	return nil
}

// EnsureDir idempotently creates the trabalho's subtree.
func (slf *UploadArea) EnsureDir(trabalhoID string) error {
	if err := validComponent(trabalhoID); err != nil {
		return err
	}
	dir := filepath.Join(slf.root, trabalhoID)
	if err := os.MkdirAll(dir, 0o770); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return nil
}

// Write stores the content at the resolved path, creating the subtree first.
// On any error nothing must be recorded for the filename by the caller.
func (slf *UploadArea) Write(trabalhoID string, filename string, src io.Reader) error {
	path, err := slf.Resolve(trabalhoID, filename)
	if err != nil {
		return err
	}
	if err := slf.EnsureDir(trabalhoID); err != nil {
		return err
	}

	dst, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if _, err = io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(path)
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err = dst.Close(); err != nil {
		os.Remove(path)
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}

// Open returns a reader over the stored bytes. Missing bytes are reported as
// absent, even when the owning trabalho still lists the name.
func (slf *UploadArea) Open(trabalhoID string, filename string) (*os.File, error) {
	path, err := slf.Resolve(trabalhoID, filename)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return f, nil
}

// Stat reports whether bytes exist for (trabalhoID, filename).
func (slf *UploadArea) Stat(trabalhoID string, filename string) (os.FileInfo, error) {
	path, err := slf.Resolve(trabalhoID, filename)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	return info, nil
}
