// Package fsys is the filesystem service used by the scaffold write phases.
// Paths are project-relative and slash separated; they resolve under a root
// directory and may not escape it.
package fsys

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// Filesystem is the narrow view the scaffold pipeline needs.
type Filesystem interface {
	Exists(rel string) (bool, error)
	ReadFile(rel string) (string, error)
	EnsureDir(rel string) error
	WriteFile(rel, content string) error
}

const (
	dirPerm  os.FileMode = 0o755
	filePerm os.FileMode = 0o644
)

// Service implements Filesystem over an afero.Fs.
type Service struct {
	fs   afero.Fs
	root string
}

// New returns a service rooted at root on fs.
func New(fs afero.Fs, root string) *Service {
	return &Service{fs: fs, root: filepath.Clean(root)}
}

// NewOS returns a service on the real filesystem.
func NewOS(root string) *Service {
	return New(afero.NewOsFs(), root)
}

// Root returns the root directory.
func (s *Service) Root() string { return s.root }

// Fs returns the underlying filesystem.
func (s *Service) Fs() afero.Fs { return s.fs }

// Scoped returns a view of fs where project-relative paths resolve under the
// root. Root must be absolute.
func (s *Service) Scoped() afero.Fs {
	return afero.NewBasePathFs(s.fs, s.root)
}

// Abs resolves a project-relative path.
func (s *Service) Abs(rel string) (string, error) {
	clean := path.Clean(filepath.ToSlash(rel))
	if path.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", fmt.Errorf("path %s escapes the project root", rel)
	}
	if clean == "." {
		return s.root, nil
	}
	return filepath.Join(s.root, filepath.FromSlash(clean)), nil
}

// Exists reports whether rel exists.
func (s *Service) Exists(rel string) (bool, error) {
	p, err := s.Abs(rel)
	if err != nil {
		return false, err
	}
	return afero.Exists(s.fs, p)
}

// ReadFile returns the content of rel.
func (s *Service) ReadFile(rel string) (string, error) {
	p, err := s.Abs(rel)
	if err != nil {
		return "", err
	}
	data, err := afero.ReadFile(s.fs, p)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// EnsureDir creates rel and any missing parents.
func (s *Service) EnsureDir(rel string) error {
	p, err := s.Abs(rel)
	if err != nil {
		return err
	}
	if err := s.fs.MkdirAll(p, dirPerm); err != nil {
		return fmt.Errorf("create directory %s: %w", rel, err)
	}
	return nil
}

// WriteFile writes content to rel, creating parent directories.
func (s *Service) WriteFile(rel, content string) error {
	p, err := s.Abs(rel)
	if err != nil {
		return err
	}
	if err := s.fs.MkdirAll(filepath.Dir(p), dirPerm); err != nil {
		return fmt.Errorf("create directory for %s: %w", rel, err)
	}
	if err := afero.WriteFile(s.fs, p, []byte(content), filePerm); err != nil {
		return fmt.Errorf("write %s: %w", rel, err)
	}
	return nil
}
