// Package profile manages a directory of named strategy tables.
package profile

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/lox/pushfold/strategy"
)

const ext = ".json"

var (
	// ErrNotFound is returned for a profile name with no file.
	ErrNotFound = errors.New("profile not found")
	// ErrInvalidName is returned for names that are not safe file stems.
	ErrInvalidName = errors.New("invalid profile name")
)

var namePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// ValidName checks that name can be used as a profile file stem.
func ValidName(name string) error {
	if !namePattern.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

// Store is a directory of <name>.json strategy tables.
type Store struct {
	dir string
}

// NewStore returns a store rooted at dir. The directory need not exist.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the store's directory.
func (s *Store) Dir() string {
	return s.dir
}

// Path returns the file a profile is stored in.
func (s *Store) Path(name string) string {
	return filepath.Join(s.dir, name+ext)
}

// List returns the profile names in the directory, sorted. Only files that
// Load can open are listed. A missing directory has no profiles.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}

	var names []string
	for _, e := range entries {
		name, ok := strings.CutSuffix(e.Name(), ext)
		if !e.Type().IsRegular() || !ok || ValidName(name) != nil {
			continue
		}
		names = append(names, name)
	}
	slices.Sort(names)
	return names, nil
}

// Exists reports whether a profile file is present.
func (s *Store) Exists(name string) bool {
	if ValidName(name) != nil {
		return false
	}
	info, err := os.Stat(s.Path(name))
	return err == nil && info.Mode().IsRegular()
}

// Load reads and validates a profile.
func (s *Store) Load(name string) (*strategy.Active, error) {
	if err := ValidName(name); err != nil {
		return nil, err
	}
	active, err := LoadFile(name, s.Path(name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return active, err
}

// Save validates data as a strategy table and writes it as profile name,
// replacing any existing file atomically.
func (s *Store) Save(name string, data []byte) (*strategy.Active, error) {
	if err := ValidName(name); err != nil {
		return nil, err
	}
	table, err := strategy.Load(data)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, fmt.Errorf("create profile dir: %w", err)
	}

	path := s.Path(name)
	if err := writeFileAtomic(path, data, 0o644); err != nil {
		return nil, fmt.Errorf("save profile %s: %w", name, err)
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("save profile %s: %w", name, err)
	}
	return &strategy.Active{Name: name, Path: path, ModTime: info.ModTime(), Table: table}, nil
}

// Default picks the table to start with: the preferred profile if present,
// otherwise the first profile listed, otherwise the fallback file.
func (s *Store) Default(preferred, fallback string) (*strategy.Active, error) {
	if preferred != "" && s.Exists(preferred) {
		return s.Load(preferred)
	}
	names, err := s.List()
	if err != nil {
		return nil, err
	}
	if len(names) > 0 {
		return s.Load(names[0])
	}
	if fallback == "" {
		return nil, fmt.Errorf("%w: no profiles in %s and no fallback table", ErrNotFound, s.dir)
	}
	return LoadFile("default", fallback)
}

// LoadFile reads a strategy table from path and labels it name.
func LoadFile(name, path string) (*strategy.Active, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	table, err := strategy.LoadFile(path)
	if err != nil {
		return nil, err
	}
	return &strategy.Active{Name: name, Path: path, ModTime: info.ModTime(), Table: table}, nil
}

// writeFileAtomic writes to a temporary file beside filename and renames it
// into place, so readers see either the old or the new contents.
func writeFileAtomic(filename string, data []byte, perm os.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(filename), filepath.Base(filename)+".tmp.*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpPath, perm); err != nil {
		return err
	}
	if err := os.Rename(tmpPath, filename); err != nil {
		return err
	}
	committed = true
	return nil
}
