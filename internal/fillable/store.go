package fillable

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/fprime-community/fprime-fppm/internal/fault"
)

const (
	// DirSuffix is appended to the package folder name to form the fillables dir.
	DirSuffix = ".fillables"
	// AppliedDir holds archived descriptors inside a fillables dir.
	AppliedDir = ".applied"
	// Ext is the descriptor file extension.
	Ext = ".yaml"
)

// ErrExists is returned by Store.Write when a descriptor is already present.
var ErrExists = errors.New("fillable already exists")

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// SanitizeName turns an arbitrary path or marker-bearing name into a single
// safe file name component.
func SanitizeName(name string) string {
	name = strings.TrimPrefix(filepath.ToSlash(name), "./")
	name = strings.ReplaceAll(name, "/", ".")
	name = unsafeChars.ReplaceAllString(name, "_")
	name = strings.Trim(name, "._")
	if name == "" {
		return "_"
	}
	return name
}

// Store manages the descriptor files of one package.
type Store struct {
	Dir string
}

// NewStore returns the store for a package folder name (e.g. "acme.widget")
// under projectRoot.
func NewStore(projectRoot, packageFolder string) *Store {
	return &Store{Dir: filepath.Join(projectRoot, packageFolder+DirSuffix)}
}

// PathFor returns the descriptor path for a config object. A top-level object
// whose name is already safe keeps that name; any other object gets a digest
// suffix after "~" so distinct objects never share a descriptor.
func (s *Store) PathFor(configObject string) string {
	rel := strings.TrimPrefix(filepath.ToSlash(configObject), "./")
	name := SanitizeName(configObject)
	if name != rel {
		sum := sha256.Sum256([]byte(configObject))
		name += "~" + hex.EncodeToString(sum[:8])
	}
	return filepath.Join(s.Dir, name+Ext)
}

// Write encodes d into the store. An existing descriptor is kept and
// ErrExists returned unless force is set. ErrNothingToFill is passed through.
// A descriptor at the same path that belongs to another config object is
// never replaced.
func (s *Store) Write(d *Descriptor, force bool) (string, error) {
	data, err := Encode(d)
	if err != nil {
		return "", err
	}

	path := s.PathFor(d.ConfigObject)
	if existing, err := os.ReadFile(path); err == nil {
		if prev, err := Decode(existing); err == nil && prev.ConfigObject != d.ConfigObject {
			return "", fault.New(fault.InvalidFillable, path,
				"descriptor belongs to %s, not %s", prev.ConfigObject, d.ConfigObject)
		}
		if !force {
			return path, ErrExists
		}
	}

	if err := os.MkdirAll(s.Dir, 0755); err != nil {
		return "", fmt.Errorf("creating fillables directory %s: %w", s.Dir, err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return "", fmt.Errorf("writing %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("finalizing %s: %w", path, err)
	}
	return path, nil
}

// Read loads and decodes the descriptor at path.
func (s *Store) Read(path string) (*Descriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading fillable %s: %w", path, err)
	}
	d, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}

// List returns the descriptor paths in the store, sorted. A missing store
// directory yields an empty list.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("listing fillables in %s: %w", s.Dir, err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != Ext {
			continue
		}
		paths = append(paths, filepath.Join(s.Dir, e.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}

// Retire removes an applied descriptor, or moves it under AppliedDir when
// archive is set.
func (s *Store) Retire(path string, archive bool) error {
	if !archive {
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("removing applied fillable %s: %w", path, err)
		}
		return nil
	}

	dir := filepath.Join(s.Dir, AppliedDir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}
	dst := filepath.Join(dir, filepath.Base(path))
	if err := os.Rename(path, dst); err != nil {
		return fmt.Errorf("archiving %s: %w", path, err)
	}
	return nil
}

// Exists reports whether the store directory is present.
func (s *Store) Exists() bool {
	info, err := os.Stat(s.Dir)
	return err == nil && info.IsDir()
}
