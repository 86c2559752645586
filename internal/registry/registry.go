// Package registry derives the set of managed domains from the artifacts directory.
//
// The directory listing is the only record of which domains exist. A file
// counts as a managed domain when its name inverts cleanly under the active
// backend's naming rule; everything else in the directory is ignored.
package registry

import (
	"os"
	"sort"

	"github.com/ksyq12/dottux/internal/domain"
	"github.com/ksyq12/dottux/internal/driver"
	tuxerrors "github.com/ksyq12/dottux/internal/errors"
	"github.com/ksyq12/dottux/internal/logger"
)

// Registry scans one artifacts directory
type Registry struct {
	dir      string
	reserved domain.Name
}

// New creates a Registry over dir that hides the reserved domain
func New(dir string, reserved domain.Name) *Registry {
	if reserved == "" {
		reserved = domain.DefaultReserved
	}
	return &Registry{dir: dir, reserved: reserved}
}

// Dir returns the scanned directory
func (r *Registry) Dir() string {
	return r.dir
}

// Reserved returns the domain excluded from listings
func (r *Registry) Reserved() domain.Name {
	return r.reserved
}

// List returns the managed domains for backend b in lexicographic order.
// A missing or unreadable directory is DirectoryUnavailable, never an empty list.
func (r *Registry) List(b driver.Backend) ([]domain.Name, error) {
	if _, err := driver.Get(b); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(r.dir)
	if err != nil {
		return nil, tuxerrors.DirectoryUnavailable(r.dir, string(b), err)
	}

	domains := make([]domain.Name, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		d, ok := driver.DomainFromArtifact(entry.Name(), b)
		if !ok {
			logger.Debug("Ignoring %s in %s", entry.Name(), r.dir)
			continue
		}
		if d == r.reserved {
			continue
		}
		domains = append(domains, d)
	}

	sort.Slice(domains, func(i, j int) bool { return domains[i] < domains[j] })
	return domains, nil
}

// Exists reports whether d is currently managed under backend b
func (r *Registry) Exists(d domain.Name, b driver.Backend) (bool, error) {
	domains, err := r.List(b)
	if err != nil {
		return false, err
	}
	for _, existing := range domains {
		if existing == d {
			return true, nil
		}
	}
	return false, nil
}
