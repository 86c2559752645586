// Package writer applies add and remove operations to the artifacts directory.
//
// Each operation touches two places: the backend's artifact file and the
// domain's content directory. The artifact is the source of truth, so it is
// written last on add and removed first on remove. Partial failures are
// reported, never rolled back:
//
//   - Add: when rendering or writing the artifact fails after the content
//     directory was created, the directory is left in place and named in
//     Result.Warnings.
//   - Remove: when the artifact is gone but the content directory cannot be
//     removed, the operation succeeds with a warning.
package writer

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ksyq12/dottux/internal/domain"
	"github.com/ksyq12/dottux/internal/driver"
	tuxerrors "github.com/ksyq12/dottux/internal/errors"
	"github.com/ksyq12/dottux/internal/logger"
	"github.com/ksyq12/dottux/internal/registry"
	"github.com/ksyq12/dottux/internal/site"
)

// TempPattern names in-flight artifact writes; no backend naming rule accepts it
const TempPattern = ".dottux-*.tmp"

// Result describes what an operation changed on disk
type Result struct {
	Domain       domain.Name    `json:"domain"`
	Backend      driver.Backend `json:"backend"`
	ArtifactPath string         `json:"artifact_path"`
	SiteRoot     string         `json:"site_root"`
	Warnings     []string       `json:"warnings,omitempty"`
}

func (r *Result) warn(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	r.Warnings = append(r.Warnings, msg)
	logger.Warn("%s", msg)
}

// Writer adds and removes domains in one artifacts directory
type Writer struct {
	registry *registry.Registry
	sites    *site.Manager
	opts     driver.RenderOptions
}

// New creates a Writer. Artifacts go to the registry's directory.
func New(reg *registry.Registry, sites *site.Manager, opts driver.RenderOptions) *Writer {
	return &Writer{registry: reg, sites: sites, opts: opts}
}

// Registry returns the registry the writer checks against
func (w *Writer) Registry() *registry.Registry {
	return w.registry
}

// Sites returns the content directory manager
func (w *Writer) Sites() *site.Manager {
	return w.sites
}

// Add creates the content directory and artifact for d.
// The returned Result is non-nil whenever disk state may have changed,
// including when an error is returned.
func (w *Writer) Add(d domain.Name, b driver.Backend) (*Result, error) {
	if d == w.registry.Reserved() {
		return nil, tuxerrors.ReservedDomain(d.String())
	}

	exists, err := w.registry.Exists(d, b)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, tuxerrors.DuplicateDomain(d.String(), string(b))
	}

	result := &Result{Domain: d, Backend: b}

	root, err := w.sites.Create(d)
	if err != nil {
		ioErr := tuxerrors.IO(d.String(), string(b), "failed to create site content", err)
		if !w.sites.Exists(d) {
			return nil, ioErr
		}
		result.SiteRoot = w.sites.Path(d)
		result.warn("content directory %s left in place", result.SiteRoot)
		return result, ioErr
	}
	result.SiteRoot = root

	artifact, err := driver.Render(d, root, b, w.opts)
	if err != nil {
		result.warn("content directory %s left in place without an artifact", root)
		if tuxerrors.CodeOf(err) != "" {
			return result, err
		}
		return result, tuxerrors.IO(d.String(), string(b), "failed to render artifact", err)
	}

	path := filepath.Join(w.registry.Dir(), artifact.Name)
	if err := writeAtomic(path, []byte(artifact.Content)); err != nil {
		result.warn("content directory %s left in place without an artifact", root)
		return result, tuxerrors.IO(d.String(), string(b), "failed to write artifact", err)
	}
	result.ArtifactPath = path

	logger.Info("Wrote %s for %s", path, d)
	return result, nil
}

// Remove deletes the artifact for d, then its content directory.
// Failure to remove the content directory is reported in Result.Warnings.
func (w *Writer) Remove(d domain.Name, b driver.Backend) (*Result, error) {
	if d == w.registry.Reserved() {
		return nil, tuxerrors.ReservedDomain(d.String())
	}

	exists, err := w.registry.Exists(d, b)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, tuxerrors.DomainNotFound(d.String(), string(b))
	}

	name, err := driver.ArtifactName(d, b)
	if err != nil {
		return nil, err
	}
	path := filepath.Join(w.registry.Dir(), name)
	if err := os.Remove(path); err != nil {
		return nil, tuxerrors.IO(d.String(), string(b), "failed to remove artifact", err)
	}
	logger.Info("Removed %s", path)

	result := &Result{Domain: d, Backend: b, ArtifactPath: path, SiteRoot: w.sites.Path(d)}
	if err := w.sites.Remove(d); err != nil {
		result.warn("content directory %s could not be removed: %v", result.SiteRoot, err)
	}
	return result, nil
}

// Preview renders the artifact for d without touching the filesystem
func (w *Writer) Preview(d domain.Name, b driver.Backend) (driver.Artifact, error) {
	return driver.Render(d, w.sites.Path(d), b, w.opts)
}

// writeAtomic replaces path with data via a temp file in the same directory
func writeAtomic(path string, data []byte) error {
	tmpFile, err := os.CreateTemp(filepath.Dir(path), TempPattern)
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer os.Remove(tmpPath) // no-op once renamed

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}

	if err := tmpFile.Sync(); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to sync temp file: %w", err)
	}

	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Chmod(tmpPath, 0644); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	return nil
}
