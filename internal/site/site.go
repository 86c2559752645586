// Package site manages the per-domain content directories the backends serve.
package site

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ksyq12/dottux/internal/domain"
	"github.com/ksyq12/dottux/internal/logger"
	"github.com/ksyq12/dottux/internal/template"
)

// IndexFile is the placeholder page written into every new site
const IndexFile = "index.html"

// Manager creates and removes <root>/<domain>/ directories
type Manager struct {
	root string
}

// New creates a Manager rooted at the sites directory
func New(root string) *Manager {
	return &Manager{root: root}
}

// Root returns the sites directory
func (m *Manager) Root() string {
	return m.root
}

// Path returns the content directory of d
func (m *Manager) Path(d domain.Name) string {
	return filepath.Join(m.root, d.String())
}

// Create makes the content directory of d and writes the placeholder page.
// Calling it for an existing directory rewrites the placeholder.
func (m *Manager) Create(d domain.Name) (string, error) {
	dir := m.Path(d)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create site directory %s: %w", dir, err)
	}

	page, err := template.RenderPlaceholder(d.String())
	if err != nil {
		return dir, err
	}

	index := filepath.Join(dir, IndexFile)
	if err := os.WriteFile(index, []byte(page), 0644); err != nil {
		return dir, fmt.Errorf("failed to write %s: %w", index, err)
	}

	logger.Debug("Created site content at %s", dir)
	return dir, nil
}

// Remove deletes the content directory of d. An absent directory is not an error.
func (m *Manager) Remove(d domain.Name) error {
	dir := m.Path(d)
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("failed to remove site directory %s: %w", dir, err)
	}
	logger.Debug("Removed site content at %s", dir)
	return nil
}

// Exists reports whether the content directory of d is present
func (m *Manager) Exists(d domain.Name) bool {
	info, err := os.Stat(m.Path(d))
	return err == nil && info.IsDir()
}
