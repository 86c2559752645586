package driver

import (
	"sort"
	"strings"
	"sync"

	"github.com/ksyq12/dottux/internal/domain"
	tuxerrors "github.com/ksyq12/dottux/internal/errors"
)

// Backend identifies a web server configuration dialect
type Backend string

// Supported backends
const (
	Nginx    Backend = "nginx"
	Caddy    Backend = "caddy"
	Lighttpd Backend = "lighttpd"
)

// String returns the backend name
func (b Backend) String() string {
	return string(b)
}

// Format is the interface every backend format must implement.
// Implementations are pure: they never touch the filesystem.
type Format interface {
	// Backend returns the backend this format serves
	Backend() Backend

	// ArtifactName returns the file name of the domain's artifact
	ArtifactName(d domain.Name) string

	// DomainFromArtifact inverts ArtifactName; ok is false for names
	// that do not follow this backend's naming rule exactly
	DomainFromArtifact(name string) (d domain.Name, ok bool)

	// Render returns the configuration fragment for the domain
	Render(d domain.Name, siteRoot string, opts RenderOptions) (string, error)
}

// RenderOptions carries operator-chosen values that are not part of the domain
type RenderOptions struct {
	ListenPort int
}

// DefaultListenPort is the port nginx server blocks listen on
const DefaultListenPort = 8080

// Artifact is a rendered configuration fragment ready to be written
type Artifact struct {
	Name    string
	Content string
}

var (
	mu       sync.RWMutex
	registry = make(map[Backend]Format)
)

// Register adds a format to the registry, replacing any previous one for the same backend
func Register(f Format) {
	mu.Lock()
	defer mu.Unlock()
	registry[f.Backend()] = f
}

// Unregister removes a backend from the registry (for tests)
func Unregister(b Backend) {
	mu.Lock()
	defer mu.Unlock()
	delete(registry, b)
}

// Get returns the format for a backend
func Get(b Backend) (Format, error) {
	mu.RLock()
	defer mu.RUnlock()
	f, ok := registry[b]
	if !ok {
		return nil, tuxerrors.UnsupportedBackend(string(b))
	}
	return f, nil
}

// Supported returns all registered backends in name order
func Supported() []Backend {
	mu.RLock()
	defer mu.RUnlock()
	backends := make([]Backend, 0, len(registry))
	for b := range registry {
		backends = append(backends, b)
	}
	sort.Slice(backends, func(i, j int) bool { return backends[i] < backends[j] })
	return backends
}

// ParseBackend converts a configuration value into a registered Backend.
// An empty value is BackendNotConfigured; an unknown one is UnsupportedBackend.
func ParseBackend(s string) (Backend, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return "", tuxerrors.BackendNotConfigured("backend selector")
	}
	b := Backend(s)
	if _, err := Get(b); err != nil {
		return "", err
	}
	return b, nil
}

// Render maps a domain and site root to the backend's artifact name and content
func Render(d domain.Name, siteRoot string, b Backend, opts RenderOptions) (Artifact, error) {
	f, err := Get(b)
	if err != nil {
		return Artifact{}, err
	}
	if opts.ListenPort == 0 {
		opts.ListenPort = DefaultListenPort
	}
	content, err := f.Render(d, siteRoot, opts)
	if err != nil {
		return Artifact{}, err
	}
	return Artifact{Name: f.ArtifactName(d), Content: content}, nil
}

// ArtifactName returns the artifact file name for a domain under a backend
func ArtifactName(d domain.Name, b Backend) (string, error) {
	f, err := Get(b)
	if err != nil {
		return "", err
	}
	return f.ArtifactName(d), nil
}

// DomainFromArtifact recovers the domain from an artifact file name
func DomainFromArtifact(name string, b Backend) (domain.Name, bool) {
	f, err := Get(b)
	if err != nil {
		return "", false
	}
	return f.DomainFromArtifact(name)
}

// suffixedName strips suffix from name and validates the remaining stem
func suffixedName(name, suffix string) (domain.Name, bool) {
	if suffix != "" && !strings.HasSuffix(name, suffix) {
		return "", false
	}
	stem := strings.TrimSuffix(name, suffix)
	if !domain.IsValid(stem) {
		return "", false
	}
	return domain.Name(stem), true
}
