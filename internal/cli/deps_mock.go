package cli

import (
	"github.com/ksyq12/dottux/internal/config"
	"github.com/ksyq12/dottux/internal/executor"
	"github.com/ksyq12/dottux/internal/input"
	"github.com/ksyq12/dottux/internal/platform"
)

// MockConfigLoader is a test double for ConfigLoader
type MockConfigLoader struct {
	Cfg       *config.Config
	File      string
	LoadErr   error
	SaveErr   error
	SaveCalls int
}

func (m *MockConfigLoader) Load() (*config.Config, error) {
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	if m.Cfg == nil {
		m.Cfg = config.New()
	}
	return m.Cfg, nil
}

func (m *MockConfigLoader) Save(cfg *config.Config) error {
	m.SaveCalls++
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.Cfg = cfg
	return nil
}

func (m *MockConfigLoader) Path() (string, error) {
	if m.File == "" {
		return "/nonexistent/dottux/config.yaml", nil
	}
	return m.File, nil
}

// MockPlatformDetector is a test double for PlatformDetector
type MockPlatformDetector struct {
	Paths *platform.PlatformPaths
	Err   error
	Name  string
}

func (m *MockPlatformDetector) DetectPaths() (*platform.PlatformPaths, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Paths != nil {
		return m.Paths, nil
	}
	// Return default mock paths
	return &platform.PlatformPaths{
		Nginx:    "/etc/nginx/conf.d",
		Caddy:    "/etc/caddy/sites",
		Lighttpd: "/etc/lighttpd/conf.d",
	}, nil
}

func (m *MockPlatformDetector) Platform() string {
	if m.Name == "" {
		return "linux/amd64"
	}
	return m.Name
}

// MockDependenciesBuilder helps create mock dependencies for tests
type MockDependenciesBuilder struct {
	deps *Dependencies
}

// NewMockDeps creates a new MockDependenciesBuilder with sensible defaults:
// an empty config, a runner whose reload always succeeds and a "y" answer on stdin.
func NewMockDeps() *MockDependenciesBuilder {
	return &MockDependenciesBuilder{
		deps: &Dependencies{
			ConfigLoader:     &MockConfigLoader{Cfg: config.New()},
			PlatformDetector: &MockPlatformDetector{},
			Runner:           &executor.MockRunner{},
			StdinReader:      input.NewStringReader("y\n"),
		},
	}
}

// WithConfig sets the config for the mock
func (b *MockDependenciesBuilder) WithConfig(cfg *config.Config) *MockDependenciesBuilder {
	b.deps.ConfigLoader = &MockConfigLoader{Cfg: cfg}
	return b
}

// WithConfigLoader sets a custom config loader
func (b *MockDependenciesBuilder) WithConfigLoader(loader ConfigLoader) *MockDependenciesBuilder {
	b.deps.ConfigLoader = loader
	return b
}

// WithRunner sets the runner used for the reload executable and binary lookups
func (b *MockDependenciesBuilder) WithRunner(runner executor.Runner) *MockDependenciesBuilder {
	b.deps.Runner = runner
	return b
}

// WithStdinInput sets the stdin answers for the mock
func (b *MockDependenciesBuilder) WithStdinInput(answers ...string) *MockDependenciesBuilder {
	b.deps.StdinReader = input.NewStringReader(answers...)
	return b
}

// WithPlatformPaths sets custom platform paths
func (b *MockDependenciesBuilder) WithPlatformPaths(paths *platform.PlatformPaths) *MockDependenciesBuilder {
	b.deps.PlatformDetector = &MockPlatformDetector{Paths: paths}
	return b
}

// WithPlatformError sets an error for platform detection
func (b *MockDependenciesBuilder) WithPlatformError(err error) *MockDependenciesBuilder {
	b.deps.PlatformDetector = &MockPlatformDetector{Err: err}
	return b
}

// Build returns the configured Dependencies
func (b *MockDependenciesBuilder) Build() *Dependencies {
	return b.deps
}
