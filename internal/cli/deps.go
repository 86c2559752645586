package cli

import (
	"github.com/ksyq12/dottux/internal/config"
	"github.com/ksyq12/dottux/internal/executor"
	"github.com/ksyq12/dottux/internal/input"
	"github.com/ksyq12/dottux/internal/platform"
)

// Dependencies aggregates all CLI external dependencies for testability
type Dependencies struct {
	ConfigLoader     ConfigLoader
	PlatformDetector PlatformDetector
	Runner           executor.Runner
	StdinReader      input.Reader
}

// ConfigLoader handles configuration loading and saving
type ConfigLoader interface {
	Load() (*config.Config, error)
	Save(cfg *config.Config) error
	Path() (string, error)
}

// PlatformDetector handles platform path detection
type PlatformDetector interface {
	DetectPaths() (*platform.PlatformPaths, error)
	Platform() string
}

// Package-level dependencies (can be overridden for testing)
var deps = &Dependencies{
	ConfigLoader:     &realConfigLoader{},
	PlatformDetector: &realPlatformDetector{},
	Runner:           executor.NewSystemRunner(),
	StdinReader:      input.NewStdinReader(),
}

// SetDeps replaces the package dependencies (for testing)
func SetDeps(d *Dependencies) {
	deps = d
}

// GetDeps returns the current dependencies (for testing)
func GetDeps() *Dependencies {
	return deps
}

// Real implementations that delegate to existing functions

type realConfigLoader struct{}

func (r *realConfigLoader) Load() (*config.Config, error) {
	return config.Load()
}

func (r *realConfigLoader) Save(cfg *config.Config) error {
	return cfg.Save()
}

func (r *realConfigLoader) Path() (string, error) {
	return config.ConfigPath()
}

type realPlatformDetector struct{}

func (r *realPlatformDetector) DetectPaths() (*platform.PlatformPaths, error) {
	return platform.DetectPaths()
}

func (r *realPlatformDetector) Platform() string {
	return platform.Platform()
}
