// Package platform provides platform-specific default paths for the
// artifacts directory of each backend.
package platform

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// PlatformPaths contains the detected artifacts directory for every supported backend.
type PlatformPaths struct {
	Nginx    string
	Caddy    string
	Lighttpd string
}

// environment abstracts the process environment for detection.
type environment struct {
	goos   string
	getenv func(string) string
	exists func(string) bool
}

var systemEnv = environment{
	goos:   runtime.GOOS,
	getenv: os.Getenv,
	exists: pathExists,
}

// DetectPaths returns platform-specific default artifacts directories.
// It checks for Termux first, then common installation locations for the OS.
func DetectPaths() (*PlatformPaths, error) {
	return detect(systemEnv)
}

func detect(env environment) (*PlatformPaths, error) {
	if prefix := env.getenv("PREFIX"); isTermux(prefix) {
		return termuxPaths(prefix), nil
	}

	switch env.goos {
	case "darwin":
		return detectDarwinPaths(env)
	case "linux", "android":
		return detectLinuxPaths(env)
	default:
		return nil, fmt.Errorf("unsupported platform: %s", env.goos)
	}
}

// isTermux reports whether prefix is a Termux installation prefix.
func isTermux(prefix string) bool {
	return prefix != "" && strings.Contains(prefix, "com.termux")
}

// termuxPaths returns paths under the Termux $PREFIX/etc tree.
func termuxPaths(prefix string) *PlatformPaths {
	etc := filepath.Join(prefix, "etc")
	return &PlatformPaths{
		Nginx:    filepath.Join(etc, "nginx", "conf.d"),
		Caddy:    filepath.Join(etc, "caddy", "sites"),
		Lighttpd: filepath.Join(etc, "lighttpd", "conf.d"),
	}
}

// detectDarwinPaths detects paths for macOS (Homebrew installations).
func detectDarwinPaths(env environment) (*PlatformPaths, error) {
	for _, base := range []string{"/opt/homebrew", "/usr/local"} {
		if env.exists(base) {
			etc := filepath.Join(base, "etc")
			return &PlatformPaths{
				Nginx:    filepath.Join(etc, "nginx", "servers"),
				Caddy:    filepath.Join(etc, "caddy", "sites"),
				Lighttpd: filepath.Join(etc, "lighttpd", "conf.d"),
			}, nil
		}
	}

	return nil, fmt.Errorf("homebrew installation not found (checked /opt/homebrew and /usr/local)")
}

// detectLinuxPaths detects paths for Linux distributions.
func detectLinuxPaths(env environment) (*PlatformPaths, error) {
	// Debian/Ubuntu enable lighttpd snippets from conf-enabled
	if env.exists("/etc/lighttpd/conf-enabled") || env.exists("/etc/debian_version") {
		return &PlatformPaths{
			Nginx:    "/etc/nginx/conf.d",
			Caddy:    "/etc/caddy/sites",
			Lighttpd: "/etc/lighttpd/conf-enabled",
		}, nil
	}

	// RHEL/Fedora/Arch
	if env.exists("/etc/nginx") || env.exists("/etc/caddy") || env.exists("/etc/lighttpd") {
		return &PlatformPaths{
			Nginx:    "/etc/nginx/conf.d",
			Caddy:    "/etc/caddy/Caddyfile.d",
			Lighttpd: "/etc/lighttpd/conf.d",
		}, nil
	}

	return nil, fmt.Errorf("web server configuration paths not found (checked /etc/nginx, /etc/caddy, /etc/lighttpd)")
}

// ForBackend returns the artifacts directory for a backend name.
func (p *PlatformPaths) ForBackend(backend string) (string, error) {
	switch backend {
	case "nginx":
		return p.Nginx, nil
	case "caddy":
		return p.Caddy, nil
	case "lighttpd":
		return p.Lighttpd, nil
	default:
		return "", fmt.Errorf("unknown backend: %s (available: nginx, caddy, lighttpd)", backend)
	}
}

// pathExists checks if a path exists on the filesystem.
func pathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Platform returns a string describing the current platform.
func Platform() string {
	if isTermux(os.Getenv("PREFIX")) {
		return fmt.Sprintf("termux/%s", runtime.GOARCH)
	}
	return fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH)
}
