package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ksyq12/dottux/internal/config"
	"github.com/ksyq12/dottux/internal/domain"
	"github.com/ksyq12/dottux/internal/driver"
	tuxerrors "github.com/ksyq12/dottux/internal/errors"
	"github.com/ksyq12/dottux/internal/executor"
	"github.com/ksyq12/dottux/internal/input"
	"github.com/ksyq12/dottux/internal/output"
)

// cliFixture points a config at temp directories and swaps in mock dependencies
type cliFixture struct {
	root      string
	cfg       *config.Config
	artifacts string
	sites     string
	runner    *executor.MockRunner
	loader    *MockConfigLoader
	out       *bytes.Buffer
}

func newFixture(t *testing.T, backend string) *cliFixture {
	t.Helper()

	root := t.TempDir()
	f := &cliFixture{
		root:      root,
		artifacts: filepath.Join(root, "conf.d"),
		sites:     filepath.Join(root, "sites"),
		runner:    &executor.MockRunner{},
		out:       &bytes.Buffer{},
	}
	if err := os.MkdirAll(f.artifacts, 0755); err != nil {
		t.Fatalf("failed to create artifacts dir: %v", err)
	}

	cfg := config.New()
	cfg.Backend = backend
	cfg.Paths = config.Paths{
		Artifacts:    f.artifacts,
		Sites:        f.sites,
		ReloadScript: filepath.Join(root, "reload.sh"),
	}
	f.cfg = cfg
	f.loader = &MockConfigLoader{Cfg: cfg, File: filepath.Join(root, "config.yaml")}

	oldDeps := deps
	oldJSON, oldForce, oldVerbose := jsonOutput, forceRemove, verbose
	SetDeps(NewMockDeps().
		WithConfigLoader(f.loader).
		WithRunner(f.runner).
		Build())
	output.SetOutput(f.out)
	jsonOutput, forceRemove, verbose = false, false, false

	t.Cleanup(func() {
		SetDeps(oldDeps)
		output.SetOutput(nil)
		jsonOutput, forceRemove, verbose = oldJSON, oldForce, oldVerbose
	})
	return f
}

func (f *cliFixture) setStdin(answers ...string) {
	deps.StdinReader = input.NewStringReader(answers...)
}

// artifactPath returns where the active backend keeps d
func (f *cliFixture) artifactPath(t *testing.T, d domain.Name) string {
	t.Helper()
	name, err := driver.ArtifactName(d, driver.Backend(f.cfg.Backend))
	if err != nil {
		t.Fatalf("ArtifactName(%s) failed: %v", d, err)
	}
	return filepath.Join(f.artifacts, name)
}

// seed writes an artifact and a content directory for each domain
func (f *cliFixture) seed(t *testing.T, domains ...domain.Name) {
	t.Helper()
	for _, d := range domains {
		if err := os.WriteFile(f.artifactPath(t, d), []byte("# managed by dottux: "+d.String()+"\n"), 0644); err != nil {
			t.Fatalf("failed to seed artifact: %v", err)
		}
		if err := os.MkdirAll(filepath.Join(f.sites, d.String()), 0755); err != nil {
			t.Fatalf("failed to seed site: %v", err)
		}
	}
}

func (f *cliFixture) failReload(stderr string, exitCode int) {
	f.runner.RunFunc = func(_ context.Context, _ string, _ ...string) (executor.RunResult, error) {
		return executor.RunResult{Stderr: stderr, ExitCode: exitCode}, nil
	}
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func TestDomainArg(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"blog", "blog.tux"},
		{"blog.tux", "blog.tux"},
		{" Blog.TUX ", "blog.tux"},
		{"my-app", "my-app.tux"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := domainArg(tt.in); got != tt.want {
				t.Errorf("domainArg(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSiteURL(t *testing.T) {
	tests := []struct {
		name    string
		backend driver.Backend
		port    int
		want    string
	}{
		{"nginx with port", driver.Nginx, 8081, "http://blog.tux:8081"},
		{"nginx default port", driver.Nginx, 0, "http://blog.tux:8080"},
		{"caddy", driver.Caddy, 8080, "http://blog.tux"},
		{"lighttpd", driver.Lighttpd, 8080, "http://blog.tux"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := siteURL("blog.tux", tt.backend, tt.port); got != tt.want {
				t.Errorf("siteURL() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLoadEnv(t *testing.T) {
	t.Run("resolves configured paths", func(t *testing.T) {
		f := newFixture(t, "caddy")

		env, err := loadEnv()
		if err != nil {
			t.Fatalf("loadEnv() error = %v", err)
		}
		if env.backend != driver.Caddy {
			t.Errorf("backend = %s, want caddy", env.backend)
		}
		if env.paths.ArtifactsDir != f.artifacts {
			t.Errorf("ArtifactsDir = %s, want %s", env.paths.ArtifactsDir, f.artifacts)
		}
		if env.manager == nil {
			t.Error("manager should be built")
		}
	})

	t.Run("backend not configured", func(t *testing.T) {
		newFixture(t, "")

		_, err := loadEnv()
		if !errors.Is(err, tuxerrors.ErrBackendNotConfigured) {
			t.Errorf("loadEnv() error = %v, want BackendNotConfigured", err)
		}
	})

	t.Run("unsupported backend", func(t *testing.T) {
		newFixture(t, "apache")

		_, err := loadEnv()
		if !errors.Is(err, tuxerrors.ErrUnsupportedBackend) {
			t.Errorf("loadEnv() error = %v, want UnsupportedBackend", err)
		}
	})

	t.Run("config load error", func(t *testing.T) {
		f := newFixture(t, "nginx")
		f.loader.LoadErr = errors.New("yaml: line 3: bad indentation")

		_, err := loadEnv()
		if err == nil || !strings.Contains(err.Error(), "failed to load config") {
			t.Errorf("loadEnv() error = %v, want load failure", err)
		}
	})
}

func TestReportError(t *testing.T) {
	f := newFixture(t, "nginx")

	reportError(tuxerrors.DomainNotFound("blog.tux", "nginx"))
	if !strings.Contains(f.out.String(), "domain blog.tux: domain not found") {
		t.Errorf("expected error message, got %q", f.out.String())
	}

	f.out.Reset()
	reportError(&shownError{err: errors.New("already printed")})
	if f.out.Len() != 0 {
		t.Errorf("shown errors should not be printed again, got %q", f.out.String())
	}

	f.out.Reset()
	jsonOutput = true
	reportError(tuxerrors.ReservedDomain("dot.tux"))
	if !strings.Contains(f.out.String(), `"code": "RESERVED_DOMAIN"`) {
		t.Errorf("expected JSON error code, got %q", f.out.String())
	}
}
