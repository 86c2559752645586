package lifecycle

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ksyq12/dottux/internal/domain"
	"github.com/ksyq12/dottux/internal/driver"
	tuxerrors "github.com/ksyq12/dottux/internal/errors"
	"github.com/ksyq12/dottux/internal/executor"
	"github.com/ksyq12/dottux/internal/registry"
	"github.com/ksyq12/dottux/internal/reload"
	"github.com/ksyq12/dottux/internal/site"
	"github.com/ksyq12/dottux/internal/writer"
)

type env struct {
	artifacts string
	sites     string
	runner    *executor.MockRunner
	manager   *Manager
}

func newEnv(t *testing.T) *env {
	t.Helper()
	base := t.TempDir()
	e := &env{
		artifacts: filepath.Join(base, "conf.d"),
		sites:     filepath.Join(base, "sites"),
		runner:    &executor.MockRunner{},
	}
	if err := os.MkdirAll(e.artifacts, 0755); err != nil {
		t.Fatal(err)
	}
	w := writer.New(registry.New(e.artifacts, ""), site.New(e.sites), driver.RenderOptions{ListenPort: 8080})
	e.manager = NewManager(w, reload.NewCoordinator(e.runner, "/opt/reload.sh", time.Second))
	return e
}

func TestAddListRemoveScenario(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	report, err := e.manager.Add(ctx, "demo", driver.Nginx)
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if report.Err() != nil {
		t.Fatalf("reload failed: %v", report.Err())
	}
	if report.OperationID == "" {
		t.Error("report should carry an operation id")
	}
	if report.Reload == nil || report.Reload.Classification != reload.Success {
		t.Errorf("expected successful reload, got %+v", report.Reload)
	}

	domains, err := e.manager.List(driver.Nginx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if !reflect.DeepEqual(domains, []domain.Name{"demo.tux"}) {
		t.Errorf("List() = %v, want [demo.tux]", domains)
	}

	content, err := os.ReadFile(filepath.Join(e.artifacts, "demo.tux.conf"))
	if err != nil {
		t.Fatalf("artifact missing: %v", err)
	}
	if !strings.Contains(string(content), "server_name demo.tux;") {
		t.Errorf("artifact missing server_name:\n%s", content)
	}

	if _, err := e.manager.Remove(ctx, "demo.tux", driver.Nginx); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	domains, err = e.manager.List(driver.Nginx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(domains) != 0 {
		t.Errorf("List() = %v, want empty", domains)
	}
	if _, err := os.Stat(filepath.Join(e.artifacts, "demo.tux.conf")); !os.IsNotExist(err) {
		t.Error("artifact should be gone")
	}
	if _, err := os.Stat(filepath.Join(e.sites, "demo.tux")); !os.IsNotExist(err) {
		t.Error("content directory should be gone")
	}

	if e.runner.CallCount() != 2 {
		t.Errorf("expected 2 reloads, got %d", e.runner.CallCount())
	}
}

func TestAdd_InvalidPrefix(t *testing.T) {
	e := newEnv(t)

	for _, prefix := range []string{"", "bad_name", "a.b", "dot tux"} {
		t.Run(prefix, func(t *testing.T) {
			_, err := e.manager.Add(context.Background(), prefix, driver.Nginx)
			if !tuxerrors.Is(err, tuxerrors.ErrInvalidDomainName) {
				t.Errorf("expected ErrInvalidDomainName, got %v", err)
			}
		})
	}
	if e.runner.CallCount() != 0 {
		t.Errorf("invalid input must not reload, got %d calls", e.runner.CallCount())
	}
	if entries, err := os.ReadDir(e.artifacts); err != nil || len(entries) != 0 {
		t.Errorf("invalid input must not write artifacts, found %d (%v)", len(entries), err)
	}
	if _, err := os.Stat(e.sites); !os.IsNotExist(err) {
		t.Error("invalid input must not create content directories")
	}
}

func TestAdd_CancelledContextStillReloads(t *testing.T) {
	e := newEnv(t)
	e.runner.RunFunc = func(ctx context.Context, path string, args ...string) (executor.RunResult, error) {
		time.Sleep(50 * time.Millisecond)
		return executor.RunResult{}, ctx.Err()
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := e.manager.Add(ctx, "demo", driver.Nginx)
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if report.Reload == nil || report.Reload.Classification != reload.Success {
		t.Errorf("a cancelled caller must not interrupt the reload, got %+v", report.Reload)
	}
}

func TestAdd_NormalizesPrefix(t *testing.T) {
	e := newEnv(t)

	report, err := e.manager.Add(context.Background(), "  My-Site ", driver.Caddy)
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if report.Result.Domain != "my-site.tux" {
		t.Errorf("Domain = %s, want my-site.tux", report.Result.Domain)
	}
	if _, err := os.Stat(filepath.Join(e.artifacts, "my-site.tux")); err != nil {
		t.Errorf("caddy artifact missing: %v", err)
	}
}

func TestAdd_ReservedAndDuplicateSkipReload(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	if _, err := e.manager.Add(ctx, "dot", driver.Nginx); !tuxerrors.Is(err, tuxerrors.ErrReservedDomain) {
		t.Errorf("expected ErrReservedDomain, got %v", err)
	}
	if _, err := e.manager.Add(ctx, "demo", driver.Nginx); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if _, err := e.manager.Add(ctx, "demo", driver.Nginx); !tuxerrors.Is(err, tuxerrors.ErrDuplicateDomain) {
		t.Errorf("expected ErrDuplicateDomain, got %v", err)
	}
	if e.runner.CallCount() != 1 {
		t.Errorf("only the successful add should reload, got %d calls", e.runner.CallCount())
	}
}

func TestRemove_Errors(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	if _, err := e.manager.Remove(ctx, "Not A Domain", driver.Nginx); !tuxerrors.Is(err, tuxerrors.ErrInvalidDomainName) {
		t.Errorf("expected ErrInvalidDomainName, got %v", err)
	}
	if _, err := e.manager.Remove(ctx, "ghost.tux", driver.Nginx); !tuxerrors.Is(err, tuxerrors.ErrDomainNotFound) {
		t.Errorf("expected ErrDomainNotFound, got %v", err)
	}
	if _, err := e.manager.Remove(ctx, "dot.tux", driver.Nginx); !tuxerrors.Is(err, tuxerrors.ErrReservedDomain) {
		t.Errorf("expected ErrReservedDomain, got %v", err)
	}
}

func TestAdd_FailedReloadKeepsArtifact(t *testing.T) {
	e := newEnv(t)
	e.runner.RunFunc = func(ctx context.Context, path string, args ...string) (executor.RunResult, error) {
		return executor.RunResult{Stderr: "nginx: configuration file test failed\n", ExitCode: 1}, nil
	}

	report, err := e.manager.Add(context.Background(), "demo", driver.Nginx)
	if err != nil {
		t.Fatalf("write should succeed even when reload fails: %v", err)
	}
	if !tuxerrors.Is(report.Err(), tuxerrors.ErrReloadNonZeroExit) {
		t.Fatalf("expected ErrReloadNonZeroExit, got %v", report.Err())
	}
	if !strings.Contains(report.Err().Error(), "configuration file test failed") {
		t.Errorf("reload error should carry the output: %v", report.Err())
	}
	if _, err := os.Stat(filepath.Join(e.artifacts, "demo.tux.conf")); err != nil {
		t.Errorf("artifact must stay after a failed reload: %v", err)
	}
}

func TestReconcile(t *testing.T) {
	e := newEnv(t)

	report := e.manager.Reconcile(context.Background())
	if report.Result != nil {
		t.Error("reconcile should not carry a write result")
	}
	if report.Reload == nil || !report.Reload.Succeeded {
		t.Errorf("expected successful reload, got %+v", report.Reload)
	}
}

func TestList_DirectoryUnavailable(t *testing.T) {
	w := writer.New(registry.New(filepath.Join(t.TempDir(), "missing"), ""), site.New(t.TempDir()), driver.RenderOptions{})
	m := NewManager(w, reload.NewCoordinator(&executor.MockRunner{}, "/opt/reload.sh", time.Second))

	if _, err := m.List(driver.Nginx); !tuxerrors.Is(err, tuxerrors.ErrDirectoryUnavailable) {
		t.Errorf("expected ErrDirectoryUnavailable, got %v", err)
	}
}

func TestPreview(t *testing.T) {
	e := newEnv(t)

	artifact, err := e.manager.Preview("demo", driver.Lighttpd)
	if err != nil {
		t.Fatalf("Preview failed: %v", err)
	}
	if artifact.Name != "demo.tux.conf" {
		t.Errorf("Name = %s", artifact.Name)
	}
	if _, err := e.manager.Preview("BAD!", driver.Lighttpd); !tuxerrors.Is(err, tuxerrors.ErrInvalidDomainName) {
		t.Errorf("expected ErrInvalidDomainName, got %v", err)
	}
}

func TestConcurrentAddsSameDomain(t *testing.T) {
	e := newEnv(t)

	const workers = 8
	var wg sync.WaitGroup
	var ok, dup atomic.Int32
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := e.manager.Add(context.Background(), "race", driver.Nginx)
			switch {
			case err == nil:
				ok.Add(1)
			case tuxerrors.Is(err, tuxerrors.ErrDuplicateDomain):
				dup.Add(1)
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if ok.Load() != 1 || dup.Load() != workers-1 {
		t.Errorf("expected 1 success and %d duplicates, got %d and %d", workers-1, ok.Load(), dup.Load())
	}
}

func TestReloadsNeverOverlap(t *testing.T) {
	e := newEnv(t)

	var inFlight, peak atomic.Int32
	e.runner.RunFunc = func(ctx context.Context, path string, args ...string) (executor.RunResult, error) {
		n := inFlight.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(10 * time.Millisecond)
		inFlight.Add(-1)
		return executor.RunResult{}, nil
	}

	var wg sync.WaitGroup
	for _, prefix := range []string{"a", "b", "c", "d"} {
		wg.Add(2)
		go func(p string) {
			defer wg.Done()
			if _, err := e.manager.Add(context.Background(), p, driver.Nginx); err != nil {
				t.Errorf("Add(%s) failed: %v", p, err)
			}
		}(prefix)
		go func() {
			defer wg.Done()
			e.manager.Reconcile(context.Background())
		}()
	}
	wg.Wait()

	if peak.Load() != 1 {
		t.Errorf("reloads overlapped: peak concurrency %d", peak.Load())
	}
}
