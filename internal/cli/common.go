package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ksyq12/dottux/internal/config"
	"github.com/ksyq12/dottux/internal/domain"
	"github.com/ksyq12/dottux/internal/driver"
	"github.com/ksyq12/dottux/internal/lifecycle"
	"github.com/ksyq12/dottux/internal/logger"
	"github.com/ksyq12/dottux/internal/output"
	"github.com/ksyq12/dottux/internal/registry"
	"github.com/ksyq12/dottux/internal/reload"
	"github.com/ksyq12/dottux/internal/site"
	"github.com/ksyq12/dottux/internal/writer"
)

// env is everything a command needs once the config has been read
type env struct {
	cfg     *config.Config
	backend driver.Backend
	paths   *config.Resolved
	manager *lifecycle.Manager
}

// loadConfig reads the config and applies its logging settings
func loadConfig() (*config.Config, error) {
	cfg, err := deps.ConfigLoader.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	applyLogSettings(cfg)
	return cfg, nil
}

// applyLogSettings honors log_level and log_format; --verbose wins over log_level
func applyLogSettings(cfg *config.Config) {
	if !verbose && cfg.LogLevel != "" {
		level, err := logger.ParseLevel(cfg.LogLevel)
		if err != nil {
			logger.Warn("Ignoring log_level: %v", err)
		} else {
			logger.SetLevel(level)
		}
	}
	if cfg.LogFormat != "" {
		if err := logger.SetFormat(cfg.LogFormat); err != nil {
			logger.Warn("Ignoring log_format: %v", err)
		}
	}
}

// loadEnv reads the config once and builds the lifecycle manager for the active backend
func loadEnv() (*env, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	b, err := cfg.ActiveBackend()
	if err != nil {
		return nil, err
	}

	paths, err := cfg.Resolve(b)
	if err != nil {
		return nil, err
	}
	logger.Debug("Backend %s: artifacts %s, sites %s, reload %s", b, paths.ArtifactsDir, paths.SitesDir, paths.ReloadScript)

	return &env{
		cfg:     cfg,
		backend: b,
		paths:   paths,
		manager: newManager(cfg, paths),
	}, nil
}

// newManager wires registry, content, writer and reload for one backend
func newManager(cfg *config.Config, paths *config.Resolved) *lifecycle.Manager {
	reg := registry.New(paths.ArtifactsDir, cfg.Reserved())
	sites := site.New(paths.SitesDir)
	w := writer.New(reg, sites, driver.RenderOptions{ListenPort: cfg.ListenPort})
	coordinator := reload.NewCoordinator(deps.Runner, paths.ReloadScript, cfg.Timeout())
	return lifecycle.NewManager(w, coordinator)
}

// commandContext returns the command's context, or Background when run outside Execute
func commandContext(cmd *cobra.Command) context.Context {
	if cmd != nil && cmd.Context() != nil {
		return cmd.Context()
	}
	return context.Background()
}

// domainArg accepts either a full name ("demo.tux") or a bare prefix ("demo")
func domainArg(arg string) string {
	arg = strings.ToLower(strings.TrimSpace(arg))
	if strings.HasSuffix(arg, domain.Suffix) {
		return arg
	}
	return arg + domain.Suffix
}

// siteURL is where the backend serves a domain
func siteURL(d domain.Name, b driver.Backend, port int) string {
	if b == driver.Nginx {
		if port == 0 {
			port = driver.DefaultListenPort
		}
		return fmt.Sprintf("http://%s:%d", d, port)
	}
	return "http://" + d.String()
}

// outputResult handles JSON or human-readable output
func outputResult(data interface{}, successMsg string, args ...interface{}) error {
	if jsonOutput {
		return output.JSON(data)
	}
	output.Success(successMsg, args...)
	return nil
}

// printReport shows write warnings and the reload outcome of a report.
// A failed reload is returned as a shownError so Execute does not print it twice.
func printReport(report *lifecycle.Report, b driver.Backend) error {
	if jsonOutput {
		if err := output.JSON(report); err != nil {
			return err
		}
		if err := report.Err(); err != nil {
			return &shownError{err: err}
		}
		return nil
	}

	if report.Result != nil {
		for _, warning := range report.Result.Warnings {
			output.Warn("%s", warning)
		}
	}

	outcome := report.Reload
	if outcome == nil {
		return nil
	}
	if outcome.Succeeded {
		output.Success("%s reloaded (%s)", b, outcome.Duration.Round(time.Millisecond))
		if verbose {
			output.Block("stdout", outcome.Stdout)
			output.Block("stderr", outcome.Stderr)
		}
		return nil
	}

	err := report.Err()
	output.Error("%s reload failed: %s", b, outcome.Classification)
	output.Block("stdout", outcome.Stdout)
	output.Block("stderr", outcome.Stderr)
	switch outcome.Classification {
	case reload.Timeout:
		output.Warn("The reload did not finish in %s; the live server state is unknown", outcome.Duration.Round(time.Millisecond))
	case reload.MissingExecutable:
		output.Warn("Create %s or set paths.reload_script in the config", outcome.Script)
	}
	if report.Result != nil && report.Operation == lifecycle.OpAdd {
		output.Warn("%s was left in place; fix the configuration and run 'dottux reload'", report.Result.ArtifactPath)
	}
	return &shownError{err: err}
}

// printWriteFailure shows what a failed write left behind, if anything
func printWriteFailure(report *lifecycle.Report) {
	if jsonOutput || report == nil || report.Result == nil {
		return
	}
	for _, warning := range report.Result.Warnings {
		output.Warn("%s", warning)
	}
}

// shownError marks an error whose details were already printed
type shownError struct {
	err error
}

func (e *shownError) Error() string {
	return e.err.Error()
}

func (e *shownError) Unwrap() error {
	return e.err
}

// errorResult is the JSON shape of a failed command
type errorResult struct {
	Success bool   `json:"success"`
	Code    string `json:"code,omitempty"`
	Error   string `json:"error"`
}
