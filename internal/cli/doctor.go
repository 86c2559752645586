package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ksyq12/dottux/internal/config"
	"github.com/ksyq12/dottux/internal/driver"
	"github.com/ksyq12/dottux/internal/output"
	"github.com/ksyq12/dottux/internal/registry"
	"github.com/ksyq12/dottux/internal/site"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check system status and diagnose issues",
	Long: `Run diagnostic checks on the system and the dottux configuration.

Checks:
  - Backend binary on PATH
  - Reload script present and executable
  - Config file, backend selection and platform defaults
  - Artifacts and content directories
  - Content directory of every managed domain

Examples:
  dottux doctor
  dottux doctor --json`,
	Args: cobra.NoArgs,
	RunE: runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

// Check statuses
const (
	statusSuccess = "success"
	statusWarning = "warning"
	statusError   = "error"
)

// CheckResult represents a single diagnostic check result
type CheckResult struct {
	Status  string `json:"status"` // "success", "warning", "error"
	Message string `json:"message"`
}

// DomainStatus represents the status of a single domain
type DomainStatus struct {
	Domain string      `json:"domain"`
	Check  CheckResult `json:"check"`
}

// DoctorReport contains all diagnostic results
type DoctorReport struct {
	Platform           string         `json:"platform"`
	SystemRequirements []CheckResult  `json:"system_requirements"`
	Configuration      []CheckResult  `json:"configuration"`
	Domains            []DomainStatus `json:"domains"`
}

// HasErrors reports whether any check failed
func (r *DoctorReport) HasErrors() bool {
	for _, group := range [][]CheckResult{r.SystemRequirements, r.Configuration} {
		for _, check := range group {
			if check.Status == statusError {
				return true
			}
		}
	}
	for _, d := range r.Domains {
		if d.Check.Status == statusError {
			return true
		}
	}
	return false
}

func runDoctor(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	report := &DoctorReport{
		Platform:           deps.PlatformDetector.Platform(),
		SystemRequirements: []CheckResult{},
		Configuration:      []CheckResult{},
		Domains:            []DomainStatus{},
	}

	report.Configuration = append(report.Configuration, checkConfigFile())

	b, err := cfg.ActiveBackend()
	if err != nil {
		report.Configuration = append(report.Configuration, CheckResult{
			Status:  statusError,
			Message: err.Error(),
		})
		return finishDoctor(report)
	}
	report.Configuration = append(report.Configuration, CheckResult{
		Status:  statusSuccess,
		Message: fmt.Sprintf("Backend %s selected", b),
	})
	report.Configuration = append(report.Configuration, checkPlatform(b))

	paths, err := cfg.Resolve(b)
	if err != nil {
		report.Configuration = append(report.Configuration, CheckResult{
			Status:  statusError,
			Message: err.Error(),
		})
		return finishDoctor(report)
	}

	report.SystemRequirements = checkSystemRequirements(b, paths)

	reg := registry.New(paths.ArtifactsDir, cfg.Reserved())
	domainChecks, dirCheck := checkDomains(reg, site.New(paths.SitesDir), b)
	report.Configuration = append(report.Configuration, dirCheck, checkSitesDir(paths.SitesDir))
	report.Domains = domainChecks

	return finishDoctor(report)
}

func finishDoctor(report *DoctorReport) error {
	if jsonOutput {
		return output.JSON(report)
	}
	displayDoctorResults(report)
	return nil
}

// backendBinary is the executable name of a backend's server
func backendBinary(b driver.Backend) string {
	return b.String()
}

func checkSystemRequirements(b driver.Backend, paths *config.Resolved) []CheckResult {
	results := []CheckResult{}

	if path, err := deps.Runner.LookPath(backendBinary(b)); err == nil {
		results = append(results, CheckResult{
			Status:  statusSuccess,
			Message: fmt.Sprintf("%s installed (%s)", b, path),
		})
	} else {
		// the reload script may start the server some other way
		results = append(results, CheckResult{
			Status:  statusWarning,
			Message: fmt.Sprintf("%s not found on PATH", b),
		})
	}

	info, err := os.Stat(paths.ReloadScript)
	switch {
	case err != nil:
		results = append(results, CheckResult{
			Status:  statusError,
			Message: fmt.Sprintf("Reload script not found (%s)", displayPath(paths.ReloadScript)),
		})
	case info.IsDir() || info.Mode().Perm()&0o111 == 0:
		results = append(results, CheckResult{
			Status:  statusError,
			Message: fmt.Sprintf("Reload script is not executable (%s)", displayPath(paths.ReloadScript)),
		})
	default:
		results = append(results, CheckResult{
			Status:  statusSuccess,
			Message: fmt.Sprintf("Reload script executable (%s)", displayPath(paths.ReloadScript)),
		})
	}

	return results
}

func checkConfigFile() CheckResult {
	path, err := deps.ConfigLoader.Path()
	if err != nil {
		return CheckResult{Status: statusError, Message: "Could not determine config path"}
	}
	if _, err := os.Stat(path); err != nil {
		return CheckResult{
			Status:  statusWarning,
			Message: fmt.Sprintf("Config file not found (%s), using defaults", displayPath(path)),
		}
	}
	return CheckResult{
		Status:  statusSuccess,
		Message: fmt.Sprintf("Config file exists (%s)", displayPath(path)),
	}
}

func checkPlatform(b driver.Backend) CheckResult {
	detected, err := deps.PlatformDetector.DetectPaths()
	if err != nil {
		return CheckResult{
			Status:  statusWarning,
			Message: fmt.Sprintf("No platform default for %s: %v", b, err),
		}
	}
	dir, err := detected.ForBackend(b.String())
	if err != nil {
		return CheckResult{Status: statusWarning, Message: err.Error()}
	}
	return CheckResult{
		Status:  statusSuccess,
		Message: fmt.Sprintf("Platform default artifacts directory %s", dir),
	}
}

func checkSitesDir(dir string) CheckResult {
	if _, err := os.Stat(dir); err != nil {
		return CheckResult{
			Status:  statusWarning,
			Message: fmt.Sprintf("Sites directory %s does not exist yet", displayPath(dir)),
		}
	}
	return CheckResult{
		Status:  statusSuccess,
		Message: fmt.Sprintf("Sites directory %s", displayPath(dir)),
	}
}

// checkDomains lists managed domains and checks each content directory.
// The second result is the artifacts directory check.
func checkDomains(reg *registry.Registry, sites *site.Manager, b driver.Backend) ([]DomainStatus, CheckResult) {
	statuses := []DomainStatus{}

	domains, err := reg.List(b)
	if err != nil {
		return statuses, CheckResult{Status: statusError, Message: err.Error()}
	}

	for _, d := range domains {
		status := DomainStatus{Domain: d.String()}
		if sites.Exists(d) {
			status.Check = CheckResult{Status: statusSuccess, Message: "content present"}
		} else {
			status.Check = CheckResult{
				Status:  statusWarning,
				Message: fmt.Sprintf("content directory %s missing", sites.Path(d)),
			}
		}
		statuses = append(statuses, status)
	}

	return statuses, CheckResult{
		Status:  statusSuccess,
		Message: fmt.Sprintf("Artifacts directory %s readable (%d domains)", reg.Dir(), len(domains)),
	}
}

// displayPath uses ~ notation for paths under $HOME
func displayPath(path string) string {
	home := os.Getenv("HOME")
	if home == "" || !strings.HasPrefix(path, home) {
		return path
	}
	return "~" + strings.TrimPrefix(path, home)
}

func displayDoctorResults(report *DoctorReport) {
	output.Print("Platform: %s", report.Platform)
	output.Print("")

	if len(report.SystemRequirements) > 0 {
		output.Print("Checking system requirements...")
		for _, check := range report.SystemRequirements {
			displayCheck(check)
		}
		output.Print("")
	}

	output.Print("Checking configuration...")
	for _, check := range report.Configuration {
		displayCheck(check)
	}
	output.Print("")

	if len(report.Domains) == 0 {
		output.Print("No domains configured")
		return
	}
	output.Print("Checking domains...")
	for _, d := range report.Domains {
		displayCheck(CheckResult{
			Status:  d.Check.Status,
			Message: fmt.Sprintf("%s - %s", d.Domain, d.Check.Message),
		})
	}
}

func displayCheck(check CheckResult) {
	switch check.Status {
	case statusSuccess:
		output.Success("%s", check.Message)
	case statusWarning:
		output.Warn("%s", check.Message)
	case statusError:
		output.Error("%s", check.Message)
	}
}
