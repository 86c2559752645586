package cli

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ksyq12/dottux/internal/domain"
	"github.com/ksyq12/dottux/internal/driver"
	tuxerrors "github.com/ksyq12/dottux/internal/errors"
	"github.com/ksyq12/dottux/internal/output"
	"github.com/ksyq12/dottux/internal/site"
)

var showCmd = &cobra.Command{
	Use:   "show <domain>",
	Short: "Show a domain's artifact and content directory",
	Long: `Show where a managed domain lives and print its configuration artifact
as it is on disk. The ".tux" suffix may be omitted.

Examples:
  dottux show blog.tux
  dottux show blog --json`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
}

// DomainDetails describes one managed domain
type DomainDetails struct {
	Domain       string `json:"domain"`
	Backend      string `json:"backend"`
	URL          string `json:"url"`
	ArtifactPath string `json:"artifact_path"`
	SiteRoot     string `json:"site_root"`
	HasContent   bool   `json:"has_content"`
	Content      string `json:"content"`
}

func runShow(cmd *cobra.Command, args []string) error {
	d, err := domain.Parse(domainArg(args[0]))
	if err != nil {
		return err
	}

	env, err := loadEnv()
	if err != nil {
		return err
	}

	exists, err := env.manager.Registry().Exists(d, env.backend)
	if err != nil {
		return err
	}
	if !exists {
		return tuxerrors.DomainNotFound(d.String(), env.backend.String())
	}

	name, err := driver.ArtifactName(d, env.backend)
	if err != nil {
		return err
	}
	artifactPath := filepath.Join(env.paths.ArtifactsDir, name)

	content, err := os.ReadFile(artifactPath)
	if err != nil {
		return tuxerrors.IO(d.String(), env.backend.String(), "failed to read artifact", err)
	}

	sites := site.New(env.paths.SitesDir)
	details := DomainDetails{
		Domain:       d.String(),
		Backend:      env.backend.String(),
		URL:          siteURL(d, env.backend, env.cfg.ListenPort),
		ArtifactPath: artifactPath,
		SiteRoot:     sites.Path(d),
		HasContent:   sites.Exists(d),
		Content:      string(content),
	}

	if jsonOutput {
		return output.JSON(details)
	}

	output.Print("Domain:   %s", details.Domain)
	output.Print("Backend:  %s", details.Backend)
	output.Print("URL:      %s", details.URL)
	output.Print("Artifact: %s", details.ArtifactPath)
	if details.HasContent {
		output.Print("Content:  %s", details.SiteRoot)
	} else {
		output.Warn("Content directory %s is missing", details.SiteRoot)
	}
	output.Print("")
	output.Block("Configuration", details.Content)
	return nil
}
