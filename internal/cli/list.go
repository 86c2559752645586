package cli

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ksyq12/dottux/internal/driver"
	"github.com/ksyq12/dottux/internal/output"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List managed .tux domains",
	Long: `List the domains managed for the active backend.

The artifacts directory is the only record: every file whose name matches
the backend's naming rule is one domain. The control panel's own domain is
never listed.

Examples:
  dottux list
  dottux ls --json`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

type domainListItem struct {
	Domain   string `json:"domain"`
	URL      string `json:"url"`
	Artifact string `json:"artifact"`
}

func runList(cmd *cobra.Command, args []string) error {
	env, err := loadEnv()
	if err != nil {
		return err
	}

	domains, err := env.manager.List(env.backend)
	if err != nil {
		return err
	}

	items := make([]domainListItem, 0, len(domains))
	for _, d := range domains {
		name, err := driver.ArtifactName(d, env.backend)
		if err != nil {
			return err
		}
		items = append(items, domainListItem{
			Domain:   d.String(),
			URL:      siteURL(d, env.backend, env.cfg.ListenPort),
			Artifact: filepath.Join(env.paths.ArtifactsDir, name),
		})
	}

	if jsonOutput {
		return output.JSON(items)
	}

	if len(items) == 0 {
		output.Info("No domains configured for %s", env.backend)
		return nil
	}

	rows := make([][]string, 0, len(items))
	for _, item := range items {
		rows = append(rows, []string{item.Domain, item.URL, item.Artifact})
	}
	output.Table([]string{"DOMAIN", "URL", "ARTIFACT"}, rows)
	return nil
}
