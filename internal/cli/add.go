package cli

import (
	"github.com/spf13/cobra"

	"github.com/ksyq12/dottux/internal/output"
)

var addCmd = &cobra.Command{
	Use:   "add <prefix>",
	Short: "Add a .tux domain",
	Long: `Create <prefix>.tux: a content directory with a placeholder index.html
and a configuration artifact for the active backend, then run the reload
script.

The prefix may contain letters, digits and hyphens. It is lowercased.
A failed reload does not undo the change; fix the configuration and run
'dottux reload'.

Examples:
  dottux add blog
  dottux add my-app --json`,
	Args: cobra.ExactArgs(1),
	RunE: runAdd,
}

func init() {
	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	env, err := loadEnv()
	if err != nil {
		return err
	}

	report, err := env.manager.Add(commandContext(cmd), args[0], env.backend)
	if err != nil {
		printWriteFailure(report)
		return err
	}

	result := report.Result
	if !jsonOutput {
		output.Success("Domain %s added", result.Domain)
		output.Print("  Artifact: %s", result.ArtifactPath)
		output.Print("  Content:  %s", result.SiteRoot)
	}

	if err := printReport(report, env.backend); err != nil {
		return err
	}

	if !jsonOutput {
		output.Info("Open %s", siteURL(result.Domain, env.backend, env.cfg.ListenPort))
	}
	return nil
}
