package cli

import (
	"github.com/spf13/cobra"
)

var reloadCmd = &cobra.Command{
	Use:   "reload",
	Short: "Run the reload script",
	Long: `Run the reload script without changing any domain. Use it after fixing
a configuration that failed to reload, or after editing artifacts by hand.

Examples:
  dottux reload
  dottux reload --verbose`,
	Args: cobra.NoArgs,
	RunE: runReload,
}

func init() {
	rootCmd.AddCommand(reloadCmd)
}

func runReload(cmd *cobra.Command, args []string) error {
	env, err := loadEnv()
	if err != nil {
		return err
	}

	report := env.manager.Reconcile(commandContext(cmd))
	return printReport(report, env.backend)
}
