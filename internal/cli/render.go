package cli

import (
	"github.com/spf13/cobra"

	"github.com/ksyq12/dottux/internal/output"
)

var renderCmd = &cobra.Command{
	Use:   "render <prefix>",
	Short: "Print the artifact an add would write",
	Long: `Render the configuration artifact for <prefix>.tux without writing
anything or running the reload script.

Examples:
  dottux render blog
  dottux render blog --json`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)
}

type renderResult struct {
	Backend  string `json:"backend"`
	Artifact string `json:"artifact"`
	Content  string `json:"content"`
}

func runRender(cmd *cobra.Command, args []string) error {
	env, err := loadEnv()
	if err != nil {
		return err
	}

	artifact, err := env.manager.Preview(args[0], env.backend)
	if err != nil {
		return err
	}

	if jsonOutput {
		return output.JSON(renderResult{
			Backend:  env.backend.String(),
			Artifact: artifact.Name,
			Content:  artifact.Content,
		})
	}

	output.Info("%s (%s)", artifact.Name, env.backend)
	output.Print("%s", artifact.Content)
	return nil
}
