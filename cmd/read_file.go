package cmd

import (
	"github.com/meysamhadeli/wsengine/protocol"
	"github.com/meysamhadeli/wsengine/utils"
	"github.com/meysamhadeli/wsengine/workspace"
	"github.com/meysamhadeli/wsengine/workspace/models"
	"github.com/spf13/cobra"
)

var readFileCmd = &cobra.Command{
	Use:   "read-file",
	Short: "Read a file up to --max-bytes.",
	Long: `Read a file up to --max-bytes. Relative paths are resolved against --root (or
the configured root, or the current directory). With --pretty the content is
printed with syntax highlighting instead of the JSON response.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		deps := handleRootCommand(cmd)
		path, _ := cmd.Flags().GetString("path")
		pretty, _ := cmd.Flags().GetBool("pretty")

		if path == "" {
			return emit(cmd.OutOrStdout(), protocol.Failure(models.KindMissingArgument, ""))
		}

		root, _ := cmd.Flags().GetString("root")
		if root == "" {
			root = deps.Config.Root
		}
		if root == "" {
			root = deps.Cwd
		}
		ws, err := workspace.NewWorkspace(root, workspaceOptions(deps.Config))
		if err != nil {
			return emit(cmd.OutOrStdout(), protocol.FromError(err))
		}

		result, err := ws.ReadFile(path, changedInt64(cmd, "max-bytes"))
		if err != nil || !pretty {
			return emit(cmd.OutOrStdout(), protocol.Respond(result, err, protocol.Content))
		}
		return utils.RenderHighlighted(cmd.OutOrStdout(), path, string(result.Content), deps.Config.Theme)
	},
}

func init() {
	readFileCmd.Flags().String("path", "", "File to read, absolute or relative to the root.")
	readFileCmd.Flags().String("root", "", "Workspace root used to resolve relative paths.")
	readFileCmd.Flags().Int64("max-bytes", 0, "Maximum bytes to read (default from config, 200000).")
	readFileCmd.Flags().Bool("pretty", false, "Print highlighted content instead of JSON.")
	rootCmd.AddCommand(readFileCmd)
}
