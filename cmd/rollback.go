package cmd

import (
	"github.com/meysamhadeli/wsengine/protocol"
	"github.com/meysamhadeli/wsengine/workspace/models"
	"github.com/spf13/cobra"
)

var rollbackCmd = &cobra.Command{
	Use:   "rollback",
	Short: "Restore every file captured in a snapshot.",
	RunE: func(cmd *cobra.Command, args []string) error {
		deps := handleRootCommand(cmd)
		id, _ := cmd.Flags().GetString("snapshot-id")

		if id == "" {
			return emit(cmd.OutOrStdout(), protocol.Failure(models.KindMissingArgument, ""))
		}
		ws, err := openWorkspace(cmd, deps)
		if err != nil {
			return emit(cmd.OutOrStdout(), protocol.FromError(err))
		}
		result, err := ws.Rollback(id)
		return emit(cmd.OutOrStdout(), protocol.Respond(result, err, protocol.RolledBack))
	},
}

func init() {
	rollbackCmd.Flags().String("root", "", "Workspace root directory.")
	rollbackCmd.Flags().String("snapshot-id", "", "Snapshot id returned by apply-edits.")
	rootCmd.AddCommand(rollbackCmd)
}
