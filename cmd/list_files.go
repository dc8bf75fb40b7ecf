package cmd

import (
	"github.com/meysamhadeli/wsengine/protocol"
	"github.com/spf13/cobra"
)

var listFilesCmd = &cobra.Command{
	Use:   "list-files",
	Short: "List the non-ignored files of a workspace root.",
	RunE: func(cmd *cobra.Command, args []string) error {
		deps := handleRootCommand(cmd)
		ws, err := openWorkspace(cmd, deps)
		if err != nil {
			return emit(cmd.OutOrStdout(), protocol.FromError(err))
		}
		return emit(cmd.OutOrStdout(), protocol.Files(ws.ListFiles()))
	},
}

func init() {
	listFilesCmd.Flags().String("root", "", "Workspace root directory.")
	rootCmd.AddCommand(listFilesCmd)
}
