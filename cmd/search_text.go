package cmd

import (
	"github.com/meysamhadeli/wsengine/protocol"
	"github.com/meysamhadeli/wsengine/workspace/models"
	"github.com/spf13/cobra"
)

var searchTextCmd = &cobra.Command{
	Use:   "search-text",
	Short: "Find lines containing a literal substring.",
	RunE: func(cmd *cobra.Command, args []string) error {
		deps := handleRootCommand(cmd)
		query, _ := cmd.Flags().GetString("query")

		if !cmd.Flags().Changed("query") {
			return emit(cmd.OutOrStdout(), protocol.Failure(models.KindMissingArgument, ""))
		}
		ws, err := openWorkspace(cmd, deps)
		if err != nil {
			return emit(cmd.OutOrStdout(), protocol.FromError(err))
		}
		matches, err := ws.Search(query, changedInt(cmd, "topk"), changedInt64(cmd, "max-bytes"))
		return emit(cmd.OutOrStdout(), protocol.Respond(matches, err, protocol.Results))
	},
}

func init() {
	searchTextCmd.Flags().String("root", "", "Workspace root directory.")
	searchTextCmd.Flags().String("query", "", "Literal, case-sensitive text to find. An empty query matches every line.")
	searchTextCmd.Flags().Int("topk", 0, "Maximum matches to return, at least 1 (default from config, 10).")
	searchTextCmd.Flags().Int64("max-bytes", 0, "Bytes read per file (default from config, 200000).")
	rootCmd.AddCommand(searchTextCmd)
}
