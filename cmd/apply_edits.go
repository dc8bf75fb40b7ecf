package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/meysamhadeli/wsengine/constants/lipgloss"
	"github.com/meysamhadeli/wsengine/protocol"
	"github.com/meysamhadeli/wsengine/workspace/models"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var applyEditsCmd = &cobra.Command{
	Use:   "apply-edits",
	Short: "Apply a batch of line-range edits with an automatic snapshot.",
	Long: `Apply a batch of line-range edits read from --edits-json (a file path, or '-'
for stdin). The document is {"edits": [{"path", "start_line", "end_line",
"replacement"}, ...]} or a bare array of edit objects. Before any file is
written, the original content of every target is copied into a new snapshot
whose id is returned; pass it to 'rollback' to undo the batch.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		deps := handleRootCommand(cmd)
		source, _ := cmd.Flags().GetString("edits-json")
		pretty, _ := cmd.Flags().GetBool("pretty")

		if source == "" {
			return emit(cmd.OutOrStdout(), protocol.Failure(models.KindMissingArgument, ""))
		}
		ws, err := openWorkspace(cmd, deps)
		if err != nil {
			return emit(cmd.OutOrStdout(), protocol.FromError(err))
		}

		raw, err := readEditsSource(cmd.InOrStdin(), source)
		if err != nil {
			return emit(cmd.OutOrStdout(), protocol.FromError(err))
		}

		result, err := ws.ApplyEdits(raw)
		if err != nil || !pretty {
			return emit(cmd.OutOrStdout(), protocol.Respond(result, err, protocol.Applied))
		}
		return renderApplyResult(cmd.OutOrStdout(), result)
	},
}

func init() {
	applyEditsCmd.Flags().String("root", "", "Workspace root directory.")
	applyEditsCmd.Flags().String("edits-json", "", "Path of the edit batch document, or '-' for stdin.")
	applyEditsCmd.Flags().Bool("pretty", false, "Print a summary table instead of JSON.")
	rootCmd.AddCommand(applyEditsCmd)
}

// readEditsSource loads the edit document from a file, or from stdin for "-".
func readEditsSource(stdin io.Reader, source string) ([]byte, error) {
	var (
		raw []byte
		err error
	)
	if source == "-" {
		raw, err = io.ReadAll(stdin)
	} else {
		raw, err = os.ReadFile(source)
	}
	if err != nil {
		return nil, models.NewError(models.KindEditsReadFailed, source, err)
	}
	return raw, nil
}

func renderApplyResult(w io.Writer, result *models.ApplyResult) error {
	data := pterm.TableData{{"#", "Changed file"}}
	for i, path := range result.Changed {
		data = append(data, []string{fmt.Sprint(i + 1), path})
	}
	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}
	fmt.Fprintln(w, table)
	fmt.Fprintln(w, lipgloss.BoxStyle.Render(lipgloss.Green.Render("snapshot "+result.SnapshotID)))
	return nil
}
