package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/meysamhadeli/wsengine/constants/lipgloss"
	"github.com/meysamhadeli/wsengine/protocol"
	"github.com/meysamhadeli/wsengine/workspace/models"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var snapshotsCmd = &cobra.Command{
	Use:   "snapshots",
	Short: "Inspect the snapshots taken by apply-edits.",
}

var snapshotsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List snapshots, oldest first.",
	RunE: func(cmd *cobra.Command, args []string) error {
		deps := handleRootCommand(cmd)
		pretty, _ := cmd.Flags().GetBool("pretty")

		ws, err := openWorkspace(cmd, deps)
		if err != nil {
			return emit(cmd.OutOrStdout(), protocol.FromError(err))
		}
		snapshots, err := ws.Snapshots()
		if err != nil || !pretty {
			return emit(cmd.OutOrStdout(), protocol.Respond(snapshots, err, protocol.Snapshots))
		}
		return renderSnapshots(cmd.OutOrStdout(), snapshots)
	},
}

var snapshotsDiffCmd = &cobra.Command{
	Use:   "diff",
	Short: "Compare a snapshot with the current workspace.",
	RunE: func(cmd *cobra.Command, args []string) error {
		deps := handleRootCommand(cmd)
		id, _ := cmd.Flags().GetString("snapshot-id")
		unified, _ := cmd.Flags().GetBool("unified")

		if id == "" {
			return emit(cmd.OutOrStdout(), protocol.Failure(models.KindMissingArgument, ""))
		}
		ws, err := openWorkspace(cmd, deps)
		if err != nil {
			return emit(cmd.OutOrStdout(), protocol.FromError(err))
		}
		diffs, err := ws.DiffSnapshot(id, unified)
		return emit(cmd.OutOrStdout(), protocol.Respond(diffs, err, func(d []models.SnapshotFileDiff) protocol.Envelope {
			return protocol.SnapshotDiff(id, d)
		}))
	},
}

func init() {
	snapshotsListCmd.Flags().String("root", "", "Workspace root directory.")
	snapshotsListCmd.Flags().Bool("pretty", false, "Print a table instead of JSON.")

	snapshotsDiffCmd.Flags().String("root", "", "Workspace root directory.")
	snapshotsDiffCmd.Flags().String("snapshot-id", "", "Snapshot id returned by apply-edits.")
	snapshotsDiffCmd.Flags().Bool("unified", false, "Include unified diffs for modified files.")

	snapshotsCmd.AddCommand(snapshotsListCmd, snapshotsDiffCmd)
	rootCmd.AddCommand(snapshotsCmd)
}

func renderSnapshots(w io.Writer, snapshots []models.SnapshotInfo) error {
	if len(snapshots) == 0 {
		fmt.Fprintln(w, lipgloss.Yellow.Render("No snapshots."))
		return nil
	}
	data := pterm.TableData{{"Snapshot", "Files", "Created"}}
	for _, s := range snapshots {
		data = append(data, []string{s.ID, fmt.Sprint(s.Files), s.CreatedAt.Local().Format(time.DateTime)})
	}
	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}
	fmt.Fprintln(w, table)
	return nil
}
