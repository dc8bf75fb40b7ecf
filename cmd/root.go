package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/meysamhadeli/wsengine/config"
	"github.com/meysamhadeli/wsengine/constants/lipgloss"
	"github.com/meysamhadeli/wsengine/logger"
	"github.com/meysamhadeli/wsengine/protocol"
	"github.com/meysamhadeli/wsengine/workspace"
	"github.com/meysamhadeli/wsengine/workspace/models"
	"github.com/spf13/cobra"
)

// RootDependencies is shared by every subcommand through the command context.
type RootDependencies struct {
	Config *config.Config
	Cwd    string
}

type depsKey struct{}

// ExitError carries a process exit code for a failure already reported on stdout.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

var rootCmd = &cobra.Command{
	Use:   "wsengine",
	Short: "Inspect a workspace and apply reversible line edits.",
	Long: `wsengine lists, reads and searches the files of a project root and applies
batches of line-range edits to them. Every edit batch first copies the original
content of the files it touches into .agent_snapshots/<id>/, and 'rollback'
restores them. Every command prints a single JSON object on stdout.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return loadRootDependencies(cmd)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if showVersion, _ := cmd.Flags().GetBool("version"); showVersion {
			deps := handleRootCommand(cmd)
			fmt.Fprintln(cmd.OutOrStdout(), deps.Config.Version)
			return nil
		}
		return cmd.Help()
	},
}

func init() {
	config.InitFlags(rootCmd)
}

// Execute runs the root command and exits with 2 on any failure.
func Execute() {
	defer logger.Sync()
	if err := rootCmd.Execute(); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, lipgloss.Red.Render(err.Error()))
		os.Exit(protocol.ExitFailure)
	}
}

func loadRootDependencies(cmd *cobra.Command) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get current working directory: %w", err)
	}

	cfg, err := config.LoadConfigWithCache(cmd.Root(), cwd)
	if err != nil {
		return err
	}
	if err := logger.SetLevel(cfg.LogLevel); err != nil {
		logger.Warn("config: %v", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(context.WithValue(ctx, depsKey{}, &RootDependencies{Config: cfg, Cwd: cwd}))
	return nil
}

func handleRootCommand(cmd *cobra.Command) *RootDependencies {
	if cmd.Context() != nil {
		if deps, ok := cmd.Context().Value(depsKey{}).(*RootDependencies); ok {
			return deps
		}
	}
	cfg := config.DefaultConfig
	cwd, _ := os.Getwd()
	return &RootDependencies{Config: &cfg, Cwd: cwd}
}

// openWorkspace binds a workspace to the --root flag, falling back to the
// configured root.
func openWorkspace(cmd *cobra.Command, deps *RootDependencies) (*workspace.Workspace, error) {
	root, _ := cmd.Flags().GetString("root")
	if root == "" {
		root = deps.Config.Root
	}
	if root == "" {
		return nil, models.Errorf(models.KindMissingArgument, "", "--root is required")
	}
	return workspace.NewWorkspace(root, workspaceOptions(deps.Config))
}

func workspaceOptions(cfg *config.Config) workspace.Options {
	return workspace.Options{
		MaxBytes:       cfg.MaxBytes,
		TopK:           cfg.TopK,
		IgnorePatterns: cfg.IgnorePatterns,
		UseIgnoreFile:  cfg.UseIgnoreFile,
	}
}

// changedInt returns the flag's value only when the user set it.
func changedInt(cmd *cobra.Command, name string) *int {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	value, err := cmd.Flags().GetInt(name)
	if err != nil {
		return nil
	}
	return &value
}

func changedInt64(cmd *cobra.Command, name string) *int64 {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	value, err := cmd.Flags().GetInt64(name)
	if err != nil {
		return nil
	}
	return &value
}

// emit writes env to stdout and turns a failed envelope into an ExitError.
func emit(w io.Writer, env protocol.Envelope) error {
	if err := protocol.Write(w, env); err != nil {
		return err
	}
	if code := env.ExitCode(); code != protocol.ExitOK {
		return &ExitError{Code: code}
	}
	return nil
}
