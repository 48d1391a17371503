package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/beatscript/beatscript/internal/store"
)

// ShowOptions holds flags for the show command.
type ShowOptions struct {
	*RootOptions
	DBPath  string
	BuildID string
}

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ShowOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "show <callback>",
		Short: "Print a stored artifact's control-flow graph",
		Long: `Print the control-flow graph stored for a callback. Reads the most
recent build unless --build selects one.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.DBPath, "db", "beatscript.db", "artifact database path")
	cmd.Flags().StringVar(&opts.BuildID, "build", "", "build id (default: latest)")

	return cmd
}

func runShow(opts *ShowOptions, callback string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}

	db, err := store.Open(opts.DBPath)
	if err != nil {
		return reportExitError(formatter, &ExitError{Code: ExitCommandError, Message: ErrCodeStore, Err: err})
	}
	defer db.Close()

	ctx := cmd.Context()
	buildID := opts.BuildID
	if buildID == "" {
		latest, err := db.LatestBuild(ctx)
		if err != nil {
			return showError(formatter, err)
		}
		buildID = latest.ID
	}

	artifact, err := db.GetArtifact(ctx, buildID, callback)
	if err != nil {
		return showError(formatter, err)
	}

	if done, err := formatter.Success(map[string]any{
		"build_id": artifact.BuildID,
		"callback": artifact.Callback,
		"script":   artifact.Script,
		"hash":     artifact.Hash,
		"graph":    artifact.CFGText,
	}); done || err != nil {
		return err
	}

	fmt.Fprintf(formatter.Writer, "build %s, callback %s (script %s)\n\n",
		artifact.BuildID, artifact.Callback, artifact.Script)
	fmt.Fprint(formatter.Writer, artifact.CFGText)
	return nil
}

func showError(f *OutputFormatter, err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return reportExitError(f, &ExitError{Code: ExitCommandError, Message: ErrCodeNotFound, Err: err})
	}
	return reportExitError(f, &ExitError{Code: ExitCommandError, Message: ErrCodeStore, Err: err})
}
