package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/beatscript/beatscript/internal/store"
)

// BuildsOptions holds flags for the builds command.
type BuildsOptions struct {
	*RootOptions
	DBPath string
}

// BuildRow is one build in the listing payload.
type BuildRow struct {
	ID        string `json:"id"`
	Engine    string `json:"engine"`
	Version   int    `json:"version"`
	Mode      string `json:"mode"`
	CreatedAt string `json:"created_at"`
	Artifacts int    `json:"artifacts"`
}

// NewBuildsCommand creates the builds command.
func NewBuildsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &BuildsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:           "builds",
		Short:         "List stored builds, newest first",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuilds(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.DBPath, "db", "beatscript.db", "artifact database path")

	return cmd
}

func runBuilds(opts *BuildsOptions, cmd *cobra.Command) error {
	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}

	db, err := store.Open(opts.DBPath)
	if err != nil {
		return reportExitError(formatter, &ExitError{Code: ExitCommandError, Message: ErrCodeStore, Err: err})
	}
	defer db.Close()

	ctx := cmd.Context()
	builds, err := db.ListBuilds(ctx)
	if err != nil {
		return reportExitError(formatter, &ExitError{Code: ExitCommandError, Message: ErrCodeStore, Err: err})
	}

	rows := make([]BuildRow, 0, len(builds))
	for _, b := range builds {
		artifacts, err := db.ListArtifacts(ctx, b.ID)
		if err != nil {
			return reportExitError(formatter, &ExitError{Code: ExitCommandError, Message: ErrCodeStore, Err: err})
		}
		rows = append(rows, BuildRow{
			ID:        b.ID,
			Engine:    b.Engine,
			Version:   b.EngineVersion,
			Mode:      b.Mode,
			CreatedAt: b.CreatedAt.Format(time.RFC3339),
			Artifacts: len(artifacts),
		})
	}

	if done, err := formatter.Success(rows); done || err != nil {
		return err
	}

	if len(rows) == 0 {
		fmt.Fprintln(formatter.Writer, "no builds")
		return nil
	}
	for _, r := range rows {
		fmt.Fprintf(formatter.Writer, "%s  %s v%d (%s)  %d artifact(s)  %s\n",
			r.ID, r.Engine, r.Version, r.Mode, r.Artifacts, r.CreatedAt)
	}
	return nil
}
