package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/beatscript/beatscript/internal/store"
)

// BuildOptions holds flags for the build command.
type BuildOptions struct {
	*RootOptions
	DBPath string
}

// BuildSummary is the success payload for the build command.
type BuildSummary struct {
	BuildID   string            `json:"build_id"`
	Engine    string            `json:"engine"`
	Mode      string            `json:"mode"`
	RomSize   int               `json:"rom_size"`
	Artifacts []ArtifactSummary `json:"artifacts"`
}

// ArtifactSummary is one compiled callback in the build output.
type ArtifactSummary struct {
	Callback string `json:"callback"`
	Script   string `json:"script"`
	Blocks   int    `json:"blocks"`
	Hash     string `json:"hash"`
}

// NewBuildCommand creates the build command.
func NewBuildCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &BuildOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "build <manifest-dir>",
		Short: "Compile a project manifest and persist the artifacts",
		Long: `Compile every callback a project manifest declares and persist the
resulting control-flow graphs and shared rom image to the artifact store.

Callbacks compile in manifest order against one rom, so constants interned
by an earlier callback are shared by later ones.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.DBPath, "db", "beatscript.db", "artifact database path")

	return cmd
}

func runBuild(opts *BuildOptions, manifestPath string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}

	manifest, compiled, rom, err := compileManifest(opts.RootOptions, manifestPath, "")
	if err != nil {
		return reportExitError(formatter, err)
	}

	db, err := store.Open(opts.DBPath)
	if err != nil {
		return reportExitError(formatter, &ExitError{Code: ExitCommandError, Message: ErrCodeStore, Err: err})
	}
	defer db.Close()

	build := store.NewBuild(manifest.Name, manifest.Version, manifest.Mode.Name)
	ctx := cmd.Context()
	if err := db.WriteBuild(ctx, build); err != nil {
		return reportExitError(formatter, &ExitError{Code: ExitCommandError, Message: ErrCodeStore, Err: err})
	}

	summary := BuildSummary{
		BuildID: build.ID,
		Engine:  manifest.Name,
		Mode:    manifest.Mode.Name,
		RomSize: len(rom),
	}
	for _, c := range compiled {
		cfgText := c.Result.CFG.Text()
		artifact := store.Artifact{
			BuildID:    build.ID,
			Callback:   c.Callback.Name,
			Script:     c.Callback.Script,
			Hash:       store.ContentHash(c.Callback.Name, cfgText, rom),
			CFGText:    cfgText,
			Rom:        rom,
			BlockCount: len(c.Result.CFG.Blocks),
		}
		if err := db.WriteArtifact(ctx, artifact); err != nil {
			return reportExitError(formatter, &ExitError{Code: ExitCommandError, Message: ErrCodeStore, Err: err})
		}
		summary.Artifacts = append(summary.Artifacts, ArtifactSummary{
			Callback: artifact.Callback,
			Script:   artifact.Script,
			Blocks:   artifact.BlockCount,
			Hash:     artifact.Hash[:12],
		})
	}

	opts.Log.Info().
		Str("build_id", build.ID).
		Int("artifacts", len(summary.Artifacts)).
		Msg("build stored")

	if done, err := formatter.Success(summary); done || err != nil {
		return err
	}

	fmt.Fprintf(formatter.Writer, "✓ Built %d callback(s) for %s (%s)\n\n",
		len(summary.Artifacts), summary.Engine, summary.Mode)
	for _, a := range summary.Artifacts {
		fmt.Fprintf(formatter.Writer, "  %-18s %-16s %3d block(s)  %s\n",
			a.Callback, a.Script, a.Blocks, a.Hash)
	}
	fmt.Fprintf(formatter.Writer, "\nrom: %d cell(s)\nbuild id: %s\n", summary.RomSize, summary.BuildID)
	return nil
}
