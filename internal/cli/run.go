package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/beatscript/beatscript/internal/engine"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Quota int
}

// RunResult is the success payload for the run command.
type RunResult struct {
	Callback string    `json:"callback"`
	Result   float64   `json:"result"`
	DebugLog []float64 `json:"debug_log,omitempty"`
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <manifest-dir> <callback>",
		Short: "Compile one callback and execute it on the reference machine",
		Long: `Compile a single callback and execute its control-flow graph on the
reference machine, with the build's rom image loaded. Prints the value the
callback exits with.`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(opts, args[0], args[1], cmd)
		},
	}

	cmd.Flags().IntVar(&opts.Quota, "quota", engine.DefaultStepQuota, "block transition limit")

	return cmd
}

func runRun(opts *RunOptions, manifestPath, callback string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}

	manifest, compiled, rom, err := compileManifest(opts.RootOptions, manifestPath, callback)
	if err != nil {
		return reportExitError(formatter, err)
	}
	res := compiled[0].Result

	machine := engine.NewMachine().WithQuota(opts.Quota)
	machine.Load(manifest.Mode.Rom(), rom)
	result, err := machine.Run(res.CFG)
	if err != nil {
		return reportExitError(formatter, &ExitError{
			Code:    ExitFailure,
			Message: fmt.Sprintf("%s: running %s", ErrCodeRun, callback),
			Err:     err,
		})
	}

	payload := RunResult{Callback: callback, Result: result, DebugLog: machine.Log}
	if done, err := formatter.Success(payload); done || err != nil {
		return err
	}

	fmt.Fprintf(formatter.Writer, "%s exited with %g\n", callback, result)
	for _, v := range machine.Log {
		fmt.Fprintf(formatter.Writer, "debug: %g\n", v)
	}
	return nil
}
