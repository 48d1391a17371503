package cli

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/beatscript/beatscript/internal/project"
)

// RootOptions holds global flags and state shared by all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"

	// Log writes diagnostics to stderr; level follows --verbose.
	Log zerolog.Logger

	// Registry resolves manifest script names. Defaults to the built-in
	// demo scripts; embedding applications swap in their own.
	Registry *project.Registry
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the beatscript CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{Registry: project.Demo()}

	cmd := &cobra.Command{
		Use:   "beatscript",
		Short: "beatscript - script-to-CFG compiler for rhythm game engines",
		Long:  "Compiles restricted engine scripts into control-flow graphs and manages build artifacts.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			level := zerolog.InfoLevel
			if opts.Verbose {
				level = zerolog.DebugLevel
			}
			opts.Log = zerolog.New(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr()}).
				Level(level).
				With().Timestamp().Logger()
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	// Add subcommands
	cmd.AddCommand(NewBuildCommand(opts))
	cmd.AddCommand(NewDumpCommand(opts))
	cmd.AddCommand(NewRunCommand(opts))
	cmd.AddCommand(NewBuildsCommand(opts))
	cmd.AddCommand(NewShowCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
