package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/beatscript/beatscript/internal/cfg"
)

// DumpOptions holds flags for the dump command.
type DumpOptions struct {
	*RootOptions
	Render string // "text" | "mermaid" | "yaml"
}

var validRenders = []string{"text", "mermaid", "yaml"}

// NewDumpCommand creates the dump command.
func NewDumpCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DumpOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "dump <manifest-dir> <callback>",
		Short: "Compile one callback and print its control-flow graph",
		Long: `Compile a single callback from a project manifest and print the
resulting control-flow graph, without touching the artifact store.

Renderings: text (block listing), mermaid (flowchart), yaml (structured).`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDump(opts, args[0], args[1], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Render, "render", "text", "graph rendering (text|mermaid|yaml)")

	return cmd
}

func runDump(opts *DumpOptions, manifestPath, callback string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}

	if !isValidRender(opts.Render) {
		return reportExitError(formatter, &ExitError{
			Code:    ExitCommandError,
			Message: fmt.Sprintf("%s: invalid rendering %q: must be one of %v", ErrCodeGeneric, opts.Render, validRenders),
		})
	}

	_, compiled, _, err := compileManifest(opts.RootOptions, manifestPath, callback)
	if err != nil {
		return reportExitError(formatter, err)
	}
	graph := compiled[0].Result.CFG

	rendered, err := renderGraph(graph, opts.Render)
	if err != nil {
		return reportExitError(formatter, &ExitError{Code: ExitFailure, Message: ErrCodeGeneric, Err: err})
	}

	if done, err := formatter.Success(map[string]string{
		"callback":  callback,
		"rendering": opts.Render,
		"graph":     rendered,
	}); done || err != nil {
		return err
	}

	fmt.Fprint(formatter.Writer, rendered)
	return nil
}

func isValidRender(r string) bool {
	for _, v := range validRenders {
		if v == r {
			return true
		}
	}
	return false
}

func renderGraph(g *cfg.Graph, rendering string) (string, error) {
	switch rendering {
	case "mermaid":
		return g.Mermaid(), nil
	case "yaml":
		data, err := yaml.Marshal(graphDoc(g))
		if err != nil {
			return "", fmt.Errorf("marshaling graph: %w", err)
		}
		return string(data), nil
	default:
		return g.Text(), nil
	}
}

// blockDoc is the YAML shape of one basic block.
type blockDoc struct {
	ID    int       `yaml:"id"`
	Stmts []string  `yaml:"stmts,omitempty"`
	Test  string    `yaml:"test,omitempty"`
	Edges []edgeDoc `yaml:"edges,omitempty"`
}

type edgeDoc struct {
	To   int      `yaml:"to"`
	Cond *float64 `yaml:"cond,omitempty"`
}

func graphDoc(g *cfg.Graph) []blockDoc {
	docs := make([]blockDoc, 0, len(g.Blocks))
	for _, b := range g.Blocks {
		doc := blockDoc{ID: b.ID}
		for _, s := range b.Stmts {
			doc.Stmts = append(doc.Stmts, s.String())
		}
		if b.Test != nil {
			doc.Test = b.Test.String()
		}
		for _, e := range b.Out {
			doc.Edges = append(doc.Edges, edgeDoc{To: e.To.ID, Cond: e.Cond})
		}
		docs = append(docs, doc)
	}
	return docs
}
