package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/beatscript/beatscript/internal/cfg"
)

// AssertGraph compares the graph's text rendering against a golden file in
// testdata/golden/{name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func AssertGraph(t *testing.T, name string, g *cfg.Graph) {
	t.Helper()
	gold := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	gold.Assert(t, name, []byte(g.Text()))
}

// AssertGraphMermaid compares the mermaid rendering against
// testdata/golden/{name}.mmd.golden.
func AssertGraphMermaid(t *testing.T, name string, g *cfg.Graph) {
	t.Helper()
	gold := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".mmd.golden"),
	)
	gold.Assert(t, name, []byte(g.Mermaid()))
}
