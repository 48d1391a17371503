package cfg

import (
	"fmt"
	"strconv"
	"strings"
)

// Text renders the graph as a plain-text listing, one block per section,
// suitable for golden files and debug dumps.
func (g *Graph) Text() string {
	var b strings.Builder
	blocks := g.ReversePostorder()
	index := make(map[*BasicBlock]int, len(blocks))
	for i, blk := range blocks {
		index[blk] = i
	}
	for i, blk := range blocks {
		fmt.Fprintf(&b, "block %d:\n", i)
		for _, s := range blk.Stmts {
			fmt.Fprintf(&b, "  %s\n", s)
		}
		if len(blk.Out) == 0 {
			b.WriteString("  -> exit\n")
			continue
		}
		if len(blk.Out) == 1 && blk.Out[0].Cond == nil {
			fmt.Fprintf(&b, "  -> %d\n", index[blk.Out[0].To])
			continue
		}
		fmt.Fprintf(&b, "  test %s\n", blk.Test)
		for _, e := range blk.Out {
			label := "default"
			if e.Cond != nil {
				label = formatNum(*e.Cond)
			}
			fmt.Fprintf(&b, "  -> %d on %s\n", index[e.To], label)
		}
	}
	return b.String()
}

// Mermaid renders the graph as a mermaid flowchart, with conditional
// blocks split into a statement node and a decision node.
func (g *Graph) Mermaid() string {
	blocks := g.ReversePostorder()
	index := make(map[*BasicBlock]int, len(blocks))
	for i, blk := range blocks {
		index[blk] = i
	}

	lines := []string{"Entry([Entry]) --> 0"}
	for i, blk := range blocks {
		parts := []string{fmt.Sprintf("#%d", i)}
		for _, s := range blk.Stmts {
			parts = append(parts, s.String())
		}
		lines = append(lines, fmt.Sprintf("%d[%s]", i, pre(strings.Join(parts, "\n"))))

		switch {
		case len(blk.Out) == 0:
			lines = append(lines, fmt.Sprintf("%d --> Exit", i))
		case len(blk.Out) == 1 && blk.Out[0].Cond == nil:
			lines = append(lines, fmt.Sprintf("%d --> %d", i, index[blk.Out[0].To]))
		default:
			lines = append(lines, fmt.Sprintf("%d_{{%s}}", i, pre(blk.Test.String())))
			lines = append(lines, fmt.Sprintf("%d --> %d_", i, i))
			for _, e := range blk.Out {
				label := "default"
				if e.Cond != nil {
					label = formatNum(*e.Cond)
				}
				lines = append(lines, fmt.Sprintf("%d_ --> |%s| %d", i, label, index[e.To]))
			}
		}
	}
	lines = append(lines, "Exit([Exit])")

	var b strings.Builder
	b.WriteString("graph\n")
	for _, l := range lines {
		b.WriteString("    ")
		b.WriteString(l)
		b.WriteString("\n")
	}
	return b.String()
}

func pre(s string) string {
	return "\"<pre style='text-align: left;'>" + strings.ReplaceAll(s, "\n", "<br/>") + "</pre>\""
}

func formatNum(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
