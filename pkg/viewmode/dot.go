package viewmode

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"
)

// ToDOT draws the machine in Graphviz DOT format. Windowed and fullscreen
// states sit in separate clusters, fullscreen ones filled grey; current,
// when non-nil, is drawn bold.
func ToDOT(current *State) string {
	var b strings.Builder
	line := func(indent int, format string, args ...any) {
		b.WriteString(strings.Repeat("  ", indent))
		fmt.Fprintf(&b, format, args...)
		b.WriteByte('\n')
	}

	line(0, "digraph viewmode {")
	line(1, `rankdir=LR; bgcolor="transparent";`)
	line(1, `node [shape=box, style="rounded,filled", fillcolor=white, fontsize=14];`)
	line(1, "edge [fontsize=10];")

	for _, fs := range []bool{false, true} {
		name := map[bool]string{false: "windowed", true: "fullscreen"}[fs]
		line(1, "subgraph cluster_%s {", name)
		line(2, "label=%q; style=dashed; color=grey;", name)
		for _, s := range States() {
			if s.Fullscreen != fs {
				continue
			}
			attrs := []string{fmt.Sprintf("label=%q", s.String())}
			if fs {
				attrs = append(attrs, "fillcolor=lightgrey")
			}
			if current != nil && *current == s {
				attrs = append(attrs, "penwidth=3")
			}
			line(2, "%q [%s];", s.String(), strings.Join(attrs, ", "))
		}
		line(1, "}")
	}

	for _, t := range Transitions() {
		line(1, "%q -> %q [label=%q];", t.From.String(), t.To.String(), t.Event)
	}
	line(0, "}")
	return b.String()
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
