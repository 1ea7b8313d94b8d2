package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/matzehuels/folioview/pkg/layout"
	"github.com/matzehuels/folioview/pkg/manifest"
	"github.com/matzehuels/folioview/pkg/viewer"
)

// layoutCommand creates the layout command for inspecting page geometry.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		flags  viewerFlags
		asJSON bool
		all    bool
		margin int
	)

	cmd := &cobra.Command{
		Use:   "layout <manifest> [fragment]",
		Short: "Print the page rectangles for a view state",
		Long: `Print the page rectangles for a view state.

The fragment selects zoom level, view mode and pages per row exactly as it
would in the viewer. By default only the pages near the viewport are listed;
use --all for the whole document.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			fragment := ""
			if len(args) == 2 {
				fragment = args[1]
			}
			cfg, err := c.viewerConfig(cmd, flags)
			if err != nil {
				return err
			}
			doc, err := c.loadManifest(cmd.Context(), args[0], flags)
			if err != nil {
				return err
			}
			snap, err := viewer.Resolve(cfg, doc, fragment)
			if err != nil {
				return err
			}

			rects := snap.Geometry.Pages
			if !all {
				rects = pickRects(snap.Geometry, snap.Position.Top, margin)
			}

			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, rects)
			}
			printLayout(out, doc, snap, rects)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print rectangles as JSON")
	cmd.Flags().BoolVar(&all, "all", false, "list every page, not just those near the viewport")
	cmd.Flags().IntVar(&margin, "margin", 0, "extra pixels above and below the viewport")

	return cmd
}

// pickRects returns the rectangles of the pages visible from top.
func pickRects(g layout.Geometry, top, margin int) []layout.PageRect {
	visible := g.Visible(top, g.PanelHeight, margin)
	rects := make([]layout.PageRect, 0, len(visible))
	for _, i := range visible {
		if r, ok := g.Rect(i); ok {
			rects = append(rects, r)
		}
	}
	return rects
}

func printLayout(w io.Writer, doc *manifest.Document, snap viewer.Snapshot, rects []layout.PageRect) {
	current := snap.Settings.CurrentPageIndex
	rows := make([][]string, len(rects))
	for i, r := range rects {
		name, _ := doc.Filename(r.PageIndex)
		rows[i] = []string{
			fmt.Sprint(r.PageIndex + 1),
			name,
			fmt.Sprint(r.Top),
			fmt.Sprint(r.Left),
			fmt.Sprintf("%dx%d", r.Width, r.Height),
		}
	}

	fmt.Fprintln(w, renderTable(
		[]string{"Page", "File", "Top", "Left", "Size"},
		rows,
		func(row int) bool { return row < len(rects) && rects[row].PageIndex == current },
	))
	g := snap.Geometry
	printStats(w,
		snap.State,
		fmt.Sprintf("content %dx%d", g.ContentWidth, g.ContentHeight),
		fmt.Sprintf("%d of %d pages", len(rects), len(g.Pages)),
	)
}
