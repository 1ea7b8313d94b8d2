package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/folioview/pkg/hashparams"
	"github.com/matzehuels/folioview/pkg/manifest"
	"github.com/matzehuels/folioview/pkg/viewer"
)

// resolveCommand creates the resolve command, which applies a fragment to a
// manifest and reports the state the viewer settles in.
func (c *CLI) resolveCommand() *cobra.Command {
	var (
		flags  viewerFlags
		asJSON bool
		margin int
	)

	cmd := &cobra.Command{
		Use:   "resolve <manifest> [fragment]",
		Short: "Resolve a URL fragment against a manifest",
		Long: `Resolve a URL fragment against a manifest.

The manifest is a local JSON or TOML file or an http(s) URL. The fragment
uses the viewer's hash parameters, with or without the leading '#':

  v  view mode (d, b, g)     z  zoom level
  f  fullscreen (true)       n  pages per row in grid
  p  page number (1-based)   i  page filename
  y  vertical offset         x  horizontal offset

Invalid values are reported and fall back to their defaults.`,
		Example: `  folioview resolve manuscript.json '#z=2&p=14&y=300'
  folioview resolve https://example.org/bm/manifest.json v=g&n=4 --json`,
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

			m, err := viewer.New(cfg, nil)
			if err != nil {
				return err
			}
			if err := m.ApplyHash(fragment); err != nil {
				return err
			}
			if err := m.LoadManifest(doc); err != nil {
				return err
			}
			snap, err := m.Snapshot(margin)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, snap)
			}
			printSnapshot(out, doc, snap)
			printNewline(out)
			printNextStep(out, "Browse", fmt.Sprintf("%s view %s '#%s'", appName, args[0], snap.Fragment))
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full snapshot as JSON")
	cmd.Flags().IntVar(&margin, "margin", 0, "extra pixels above and below the viewport when listing visible pages")

	return cmd
}

// printSnapshot prints the human-readable summary of a resolved state.
func printSnapshot(w io.Writer, doc *manifest.Document, snap viewer.Snapshot) {
	if doc.Title() != "" {
		fmt.Fprintln(w, StyleTitle.Render(doc.Title()))
	}

	s := snap.Settings
	page := fmt.Sprintf("%d of %d", s.CurrentPageIndex+1, doc.PageCount())
	if name, ok := doc.Filename(s.CurrentPageIndex); ok {
		page += " (" + name + ")"
	}

	printKeyValue(w, "state", snap.State)
	printKeyValue(w, "zoom", fmt.Sprintf("%d of %d", s.ZoomLevel, doc.MaxZoomLevel()))
	if s.InGrid() {
		printKeyValue(w, "per row", fmt.Sprint(s.PagesPerRow))
	}
	printKeyValue(w, "page", page)
	printKeyValue(w, "offset", fmt.Sprintf("y=%d x=%d", s.VerticalOffset, s.HorizontalOffset))
	printKeyValue(w, "scroll", fmt.Sprintf("top=%d left=%d", snap.Position.Top, snap.Position.Left))
	printKeyValue(w, "content", fmt.Sprintf("%dx%d in %dx%d panel",
		snap.Geometry.ContentWidth, snap.Geometry.ContentHeight,
		snap.Geometry.PanelWidth, snap.Geometry.PanelHeight))
	printKeyValue(w, "visible", formatPages(snap.Visible))
	printKeyValue(w, "fragment", StyleLink.Render("#"+snap.Fragment))

	for _, iv := range snap.Invalid {
		printWarning(w, "ignored %s=%s: %s", iv.Key, iv.Value, iv.Reason)
		if iv.Key == hashparams.KeyPageFilename {
			if hint := doc.Suggest(iv.Value, suggestDistance); hint != "" {
				printDetail(w, "did you mean %s?", hint)
			}
		}
	}
}

// formatPages renders 0-based indices as 1-based page numbers, collapsing
// runs: [0 1 2 5] becomes "1-3, 6".
func formatPages(indices []int) string {
	if len(indices) == 0 {
		return "none"
	}
	var parts []string
	for i := 0; i < len(indices); {
		j := i
		for j+1 < len(indices) && indices[j+1] == indices[j]+1 {
			j++
		}
		if i == j {
			parts = append(parts, fmt.Sprint(indices[i]+1))
		} else {
			parts = append(parts, fmt.Sprintf("%d-%d", indices[i]+1, indices[j]+1))
		}
		i = j + 1
	}
	return strings.Join(parts, ", ")
}

// writeJSON writes v as indented JSON.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
