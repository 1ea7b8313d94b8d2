package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/folioview/pkg/hashparams"
	"github.com/matzehuels/folioview/pkg/settings"
	"github.com/matzehuels/folioview/pkg/viewmode"
)

// modesCommand creates the modes command, which draws the view mode state
// machine.
func (c *CLI) modesCommand() *cobra.Command {
	var (
		output  string
		format  string
		current string
	)

	cmd := &cobra.Command{
		Use:   "modes",
		Short: "Draw the view mode state machine",
		Long: `Draw the view mode state machine as Graphviz DOT or SVG.

Each state is a view mode (document, book, grid) with fullscreen on or off.
--current highlights the state a fragment selects, e.g. --current 'v=g&f=true'.
Without --output the DOT source is printed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var cur *viewmode.State
			if current != "" {
				res := hashparams.Parse(current, settings.Defaults(), hashparams.Options{}, hashparams.Context{})
				st := viewmode.FromSettings(res.Settings)
				cur = &st
			}
			dot := viewmode.ToDOT(cur)

			if format == "" {
				format = "dot"
				if strings.EqualFold(filepath.Ext(output), ".svg") {
					format = "svg"
				}
			}

			var data []byte
			switch format {
			case "dot":
				data = []byte(dot)
			case "svg":
				err := withSpinner(cmd.Context(), cmd.ErrOrStderr(), "Rendering SVG...", func(ctx context.Context) error {
					var err error
					data, err = viewmode.RenderSVG(ctx, dot)
					return err
				})
				if err != nil {
					return err
				}
			default:
				return fmt.Errorf("invalid format: %s (must be dot or svg)", format)
			}

			if output == "" {
				_, err := cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			printSuccess(cmd.OutOrStdout(), "Wrote %d states, %d transitions", len(viewmode.States()), len(viewmode.Transitions()))
			printFile(cmd.OutOrStdout(), output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file")
	cmd.Flags().StringVarP(&format, "format", "f", "", "dot or svg (default: from --output extension, else dot)")
	cmd.Flags().StringVar(&current, "current", "", "fragment selecting the state to highlight")

	return cmd
}
