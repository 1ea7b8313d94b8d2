package cli

import (
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/matzehuels/folioview/pkg/viewer"
)

// viewCommand creates the interactive terminal viewer.
func (c *CLI) viewCommand() *cobra.Command {
	var flags viewerFlags

	cmd := &cobra.Command{
		Use:   "view <manifest> [fragment]",
		Short: "Browse a manifest interactively in the terminal",
		Long: `Browse a manifest interactively in the terminal.

The viewport is drawn as a minimap of the pages it covers. Keys drive the
same operations a browser viewer exposes; the fragment shown at the bottom
always reflects the current position and can be edited with '#'. On exit the
final fragment is printed so it can be shared or bookmarked.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !term.IsTerminal(int(os.Stdin.Fd())) {
				return errors.New("view needs an interactive terminal; use resolve or layout instead")
			}
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

			vm, err := viewer.New(cfg, viewer.FragmentFunc(func() string { return fragment }))
			if err != nil {
				return err
			}
			if err := vm.LoadManifest(doc); err != nil {
				return err
			}
			for _, iv := range vm.LastInvalid() {
				c.Logger.Warn("ignored fragment value", "key", iv.Key, "value", iv.Value, "reason", iv.Reason)
			}

			model := NewViewerModel(vm, doc)
			defer model.Close()

			p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("run viewer: %w", err)
			}

			out := cmd.OutOrStdout()
			printInfo(out, "Last position")
			printFile(out, args[0]+"#"+vm.Fragment())
			printNextStep(out, "Save it", fmt.Sprintf("%s bookmark add <name> %s '#%s'", appName, args[0], vm.Fragment()))
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}
