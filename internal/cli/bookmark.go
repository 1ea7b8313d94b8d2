package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/folioview/pkg/bookmark"
	"github.com/matzehuels/folioview/pkg/viewer"
)

// bookmarkCommand creates the bookmark management command.
func (c *CLI) bookmarkCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "bookmark",
		Aliases: []string{"bm"},
		Short:   "Save and recall viewer positions",
	}

	cmd.AddCommand(c.bookmarkAddCommand())
	cmd.AddCommand(c.bookmarkListCommand())
	cmd.AddCommand(c.bookmarkShowCommand())
	cmd.AddCommand(c.bookmarkRemoveCommand())

	return cmd
}

// bookmarkAddCommand creates the "bookmark add" subcommand.
func (c *CLI) bookmarkAddCommand() *cobra.Command {
	var (
		flags viewerFlags
		raw   bool
	)

	cmd := &cobra.Command{
		Use:   "add <name> <manifest> [fragment]",
		Short: "Save a bookmark",
		Long: `Save a bookmark.

The fragment is resolved against the manifest first and stored in canonical
form, so invalid values are dropped and every parameter is spelled out. Use
--raw to store the fragment exactly as given without loading the manifest.`,
		Args: cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			name, source := args[0], args[1]
			fragment := ""
			if len(args) == 3 {
				fragment = args[2]
			}
			out := cmd.OutOrStdout()

			if !raw {
				cfg, err := c.viewerConfig(cmd, flags)
				if err != nil {
					return err
				}
				doc, err := c.loadManifest(ctx, source, flags)
				if err != nil {
					return err
				}
				snap, err := viewer.Resolve(cfg, doc, fragment)
				if err != nil {
					return err
				}
				for _, iv := range snap.Invalid {
					printWarning(out, "dropped %s=%s: %s", iv.Key, iv.Value, iv.Reason)
				}
				fragment = snap.Fragment
			}

			b, err := bookmark.New(name, source, fragment)
			if err != nil {
				return err
			}
			store, err := c.newBookmarkStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.Put(ctx, b); err != nil {
				return fmt.Errorf("save bookmark: %w", err)
			}
			printSuccess(out, "Saved %s", StyleHighlight.Render(b.Name))
			printDetail(out, "id %s", b.ID)
			printFile(out, b.URL())
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&raw, "raw", false, "store the fragment as given")
	return cmd
}

// bookmarkListCommand creates the "bookmark list" subcommand.
func (c *CLI) bookmarkListCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List saved bookmarks",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := c.newBookmarkStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			all, err := store.List(ctx)
			if err != nil {
				return fmt.Errorf("list bookmarks: %w", err)
			}
			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, all)
			}
			if len(all) == 0 {
				printInfo(out, "No bookmarks yet")
				printNextStep(out, "Add one", appName+" bookmark add <name> <manifest> '#p=1'")
				return nil
			}

			rows := make([][]string, len(all))
			for i, b := range all {
				rows[i] = []string{b.ID[:8], b.Name, b.URL(), b.CreatedAt.Local().Format("2006-01-02 15:04")}
			}
			fmt.Fprintln(out, renderTable([]string{"ID", "Name", "Link", "Created"}, rows, nil))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print bookmarks as JSON")
	return cmd
}

// bookmarkShowCommand creates the "bookmark show" subcommand.
func (c *CLI) bookmarkShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:               "show <id|prefix|name>",
		Short:             "Show one bookmark",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: c.completeBookmarks,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := c.newBookmarkStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			b, err := bookmark.Resolve(ctx, store, args[0])
			if err != nil {
				return bookmarkError(args[0], err)
			}
			out := cmd.OutOrStdout()
			printKeyValue(out, "name", b.Name)
			printKeyValue(out, "id", b.ID)
			printKeyValue(out, "manifest", b.Manifest)
			printKeyValue(out, "fragment", StyleLink.Render("#"+b.Fragment))
			printKeyValue(out, "created", b.CreatedAt.Local().Format("2006-01-02 15:04:05"))
			printNewline(out)
			printNextStep(out, "Open", fmt.Sprintf("%s view %s '#%s'", appName, b.Manifest, b.Fragment))
			return nil
		},
	}
}

// bookmarkRemoveCommand creates the "bookmark rm" subcommand.
func (c *CLI) bookmarkRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:               "rm <id|prefix|name>",
		Aliases:           []string{"remove", "delete"},
		Short:             "Delete a bookmark",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: c.completeBookmarks,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := c.newBookmarkStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			b, err := bookmark.Resolve(ctx, store, args[0])
			if err != nil {
				return bookmarkError(args[0], err)
			}
			if err := store.Delete(ctx, b.ID); err != nil {
				return fmt.Errorf("delete bookmark: %w", err)
			}
			printSuccess(cmd.OutOrStdout(), "Deleted %s", StyleHighlight.Render(b.Name))
			return nil
		},
	}
}

func bookmarkError(ref string, err error) error {
	switch {
	case errors.Is(err, bookmark.ErrNotFound):
		return fmt.Errorf("no bookmark matches %q", ref)
	case errors.Is(err, bookmark.ErrAmbiguous):
		return fmt.Errorf("%q matches several bookmarks; use a longer ID prefix", ref)
	}
	return err
}
