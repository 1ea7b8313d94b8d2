package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/folioview/internal/server"
	"github.com/matzehuels/folioview/pkg/bookmark"
)

// serveCommand creates the serve command, which runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr        string
		allowLocal  bool
		noCache     bool
		noBookmarks bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve fragment resolution and bookmarks over HTTP",
		Long: `Serve fragment resolution and bookmarks over HTTP.

Routes:
  GET    /healthz
  POST   /api/v1/resolve
  POST   /api/v1/serialize
  GET    /api/v1/bookmarks
  POST   /api/v1/bookmarks
  GET    /api/v1/bookmarks/{ref}
  DELETE /api/v1/bookmarks/{ref}

Remote manifests are cached with the configured cache backend. Manifest
paths on the server's filesystem are refused unless --allow-local is set.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.config()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("addr") {
				addr = cfg.Server.Addr
			}
			vc, err := cfg.Viewer.Build(c.Logger)
			if err != nil {
				return err
			}

			fetcher, err := c.newFetcher(ctx, viewerFlags{noCache: noCache})
			if err != nil {
				return err
			}
			defer fetcher.Cache.Close()

			var store bookmark.Store
			if !noBookmarks {
				if store, err = c.newBookmarkStore(ctx); err != nil {
					return err
				}
				defer store.Close()
			}

			srv := server.New(server.Options{
				Loader:     fetcher,
				Bookmarks:  store,
				Viewer:     vc,
				Logger:     c.Logger,
				AllowLocal: allowLocal,
			})
			c.Logger.Info("starting server", "addr", addr, "cache", cfg.Cache.Backend, "bookmarks", cfg.Bookmarks.Backend)
			return srv.ListenAndServe(ctx, addr, cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().BoolVar(&allowLocal, "allow-local", false, "allow manifests from the local filesystem")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the manifest cache")
	cmd.Flags().BoolVar(&noBookmarks, "no-bookmarks", false, "disable the bookmark routes")

	return cmd
}
