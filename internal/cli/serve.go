package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/tasnimul-arabi-anik/fetchm/internal/server"
	"github.com/tasnimul-arabi-anik/fetchm/pkg/dataset"
	"github.com/tasnimul-arabi-anik/fetchm/pkg/store"
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	addr    string // listen address
	archive bool   // expose the MongoDB run archive
}

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	opts := serveOpts{addr: ":8080"}

	cmd := &cobra.Command{
		Use:   "serve <dataset>",
		Short: "Serve a dataset over HTTP as a JSON API",
		Long: `Serve a dataset file over HTTP. The API exposes the records, single
record lookup by accession, and the stats report. With --archive and a
configured mongo_uri, stored runs are exposed too.

Endpoints:
  GET /healthz
  GET /api/dataset
  GET /api/records?species=&offset=&limit=
  GET /api/records/{accession}
  GET /api/stats?numeric=&categorical=&top=
  GET /api/runs, /api/runs/{id}        (with --archive)`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), opts, args[0])
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", opts.addr, "listen address")
	cmd.Flags().BoolVar(&opts.archive, "archive", false, "expose the MongoDB run archive")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, opts serveOpts, path string) error {
	ds, err := dataset.ReadFile(path)
	if err != nil {
		return err
	}

	var st store.Store
	if opts.archive {
		cfg, err := c.loadConfig()
		if err != nil {
			return err
		}
		if cfg.MongoURI == "" {
			c.Logger.Warn("--archive requires mongo_uri in the config file, archive disabled")
		} else {
			mongoStore, err := store.NewMongoStore(ctx, cfg.MongoURI)
			if err != nil {
				return err
			}
			defer mongoStore.Close(context.Background())
			st = mongoStore
		}
	}

	srv, err := server.New(server.Config{
		Addr:    opts.addr,
		Dataset: ds,
		Store:   st,
		Logger:  c.Logger,
	})
	if err != nil {
		return err
	}
	return srv.Serve(ctx)
}
