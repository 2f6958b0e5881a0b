package cli

import (
	"context"
	"fmt"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/spf13/cobra"

	"github.com/runoshun/tasklist/internal/app"
	"github.com/runoshun/tasklist/internal/usecase"
	"github.com/runoshun/tasklist/internal/web"
)

// newServeCommand creates the serve command for the web UI and REST API.
func newServeCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Addr   string
		NoSeed bool
	}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the web UI and REST API",
		Long: `Start the HTTP server serving the web UI and the JSON API under /api.

The server runs until it receives SIGINT or SIGTERM, then waits up to
server.shutdown_timeout for in-flight requests to finish.`,
		Example: `  # Listen on the configured address (default :5000)
  tasklist serve

  # Listen on a specific address
  tasklist serve --addr 127.0.0.1:8080`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := c.AppConfig.Server
			addr := cfg.Addr
			if opts.Addr != "" {
				addr = opts.Addr
			}

			if cfg.SeedExamples && !opts.NoSeed {
				out, err := c.SeedTasksUseCase().Execute(cmd.Context(), usecase.SeedTasksInput{})
				if err != nil {
					return err
				}
				if n := len(out.Tasks); n > 0 {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Created %d sample tasks\n", n)
				}
			}

			srv, err := web.New(c)
			if err != nil {
				return err
			}
			if err := srv.Start(cmd.Context(), addr); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Serving on %s (Ctrl+C to stop)\n", addr)

			wait := gfshutdown.GracefulShutdown(
				context.Background(),
				cfg.ShutdownTimeout,
				map[string]gfshutdown.Operation{
					"http-server": func(ctx context.Context) error {
						return srv.Shutdown(ctx)
					},
				},
			)

			if code := <-wait; code != 0 {
				return fmt.Errorf("server shutdown exited with code %d", code)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Addr, "addr", "", "Listen address (default: server.addr from config)")
	cmd.Flags().BoolVar(&opts.NoSeed, "no-seed", false, "Do not create sample tasks in an empty store")

	return cmd
}
