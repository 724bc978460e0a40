package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/martialmarel/linkrank/pkg/cache"
	"github.com/martialmarel/linkrank/pkg/pipeline"
	"github.com/martialmarel/linkrank/pkg/server"
)

// serveCommand creates the serve command that runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		cacheSize int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the ranking API over HTTP",
		Long: `Serve exposes rank, centrality and render over HTTP:

  GET  /healthz
  POST /v1/rank
  POST /v1/centrality
  POST /v1/render

Results are cached in Redis when redis_url is configured, and in a bounded
in-memory cache otherwise. The server shuts down gracefully on SIGINT or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("addr") {
				c.Config.Addr = addr
			}
			ctx := cmd.Context()

			ttl, err := c.Config.ttl()
			if err != nil {
				return err
			}
			cc, err := c.serverCache(ctx, cacheSize)
			if err != nil {
				return err
			}
			runner := pipeline.NewRunner(cc, c.Logger)
			runner.TTL = ttl
			defer runner.Close()

			if err := server.New(runner, c.Logger).ListenAndServe(ctx, c.Config.Addr); err != nil {
				return err
			}
			return ctx.Err()
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", server.DefaultAddr, "listen address")
	cmd.Flags().IntVar(&cacheSize, "cache-size", cache.DefaultMemorySize, "entries kept by the in-memory cache")
	return cmd
}

// serverCache returns Redis when it is configured and reachable, and an
// in-memory LRU otherwise.
func (c *CLI) serverCache(ctx context.Context, size int) (cache.Cache, error) {
	if c.Config.RedisURL != "" {
		rc, err := cache.NewRedisCache(c.Config.RedisURL)
		if err != nil {
			return nil, err
		}
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		err = cache.RetryWithBackoff(pingCtx, func() error {
			return cache.Retryable(rc.Ping(pingCtx))
		})
		if err == nil {
			c.Logger.Info("using redis cache")
			return cache.NewScoped(rc, appName+":"), nil
		}
		rc.Close()
		c.Logger.Warn("redis unreachable, falling back to memory cache", "error", err)
	}
	return cache.NewMemoryCache(size)
}
