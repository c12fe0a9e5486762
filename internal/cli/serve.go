package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/stackmixer/pkg/cache"
	"github.com/matzehuels/stackmixer/pkg/pipeline"
	"github.com/matzehuels/stackmixer/pkg/server"
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	addr      string
	redisURL  string
	keyPrefix string
	timeout   time.Duration
	maxBody   int64
	noCache   bool
}

// serveCommand creates the serve command, which exposes the pipeline over HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	var so serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve layouts over HTTP",
		Long: `Serve layouts over HTTP.

Endpoints:
  GET  /healthz             build information
  POST /v1/layout           {"graph": ..., "options": ...} -> positioned graph
  POST /v1/levels           {"graph": ..., "options": ...} -> level report
  POST /v1/render/{format}  {"graph": ..., "options": ...} -> json, dot or svg

Results are cached in the local cache directory, or in Redis with --redis.
Options from --config are the server-wide defaults.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), so)
		},
	}

	cmd.Flags().StringVar(&so.addr, "addr", server.DefaultAddr, "listen address")
	cmd.Flags().StringVar(&so.redisURL, "redis", "", "Redis URL for a shared cache (e.g. redis://localhost:6379/0)")
	cmd.Flags().StringVar(&so.keyPrefix, "key-prefix", appName+":", "prefix for cache keys")
	cmd.Flags().DurationVar(&so.timeout, "timeout", server.DefaultTimeout, "per-request timeout")
	cmd.Flags().Int64Var(&so.maxBody, "max-body", server.DefaultMaxBodyBytes, "maximum request body size in bytes")
	cmd.Flags().BoolVar(&so.noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, so serveOpts) error {
	store, err := c.serverCache(ctx, so)
	if err != nil {
		return err
	}

	runner := pipeline.NewRunner(store, cache.NewScopedKeyer(nil, so.keyPrefix), c.Logger)
	defer runner.Close()

	srv := server.New(runner, server.Config{
		Addr:         so.addr,
		MaxBodyBytes: so.maxBody,
		Timeout:      so.timeout,
		Defaults:     c.Config,
	}, c.Logger)

	printInfo("Serving on %s", so.addr)
	if err := srv.ListenAndServe(ctx); err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}

// serverCache picks the cache backend: Redis when configured, else the local
// file cache.
func (c *CLI) serverCache(ctx context.Context, so serveOpts) (cache.Cache, error) {
	if so.noCache {
		return cache.NewNullCache(), nil
	}
	if so.redisURL != "" {
		rc, err := cache.NewRedisCache(ctx, so.redisURL)
		if err != nil {
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		c.Logger.Info("using redis cache")
		return rc, nil
	}
	return newCache(false)
}
