package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/s0up4200/reelgrid/web"
)

var serveAddr string

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the catalog as a web page",
	Long: `Serve the catalog as a server-rendered web page with search, genre
filtering and pagination. Movie details shown on hover are cached in memory,
or in Redis when server.cache.redis_url is set.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&serveAddr, "addr", "a", "", "listen address (default from config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	addr := cfg.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}

	filters, err := newFilterManager(cfg.Filter)
	if err != nil {
		return err
	}

	var cache web.DetailCache
	if url := cfg.Server.Cache.RedisURL; url != "" {
		redisCache, err := web.NewRedisCache(ctx, url, cfg.Server.Cache.TTL)
		if err != nil {
			return fmt.Errorf("failed to set up detail cache: %w", err)
		}
		defer redisCache.Close()

		logger.Info().Msg("Using redis detail cache")
		cache = redisCache
	} else {
		cache = web.NewMemoryCache(cfg.Server.Cache.Size, cfg.Server.Cache.TTL)
	}

	server := web.NewServer(client, logger,
		web.WithDetailCache(cache),
		web.WithPageSize(cfg.Catalog.PageSize),
		web.WithFilters(filters),
	)

	return server.ListenAndServe(ctx, addr)
}
