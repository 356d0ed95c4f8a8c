package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vantrung/equipment-site/internal/app/bootstrap"
	"github.com/vantrung/equipment-site/internal/blog"
	"github.com/vantrung/equipment-site/internal/catalog"
)

// fixtures is one parsed seed file.
type fixtures struct {
	catalog *catalog.Seed
	posts   []blog.Post
}

func loadFixtures(path string) (*fixtures, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	catalogSeed, err := catalog.ParseSeed(bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	posts, err := blog.ParseSeed(bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	return &fixtures{catalog: catalogSeed, posts: posts}, nil
}

func newSeedCmd(c *cli) *cobra.Command {
	var (
		file   string
		dryRun bool
	)
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Upsert categories, products and posts from a YAML fixtures file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fx, err := loadFixtures(file)
			if err != nil {
				return err
			}
			summary := fmt.Sprintf("%d categories, %d products, %d posts",
				len(fx.catalog.Categories), len(fx.catalog.Products), len(fx.posts))
			if dryRun {
				fmt.Fprintf(cmd.OutOrStdout(), "fixtures ok: %s\n", summary)
				return nil
			}

			if _, err := c.requireDatabaseURL(); err != nil {
				return err
			}
			ctx := cmd.Context()
			db, err := bootstrap.BuildDatabase(ctx, c.cfg, c.logger)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := catalog.NewPostgresStore(db.Pool).ApplySeed(ctx, fx.catalog); err != nil {
				return err
			}
			posts := blog.NewSQLStore(db.SQL)
			for i := range fx.posts {
				if err := posts.Upsert(ctx, &fx.posts[i]); err != nil {
					return err
				}
			}

			if redisClient := bootstrap.BuildRedisClient(ctx, c.cfg, c.logger, true); redisClient != nil {
				defer redisClient.Close()
				cached := catalog.NewCachedStore(catalog.NewPostgresStore(db.Pool), redisClient, c.cfg.CatalogCacheTTL, nil, c.logger)
				if err := cached.Invalidate(ctx); err != nil {
					c.logger.Warn("catalog cache not invalidated", "error", err)
				}
			}

			c.logger.Info("seed applied", "file", file)
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %s\n", summary)
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "fixtures/site.yaml", "Fixtures file")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Validate the file without touching the database")
	return cmd
}

func newCacheCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the catalog cache",
	}
	flush := &cobra.Command{
		Use:   "flush",
		Short: "Drop every cached catalog entry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			redisClient := bootstrap.BuildRedisClient(ctx, c.cfg, c.logger, true)
			if redisClient == nil {
				return fmt.Errorf("REDIS_ADDR is not set or redis is unreachable")
			}
			defer redisClient.Close()

			cached := catalog.NewCachedStore(catalog.NewMemoryStore(nil, nil), redisClient, c.cfg.CatalogCacheTTL, nil, c.logger)
			if err := cached.Invalidate(ctx); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "catalog cache flushed")
			return nil
		},
	}
	cmd.AddCommand(flush)
	return cmd
}
