// Package cli implements the fetchm command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/tasnimul-arabi-anik/fetchm/pkg/buildinfo"
	"github.com/tasnimul-arabi-anik/fetchm/pkg/cache"
	"github.com/tasnimul-arabi-anik/fetchm/pkg/config"
	"github.com/tasnimul-arabi-anik/fetchm/pkg/entrez"
)

// appName is the application name used for directories and display.
const appName = "fetchm"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	cfg        *config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "fetchm fetches metadata for bacterial genome assemblies",
		Long:         `fetchm retrieves assembly and BioSample metadata for bacterial genomes from the NCBI Entrez E-utilities, builds tabular datasets from it, and summarizes, plots and serves the result.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default ~/.config/fetchm/config.toml)")

	// Commands retrieve the logger via loggerFromContext.
	root.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		cmd.SetContext(withLogger(cmd.Context(), c.Logger))
	}

	root.AddCommand(c.searchCommand())
	root.AddCommand(c.fetchCommand())
	root.AddCommand(c.statsCommand())
	root.AddCommand(c.plotCommand())
	root.AddCommand(c.treeCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig loads the config file once and memoizes it.
func (c *CLI) loadConfig() (config.Config, error) {
	if c.cfg != nil {
		return *c.cfg, nil
	}
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return cfg, err
	}
	c.cfg = &cfg
	return cfg, nil
}

// newEntrezClient builds an Entrez client with the configured cache backend.
func (c *CLI) newEntrezClient(ctx context.Context, noCache bool) (*entrez.Client, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}

	backend, err := c.newCache(ctx, cfg, noCache)
	if err != nil {
		return nil, err
	}

	return entrez.NewClient(backend, entrez.Config{
		APIKey:    cfg.APIKey,
		Email:     cfg.Email,
		Tool:      cfg.Tool,
		RateLimit: cfg.EffectiveRateLimit(),
		CacheTTL:  cfg.CacheTTL.Duration(),
	}), nil
}

// newCache selects the cache backend. Backend failures fall back to no
// caching rather than aborting the command.
func (c *CLI) newCache(ctx context.Context, cfg config.Config, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch cfg.CacheBackend {
	case config.BackendNone:
		return cache.NewNullCache(), nil
	case config.BackendRedis:
		backend, err := cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			c.Logger.Warnf("Redis cache unavailable, continuing uncached: %v", err)
			return cache.NewNullCache(), nil
		}
		return backend, nil
	case config.BackendFile, "":
		dir, err := cacheDir()
		if err != nil {
			return cache.NewNullCache(), nil
		}
		return cache.NewFileCache(dir)
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.CacheBackend)
	}
}

// cacheDir returns the cache directory using the XDG standard
// (~/.cache/fetchm/). FETCHM_CACHE_DIR overrides it.
func cacheDir() (string, error) {
	if dir := os.Getenv("FETCHM_CACHE_DIR"); dir != "" {
		return dir, nil
	}
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
