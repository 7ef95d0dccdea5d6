// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the company-lens CLI.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/company-lens/internal/analyze"
	"github.com/pdiddy/company-lens/internal/cache"
	"github.com/pdiddy/company-lens/internal/registry"
	"github.com/pdiddy/company-lens/internal/secrets"
	"github.com/pdiddy/company-lens/internal/usage"
	"github.com/pdiddy/company-lens/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// rootCmd is the base command for the company-lens CLI.
var rootCmd = &cobra.Command{
	Use:   "company-lens",
	Short: "Behavioral risk analysis from UK Companies House records",
	Long: `company-lens reads the public Companies House registers for a company and
scores six behavioral dimensions: director track record, filing discipline,
governance stability, connected parties, ownership clarity, and transaction
readiness. Every finding links back to the registry record it came from.

Run an analysis with "company-lens analyze <number>", or start the HTTP
surface with "company-lens serve".`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./company-lens.yaml or ~/.config/company-lens/config.yaml)")
	rootCmd.PersistentFlags().Bool("verbose", false, "log debug detail to stderr")
	rootCmd.PersistentFlags().Bool("no-cache", false, "skip the response cache for this invocation")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("company-lens")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "company-lens"))
		}
	}

	viper.SetEnvPrefix("COMPANY_LENS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// appConfig resolves the effective configuration: baked-in defaults, then the
// config file and COMPANY_LENS_* environment, then the API key from secrets.
func appConfig() types.AppConfig {
	cfg := types.Defaults()

	if v := viper.GetString("registry.base_url"); v != "" {
		cfg.Registry.BaseURL = v
	}
	if v := viper.GetString("registry.api_key"); v != "" {
		cfg.Registry.APIKey = v
	}
	if v := viper.GetInt("registry.rate_limit"); v > 0 {
		cfg.Registry.RateLimit = v
	}
	if v := viper.GetDuration("registry.cache_ttl"); v > 0 {
		cfg.Registry.CacheTTL = v
	}
	if v := viper.GetDuration("registry.timeout"); v > 0 {
		cfg.Registry.Timeout = v
	}
	if v := viper.GetInt("analysis.workers"); v > 0 {
		cfg.Analysis.Workers = v
	}
	if v := viper.GetInt("analysis.orbit_sample_limit"); v > 0 {
		cfg.Analysis.OrbitSampleLimit = v
	}
	if v := viper.GetInt("analysis.max_ownership_depth"); v > 0 {
		cfg.Analysis.MaxOwnershipDepth = v
	}
	if v := viper.GetString("cache.dir"); v != "" {
		cfg.Cache.Dir = v
	}
	if viper.IsSet("cache.disabled") {
		cfg.Cache.Disabled = viper.GetBool("cache.disabled")
	}
	if v := viper.GetString("server.addr"); v != "" {
		cfg.Server.Addr = v
	}
	if v := viper.GetDuration("server.shutdown_timeout"); v > 0 {
		cfg.Server.ShutdownTimeout = v
	}
	if v := viper.GetString("usage_file"); v != "" {
		cfg.UsageFile = v
	}

	if cfg.Registry.APIKey == "" {
		cfg.Registry.APIKey = loadedSecrets[secrets.RegistryAPIKey]
	}
	return cfg
}

// app bundles the wired components behind a command.
type app struct {
	cfg      types.AppConfig
	client   *registry.Client
	store    *cache.Store
	usage    *usage.Tracker
	analyzer *analyze.Analyzer
	log      *slog.Logger
}

// newApp wires the client, cache, usage tracker, and analyzer from cfg.
// Close releases the cache handle.
func newApp(cmd *cobra.Command) (*app, error) {
	cfg := appConfig()
	if cfg.Registry.APIKey == "" {
		return nil, fmt.Errorf("no API key: set registry.api_key, COMPANY_LENS_REGISTRY_API_KEY, or .secrets/%s", secrets.RegistryAPIKey)
	}
	if noCache, _ := cmd.Flags().GetBool("no-cache"); noCache {
		cfg.Cache.Disabled = true
	}

	level := slog.LevelInfo
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	a := &app{cfg: cfg, log: log}
	if !cfg.Cache.Disabled {
		store, err := cache.Open(cfg.Cache.Dir)
		if err != nil {
			return nil, fmt.Errorf("opening cache: %w", err)
		}
		a.store = store
		a.client = registry.New(cfg.Registry, store, log)
	} else {
		a.client = registry.New(cfg.Registry, nil, log)
	}

	a.usage = usage.NewTracker(cfg.UsageFile)
	a.analyzer = analyze.New(a.client, cfg.Analysis, a.usage, log)
	return a, nil
}

func (a *app) Close() {
	if a.store != nil {
		a.store.Close()
	}
}

func formatElapsed(seconds float64) string {
	return time.Duration(float64(time.Second) * seconds).Round(10 * time.Millisecond).String()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
