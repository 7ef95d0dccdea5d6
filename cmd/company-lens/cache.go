// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/company-lens/internal/cache"
	"github.com/pdiddy/company-lens/internal/usage"
	"github.com/pdiddy/company-lens/pkg/types"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the registry response cache",
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cache occupancy and analysis run counts",
	RunE:  runCacheStats,
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all cached registry responses",
	RunE:  runCacheClear,
}

func init() {
	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}

func openStore() (*cache.Store, types.AppConfig, error) {
	cfg := appConfig()
	store, err := cache.Open(cfg.Cache.Dir)
	if err != nil {
		return nil, cfg, fmt.Errorf("opening cache: %w", err)
	}
	return store, cfg, nil
}

func runCacheStats(cmd *cobra.Command, args []string) error {
	store, cfg, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	size, err := store.Size()
	if err != nil {
		return err
	}
	fmt.Printf("Cached responses: %d\n", size)

	stats, err := usage.NewTracker(cfg.UsageFile).Stats()
	if err != nil {
		return err
	}
	fmt.Printf("Analysis runs: %d across %d companies\n", stats.TotalRuns, len(stats.Companies))
	return nil
}

func runCacheClear(cmd *cobra.Command, args []string) error {
	store, _, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Clear(); err != nil {
		return err
	}
	fmt.Println("Cache cleared.")
	return nil
}
