// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/meshintelligence/lexiflow/internal/cache"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect and manage the translation cache",
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show translation cache statistics",
	RunE:  runCacheStats,
}

func runCacheStats(cmd *cobra.Command, args []string) error {
	cfg := pipelineConfig()
	kv, closer := openKV(cfg.Store)
	if closer != nil {
		defer closer.Close()
	}

	c := cache.New(cfg.Batch, kv)
	if err := c.Load(cmd.Context()); err != nil {
		return err
	}
	stats := c.Stats()

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(stats)
	}

	fmt.Printf("Entries:  %d / %d\n", stats.Entries, stats.MaxEntries)
	if !stats.OldestAt.IsZero() {
		fmt.Printf("Oldest:   %s\n", stats.OldestAt.Format("2006-01-02 15:04:05"))
		fmt.Printf("Newest:   %s\n", stats.NewestAt.Format("2006-01-02 15:04:05"))
	}
	return nil
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Drop every cached translation",
	RunE:  runCacheClear,
}

func runCacheClear(cmd *cobra.Command, args []string) error {
	cfg := pipelineConfig()
	kv, closer := openKV(cfg.Store)
	if closer != nil {
		defer closer.Close()
	}

	c := cache.New(cfg.Batch, kv)
	if err := c.Load(cmd.Context()); err != nil {
		return err
	}
	n := c.Len()
	c.Clear(cmd.Context())

	fmt.Printf("Cleared %d cache entr%s\n", n, pluralY(n))
	return nil
}

func pluralY(n int) string {
	if n == 1 {
		return "y"
	}
	return "ies"
}

func init() {
	cacheStatsCmd.Flags().Bool("json", false, "output as JSON")

	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cacheClearCmd)

	rootCmd.AddCommand(cacheCmd)
}
