package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/filinglens/filinglens/internal/secgov"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the response cache",
}

var cachePathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the cache directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		cache, err := openCache()
		if err != nil {
			return err
		}
		cmd.Println(cache.Dir())
		return nil
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all cached responses",
	RunE: func(cmd *cobra.Command, args []string) error {
		cache, err := openCache()
		if err != nil {
			return err
		}

		removed, err := cache.Clear()
		if err != nil {
			return fmt.Errorf("clear cache: %w", err)
		}
		cmd.Printf("removed %d cached responses from %s\n", removed, cache.Dir())
		return nil
	},
}

func openCache() (*secgov.Cache, error) {
	return secgov.NewCache(cfg.Cache.Dir)
}

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cachePathCmd)
	cacheCmd.AddCommand(cacheClearCmd)
}
