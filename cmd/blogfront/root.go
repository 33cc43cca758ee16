package main

import (
	"github.com/spf13/cobra"

	"github.com/eringen/blogfront"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "blogfront",
	Short: "Marketing blog front-end for a hosted content API",
	Long: `blogfront renders a blog whose posts live in a hosted content API:
an index with scroll-synced section navigation, category and tag
listings, articles, a sitemap and an RSS feed.

Configuration is read from a YAML file and BLOGFRONT_* environment
variables. The API key may also come from LIGHTWEIGHT_API_KEY.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "blogfront.yaml", "config file path")
}

func loadConfig() (blogfront.SiteConfig, error) {
	return blogfront.LoadConfig(cfgFile)
}
