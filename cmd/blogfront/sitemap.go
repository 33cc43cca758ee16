package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eringen/blogfront"
)

var sitemapCmd = &cobra.Command{
	Use:   "sitemap",
	Short: "Print the blog sitemap XML to stdout",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		// The sitemap never needs the thumbnail database.
		cfg.ImageHosts = nil

		app := blogfront.New(cfg)
		defer app.Close()
		if err := app.Init(); err != nil {
			return err
		}
		doc, err := app.SitemapXML(cmd.Context())
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(doc)
		return err
	},
}

func init() {
	rootCmd.AddCommand(sitemapCmd)
}
