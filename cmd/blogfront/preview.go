package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/eringen/blogfront/content"
	"github.com/eringen/blogfront/preview"
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Browse the blog index in the terminal",
	Long: `Fetches the latest posts and lays out the index page in the terminal.
The section navigation pins to the top once it scrolls off screen and
highlights the section under the activation line, like the web page.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		client, err := content.NewClient(cfg.APIKey, content.WithBaseURL(cfg.APIBaseURL))
		if err != nil {
			return err
		}
		latest, err := client.ListPosts(cmd.Context(), 0, 20)
		if err != nil {
			return fmt.Errorf("fetching posts: %w", err)
		}

		page := preview.FromPosts(cfg.BlogTitle, cfg.NavCategories(), latest.Articles)
		p := tea.NewProgram(preview.New(page), tea.WithAltScreen(), tea.WithMouseCellMotion())
		_, err = p.Run()
		return err
	},
}

func init() {
	rootCmd.AddCommand(previewCmd)
}
