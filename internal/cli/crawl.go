package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"siteharvest/internal/config"
	"siteharvest/internal/crawler"
	"siteharvest/internal/metadata"
)

var crawlCmd = &cobra.Command{
	Use:   "crawl",
	Short: "Crawl a site from a start URL and write the URL inventory.",
	Long: `crawl walks the site reachable from --start-url without leaving its host,
bounded by --max-depth and --max-pages. Every URL it encounters, including
external links and file resources it never fetches, lands in the inventory
file sorted and deduplicated.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := initCommandConfig(cmd)

		recorder := metadata.NewRecorder(os.Stderr)
		c := crawler.New(cfg, recorder)
		result := c.Run(cmd.Context())

		fmt.Printf("Extracted text from %d pages\n", len(result.Pages))
		fmt.Printf("Recorded %d URLs to %s\n", len(result.DiscoveredURLs), cfg.OutputFile())
	},
}

// initCommandConfig resolves the effective config for a network-facing
// subcommand: the config file when given, otherwise flags rooted at a
// mandatory --start-url.
func initCommandConfig(cmd *cobra.Command) config.Config {
	if cfgFile != "" {
		return InitConfig(nil)
	}

	start, err := parseStartURL(startURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		cmd.Usage()
		os.Exit(1)
	}
	return InitConfig(start)
}
