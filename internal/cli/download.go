package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"siteharvest/internal/downloader"
	"siteharvest/internal/metadata"
)

var downloadCmd = &cobra.Command{
	Use:   "download",
	Short: "Batch-download the resources listed in a URL inventory file.",
	Long: `download reads the inventory file a crawl produced and fetches every URL
whose host is allow-listed, filing each payload into a category folder by
its Content-Type: HTML pages (plus an extracted-text twin), documents,
images, and everything else.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := initCommandConfig(cmd)

		recorder := metadata.NewRecorder(os.Stderr)
		d := downloader.New(cfg, recorder)
		stats, err := d.Run(cmd.Context())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
			os.Exit(1)
		}

		fmt.Printf("Processed %d URLs: %d saved, %d skipped, %d failed\n",
			stats.Processed, stats.Saved, stats.Skipped, stats.Failed)
	},
}

func init() {
	downloadCmd.Flags().StringVar(&urlListFile, "url-list-file", "", "path of the URL inventory file to read")
	downloadCmd.Flags().StringVar(&downloadDir, "download-dir", "", "base directory the category folders are created under")
	downloadCmd.Flags().DurationVar(&downloadTimeout, "download-timeout", 0, "timeout for resource download requests")
}
