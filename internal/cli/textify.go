package cmd

import (
	"fmt"
	"net/url"
	"os"

	"github.com/spf13/cobra"

	"siteharvest/internal/config"
	"siteharvest/internal/metadata"
	"siteharvest/internal/textify"
)

var textifyCmd = &cobra.Command{
	Use:   "textify",
	Short: "Convert a directory of saved HTML pages into text or Markdown.",
	Long: `textify reads every .html and .htm file in --html-dir and writes a
same-basename .txt file (or .md with --markdown) into --text-dir.`,
	Run: func(cmd *cobra.Command, args []string) {
		var cfg config.Config
		if cfgFile != "" {
			cfg = InitConfig(nil)
		} else {
			// the converter never dials out; a fixed start URL only
			// satisfies config validation
			placeholder, _ := url.Parse("http://localhost/")
			cfg = InitConfig(placeholder)
		}

		recorder := metadata.NewRecorder(os.Stderr)
		c := textify.New(cfg, recorder)
		converted, err := c.Run()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
			os.Exit(1)
		}

		fmt.Printf("Converted %d files into %s\n", converted, cfg.TextDir())
	},
}

func init() {
	textifyCmd.Flags().StringVar(&htmlDir, "html-dir", "", "directory containing the saved .html/.htm files")
	textifyCmd.Flags().StringVar(&textDir, "text-dir", "", "directory the converted files are written to")
	textifyCmd.Flags().BoolVar(&markdown, "markdown", false, "emit Markdown instead of plain text")
}
