package cmd

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/spf13/cobra"

	"siteharvest/internal/build"
	"siteharvest/internal/config"
)

var (
	cfgFile         string
	startURL        string
	maxDepth        int
	maxPages        int
	delay           time.Duration
	maxRetries      int
	retryDelay      time.Duration
	timeout         time.Duration
	userAgent       string
	outputFile      string
	urlListFile     string
	downloadDir     string
	downloadTimeout time.Duration
	htmlDir         string
	textDir         string
	markdown        bool
	allowedHosts    []string
)

// parseStringSliceToSet converts a string slice to a map[string]struct{} set
func parseStringSliceToSet(strings []string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, s := range strings {
		if s != "" {
			set[s] = struct{}{}
		}
	}
	return set
}

// parseStartURL parses and validates the --start-url flag value.
func parseStartURL(raw string) (*url.URL, error) {
	if raw == "" {
		return nil, fmt.Errorf("--start-url is required")
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("error parsing start URL %s: %w", raw, err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("start URL %s must be absolute", raw)
	}
	return parsed, nil
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "siteharvest",
	Short: "A bounded same-host web crawler and content harvester.",
	Long: `siteharvest crawls a website starting from a single URL, staying on the
start host and respecting depth and page-count limits. It records every URL
it discovers into a deduplicated inventory file and extracts the visible
text of the pages it visits.

The companion subcommands consume that inventory: "download" batch-fetches
the listed resources into category folders, and "textify" converts a folder
of saved HTML pages into plain text or Markdown.`,
	Version: build.FullVersion(),
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config-file", "", "config file path (e.g., /home/myuser/config.json)")
	rootCmd.PersistentFlags().StringVar(&startURL, "start-url", "", "the URL the crawl starts from; its host becomes the allow-list default")
	rootCmd.PersistentFlags().IntVar(&maxDepth, "max-depth", 0, "maximum link depth from the start URL")
	rootCmd.PersistentFlags().IntVar(&maxPages, "max-pages", 0, "maximum number of pages whose text is extracted")
	rootCmd.PersistentFlags().DurationVar(&delay, "delay", 0, "politeness delay between requests")
	rootCmd.PersistentFlags().IntVar(&maxRetries, "max-retries", 0, "total fetch attempts per URL")
	rootCmd.PersistentFlags().DurationVar(&retryDelay, "retry-delay", 0, "delay between retry attempts")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 0, "timeout for page fetch requests")
	rootCmd.PersistentFlags().StringVar(&userAgent, "user-agent", "", "user agent string for HTTP requests")
	rootCmd.PersistentFlags().StringVar(&outputFile, "output-file", "", "path of the URL inventory file the crawl writes")
	rootCmd.PersistentFlags().StringArrayVar(&allowedHosts, "allowed-host", []string{}, "explicit hostname allowlist (defaults to the start host)")

	rootCmd.AddCommand(crawlCmd)
	rootCmd.AddCommand(downloadCmd)
	rootCmd.AddCommand(textifyCmd)
}

// InitConfig reads in config file and flag values.
// startURL is a mandatory parameter and must be an absolute URL.
func InitConfig(start *url.URL) config.Config {
	cfg, err := InitConfigWithError(start)
	if err != nil {
		fmt.Printf("Error: %s\n", err)
		os.Exit(1)
	}
	return cfg
}

// InitConfigWithError reads in config file and flag values, returning any
// errors. This makes it easier to test error cases.
func InitConfigWithError(start *url.URL) (config.Config, error) {
	if cfgFile != "" {
		cfg, err := config.WithConfigFile(cfgFile)
		if err != nil {
			return cfg, fmt.Errorf("error initializing config from file: %w", err)
		}
		return cfg, nil
	}

	if start == nil {
		return config.Config{}, fmt.Errorf("%w: start URL cannot be nil", config.ErrInvalidConfig)
	}

	configBuilder := config.WithDefault(start)

	if maxDepth > 0 {
		configBuilder = configBuilder.WithMaxDepth(maxDepth)
	}

	if maxPages > 0 {
		configBuilder = configBuilder.WithMaxPages(maxPages)
	}

	if delay > 0 {
		configBuilder = configBuilder.WithDelay(delay)
	}

	if maxRetries > 0 {
		configBuilder = configBuilder.WithMaxRetries(maxRetries)
	}

	if retryDelay > 0 {
		configBuilder = configBuilder.WithRetryDelay(retryDelay)
	}

	if timeout > 0 {
		configBuilder = configBuilder.WithTimeout(timeout)
	}

	if userAgent != "" {
		configBuilder = configBuilder.WithUserAgent(userAgent)
	}

	if outputFile != "" {
		configBuilder = configBuilder.WithOutputFile(outputFile)
	}

	if urlListFile != "" {
		configBuilder = configBuilder.WithURLListFile(urlListFile)
	}

	if downloadDir != "" {
		configBuilder = configBuilder.WithDownloadDir(downloadDir)
	}

	if downloadTimeout > 0 {
		configBuilder = configBuilder.WithDownloadTimeout(downloadTimeout)
	}

	if htmlDir != "" {
		configBuilder = configBuilder.WithHTMLDir(htmlDir)
	}

	if textDir != "" {
		configBuilder = configBuilder.WithTextDir(textDir)
	}

	if markdown {
		configBuilder = configBuilder.WithMarkdown(markdown)
	}

	if len(allowedHosts) > 0 {
		configBuilder = configBuilder.WithAllowedHosts(parseStringSliceToSet(allowedHosts))
	}

	cfg, err := configBuilder.Build()
	if err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func ResetFlags() {
	cfgFile = ""
	startURL = ""
	maxDepth = 0
	maxPages = 0
	delay = 0
	maxRetries = 0
	retryDelay = 0
	timeout = 0
	userAgent = ""
	outputFile = ""
	urlListFile = ""
	downloadDir = ""
	downloadTimeout = 0
	htmlDir = ""
	textDir = ""
	markdown = false
	allowedHosts = []string{}
}

// Test helper functions to set flag values from tests
func SetConfigFileForTest(path string) {
	cfgFile = path
}

func SetStartURLForTest(raw string) {
	startURL = raw
}

func SetMaxDepthForTest(depth int) {
	maxDepth = depth
}

func SetMaxPagesForTest(pages int) {
	maxPages = pages
}

func SetDelayForTest(d time.Duration) {
	delay = d
}

func SetMaxRetriesForTest(retries int) {
	maxRetries = retries
}

func SetOutputFileForTest(path string) {
	outputFile = path
}

func SetURLListFileForTest(path string) {
	urlListFile = path
}

func SetDownloadDirForTest(dir string) {
	downloadDir = dir
}

func SetHTMLDirForTest(dir string) {
	htmlDir = dir
}

func SetTextDirForTest(dir string) {
	textDir = dir
}

func SetMarkdownForTest(m bool) {
	markdown = m
}

func SetAllowedHostsForTest(hosts []string) {
	allowedHosts = hosts
}
